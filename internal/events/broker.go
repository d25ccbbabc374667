// Package events fans out group change notifications to in-process subscribers.
package events

import (
	"log/slog"
	"sync"
)

// Kind identifies what changed in a group.
type Kind string

const (
	GroupCreated     Kind = "group_created"
	MemberJoined     Kind = "member_joined"
	ExpenseAdded     Kind = "expense_added"
	ExpenseUpdated   Kind = "expense_updated"
	ExpenseDeleted   Kind = "expense_deleted"
	SettlementMarked Kind = "settlement_marked"
)

// Event is a notification that a group's data changed.
type Event struct {
	GroupID string
	Kind    Kind
	// SubjectID is the member, expense or debtor the event is about.
	SubjectID string
}

// subscriberBuffer is the number of events a subscriber may lag behind before events are dropped.
const subscriberBuffer = 8

// Broker delivers events to subscribers of a group.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers interest in a group. The returned cancel function must be
// called to release the subscription; it closes the channel.
func (b *Broker) Subscribe(groupID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	if b.subs[groupID] == nil {
		b.subs[groupID] = make(map[int]chan Event)
	}
	b.subs[groupID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[groupID], id)
			if len(b.subs[groupID]) == 0 {
				delete(b.subs, groupID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish sends the event to every subscriber of its group.
func (b *Broker) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[event.GroupID] {
		select {
		case ch <- event:
		default:
			slog.Debug("Dropping event for slow subscriber", "group_id", event.GroupID, "kind", event.Kind)
		}
	}
}

// Subscribers returns the number of active subscriptions for a group.
func (b *Broker) Subscribers(groupID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[groupID])
}
