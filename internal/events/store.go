package events

import (
	"context"

	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage"
)

// Store wraps a storage.Store and publishes an event after every successful mutation.
type Store struct {
	storage.Store
	broker *Broker
}

var _ storage.Store = (*Store)(nil)

// NewStore decorates store so that writes are announced on broker.
func NewStore(store storage.Store, broker *Broker) *Store {
	return &Store{Store: store, broker: broker}
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group, creator *models.Member, userID string) error {
	if err := s.Store.CreateGroup(ctx, group, creator, userID); err != nil {
		return err
	}
	s.broker.Publish(Event{GroupID: group.ID, Kind: GroupCreated, SubjectID: creator.ID})
	return nil
}

func (s *Store) AddMember(ctx context.Context, member *models.Member, userID string) error {
	if err := s.Store.AddMember(ctx, member, userID); err != nil {
		return err
	}
	s.broker.Publish(Event{GroupID: member.GroupID, Kind: MemberJoined, SubjectID: member.ID})
	return nil
}

func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.Store.CreateExpense(ctx, expense); err != nil {
		return err
	}
	s.broker.Publish(Event{GroupID: expense.GroupID, Kind: ExpenseAdded, SubjectID: expense.ID})
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.Store.UpdateExpense(ctx, expense); err != nil {
		return err
	}
	s.broker.Publish(Event{GroupID: expense.GroupID, Kind: ExpenseUpdated, SubjectID: expense.ID})
	return nil
}

// DeleteExpense looks the expense up first so the event can name its group.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	expense, err := s.Store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	s.broker.Publish(Event{GroupID: expense.GroupID, Kind: ExpenseDeleted, SubjectID: expenseID})
	return nil
}

func (s *Store) SetSettlementStatus(ctx context.Context, status *models.SettlementStatus) error {
	if err := s.Store.SetSettlementStatus(ctx, status); err != nil {
		return err
	}
	s.broker.Publish(Event{GroupID: status.GroupID, Kind: SettlementMarked, SubjectID: status.FromMemberID})
	return nil
}
