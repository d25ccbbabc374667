package events

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage/sqlstore"
)

func TestStore_PublishesMutations(t *testing.T) {
	base, err := sqlstore.New(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer base.Close()

	ctx := context.Background()
	broker := NewBroker()
	store := NewStore(base, broker)

	user := models.NewUser()
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	group := &models.Group{Name: "Trip", InviteCode: "ABCDEFGH"}
	creator := &models.Member{Name: "Alice"}
	if err := store.CreateGroup(ctx, group, creator, user.ID); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	ch, cancel := broker.Subscribe(group.ID)
	defer cancel()

	bob := &models.Member{GroupID: group.ID, Name: "Bob"}
	if err := store.AddMember(ctx, bob, ""); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if e := receive(t, ch); e.Kind != MemberJoined || e.SubjectID != bob.ID {
		t.Errorf("got %+v, want member_joined for %s", e, bob.ID)
	}

	expense := &models.Expense{
		GroupID:   group.ID,
		Amount:    decimal.NewFromInt(20),
		Category:  models.CategoryFood,
		PaidBy:    creator.ID,
		SplitWith: []string{creator.ID, bob.ID},
		SplitMode: models.SplitEqual,
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if e := receive(t, ch); e.Kind != ExpenseAdded {
		t.Errorf("got %s, want %s", e.Kind, ExpenseAdded)
	}

	expense.Amount = decimal.NewFromInt(30)
	if err := store.UpdateExpense(ctx, expense); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if e := receive(t, ch); e.Kind != ExpenseUpdated {
		t.Errorf("got %s, want %s", e.Kind, ExpenseUpdated)
	}

	status := &models.SettlementStatus{GroupID: group.ID, FromMemberID: bob.ID, ToMemberID: creator.ID, IsPaid: true}
	if err := store.SetSettlementStatus(ctx, status); err != nil {
		t.Fatalf("SetSettlementStatus failed: %v", err)
	}
	if e := receive(t, ch); e.Kind != SettlementMarked || e.SubjectID != bob.ID {
		t.Errorf("got %+v, want settlement_marked from %s", e, bob.ID)
	}

	if err := store.DeleteExpense(ctx, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if e := receive(t, ch); e.Kind != ExpenseDeleted || e.SubjectID != expense.ID {
		t.Errorf("got %+v, want expense_deleted", e)
	}

	// Failed writes publish nothing.
	if err := store.DeleteExpense(ctx, expense.ID); err == nil {
		t.Fatal("expected error deleting a missing expense")
	}
	select {
	case e := <-ch:
		t.Errorf("unexpected event after failed write: %+v", e)
	default:
	}
}
