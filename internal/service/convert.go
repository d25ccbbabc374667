package service

import (
	"github.com/mmynk/goingdutch/internal/calculator"
	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/pkg/api"
)

func toAPIGroup(group *models.Group) *api.Group {
	members := make([]*api.Member, len(group.Members))
	for i, m := range group.Members {
		members[i] = &api.Member{
			Id:       m.ID,
			Name:     m.Name,
			Color:    m.Color,
			JoinedAt: m.JoinedAt,
		}
	}
	return &api.Group{
		Id:         group.ID,
		Name:       group.Name,
		InviteCode: group.InviteCode,
		Currency:   group.Currency,
		CreatedAt:  group.CreatedAt,
		CreatedBy:  group.CreatedBy,
		ExpiresAt:  group.ExpiresAt,
		Members:    members,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		Id:          e.ID,
		GroupId:     e.GroupID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    string(e.Category),
		PaidBy:      e.PaidBy,
		SplitWith:   e.SplitWith,
		SplitMode:   string(e.SplitMode),
		CustomSplit: e.CustomSplit,
		Date:        e.Date,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
		UpdatedAt:   e.UpdatedAt,
		UpdatedBy:   e.UpdatedBy,
	}
}

// calculatorMembers lists the group's members in join order.
func calculatorMembers(group *models.Group) []calculator.Member {
	members := make([]calculator.Member, len(group.Members))
	for i, m := range group.Members {
		members[i] = calculator.Member{ID: m.ID, Name: m.Name}
	}
	return members
}

// calculatorExpenses converts stored expenses. Ratio splits, and custom splits
// stored without any shares, are settled as equal splits.
func calculatorExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		var split calculator.Split = calculator.EqualSplit{}
		if e.SplitMode == models.SplitCustom && len(e.CustomSplit) > 0 {
			split = calculator.CustomSplit(e.CustomSplit)
		}
		out[i] = calculator.Expense{
			ID:        e.ID,
			Amount:    e.Amount,
			PaidBy:    e.PaidBy,
			SplitWith: e.SplitWith,
			Split:     split,
		}
	}
	return out
}
