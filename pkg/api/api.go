// Package api defines the request and response messages of the goingdutch.v1 services.
// Field names follow the lowerCamelCase JSON mapping clients expect from Connect.
package api

import "github.com/shopspring/decimal"

type Member struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	JoinedAt int64  `json:"joinedAt"`
}

type Group struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	Currency   string    `json:"currency"`
	CreatedAt  int64     `json:"createdAt"`
	CreatedBy  string    `json:"createdBy"`
	ExpiresAt  int64     `json:"expiresAt"`
	Members    []*Member `json:"members"`
}

type Expense struct {
	Id          string                     `json:"id"`
	GroupId     string                     `json:"groupId"`
	Amount      decimal.Decimal            `json:"amount"`
	Description string                     `json:"description"`
	Category    string                     `json:"category"`
	PaidBy      string                     `json:"paidBy"`
	SplitWith   []string                   `json:"splitWith"`
	SplitMode   string                     `json:"splitMode"`
	CustomSplit map[string]decimal.Decimal `json:"customSplit,omitempty"`
	Date        int64                      `json:"date"`
	Note        string                     `json:"note,omitempty"`
	CreatedAt   int64                      `json:"createdAt"`
	CreatedBy   string                     `json:"createdBy"`
	UpdatedAt   int64                      `json:"updatedAt,omitempty"`
	UpdatedBy   string                     `json:"updatedBy,omitempty"`
}

// ExpenseInput is the editable part of an expense.
type ExpenseInput struct {
	Amount      decimal.Decimal            `json:"amount"`
	Description string                     `json:"description"`
	Category    string                     `json:"category"`
	PaidBy      string                     `json:"paidBy"`
	SplitWith   []string                   `json:"splitWith"`
	SplitMode   string                     `json:"splitMode"`
	CustomSplit map[string]decimal.Decimal `json:"customSplit,omitempty"`
	Date        int64                      `json:"date,omitempty"`
	Note        string                     `json:"note,omitempty"`
}

type Balance struct {
	MemberId string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

type Transfer struct {
	FromMemberId string          `json:"fromMemberId"`
	ToMemberId   string          `json:"toMemberId"`
	Amount       decimal.Decimal `json:"amount"`
	IsPaid       bool            `json:"isPaid"`
}

type Counterparty struct {
	MemberId string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
	IsPaid   bool            `json:"isPaid"`
}

type MemberSummary struct {
	MemberId       string          `json:"memberId"`
	NetBalance     decimal.Decimal `json:"netBalance"`
	TotalToPay     decimal.Decimal `json:"totalToPay"`
	TotalToReceive decimal.Decimal `json:"totalToReceive"`
	PaysTo         []*Counterparty `json:"paysTo"`
	ReceivesFrom   []*Counterparty `json:"receivesFrom"`
}

type SettlementStatus struct {
	FromMemberId string `json:"fromMemberId"`
	ToMemberId   string `json:"toMemberId"`
	IsPaid       bool   `json:"isPaid"`
	PaidAt       int64  `json:"paidAt,omitempty"`
	UpdatedBy    string `json:"updatedBy,omitempty"`
}

// Settlement is everything the settlement screen shows for a group.
type Settlement struct {
	GroupId          string           `json:"groupId"`
	Currency         string           `json:"currency"`
	Unit             decimal.Decimal  `json:"unit"`
	Balances         []*Balance       `json:"balances"`
	Transfers        []*Transfer      `json:"transfers"`
	Summaries        []*MemberSummary `json:"summaries"`
	TotalExpense     decimal.Decimal  `json:"totalExpense"`
	PerPersonAverage decimal.Decimal  `json:"perPersonAverage"`
	// Warnings describe expenses whose data could not be settled exactly as entered.
	Warnings []string `json:"warnings,omitempty"`
}

type SignInAnonymouslyRequest struct{}

type SignInAnonymouslyResponse struct {
	UserId    string `json:"userId"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type CreateGroupRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Currency string `json:"currency,omitempty"`
}

type CreateGroupResponse struct {
	Group    *Group `json:"group"`
	MemberId string `json:"memberId"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
	Nickname   string `json:"nickname"`
}

type JoinGroupResponse struct {
	Group    *Group `json:"group"`
	MemberId string `json:"memberId"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type WhoAmIRequest struct {
	GroupId string `json:"groupId"`
}

type WhoAmIResponse struct {
	MemberId string `json:"memberId"`
}

type AddExpenseRequest struct {
	GroupId string        `json:"groupId"`
	Expense *ExpenseInput `json:"expense"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseId string        `json:"expenseId"`
	Expense   *ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupId string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	GroupId string `json:"groupId"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetSettlementRequest struct {
	GroupId string `json:"groupId"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type SetPaidRequest struct {
	GroupId      string `json:"groupId"`
	FromMemberId string `json:"fromMemberId"`
	ToMemberId   string `json:"toMemberId"`
	IsPaid       bool   `json:"isPaid"`
}

type SetPaidResponse struct {
	Status *SettlementStatus `json:"status"`
}

type WatchSettlementRequest struct {
	GroupId string `json:"groupId"`
}

type WatchSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
	// Reason is the change that triggered this snapshot, "snapshot" for the first one.
	Reason string `json:"reason"`
}

type ShareSettlementRequest struct {
	GroupId    string   `json:"groupId"`
	Recipients []string `json:"recipients"`
}

type ShareSettlementResponse struct {
	Sent int32 `json:"sent"`
}
