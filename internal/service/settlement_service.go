package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/internal/calculator"
	"github.com/mmynk/goingdutch/internal/events"
	"github.com/mmynk/goingdutch/internal/metrics"
	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/notify"
	"github.com/mmynk/goingdutch/internal/storage"
	"github.com/mmynk/goingdutch/pkg/api"
)

// maxShareRecipients caps how many addresses one ShareSettlement call may mail.
const maxShareRecipients = 10

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store   storage.Store
	broker  *events.Broker
	sender  notify.Sender
	unit    decimal.Decimal
	metrics *metrics.Metrics
}

// NewSettlementService creates a SettlementService.
// Transfers are rounded to unit; broker feeds WatchSettlement and sender delivers ShareSettlement.
func NewSettlementService(store storage.Store, broker *events.Broker, sender notify.Sender, unit decimal.Decimal, m *metrics.Metrics) *SettlementService {
	return &SettlementService{
		store:   store,
		broker:  broker,
		sender:  sender,
		unit:    unit,
		metrics: m,
	}
}

// settlement is one computed plan together with the inputs needed to render it.
type settlement struct {
	view         *api.Settlement
	transactions []calculator.Transaction
	isPaid       calculator.PaidLookup
}

// settle recomputes the group's balances and transfer plan from its full expense list.
func (s *SettlementService) settle(ctx context.Context, group *models.Group) (*settlement, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	statuses, err := s.store.ListSettlementStatuses(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement statuses: %w", err)
	}

	paid := make(map[models.StatusKey]bool, len(statuses))
	for _, st := range statuses {
		paid[models.StatusKey{From: st.FromMemberID, To: st.ToMemberID}] = st.IsPaid
	}
	isPaid := func(from, to string) bool {
		return paid[models.StatusKey{From: from, To: to}]
	}

	members := calculatorMembers(group)
	calcExpenses := calculatorExpenses(expenses)

	var warnings []string
	for _, issue := range calculator.Audit(members, calcExpenses) {
		slog.Warn("Inconsistent expense",
			"group_id", group.ID,
			"expense_id", issue.ExpenseID,
			"kind", issue.Kind,
			"member_id", issue.MemberID,
			"detail", issue.Detail,
		)
		warnings = append(warnings, issue.String())
	}

	balances, err := calculator.ComputeBalances(members, calcExpenses)
	if err != nil {
		return nil, err
	}
	transactions := calculator.MinimizeDebts(members, balances, s.unit)
	summaries := calculator.SummarizeMembers(members, balances, transactions, s.unit, isPaid)

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	average := decimal.Zero
	if len(members) > 0 {
		average = calculator.RoundToUnit(total.Div(decimal.NewFromInt(int64(len(members)))), s.unit)
	}

	view := &api.Settlement{
		GroupId:          group.ID,
		Currency:         group.Currency,
		Unit:             s.unit,
		Balances:         toAPIBalances(members, balances, s.unit),
		Transfers:        make([]*api.Transfer, len(transactions)),
		Summaries:        make([]*api.MemberSummary, len(summaries)),
		TotalExpense:     total,
		PerPersonAverage: average,
		Warnings:         warnings,
	}
	for i, tx := range transactions {
		view.Transfers[i] = &api.Transfer{
			FromMemberId: tx.From,
			ToMemberId:   tx.To,
			Amount:       tx.Amount,
			IsPaid:       isPaid(tx.From, tx.To),
		}
	}
	for i, sum := range summaries {
		view.Summaries[i] = toAPISummary(sum)
	}

	s.metrics.ObserveSettlement(len(transactions))
	slog.Debug("Settlement computed",
		"group_id", group.ID,
		"expenses", len(expenses),
		"transfers", len(transactions),
		"warnings", len(warnings),
	)

	return &settlement{view: view, transactions: transactions, isPaid: isPaid}, nil
}

func toAPIBalances(members []calculator.Member, balances map[string]decimal.Decimal, unit decimal.Decimal) []*api.Balance {
	out := make([]*api.Balance, len(members))
	for i, m := range members {
		out[i] = &api.Balance{MemberId: m.ID, Amount: calculator.RoundToUnit(balances[m.ID], unit)}
	}
	return out
}

func toAPISummary(sum calculator.MemberSummary) *api.MemberSummary {
	convert := func(cps []calculator.Counterparty) []*api.Counterparty {
		out := make([]*api.Counterparty, len(cps))
		for i, cp := range cps {
			out[i] = &api.Counterparty{MemberId: cp.MemberID, Amount: cp.Amount, IsPaid: cp.IsPaid}
		}
		return out
	}
	return &api.MemberSummary{
		MemberId:       sum.MemberID,
		NetBalance:     sum.NetBalance,
		TotalToPay:     sum.TotalToPay,
		TotalToReceive: sum.TotalToReceive,
		PaysTo:         convert(sum.PaysTo),
		ReceivesFrom:   convert(sum.ReceivesFrom),
	}
}

// GetBalances returns every member's net balance rounded to the settlement unit.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	group, _, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	result, err := s.settle(ctx, group)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{Balances: result.view.Balances}), nil
}

// GetSettlement returns the transfer plan, per-member summaries and totals for a group.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "group_id", req.Msg.GroupId)

	group, _, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	result, err := s.settle(ctx, group)
	if err != nil {
		slog.Error("GetSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetSettlement successful", "group_id", group.ID, "transfers", len(result.transactions))

	return connect.NewResponse(&api.GetSettlementResponse{Settlement: result.view}), nil
}

// SetPaid marks or unmarks the payment from one member to another.
// The flag is informational only: balances are still computed from expenses alone.
func (s *SettlementService) SetPaid(ctx context.Context, req *connect.Request[api.SetPaidRequest]) (*connect.Response[api.SetPaidResponse], error) {
	slog.Info("SetPaid request received",
		"group_id", req.Msg.GroupId,
		"from", req.Msg.FromMemberId,
		"to", req.Msg.ToMemberId,
		"is_paid", req.Msg.IsPaid,
	)

	group, memberID, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	from, to := req.Msg.FromMemberId, req.Msg.ToMemberId
	if !group.HasMember(from) || !group.HasMember(to) {
		return nil, invalid("both members must belong to the group")
	}
	if from == to {
		return nil, invalid("a member cannot pay themselves")
	}

	status := &models.SettlementStatus{
		GroupID:      group.ID,
		FromMemberID: from,
		ToMemberID:   to,
		IsPaid:       req.Msg.IsPaid,
		UpdatedBy:    memberID,
	}
	if err := s.store.SetSettlementStatus(ctx, status); err != nil {
		slog.Error("SetPaid failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SetPaidResponse{
		Status: &api.SettlementStatus{
			FromMemberId: status.FromMemberID,
			ToMemberId:   status.ToMemberID,
			IsPaid:       status.IsPaid,
			PaidAt:       status.PaidAt,
			UpdatedBy:    status.UpdatedBy,
		},
	}), nil
}

// WatchSettlement streams the group's settlement now and again after every change,
// until the client disconnects.
func (s *SettlementService) WatchSettlement(ctx context.Context, req *connect.Request[api.WatchSettlementRequest], stream *connect.ServerStream[api.WatchSettlementResponse]) error {
	group, _, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return err
	}

	// Subscribe before the first snapshot so no change falls in between.
	updates, cancel := s.broker.Subscribe(group.ID)
	defer cancel()

	s.metrics.WatcherStarted()
	defer s.metrics.WatcherStopped()

	slog.Info("WatchSettlement started", "group_id", group.ID)

	send := func(group *models.Group, reason string) error {
		result, err := s.settle(ctx, group)
		if err != nil {
			return toConnectError(err)
		}
		return stream.Send(&api.WatchSettlementResponse{Settlement: result.view, Reason: reason})
	}

	if err := send(group, "snapshot"); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("WatchSettlement ended", "group_id", group.ID)
			return nil
		case event, ok := <-updates:
			if !ok {
				return nil
			}
			// Members may have joined; reload the group before recomputing.
			fresh, err := s.store.GetGroup(ctx, group.ID)
			if err != nil {
				return toConnectError(err)
			}
			if err := send(fresh, string(event.Kind)); err != nil {
				return err
			}
		}
	}
}

// ShareSettlement emails the group's transfer plan to the given addresses.
func (s *SettlementService) ShareSettlement(ctx context.Context, req *connect.Request[api.ShareSettlementRequest]) (*connect.Response[api.ShareSettlementResponse], error) {
	slog.Info("ShareSettlement request received", "group_id", req.Msg.GroupId, "recipients", len(req.Msg.Recipients))

	group, _, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	recipients, err := parseRecipients(req.Msg.Recipients)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result, err := s.settle(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	msg := notify.RenderSettlement(group, result.transactions, result.isPaid)
	msg.To = recipients
	if err := s.sender.Send(ctx, msg); err != nil {
		slog.Error("ShareSettlement failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	slog.Info("Settlement shared", "group_id", group.ID, "recipients", len(recipients))

	return connect.NewResponse(&api.ShareSettlementResponse{Sent: int32(len(recipients))}), nil
}

// parseRecipients validates and de-duplicates email addresses.
func parseRecipients(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("at least one recipient required")
	}
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, r := range raw {
		addr, err := mail.ParseAddress(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", r, err)
		}
		key := strings.ToLower(addr.Address)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, addr.Address)
	}
	if len(out) > maxShareRecipients {
		return nil, fmt.Errorf("at most %d recipients", maxShareRecipients)
	}
	return out, nil
}
