// Package apiconnect binds the goingdutch.v1 services to connect handlers and clients.
//
// Messages are the plain structs of package api, carried by api.Codec, so every
// handler and client built here negotiates the "json" codec.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/goingdutch/pkg/api"
)

const (
	// SessionServiceName is the fully-qualified name of the SessionService service.
	SessionServiceName = "goingdutch.v1.SessionService"
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "goingdutch.v1.GroupService"
	// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
	ExpenseServiceName = "goingdutch.v1.ExpenseService"
	// SettlementServiceName is the fully-qualified name of the SettlementService service.
	SettlementServiceName = "goingdutch.v1.SettlementService"
)

// Procedure names, as the path component of each RPC's URL.
const (
	SessionServiceSignInAnonymouslyProcedure = "/goingdutch.v1.SessionService/SignInAnonymously"

	GroupServiceCreateGroupProcedure = "/goingdutch.v1.GroupService/CreateGroup"
	GroupServiceJoinGroupProcedure   = "/goingdutch.v1.GroupService/JoinGroup"
	GroupServiceGetGroupProcedure    = "/goingdutch.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/goingdutch.v1.GroupService/ListGroups"
	GroupServiceWhoAmIProcedure      = "/goingdutch.v1.GroupService/WhoAmI"

	ExpenseServiceAddExpenseProcedure    = "/goingdutch.v1.ExpenseService/AddExpense"
	ExpenseServiceUpdateExpenseProcedure = "/goingdutch.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/goingdutch.v1.ExpenseService/DeleteExpense"
	ExpenseServiceListExpensesProcedure  = "/goingdutch.v1.ExpenseService/ListExpenses"

	SettlementServiceGetBalancesProcedure     = "/goingdutch.v1.SettlementService/GetBalances"
	SettlementServiceGetSettlementProcedure   = "/goingdutch.v1.SettlementService/GetSettlement"
	SettlementServiceSetPaidProcedure         = "/goingdutch.v1.SettlementService/SetPaid"
	SettlementServiceWatchSettlementProcedure = "/goingdutch.v1.SettlementService/WatchSettlement"
	SettlementServiceShareSettlementProcedure = "/goingdutch.v1.SettlementService/ShareSettlement"
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

// route dispatches a service prefix to the handler registered for each procedure.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// SessionServiceClient is a client for the goingdutch.v1.SessionService service.
type SessionServiceClient interface {
	SignInAnonymously(context.Context, *connect.Request[api.SignInAnonymouslyRequest]) (*connect.Response[api.SignInAnonymouslyResponse], error)
}

// NewSessionServiceClient constructs a client for the goingdutch.v1.SessionService service.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &sessionServiceClient{
		signInAnonymously: connect.NewClient[api.SignInAnonymouslyRequest, api.SignInAnonymouslyResponse](
			httpClient, baseURL+SessionServiceSignInAnonymouslyProcedure, opts...),
	}
}

type sessionServiceClient struct {
	signInAnonymously *connect.Client[api.SignInAnonymouslyRequest, api.SignInAnonymouslyResponse]
}

func (c *sessionServiceClient) SignInAnonymously(ctx context.Context, req *connect.Request[api.SignInAnonymouslyRequest]) (*connect.Response[api.SignInAnonymouslyResponse], error) {
	return c.signInAnonymously.CallUnary(ctx, req)
}

// SessionServiceHandler is an implementation of the goingdutch.v1.SessionService service.
type SessionServiceHandler interface {
	SignInAnonymously(context.Context, *connect.Request[api.SignInAnonymouslyRequest]) (*connect.Response[api.SignInAnonymouslyResponse], error)
}

// NewSessionServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SessionServiceName + "/", route(map[string]http.Handler{
		SessionServiceSignInAnonymouslyProcedure: connect.NewUnaryHandler(SessionServiceSignInAnonymouslyProcedure, svc.SignInAnonymously, opts...),
	})
}

// GroupServiceClient is a client for the goingdutch.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error)
}

// NewGroupServiceClient constructs a client for the goingdutch.v1.GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		joinGroup:   connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		getGroup:    connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:  connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		whoAmI:      connect.NewClient[api.WhoAmIRequest, api.WhoAmIResponse](httpClient, baseURL+GroupServiceWhoAmIProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	joinGroup   *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	getGroup    *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups  *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	whoAmI      *connect.Client[api.WhoAmIRequest, api.WhoAmIResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) WhoAmI(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}

// GroupServiceHandler is an implementation of the goingdutch.v1.GroupService service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", route(map[string]http.Handler{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceJoinGroupProcedure:   connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceWhoAmIProcedure:      connect.NewUnaryHandler(GroupServiceWhoAmIProcedure, svc.WhoAmI, opts...),
	})
}

// ExpenseServiceClient is a client for the goingdutch.v1.ExpenseService service.
type ExpenseServiceClient interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

// NewExpenseServiceClient constructs a client for the goingdutch.v1.ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		addExpense:    connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+ExpenseServiceAddExpenseProcedure, opts...),
		updateExpense: connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
	}
}

type expenseServiceClient struct {
	addExpense    *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	updateExpense *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
}

func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// ExpenseServiceHandler is an implementation of the goingdutch.v1.ExpenseService service.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ExpenseServiceName + "/", route(map[string]http.Handler{
		ExpenseServiceAddExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...),
		ExpenseServiceUpdateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		ExpenseServiceListExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
	})
}

// SettlementServiceClient is a client for the goingdutch.v1.SettlementService service.
type SettlementServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	SetPaid(context.Context, *connect.Request[api.SetPaidRequest]) (*connect.Response[api.SetPaidResponse], error)
	WatchSettlement(context.Context, *connect.Request[api.WatchSettlementRequest]) (*connect.ServerStreamForClient[api.WatchSettlementResponse], error)
	ShareSettlement(context.Context, *connect.Request[api.ShareSettlementRequest]) (*connect.Response[api.ShareSettlementResponse], error)
}

// NewSettlementServiceClient constructs a client for the goingdutch.v1.SettlementService service.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		getBalances:     connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
		getSettlement:   connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
		setPaid:         connect.NewClient[api.SetPaidRequest, api.SetPaidResponse](httpClient, baseURL+SettlementServiceSetPaidProcedure, opts...),
		watchSettlement: connect.NewClient[api.WatchSettlementRequest, api.WatchSettlementResponse](httpClient, baseURL+SettlementServiceWatchSettlementProcedure, opts...),
		shareSettlement: connect.NewClient[api.ShareSettlementRequest, api.ShareSettlementResponse](httpClient, baseURL+SettlementServiceShareSettlementProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getBalances     *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlement   *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	setPaid         *connect.Client[api.SetPaidRequest, api.SetPaidResponse]
	watchSettlement *connect.Client[api.WatchSettlementRequest, api.WatchSettlementResponse]
	shareSettlement *connect.Client[api.ShareSettlementRequest, api.ShareSettlementResponse]
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SetPaid(ctx context.Context, req *connect.Request[api.SetPaidRequest]) (*connect.Response[api.SetPaidResponse], error) {
	return c.setPaid.CallUnary(ctx, req)
}

func (c *settlementServiceClient) WatchSettlement(ctx context.Context, req *connect.Request[api.WatchSettlementRequest]) (*connect.ServerStreamForClient[api.WatchSettlementResponse], error) {
	return c.watchSettlement.CallServerStream(ctx, req)
}

func (c *settlementServiceClient) ShareSettlement(ctx context.Context, req *connect.Request[api.ShareSettlementRequest]) (*connect.Response[api.ShareSettlementResponse], error) {
	return c.shareSettlement.CallUnary(ctx, req)
}

// SettlementServiceHandler is an implementation of the goingdutch.v1.SettlementService service.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	SetPaid(context.Context, *connect.Request[api.SetPaidRequest]) (*connect.Response[api.SetPaidResponse], error)
	WatchSettlement(context.Context, *connect.Request[api.WatchSettlementRequest], *connect.ServerStream[api.WatchSettlementResponse]) error
	ShareSettlement(context.Context, *connect.Request[api.ShareSettlementRequest]) (*connect.Response[api.ShareSettlementResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SettlementServiceName + "/", route(map[string]http.Handler{
		SettlementServiceGetBalancesProcedure:     connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...),
		SettlementServiceGetSettlementProcedure:   connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		SettlementServiceSetPaidProcedure:         connect.NewUnaryHandler(SettlementServiceSetPaidProcedure, svc.SetPaid, opts...),
		SettlementServiceWatchSettlementProcedure: connect.NewServerStreamHandler(SettlementServiceWatchSettlementProcedure, svc.WatchSettlement, opts...),
		SettlementServiceShareSettlementProcedure: connect.NewUnaryHandler(SettlementServiceShareSettlementProcedure, svc.ShareSettlement, opts...),
	})
}
