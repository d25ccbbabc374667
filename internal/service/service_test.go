package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/goingdutch/internal/auth"
	"github.com/mmynk/goingdutch/internal/calculator"
	"github.com/mmynk/goingdutch/internal/events"
	"github.com/mmynk/goingdutch/internal/metrics"
	"github.com/mmynk/goingdutch/internal/middleware"
	"github.com/mmynk/goingdutch/internal/notify"
	"github.com/mmynk/goingdutch/internal/storage/sqlstore"
	"github.com/mmynk/goingdutch/pkg/api"
	"github.com/mmynk/goingdutch/pkg/api/apiconnect"
)

// recordingSender keeps every message instead of sending it.
type recordingSender struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (r *recordingSender) Send(ctx context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

type testEnv struct {
	t       *testing.T
	url     string
	store   *sqlstore.Store
	broker  *events.Broker
	sender  *recordingSender
	metrics *metrics.Metrics
	session apiconnect.SessionServiceClient
}

// client is one signed-in user's view of the API.
type client struct {
	userID     string
	token      string
	groups     apiconnect.GroupServiceClient
	expenses   apiconnect.ExpenseServiceClient
	settlement apiconnect.SettlementServiceClient
}

// setupTestServer creates a test server over a temp-file SQLite database
// with the same interceptors the real server uses.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	base, err := sqlstore.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	broker := events.NewBroker()
	store := events.NewStore(base, broker)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	sender := &recordingSender{}
	m := metrics.New()

	logging := connect.WithInterceptors(middleware.LoggingInterceptor(m))
	authed := connect.WithInterceptors(middleware.LoggingInterceptor(m), middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSessionServiceHandler(NewSessionService(auth.NewAnonymousAuthenticator(store), jwtManager), logging))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, 24*time.Hour), authed))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store), authed))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(store, broker, sender, calculator.DefaultUnit, m), authed))

	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		base.Close()
		os.Remove(tmpFile.Name())
	})

	return &testEnv{
		t:       t,
		url:     server.URL,
		store:   base,
		broker:  broker,
		sender:  sender,
		metrics: m,
		session: apiconnect.NewSessionServiceClient(http.DefaultClient, server.URL),
	}
}

// signIn creates an anonymous user and returns clients carrying its token.
func (e *testEnv) signIn() *client {
	e.t.Helper()

	resp, err := e.session.SignInAnonymously(context.Background(), connect.NewRequest(&api.SignInAnonymouslyRequest{}))
	if err != nil {
		e.t.Fatalf("SignInAnonymously failed: %v", err)
	}
	bearer := connect.WithInterceptors(middleware.BearerToken(resp.Msg.Token))
	return &client{
		userID:     resp.Msg.UserId,
		token:      resp.Msg.Token,
		groups:     apiconnect.NewGroupServiceClient(http.DefaultClient, e.url, bearer),
		expenses:   apiconnect.NewExpenseServiceClient(http.DefaultClient, e.url, bearer),
		settlement: apiconnect.NewSettlementServiceClient(http.DefaultClient, e.url, bearer),
	}
}

// createGroup creates a group as c and returns it with c's member ID.
func (c *client) createGroup(t *testing.T, name, nickname string) (*api.Group, string) {
	t.Helper()
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:     name,
		Nickname: nickname,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group, resp.Msg.MemberId
}

// join adds c to the group with the given invite code and returns c's member ID.
func (c *client) join(t *testing.T, inviteCode, nickname string) string {
	t.Helper()
	resp, err := c.groups.JoinGroup(context.Background(), connect.NewRequest(&api.JoinGroupRequest{
		InviteCode: inviteCode,
		Nickname:   nickname,
	}))
	if err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}
	return resp.Msg.MemberId
}

func (c *client) addExpense(t *testing.T, groupID string, in *api.ExpenseInput) *api.Expense {
	t.Helper()
	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupId: groupID,
		Expense: in,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

// trio sets up a group with three members, Alice (creator), Bob and Carol.
type trio struct {
	group                   *api.Group
	alice, bob, carol       *client
	aliceID, bobID, carolID string
}

func setupTrio(t *testing.T, env *testEnv) *trio {
	t.Helper()
	tr := &trio{alice: env.signIn(), bob: env.signIn(), carol: env.signIn()}
	tr.group, tr.aliceID = tr.alice.createGroup(t, "Tokyo Trip", "Alice")
	tr.bobID = tr.bob.join(t, tr.group.InviteCode, "Bob")
	tr.carolID = tr.carol.join(t, tr.group.InviteCode, "Carol")
	return tr
}
