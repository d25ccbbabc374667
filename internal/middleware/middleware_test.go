package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/goingdutch/internal/auth"
	"github.com/mmynk/goingdutch/internal/metrics"
	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/pkg/api"
)

const whoAmIProcedure = "/goingdutch.test.v1.EchoService/WhoAmI"

// setupEcho serves a handler that answers with the authenticated user ID.
func setupEcho(t *testing.T, jwtManager *auth.JWTManager, m *metrics.Metrics) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle(whoAmIProcedure, connect.NewUnaryHandler(whoAmIProcedure,
		func(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
			return connect.NewResponse(&api.WhoAmIResponse{MemberId: GetUserID(ctx)}), nil
		},
		connect.WithCodec(api.Codec{}),
		connect.WithInterceptors(LoggingInterceptor(m), RequireAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func newEchoClient(url string, opts ...connect.ClientOption) *connect.Client[api.WhoAmIRequest, api.WhoAmIResponse] {
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return connect.NewClient[api.WhoAmIRequest, api.WhoAmIResponse](http.DefaultClient, url+whoAmIProcedure, opts...)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret", time.Hour)
	url := setupEcho(t, jwtManager, metrics.New())

	user := models.NewUser()
	token, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	client := newEchoClient(url, connect.WithInterceptors(BearerToken(token)))
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&api.WhoAmIRequest{}))
	if err != nil {
		t.Fatalf("call with valid token failed: %v", err)
	}
	if resp.Msg.MemberId != user.ID {
		t.Errorf("user in context = %q, want %q", resp.Msg.MemberId, user.ID)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret", time.Hour)
	url := setupEcho(t, jwtManager, nil)

	otherToken, err := auth.NewJWTManager("other-secret", time.Hour).Generate(models.NewUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"foreign token", "Bearer " + otherToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.WhoAmIRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := newEchoClient(url).CallUnary(context.Background(), req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := connect.CodeOf(err); code != connect.CodeUnauthenticated {
				t.Errorf("expected %v, got %v", connect.CodeUnauthenticated, code)
			}
		})
	}
}

func TestLoggingInterceptor_RecordsMetrics(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret", time.Hour)
	m := metrics.New()
	url := setupEcho(t, jwtManager, m)

	if _, err := newEchoClient(url).CallUnary(context.Background(), connect.NewRequest(&api.WhoAmIRequest{})); err == nil {
		t.Fatal("expected unauthenticated call to fail")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	want := `goingdutch_rpc_requests_total{code="unauthenticated",procedure="` + whoAmIProcedure + `"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
}

func TestWithUserID(t *testing.T) {
	if got := GetUserID(context.Background()); got != "" {
		t.Errorf("GetUserID on empty context = %q, want empty", got)
	}
	ctx := WithUserID(context.Background(), "user-1")
	if got := GetUserID(ctx); got != "user-1" {
		t.Errorf("GetUserID = %q, want user-1", got)
	}
}
