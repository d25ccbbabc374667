package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/goingdutch/internal/auth"
	"github.com/mmynk/goingdutch/pkg/api"
)

// SessionService implements the Connect SessionService.
type SessionService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewSessionService creates a session service issuing tokens from jwtManager.
func NewSessionService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *SessionService {
	return &SessionService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// SignInAnonymously creates a new user and returns a session token for it.
func (s *SessionService) SignInAnonymously(ctx context.Context, req *connect.Request[api.SignInAnonymouslyRequest]) (*connect.Response[api.SignInAnonymouslyResponse], error) {
	user, err := s.authenticator.SignIn(ctx)
	if err != nil {
		slog.Error("SignInAnonymously failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Anonymous session created", "user_id", user.ID)

	return connect.NewResponse(&api.SignInAnonymouslyResponse{
		UserId:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtManager.TokenDuration()).Unix(),
	}), nil
}
