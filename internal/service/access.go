package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/goingdutch/internal/auth"
	"github.com/mmynk/goingdutch/internal/calculator"
	"github.com/mmynk/goingdutch/internal/middleware"
	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage"
)

var (
	errGroupIDRequired = errors.New("group_id required")
	errNotMember       = errors.New("not a member of this group")
)

// requireUser returns the authenticated user ID from the context.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// memberOf loads a live group and resolves which member the caller is in it.
// Expired groups are reported as not found; they are about to be deleted.
func memberOf(ctx context.Context, store storage.Store, groupID string) (*models.Group, string, error) {
	if groupID == "" {
		return nil, "", connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, "", err
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", toConnectError(err)
	}
	if group.Expired(time.Now()) {
		return nil, "", connect.NewError(connect.CodeNotFound, fmt.Errorf("group %s has expired", groupID))
	}

	membership, err := store.GetMembership(ctx, userID, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	if err != nil {
		return nil, "", toConnectError(err)
	}

	return group, membership.MemberID, nil
}

// toConnectError maps domain errors onto connect codes. connect errors pass through.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrUnknownMember):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		slog.Error("Internal error", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
