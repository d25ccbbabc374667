package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"

	"github.com/mmynk/goingdutch/internal/models"
	"github.com/mmynk/goingdutch/internal/storage"
	"github.com/mmynk/goingdutch/pkg/api"
)

const (
	maxGroupNameLength = 100
	maxNicknameLength  = 30
	// inviteCodeAttempts bounds retries when a generated invite code is already taken.
	inviteCodeAttempts = 5
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store    storage.Store
	groupTTL time.Duration
}

// NewGroupService creates a GroupService. Groups expire groupTTL after creation;
// zero keeps them forever.
func NewGroupService(store storage.Store, groupTTL time.Duration) *GroupService {
	return &GroupService{store: store, groupTTL: groupTTL}
}

func validateName(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s required", field))
	}
	if utf8.RuneCountInString(value) > max {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s longer than %d characters", field, max))
	}
	return value, nil
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name, err := validateName("name", req.Msg.Name, maxGroupNameLength)
	if err != nil {
		return nil, err
	}
	nickname, err := validateName("nickname", req.Msg.Nickname, maxNicknameLength)
	if err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	now := time.Now()
	var expiresAt int64
	if s.groupTTL > 0 {
		expiresAt = now.Add(s.groupTTL).Unix()
	}

	creator := &models.Member{Name: nickname, Color: models.NextColor(nil)}

	var group *models.Group
	for attempt := 1; ; attempt++ {
		code, err := models.NewInviteCode()
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to generate invite code: %w", err))
		}
		group = &models.Group{
			Name:       name,
			InviteCode: code,
			Currency:   currency,
			CreatedAt:  now.Unix(),
			ExpiresAt:  expiresAt,
		}
		err = s.store.CreateGroup(ctx, group, creator, userID)
		if err == nil {
			break
		}
		if attempt >= inviteCodeAttempts {
			slog.Error("CreateGroup failed", "error", err)
			return nil, toConnectError(err)
		}
		slog.Warn("CreateGroup retrying with a new invite code", "attempt", attempt, "error", err)
		creator.ID = ""
	}

	slog.Info("Group created", "group_id", group.ID, "member_id", creator.ID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group:    toAPIGroup(group),
		MemberId: creator.ID,
	}), nil
}

// JoinGroup adds the caller to the group with the given invite code.
// Joining a group the caller already belongs to returns the existing member.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	code := strings.ToUpper(strings.TrimSpace(req.Msg.InviteCode))
	slog.Info("JoinGroup request received", "invite_code", code)

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invite_code required"))
	}
	nickname, err := validateName("nickname", req.Msg.Nickname, maxNicknameLength)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroupByInviteCode(ctx, code)
	if err != nil {
		slog.Warn("JoinGroup failed - unknown invite code", "invite_code", code, "error", err)
		return nil, toConnectError(err)
	}
	if group.Expired(time.Now()) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("group %s has expired", group.ID))
	}

	membership, err := s.store.GetMembership(ctx, userID, group.ID)
	if err == nil {
		slog.Info("JoinGroup - already a member", "group_id", group.ID, "member_id", membership.MemberID)
		return connect.NewResponse(&api.JoinGroupResponse{Group: toAPIGroup(group), MemberId: membership.MemberID}), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, toConnectError(err)
	}

	member := &models.Member{
		GroupID: group.ID,
		Name:    nickname,
		Color:   models.NextColor(group.Members),
	}
	if err := s.store.AddMember(ctx, member, userID); err != nil {
		slog.Error("JoinGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	group.Members = append(group.Members, *member)

	slog.Info("Member joined", "group_id", group.ID, "member_id", member.ID)

	return connect.NewResponse(&api.JoinGroupResponse{
		Group:    toAPIGroup(group),
		MemberId: member.ID,
	}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	group, _, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves the caller's live groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	now := time.Now()
	out := make([]*api.Group, 0, len(groups))
	for _, group := range groups {
		if group.Expired(now) {
			continue
		}
		out = append(out, toAPIGroup(group))
	}

	slog.Info("ListGroups successful", "count", len(out))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// WhoAmI returns the caller's member ID in a group.
func (s *GroupService) WhoAmI(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	_, memberID, err := memberOf(ctx, s.store, req.Msg.GroupId)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.WhoAmIResponse{MemberId: memberID}), nil
}
