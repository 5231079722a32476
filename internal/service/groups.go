package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"recovery-center/internal/domain"
)

type GroupStore interface {
	List(ctx context.Context) ([]domain.SupportGroup, error)
	Insert(ctx context.Context, g *domain.SupportGroup) error
	FindByID(ctx context.Context, id domain.GroupID) (*domain.SupportGroup, error)
	Delete(ctx context.Context, id domain.GroupID) error
	AddMember(ctx context.Context, id domain.GroupID, m domain.GroupMember) error
	RemoveMember(ctx context.Context, id domain.GroupID, user domain.UserID) error
}

// GroupService owns the membership policy around support groups: the hard
// member limit and the one-group-per-account rule. The realtime room core
// deliberately knows nothing about any of this; a client is expected to
// pass this gate before joining the group's chat or voice room.
type GroupService struct {
	groups GroupStore
	users  UserStore
}

func NewGroupService(groups GroupStore, users UserStore) *GroupService {
	return &GroupService{groups: groups, users: users}
}

func (s *GroupService) List(ctx context.Context) ([]domain.SupportGroup, error) {
	return s.groups.List(ctx)
}

// Create makes the creator the first member under the given nickname.
func (s *GroupService) Create(ctx context.Context, creator domain.UserID, nickname, name string, limit int, category, desc string) (*domain.SupportGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("group name is required")
	}
	if limit < 1 {
		return nil, errors.New("member limit must be positive")
	}
	if err := domain.ValidateNickname(nickname); err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, creator)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if u.JoinedGroup != "" {
		return nil, ErrAlreadyInGroup
	}

	g := &domain.SupportGroup{
		Name:      name,
		Limit:     limit,
		Category:  category,
		Desc:      desc,
		Creator:   creator,
		Members:   []domain.GroupMember{{UserID: creator, Nickname: nickname}},
		CreatedAt: time.Now(),
	}
	if err := s.groups.Insert(ctx, g); err != nil {
		return nil, err
	}
	if err := s.users.SetJoinedGroup(ctx, creator, g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

// Join admits the user under a per-group nickname. Rejoining the same group
// is a no-op; membership in any other group, or a full group, is rejected.
func (s *GroupService) Join(ctx context.Context, user domain.UserID, id domain.GroupID, nickname string) error {
	if err := domain.ValidateNickname(nickname); err != nil {
		return err
	}

	u, err := s.users.FindByID(ctx, user)
	if err != nil {
		return mapStorageErr(err)
	}
	if u.JoinedGroup == id {
		return nil
	}
	if u.JoinedGroup != "" {
		return ErrAlreadyInGroup
	}

	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return mapStorageErr(err)
	}
	if g.HasMember(user) {
		return s.users.SetJoinedGroup(ctx, user, id)
	}
	if g.IsFull() {
		return ErrGroupFull
	}

	if err := s.groups.AddMember(ctx, id, domain.GroupMember{UserID: user, Nickname: nickname}); err != nil {
		return err
	}
	return s.users.SetJoinedGroup(ctx, user, id)
}

func (s *GroupService) Leave(ctx context.Context, user domain.UserID, id domain.GroupID) error {
	u, err := s.users.FindByID(ctx, user)
	if err != nil {
		return mapStorageErr(err)
	}
	if u.JoinedGroup != id {
		return ErrNotGroupMember
	}
	if err := s.groups.RemoveMember(ctx, id, user); err != nil {
		return err
	}
	return s.users.SetJoinedGroup(ctx, user, "")
}

// Delete is restricted to the group's creator.
func (s *GroupService) Delete(ctx context.Context, user domain.UserID, id domain.GroupID) error {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return mapStorageErr(err)
	}
	if g.Creator != user {
		return ErrNotCreator
	}
	return mapStorageErr(s.groups.Delete(ctx, id))
}

// Nickname resolves the display name the user carries inside their group.
func (s *GroupService) Nickname(ctx context.Context, user domain.UserID, id domain.GroupID) (string, error) {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return "", mapStorageErr(err)
	}
	for _, m := range g.Members {
		if m.UserID == user {
			return m.Nickname, nil
		}
	}
	return "", ErrNotGroupMember
}
