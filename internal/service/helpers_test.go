package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recovery-center/internal/domain"
	"recovery-center/internal/storage"
)

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[domain.UserID]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[domain.UserID]*domain.User)}
}

func (s *memUsers) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return storage.ErrEmailTaken
		}
	}
	s.seq++
	u.ID = domain.UserID(fmt.Sprintf("u%d", s.seq))
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memUsers) FindByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) SetJoinedGroup(_ context.Context, id domain.UserID, group domain.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.JoinedGroup = group
	return nil
}

// seed inserts an account directly, bypassing registration checks.
func (s *memUsers) seed(u domain.User) domain.UserID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	u.ID = domain.UserID(fmt.Sprintf("u%d", s.seq))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = &u
	return u.ID
}

type memGroups struct {
	mu     sync.Mutex
	seq    int
	groups map[domain.GroupID]*domain.SupportGroup
}

func newMemGroups() *memGroups {
	return &memGroups{groups: make(map[domain.GroupID]*domain.SupportGroup)}
}

func (s *memGroups) List(_ context.Context) ([]domain.SupportGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SupportGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (s *memGroups) Insert(_ context.Context, g *domain.SupportGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	g.ID = domain.GroupID(fmt.Sprintf("g%d", s.seq))
	cp := *g
	cp.Members = append([]domain.GroupMember(nil), g.Members...)
	s.groups[g.ID] = &cp
	return nil
}

func (s *memGroups) FindByID(_ context.Context, id domain.GroupID) (*domain.SupportGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *g
	cp.Members = append([]domain.GroupMember(nil), g.Members...)
	return &cp, nil
}

func (s *memGroups) Delete(_ context.Context, id domain.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.groups, id)
	return nil
}

func (s *memGroups) AddMember(_ context.Context, id domain.GroupID, m domain.GroupMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return storage.ErrNotFound
	}
	if !g.HasMember(m.UserID) {
		g.Members = append(g.Members, m)
	}
	return nil
}

func (s *memGroups) RemoveMember(_ context.Context, id domain.GroupID, user domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return storage.ErrNotFound
	}
	for i, m := range g.Members {
		if m.UserID == user {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			break
		}
	}
	return nil
}

type memCodes struct {
	mu       sync.Mutex
	codes    map[string]string
	verified map[string]bool
}

func newMemCodes() *memCodes {
	return &memCodes{codes: make(map[string]string), verified: make(map[string]bool)}
}

func (s *memCodes) SaveCode(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *memCodes) Confirm(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes[email] != code || code == "" {
		return storage.ErrNotFound
	}
	s.verified[email] = true
	return nil
}

func (s *memCodes) IsVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[email], nil
}

// markVerified flips an email to verified without the code dance.
func (s *memCodes) markVerified(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[email] = true
}

type recordingMailer struct {
	mu     sync.Mutex
	sendTo []string
	bodies []string
	err    error
}

func (m *recordingMailer) Send(to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sendTo = append(m.sendTo, to)
	m.bodies = append(m.bodies, body)
	return nil
}
