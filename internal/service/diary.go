package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"recovery-center/internal/domain"
)

type DiaryStore interface {
	ListByUser(ctx context.Context, user domain.UserID) ([]domain.Diary, error)
	Insert(ctx context.Context, d *domain.Diary) error
	Delete(ctx context.Context, id string, user domain.UserID) error
}

// DiaryService keeps journal entries private to their owner; every call is
// scoped by the authenticated user id.
type DiaryService struct {
	diaries DiaryStore
}

func NewDiaryService(diaries DiaryStore) *DiaryService {
	return &DiaryService{diaries: diaries}
}

func (s *DiaryService) List(ctx context.Context, user domain.UserID) ([]domain.Diary, error) {
	return s.diaries.ListByUser(ctx, user)
}

func (s *DiaryService) Create(ctx context.Context, user domain.UserID, emotion, content string, theme domain.DiaryTheme) (*domain.Diary, error) {
	if strings.TrimSpace(emotion) == "" || strings.TrimSpace(content) == "" {
		return nil, errors.New("emotion and content are required")
	}
	d := &domain.Diary{
		UserID:    user,
		Emotion:   emotion,
		Content:   content,
		Theme:     theme,
		CreatedAt: time.Now(),
	}
	if err := s.diaries.Insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DiaryService) Delete(ctx context.Context, user domain.UserID, id string) error {
	return mapStorageErr(s.diaries.Delete(ctx, id, user))
}
