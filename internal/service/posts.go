package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"recovery-center/internal/domain"
	"recovery-center/internal/storage"
)

type PostStore interface {
	List(ctx context.Context) ([]domain.Post, error)
	Insert(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id string, c domain.Comment) error
	AddMeToo(ctx context.Context, id string, user domain.UserID) error
}

// PostService runs the public "Me Too" feed.
type PostService struct {
	posts PostStore
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) Create(ctx context.Context, user domain.UserID, title, content string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, errors.New("title and content are required")
	}
	p := &domain.Post{
		Title:     title,
		Content:   content,
		UserID:    user,
		CreatedAt: time.Now(),
	}
	if err := s.posts.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	return mapStorageErr(s.posts.Delete(ctx, id))
}

func (s *PostService) Comment(ctx context.Context, id, username, content string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("comment content is required")
	}
	c := domain.Comment{Username: username, Content: content, Replies: []domain.Reply{}}
	if err := mapStorageErr(s.posts.AddComment(ctx, id, c)); err != nil {
		return nil, err
	}
	return s.findMapped(ctx, id)
}

// MeToo records one reaction per account; a second click is rejected.
func (s *PostService) MeToo(ctx context.Context, id string, user domain.UserID) (*domain.Post, error) {
	err := s.posts.AddMeToo(ctx, id, user)
	if errors.Is(err, storage.ErrAlreadyReacted) {
		return nil, ErrAlreadyReacted
	}
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return s.findMapped(ctx, id)
}

func (s *PostService) findMapped(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return p, nil
}

func mapStorageErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
