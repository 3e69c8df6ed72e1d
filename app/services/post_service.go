package services

import (
	"context"
	"errors"
	"log/slog"

	"postboard/app/models"
	"postboard/app/repositories"
)

var (
	// ErrUnauthorized means no authenticated identity was presented.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden covers both a post owned by someone else and a post
	// that does not exist; the two are indistinguishable to the caller.
	ErrForbidden = errors.New("forbidden")
)

// PostService handles business logic for the post collection: listing,
// creation, and owner-gated mutation.
type PostService struct {
	repo repositories.PostRepository
	log  *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(repo repositories.PostRepository) *PostService {
	return &PostService{
		repo: repo,
		log:  slog.With("component", "post_service"),
	}
}

// ListPosts returns all posts, newest first, optionally narrowed to one
// owner. No authentication is required to read.
func (s *PostService) ListPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	posts, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "list posts failed", "error", err)
		return nil, err
	}
	return posts, nil
}

// CreatePost validates the request and persists a new post owned by the
// caller. The owner is always the authenticated identity, never a field
// of the request.
func (s *PostService) CreatePost(ctx context.Context, identity *models.Identity, req *models.CreatePostRequest) (*models.Post, error) {
	if identity == nil {
		return nil, ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		UserID:   identity.ID,
		UserName: identity.DisplayName(req.UserName),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.ErrorContext(ctx, "create post failed", "error", err)
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites title and content of a post the caller owns. The
// attributed author name is recomputed from the caller's current profile,
// so editing a post picks up profile changes made since it was created.
func (s *PostService) UpdatePost(ctx context.Context, identity *models.Identity, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if identity == nil {
		return nil, ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.fetchOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.UserName = identity.DisplayName("")

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrForbidden
		}
		s.log.ErrorContext(ctx, "update post failed", "error", err)
		return nil, err
	}
	return post, nil
}

// DeletePost permanently removes a post the caller owns.
func (s *PostService) DeletePost(ctx context.Context, identity *models.Identity, id string) error {
	if identity == nil {
		return ErrUnauthorized
	}

	if _, err := s.fetchOwned(ctx, identity, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrForbidden
		}
		s.log.ErrorContext(ctx, "delete post failed", "error", err)
		return err
	}
	return nil
}

// fetchOwned loads a post and checks ownership, folding not-found into
// ErrForbidden.
func (s *PostService) fetchOwned(ctx context.Context, identity *models.Identity, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		s.log.ErrorContext(ctx, "get post failed", "error", err)
		return nil, err
	}
	if post.UserID != identity.ID {
		return nil, ErrForbidden
	}
	return post, nil
}
