// Package mock provides in-memory repository fakes for tests.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"postboard/app/models"
	"postboard/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository is an in-memory PostRepository. Setting Err makes every
// operation fail with it, which is how tests exercise storage faults.
type PostRepository struct {
	mutex sync.RWMutex
	posts map[string]*models.Post
	order []string
	Err   error
}

// NewPostRepository creates an empty in-memory post repository.
func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]*models.Post),
	}
}

// SetCreatedAt rewrites a stored post's creation time. Tests use it to
// spread timestamps without sleeping.
func (m *PostRepository) SetCreatedAt(id string, ts time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if post, exists := m.posts[id]; exists {
		post.CreatedAt = ts
	}
}

// Clear resets the repository to empty.
func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.order = nil
	m.Err = nil
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}

	post.BeforeCreate()
	post.ID = primitive.NewObjectID()

	stored := *post
	m.posts[post.ID.Hex()] = &stored
	m.order = append(m.order, post.ID.Hex())
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *PostRepository) List(_ context.Context, userID string) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	posts := make([]*models.Post, 0)
	for _, id := range m.order {
		post, exists := m.posts[id]
		if !exists {
			continue
		}
		if userID != "" && post.UserID != userID {
			continue
		}
		copied := *post
		posts = append(posts, &copied)
	}

	// Newest first; insertion order breaks ties, as the document store does.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}

	existing, exists := m.posts[post.ID.Hex()]
	if !exists {
		return repositories.ErrNotFound
	}
	existing.Title = post.Title
	existing.Content = post.Content
	existing.UserName = post.UserName
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}
