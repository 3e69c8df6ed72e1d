package repositories

import (
	"context"
	"testing"
	"time"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBadgerUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerUserRepository(setupTestDB(t))

	user := &models.User{
		ID:           "u1",
		Username:     "alice",
		FirstName:    "Alice",
		Email:        "alice@example.com",
		PasswordHash: []byte("hash"),
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, user))

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.FirstName, got.FirstName)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{ID: "u2", Username: "alice"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBadgerSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerSessionRepository(setupTestDB(t))

	t.Run("put and get", func(t *testing.T) {
		session := &models.Session{
			Token:     "tok-1",
			UserID:    "u1",
			Username:  "alice",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, repo.Put(ctx, session))

		got, err := repo.Get(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("delete ends the session", func(t *testing.T) {
		session := &models.Session{Token: "tok-2", UserID: "u1", Username: "alice", ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, repo.Put(ctx, session))
		require.NoError(t, repo.Delete(ctx, "tok-2"))

		_, err := repo.Get(ctx, "tok-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already expired session is rejected", func(t *testing.T) {
		session := &models.Session{Token: "tok-3", UserID: "u1", Username: "alice", ExpiresAt: time.Now().Add(-time.Minute)}
		assert.Error(t, repo.Put(ctx, session))
	})

	t.Run("expired session is not found", func(t *testing.T) {
		session := &models.Session{Token: "tok-4", UserID: "u1", Username: "alice", ExpiresAt: time.Now().Add(20 * time.Millisecond)}
		require.NoError(t, repo.Put(ctx, session))

		time.Sleep(50 * time.Millisecond)
		_, err := repo.Get(ctx, "tok-4")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
