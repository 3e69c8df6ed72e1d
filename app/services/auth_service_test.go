package services

import (
	"context"
	"testing"
	"time"

	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) *AuthService {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAuthService(
		repositories.NewBadgerUserRepository(db),
		repositories.NewBadgerSessionRepository(db),
		time.Hour,
		bcryptTestCost,
	)
}

// bcrypt.MinCost keeps the hashing fast in tests.
const bcryptTestCost = 4

func signUp(t *testing.T, auth *AuthService, username, firstName, email string) *models.User {
	t.Helper()
	user, err := auth.Register(context.Background(), &models.SignUpRequest{
		Username:  username,
		Password:  "secret-pw",
		FirstName: firstName,
		Email:     email,
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	auth := setupAuthService(t)

	t.Run("creates an account", func(t *testing.T) {
		user := signUp(t, auth, "alice", "Alice", "alice@example.com")
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, []byte("secret-pw"), user.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := auth.Register(ctx, &models.SignUpRequest{Username: "alice", Password: "another-pw"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		_, err := auth.Register(ctx, &models.SignUpRequest{Username: "carol", Password: "short"})
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth := setupAuthService(t)
	signUp(t, auth, "alice", "Alice", "alice@example.com")

	t.Run("valid credentials open a session", func(t *testing.T) {
		session, err := auth.Login(ctx, "alice", "secret-pw")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "alice", session.Username)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "alice", "wrong-pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := auth.Login(ctx, "mallory", "secret-pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestIdentityFromToken(t *testing.T) {
	ctx := context.Background()
	auth := setupAuthService(t)
	user := signUp(t, auth, "alice", "Alice", "alice@example.com")

	t.Run("resolves a live session", func(t *testing.T) {
		session, err := auth.Login(ctx, "alice", "secret-pw")
		require.NoError(t, err)

		identity, err := auth.IdentityFromToken(ctx, session.Token)
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID, identity.ID)
		assert.Equal(t, "Alice", identity.FirstName)
		assert.Equal(t, "alice@example.com", identity.Email)
	})

	t.Run("empty token is unauthenticated", func(t *testing.T) {
		identity, err := auth.IdentityFromToken(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("unknown token is unauthenticated", func(t *testing.T) {
		identity, err := auth.IdentityFromToken(ctx, "not-a-session")
		require.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("logout invalidates the token", func(t *testing.T) {
		session, err := auth.Login(ctx, "alice", "secret-pw")
		require.NoError(t, err)

		require.NoError(t, auth.Logout(ctx, session.Token))

		identity, err := auth.IdentityFromToken(ctx, session.Token)
		require.NoError(t, err)
		assert.Nil(t, identity)
	})
}
