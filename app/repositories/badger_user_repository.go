package repositories

import (
	"context"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB. Accounts
// are keyed by username, which doubles as the uniqueness check.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new account, failing with ErrDuplicate if the username
// is already taken.
func (r *BadgerUserRepository) Create(_ context.Context, user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := []byte(UserKeyPrefix + user.Username)

		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicate
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// GetByUsername retrieves an account by username
func (r *BadgerUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var user models.User

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(UserKeyPrefix + username))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &user)
		})
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}
