package repositories

import (
	"context"
	"errors"
	"time"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Entries carry a TTL matching the session expiry, so expired sessions
// disappear without a sweeper.
type BadgerSessionRepository struct {
	db *badger.DB
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db}
}

// Put stores a session until its expiry time.
func (r *BadgerSessionRepository) Put(_ context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := marshalEntity(session)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(SessionKeyPrefix+session.Token), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// Get retrieves a live session by token. Expired or unknown tokens both
// come back as ErrNotFound.
func (r *BadgerSessionRepository) Get(_ context.Context, token string) (*models.Session, error) {
	var session models.Session

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SessionKeyPrefix + token))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})

	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session, ending the login it represents.
func (r *BadgerSessionRepository) Delete(_ context.Context, token string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(SessionKeyPrefix + token))
	})
}
