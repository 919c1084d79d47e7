package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")
	sessionKey    = []byte("current")
)

// DualStore implements Store with two scopes:
// persistent sessions live in a BoltDB bucket, ephemeral sessions
// live in process memory and vanish when the client exits
type DualStore struct {
	db *bbolt.DB

	mu        sync.Mutex
	ephemeral *Session
}

// Compile-time check that DualStore implements Store
var _ Store = (*DualStore)(nil)

// NewDualStore opens the session store
// dbPath is the path to the BoltDB database file
func NewDualStore(dbPath string) (*DualStore, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	// Инициализируем bucket для персистентной сессии
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session bucket: %w", err)
	}

	return &DualStore{db: db}, nil
}

// Close closes the database connection
func (s *DualStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores the session in the given scope and clears the other
// Запись сериализуется мьютексом: конкурирующие login/logout
// разрешаются по принципу last-write-wins
func (s *DualStore) Save(ctx context.Context, scope Scope, sess *Session) error {
	if sess == nil {
		return fmt.Errorf("session is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch scope {
	case ScopePersistent:
		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		err = s.db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(bucketSession)
			if bucket == nil {
				return fmt.Errorf("session bucket not found")
			}
			return bucket.Put(sessionKey, data)
		})
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		// Эфемерная копия очищается: живая сессия всегда одна
		s.ephemeral = nil

	case ScopeEphemeral:
		// Сначала убираем персистентную запись, затем пишем в память
		err := s.db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(bucketSession)
			if bucket == nil {
				return fmt.Errorf("session bucket not found")
			}
			return bucket.Delete(sessionKey)
		})
		if err != nil {
			return fmt.Errorf("failed to clear persistent session: %w", err)
		}

		copied := *sess
		s.ephemeral = &copied

	default:
		return fmt.Errorf("unknown session scope: %d", scope)
	}

	return nil
}

// Load returns the cached session, preferring the persistent scope
func (s *DualStore) Load(ctx context.Context) (*Session, Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess *Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get(sessionKey)
		if data == nil {
			return nil
		}

		sess = &Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	if sess != nil {
		return sess, ScopePersistent, nil
	}

	if s.ephemeral != nil {
		copied := *s.ephemeral
		return &copied, ScopeEphemeral, nil
	}

	return nil, 0, ErrNoSession
}

// Clear removes session data from both scopes
func (s *DualStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}
		return bucket.Delete(sessionKey)
	})
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.ephemeral = nil
	return nil
}
