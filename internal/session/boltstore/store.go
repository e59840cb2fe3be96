package boltstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"

	"logistics-console/internal/domain"
	"logistics-console/internal/session"
)

var (
	sessionBucket = []byte("sessionv1")
	tokenKey      = []byte("token")
	userKey       = []byte("user")
)

// userRecord is the persisted form of domain.User.
type userRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Store persists the session snapshot in a bbolt file.
type Store struct {
	db *bolt.DB
}

// Open creates (if needed) and opens the session file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session store: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("session store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the stored snapshot or nil when there is none.
func (s *Store) Load(context.Context) (*session.Snapshot, error) {
	var snap *session.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		tok := b.Get(tokenKey)
		if len(tok) == 0 {
			return nil
		}
		var u userRecord
		if raw := b.Get(userKey); len(raw) > 0 {
			if err := json.Unmarshal(raw, &u); err != nil {
				return fmt.Errorf("decode user: %w", err)
			}
		}
		snap = &session.Snapshot{
			Token: string(tok),
			User:  domain.User{ID: u.ID, Username: u.Username, Role: u.Role},
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session store: load: %w", err)
	}
	return snap, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, snap session.Snapshot) error {
	raw, err := json.Marshal(userRecord{ID: snap.User.ID, Username: snap.User.Username, Role: snap.User.Role})
	if err != nil {
		return fmt.Errorf("session store: encode user: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if err := b.Put(tokenKey, []byte(snap.Token)); err != nil {
			return err
		}
		return b.Put(userKey, raw)
	})
}

// Clear removes the stored token and user.
func (s *Store) Clear(context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if err := b.Delete(tokenKey); err != nil {
			return err
		}
		return b.Delete(userKey)
	})
}

// Close releases the bbolt file lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ session.Storage = (*Store)(nil)
