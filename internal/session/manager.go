package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

// Manager owns the session record lifecycle on top of a Store. Reads never
// surface storage corruption to callers: an unreadable or expired record is
// purged and reported as absent.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager creates a manager with the given sliding TTL. A non-positive
// ttl falls back to DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// Create persists a new session for the user and returns it.
func (m *Manager) Create(ctx context.Context, user models.User, token string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        "sess_" + uuid.NewString(),
		User:      user,
		Token:     token,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get returns the session for id, or nil if it is absent, expired, or
// unreadable. Expired and corrupt records are deleted as a side effect.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	key := KeyPrefix + id
	data, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		log.Printf("session: purging corrupt record %s: %v", key, err)
		_ = m.store.Delete(ctx, key)
		return nil, nil
	}
	if sess.IsExpired() {
		_ = m.store.Delete(ctx, key)
		return nil, nil
	}
	return &sess, nil
}

// Delete removes the session record. Deleting an absent session is a no-op.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, KeyPrefix+id)
}

// Extend rewrites the session's expiry to now plus the sliding TTL. It
// returns false when no readable session exists; nothing is created in that
// case.
func (m *Manager) Extend(ctx context.Context, id string) bool {
	sess, err := m.Get(ctx, id)
	if err != nil || sess == nil {
		return false
	}
	sess.ExpiresAt = time.Now().Add(m.ttl)
	if err := m.put(ctx, sess); err != nil {
		log.Printf("session: extend %s failed: %v", id, err)
		return false
	}
	return true
}

// ExpiringSoon reports whether the session exists and is inside the renewal
// warning window.
func (m *Manager) ExpiringSoon(ctx context.Context, id string) bool {
	sess, err := m.Get(ctx, id)
	if err != nil || sess == nil {
		return false
	}
	return sess.ExpiringSoon()
}

// CleanupExpired removes expired records from backends that expose their
// key set (the in-memory store; redis evicts by TTL on its own). It returns
// the number of records removed.
func (m *Manager) CleanupExpired(ctx context.Context) int {
	lister, ok := m.store.(interface{ Keys() []string })
	if !ok {
		return 0
	}
	removed := 0
	for _, key := range lister.Keys() {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		// Get purges expired and corrupt records as a side effect.
		sess, err := m.Get(ctx, strings.TrimPrefix(key, KeyPrefix))
		if err == nil && sess == nil {
			removed++
		}
	}
	return removed
}

func (m *Manager) put(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, sess.Key(), data)
}
