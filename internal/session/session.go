// Package session persists time-boxed proof-of-login records and notifies
// interested consumers when the shared store changes. Records live under the
// rioporto_auth_session key namespace and carry a 24-hour sliding expiry.
package session

import (
	"time"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

const (
	// KeyPrefix namespaces every persisted session record.
	KeyPrefix = "rioporto_auth_session:"

	// DefaultTTL is the sliding session lifetime.
	DefaultTTL = 24 * time.Hour

	// ExpiryWarning is how close to expiry a session counts as "expiring
	// soon", the trigger for client-initiated renewal.
	ExpiryWarning = time.Hour
)

// Session is the persisted proof-of-login record. The token is JWT-shaped
// but decorative: nothing verifies its signature, only ExpiresAt governs
// validity.
type Session struct {
	ID        string      `json:"id"`
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IsExpired reports whether the session's hard cutoff has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ExpiringSoon reports whether less than ExpiryWarning remains.
func (s *Session) ExpiringSoon() bool {
	return time.Until(s.ExpiresAt) < ExpiryWarning
}

// Key returns the store key for this session.
func (s *Session) Key() string {
	return KeyPrefix + s.ID
}
