// Package memory provides the demo user directory: a fixed in-memory set of
// accounts the platform ships with when no database is configured. It backs
// the same UserStore interface as the Postgres store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store is a mutex-guarded in-memory user directory keyed by email.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewStore creates an empty directory.
func NewStore() *Store {
	return &Store{users: make(map[string]models.User)}
}

// NewSeededStore creates a directory pre-populated with the demo accounts.
func NewSeededStore() *Store {
	s := NewStore()
	for _, f := range fixtures() {
		s.users[f.Email] = f
	}
	return s
}

// CreateUser inserts a new user, assigning an ID when absent.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = "usr_" + uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.Email] = user
	return user, nil
}

// FindByEmail fetches a user by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// UpdateLastLogin stamps the user's last successful login time.
func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, user := range s.users {
		if user.ID == id {
			user.LastLoginAt = at
			s.users[email] = user
			return nil
		}
	}
	return storage.ErrNotFound
}

// Demo credentials. These hashes correspond to the documented demo
// passwords; the directory is fabricated data, not real accounts.
const (
	DemoUserEmail     = "trader@rioporto.com"
	DemoUserPassword  = "senha123"
	DemoAdminEmail    = "admin@rioporto.com"
	DemoAdminPassword = "admin123"
	DemoModEmail      = "moderador@rioporto.com"
	DemoModPassword   = "mod12345"
	DemoNewUserEmail  = "novato@rioporto.com"
	DemoNewUserPass   = "senha123"
)

func fixtures() []models.User {
	created := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return []models.User{
		{
			ID:         "usr_demo_trader",
			Email:      DemoUserEmail,
			Name:       "João Trader",
			Role:       models.RoleUser,
			KYCLevel:   2,
			IsVerified: true,
			Portfolio: models.Portfolio{
				BalanceBRL:    15420.50,
				BalanceBTC:    0.0842,
				TotalValueBRL: 42810.75,
			},
			TradingStats: models.TradingStats{
				TotalTrades:    127,
				CompletionRate: 98.4,
				VolumeBRL:      385200.00,
			},
			Preferences:  models.DefaultPreferences(),
			PasswordHash: mustHash(DemoUserPassword),
			CreatedAt:    created,
		},
		{
			ID:         "usr_demo_admin",
			Email:      DemoAdminEmail,
			Name:       "Ana Admin",
			Role:       models.RoleAdmin,
			KYCLevel:   3,
			IsVerified: true,
			Portfolio: models.Portfolio{
				BalanceBRL:    2500.00,
				TotalValueBRL: 2500.00,
			},
			Preferences:  models.DefaultPreferences(),
			PasswordHash: mustHash(DemoAdminPassword),
			CreatedAt:    created,
		},
		{
			ID:           "usr_demo_mod",
			Email:        DemoModEmail,
			Name:         "Marcos Moderador",
			Role:         models.RoleModerator,
			KYCLevel:     2,
			IsVerified:   true,
			Preferences:  models.DefaultPreferences(),
			PasswordHash: mustHash(DemoModPassword),
			CreatedAt:    created,
		},
		{
			ID:           "usr_demo_novato",
			Email:        DemoNewUserEmail,
			Name:         "Nina Novata",
			Role:         models.RoleUser,
			KYCLevel:     0,
			IsVerified:   false,
			Preferences:  models.DefaultPreferences(),
			PasswordHash: mustHash(DemoNewUserPass),
			CreatedAt:    created,
		},
	}
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
