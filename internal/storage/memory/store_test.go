package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage"
)

func TestSeededDirectory(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	user, err := s.FindByEmail(ctx, DemoUserEmail)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user.Role != models.RoleUser || user.KYCLevel != 2 {
		t.Fatalf("unexpected demo trader: %+v", user)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoUserPassword)); err != nil {
		t.Fatal("demo password hash does not match documented password")
	}

	admin, err := s.FindByEmail(ctx, DemoAdminEmail)
	if err != nil {
		t.Fatalf("FindByEmail admin: %v", err)
	}
	if !admin.Role.CanModerate() {
		t.Fatal("demo admin must be able to moderate")
	}

	if _, err := s.FindByEmail(ctx, "ghost@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown email: err = %v, want ErrNotFound", err)
	}

	// Lookup is exact match, not case-folded.
	if _, err := s.FindByEmail(ctx, "Trader@Rioporto.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("case-variant email: err = %v, want ErrNotFound", err)
	}
}

func TestCreateUserConflict(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Email: DemoUserEmail, Name: "Clone"})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}

	created, err := s.CreateUser(ctx, models.User{Email: "fresh@example.com", Name: "Fresh"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("CreateUser must assign ID and timestamp: %+v", created)
	}
}

func TestUpdateLastLogin(t *testing.T) {
	s := NewSeededStore()
	ctx := context.Background()

	now := time.Now()
	if err := s.UpdateLastLogin(ctx, "usr_demo_trader", now); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}
	user, _ := s.FindByEmail(ctx, DemoUserEmail)
	if !user.LastLoginAt.Equal(now) {
		t.Fatalf("LastLoginAt = %v, want %v", user.LastLoginAt, now)
	}

	if err := s.UpdateLastLogin(ctx, "usr_ghost", now); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrNotFound", err)
	}
}
