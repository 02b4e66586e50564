// Package auth implements the platform's authentication flows: credential
// checks against the user directory, session issuance and renewal, and the
// token manager. Failure reasons are the pt-BR strings the front end shows
// verbatim.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
	"github.com/rioporto/v5-rioporto-sub007/internal/session"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage"
)

// User-facing failure messages.
const (
	MsgEmailNotFound    = "Email não encontrado"
	MsgWrongPassword    = "Senha incorreta"
	MsgInternalError    = "Erro interno. Tente novamente."
	MsgPasswordMismatch = "As senhas não coincidem"
	MsgPasswordTooShort = "A senha deve ter pelo menos 6 caracteres"
	MsgEmailTaken       = "Email já cadastrado"
)

const minPasswordLength = 6

// Result is the outcome of a login or registration attempt. Error carries a
// user-facing message and is set only when Success is false.
type Result struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	User      models.User `json:"user,omitempty"`
	SessionID string      `json:"-"`
	Token     string      `json:"-"`
}

func failure(msg string) Result {
	return Result{Error: msg}
}

// Service implements the authentication operations over the user directory
// and the session manager. All failures come back as Result values; the
// only errors returned are context cancellations.
type Service struct {
	users    storage.UserStore
	sessions *session.Manager
	tokens   *TokenManager

	// loginDelay emulates the latency of a credential round trip so the
	// demo environment behaves like a networked backend.
	loginDelay time.Duration
}

// NewService wires the auth flows together.
func NewService(users storage.UserStore, sessions *session.Manager, tokens *TokenManager, loginDelay time.Duration) *Service {
	return &Service{users: users, sessions: sessions, tokens: tokens, loginDelay: loginDelay}
}

// Login validates the credentials against the directory (exact email match)
// and on success creates a persisted session, stamping the user's
// LastLoginAt. Credential failures are typed messages, never Go errors.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return Result{}, err
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failure(MsgEmailNotFound), nil
		}
		log.Printf("auth: lookup %s failed: %v", email, err)
		return failure(MsgInternalError), nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return failure(MsgWrongPassword), nil
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		log.Printf("auth: token generation failed: %v", err)
		return failure(MsgInternalError), nil
	}

	now := time.Now()
	user.LastLoginAt = now
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Not fatal: the stamp is informational.
		log.Printf("auth: update last login for %s: %v", user.ID, err)
	}

	sess, err := s.sessions.Create(ctx, user, token)
	if err != nil {
		log.Printf("auth: create session failed: %v", err)
		return failure(MsgInternalError), nil
	}

	return Result{Success: true, User: user, SessionID: sess.ID, Token: token}, nil
}

// Register validates the request and returns the User that would be created.
// The new account is deliberately NOT persisted into the directory and no
// session is started: registration is a stub boundary in this platform, so
// callers must not assume the returned user can subsequently log in.
func (s *Service) Register(ctx context.Context, email, name, password, confirm string) (Result, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return Result{}, err
	}

	if len(password) < minPasswordLength {
		return failure(MsgPasswordTooShort), nil
	}
	if password != confirm {
		return failure(MsgPasswordMismatch), nil
	}

	email = strings.TrimSpace(email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return failure(MsgEmailTaken), nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("auth: register lookup %s failed: %v", email, err)
		return failure(MsgInternalError), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("auth: hash password failed: %v", err)
		return failure(MsgInternalError), nil
	}

	user := models.User{
		ID:           "usr_" + uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleUser,
		KYCLevel:     models.KYCNone,
		Preferences:  models.DefaultPreferences(),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	return Result{Success: true, User: user}, nil
}

// Logout deletes the persisted session. Logging out an unknown session is a
// no-op.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// CheckAuth reports the authenticated user for a session ID. Absent,
// expired, and unreadable records all read as unauthenticated; stale records
// are purged as a side effect and nothing is ever thrown at the caller.
func (s *Service) CheckAuth(ctx context.Context, sessionID string) (models.User, bool) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Printf("auth: check session %s: %v", sessionID, err)
		return models.User{}, false
	}
	if sess == nil {
		return models.User{}, false
	}
	return sess.User, true
}

// Session returns the full session record, or nil when unauthenticated.
func (s *Service) Session(ctx context.Context, sessionID string) *session.Session {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Printf("auth: read session %s: %v", sessionID, err)
		return nil
	}
	return sess
}

// ExtendSession slides the session expiry forward by the full window.
func (s *Service) ExtendSession(ctx context.Context, sessionID string) bool {
	return s.sessions.Extend(ctx, sessionID)
}

// IsSessionExpiringSoon reports whether renewal should be offered.
func (s *Service) IsSessionExpiringSoon(ctx context.Context, sessionID string) bool {
	return s.sessions.ExpiringSoon(ctx, sessionID)
}

func (s *Service) simulateLatency(ctx context.Context) error {
	if s.loginDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.loginDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
