package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
	"github.com/rioporto/v5-rioporto-sub007/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides Postgres-backed persistence for the user directory.
type Store struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new Store and runs migrations.
func NewUserStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			kyc_level SMALLINT NOT NULL DEFAULT 0 CHECK (kyc_level BETWEEN 0 AND 3),
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			balance_brl NUMERIC(24,2) NOT NULL DEFAULT 0,
			balance_btc NUMERIC(24,8) NOT NULL DEFAULT 0,
			total_value_brl NUMERIC(24,2) NOT NULL DEFAULT 0,
			total_trades INT NOT NULL DEFAULT 0,
			completion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			volume_brl NUMERIC(24,2) NOT NULL DEFAULT 0,
			language TEXT NOT NULL DEFAULT 'pt-BR',
			currency TEXT NOT NULL DEFAULT 'BRL',
			notifications BOOLEAN NOT NULL DEFAULT TRUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_at TIMESTAMPTZ
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique_idx ON users (email);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const userColumns = `id, email, name, role, kyc_level, is_verified,
	balance_brl, balance_btc, total_value_brl,
	total_trades, completion_rate, volume_brl,
	language, currency, notifications,
	password_hash, created_at, last_login_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, email, name, role, kyc_level, is_verified,
			balance_brl, balance_btc, total_value_brl,
			total_trades, completion_rate, volume_brl,
			language, currency, notifications, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + userColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, string(user.Role), user.KYCLevel, user.IsVerified,
		user.Portfolio.BalanceBRL, user.Portfolio.BalanceBTC, user.Portfolio.TotalValueBRL,
		user.TradingStats.TotalTrades, user.TradingStats.CompletionRate, user.TradingStats.VolumeBRL,
		user.Preferences.Language, user.Preferences.Currency, user.Preferences.Notifications,
		user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	row := s.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

// UpdateLastLogin stamps the user's last successful login time.
func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1;`, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role string
	var lastLogin *time.Time
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &role, &user.KYCLevel, &user.IsVerified,
		&user.Portfolio.BalanceBRL, &user.Portfolio.BalanceBTC, &user.Portfolio.TotalValueBRL,
		&user.TradingStats.TotalTrades, &user.TradingStats.CompletionRate, &user.TradingStats.VolumeBRL,
		&user.Preferences.Language, &user.Preferences.Currency, &user.Preferences.Notifications,
		&user.PasswordHash, &user.CreatedAt, &lastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	if lastLogin != nil {
		user.LastLoginAt = *lastLogin
	}
	return user, nil
}
