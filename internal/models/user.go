package models

import "time"

// User captures application-facing fields for a platform identity. Role and
// KYCLevel are the two attributes the route guard gates on.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	KYCLevel     int          `json:"kycLevel"`
	IsVerified   bool         `json:"isVerified"`
	Portfolio    Portfolio    `json:"portfolio"`
	TradingStats TradingStats `json:"tradingStats"`
	Preferences  Preferences  `json:"preferences"`
	PasswordHash string       `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastLoginAt  time.Time    `json:"lastLoginAt"`
}

// Portfolio holds the user's balances in platform currencies.
type Portfolio struct {
	BalanceBRL    float64 `json:"balanceBRL"`
	BalanceBTC    float64 `json:"balanceBTC"`
	TotalValueBRL float64 `json:"totalValueBRL"`
}

// TradingStats aggregates P2P trade history counters.
type TradingStats struct {
	TotalTrades    int     `json:"totalTrades"`
	CompletionRate float64 `json:"completionRate"`
	VolumeBRL      float64 `json:"volumeBRL"`
}

// Preferences stores per-user display settings.
type Preferences struct {
	Language      string `json:"language"`
	Currency      string `json:"currency"`
	Notifications bool   `json:"notifications"`
}

// DefaultPreferences returns the settings applied to newly registered users.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:      "pt-BR",
		Currency:      "BRL",
		Notifications: true,
	}
}
