package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

// TokenManager issues JWT-shaped tokens for authenticated users. The tokens
// are decorative: no component verifies the signature, session validity is
// governed solely by the stored record's expiry. Keep that in mind before
// ever treating these as proof of anything.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Generate issues a token string carrying the user's identity and the two
// attributes the route guard gates on.
func (t *TokenManager) Generate(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"kyc":   user.KYCLevel,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
