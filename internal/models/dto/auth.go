package dto

import "github.com/rioporto/v5-rioporto-sub007/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type AuthResponse struct {
	Token string      `json:"token,omitempty"`
	User  models.User `json:"user"`
}

type SessionResponse struct {
	User         models.User `json:"user"`
	ExpiresAt    string      `json:"expiresAt"`
	ExpiringSoon bool        `json:"expiringSoon"`
}
