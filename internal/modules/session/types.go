package session

import (
	"errors"
	"time"
)

// LoginRequest carries the credentials posted to the backend.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginResponse is the backend's successful login payload.
type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresInMs int64  `json:"expiresInMs"`
}

// Info is the session snapshot exposed to callers.
type Info struct {
	LoggedIn  bool       `json:"loggedIn"`
	UserID    *int64     `json:"userId,omitempty"`
	TokenType string     `json:"tokenType,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ErrEmailInUse marks a registration rejected because the address already has
// an account; the backend reports this in the message body, sometimes with a
// 2xx status.
var ErrEmailInUse = errors.New("email already in use")
