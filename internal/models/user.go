package models

import (
	"time"
)

type User struct {
	Username       string     `json:"username"`
	PINHash        string     `json:"-"` // Never expose in JSON
	CreatedAt      time.Time  `json:"created_at"`
	LastIPHash     string     `json:"-"`
	FailedAttempts int        `json:"-"`
	LastFail       *time.Time `json:"-"`
}

type CreateUserRequest struct {
	Username   string `json:"username"`
	PIN        string `json:"pin"`
	PINConfirm string `json:"pin_confirm"`
}

type LoginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type LoginResponse struct {
	User         *User     `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
