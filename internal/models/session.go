package models

import "time"

// Session identifies the acting administrator for guarded routes. It is
// carried explicitly through the request context instead of an ambient
// global flag.
type Session struct {
	User     string    `json:"user"`
	IssuedAt time.Time `json:"issued_at"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	User      string    `json:"user"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
}
