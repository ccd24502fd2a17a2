// Package models defines the records persisted by the server repositories
// and the DTOs returned by the HTTP API.
package models

import "time"

// RoleUser is the role assigned to every newly registered account.
const RoleUser = "USER"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Email        *string
	Username     *string
	PasswordHash *string
}

// EmailVerification tracks whether a user confirmed their email address.
// Verified flips from false to true exactly once.
type EmailVerification struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}
