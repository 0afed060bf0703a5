package models

import "time"

// User is an authentication identity. Kept separate from Account: a user
// registers first and opens their account afterwards.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at"`
}
