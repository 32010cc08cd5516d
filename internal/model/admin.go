package model

import "time"

// Admin represents the administrator account able to manage published
// results and review contact submissions. Passwords are stored as bcrypt
// hashes. The reset token fields are populated only while a password-reset
// request is pending; they are always set and cleared together.
type Admin struct {
	ID               string     `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	PasswordHash     string     `json:"-" db:"password_hash"` // bcrypt hash, never expose
	ResetToken       *string    `json:"-" db:"reset_token"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}
