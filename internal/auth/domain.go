package auth

import "time"

// Account represents a dashboard login account. Role grants live on the
// principal record, not here; authentication and authorization stay separate.
type Account struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
