package models

import "time"

// Operator is an account allowed to read /api/v1. The device routes need no account.
type Operator struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
