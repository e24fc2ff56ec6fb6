package model

import (
	"time"
)

// SessionToken records a bearer token issued to a user. The list is advisory:
// JWT verification is signature + expiry only, so logout clears these rows
// without revoking tokens that are still in the wild.
type SessionToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
