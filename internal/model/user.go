package model

import (
	"time"
)

// Subscription tiers. New accounts start on SubscriptionStarter.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

type User struct {
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Subscription      string    `db:"subscription" json:"subscription"`
	Verify            bool      `db:"verify" json:"verify"`
	VerificationToken *string   `db:"verification_token" json:"-"` // non-nil only while unverified
	AvatarURL         *string   `db:"avatar_url" json:"avatarURL,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"-"`
}

// IsVerified reports whether the account has redeemed its verification token.
// Invariant: Verify is true exactly when VerificationToken is nil.
func (u *User) IsVerified() bool {
	return u.Verify
}
