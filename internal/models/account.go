package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single user's money account.
// Exactly one account exists per owner; the owner id comes from the
// authentication boundary and is opaque to this service.
type Account struct {
	ID        string          `json:"id"`         // unique identifier, assigned at creation
	OwnerID   string          `json:"owner_id"`   // authenticated user this account belongs to
	FirstName string          `json:"first_name"` // account holder's first name
	LastName  string          `json:"last_name"`  // account holder's last name
	Balance   decimal.Decimal `json:"balance"`    // current balance, scale 2
	Version   int64           `json:"-"`          // optimistic concurrency token, bumped on every committed write
	CreatedAt time.Time       `json:"created_at"` // timestamp of account creation
}
