package interfaces

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Store-level outcomes every AccountStore implementation must report.
var (
	// ErrAccountNotFound means no account exists for the given key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrVersionConflict means the conditional write lost a race: the account
	// was modified after the caller read it. The caller is expected to re-read
	// and retry.
	ErrVersionConflict = errors.New("account version conflict")
	// ErrOwnerTaken means the owner already has an account.
	ErrOwnerTaken = errors.New("owner already has an account")
)

// AccountStore is the persistence contract for accounts and their ledger
// entries. Implementations must make CommitChange atomic: the balance update,
// the version bump and the entry insert either all happen or none do.
type AccountStore interface {
	// CreateAccount inserts a new account. Returns ErrOwnerTaken if the owner
	// already has one.
	CreateAccount(ctx context.Context, account models.Account) error

	// GetAccountByOwner returns the account linked to an owner id, including
	// its current version token.
	GetAccountByOwner(ctx context.Context, ownerID string) (models.Account, error)

	// GetAccountByID returns the account with the given account id.
	GetAccountByID(ctx context.Context, accountID string) (models.Account, error)

	// CommitChange writes newBalance and appends entry as one atomic unit,
	// conditioned on the account still being at expectedVersion. On a version
	// mismatch it returns ErrVersionConflict and changes nothing.
	CommitChange(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, entry models.TransactionEntry) error

	// GetEntriesByAccount returns the account's ledger entries, newest first.
	GetEntriesByAccount(ctx context.Context, accountID string) ([]models.TransactionEntry, error)
}
