package ledger

import "errors"

var (
	// ErrInvalidAmount means the amount is not a positive value with at most
	// two decimal places. Detected before any read; never retried.
	ErrInvalidAmount = errors.New("amount must be a positive value with at most 2 decimal places")

	// ErrAccountNotFound means no account is linked to the given owner.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccount means the owner already has an account.
	ErrDuplicateAccount = errors.New("owner already has an account")

	// ErrRetriesExhausted means every attempt lost the optimistic write race.
	// This is a transient condition: the caller should resubmit the whole
	// operation, nothing was applied on its behalf.
	ErrRetriesExhausted = errors.New("operation conflicted with concurrent writes, retry")
)
