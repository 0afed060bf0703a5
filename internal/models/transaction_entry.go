package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// TransactionEntry represents a single immutable ledger record for an account.
// Entries are only ever created together with the balance change they describe
// and are never updated or deleted afterwards.
type TransactionEntry struct {
	ID         string          `json:"id"`          // unique identifier
	AccountID  string          `json:"account_id"`  // which account this entry belongs to
	Amount     decimal.Decimal `json:"amount"`      // signed: positive for deposits, negative for withdrawals
	Kind       TransactionKind `json:"kind"`        // deposit or withdrawal
	OccurredAt time.Time       `json:"occurred_at"` // commit timestamp
}
