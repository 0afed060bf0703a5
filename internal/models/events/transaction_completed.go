package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is published after a deposit or withdrawal commits.
type TransactionCompleted struct {
	EntryID    string          `json:"entry_id"`
	AccountID  string          `json:"account_id"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}
