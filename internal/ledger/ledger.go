package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	eventmodels "github.com/sheikh-saqib/account-ledger-service/internal/models/events"
	"github.com/sheikh-saqib/account-ledger-service/internal/rules"
)

// TopicTransactionCompleted is the event topic for committed transactions.
const TopicTransactionCompleted = "transaction_completed"

// defaultMaxAttempts bounds the optimistic retry loop. Accounts have a single
// owner, so contention is expected to be low and three attempts to suffice.
const defaultMaxAttempts = 3

// Ledger applies deposits and withdrawals to accounts and records their
// transaction history. Concurrency is resolved at the data layer: the store's
// version-conditioned write is the only serialization point, and the Ledger
// retries a bounded number of times when it loses that race. No in-process
// lock is held per account.
type Ledger struct {
	store         interfaces.AccountStore
	publisher     interfaces.EventPublisher
	withdrawRules []rules.Rule // evaluated in order, first failure wins
	maxAttempts   int
	now           func() time.Time
	log           *zap.Logger
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithMaxAttempts overrides the retry bound.
func WithMaxAttempts(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithClock overrides the commit-time clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log.Named("ledger") }
}

// NewLedger builds a Ledger. withdrawRules is the explicit, ordered set of
// preconditions applied to withdrawals; deposits are never rule-checked.
func NewLedger(store interfaces.AccountStore, publisher interfaces.EventPublisher, withdrawRules []rules.Rule, opts ...Option) *Ledger {
	l := &Ledger{
		store:         store,
		publisher:     publisher,
		withdrawRules: withdrawRules,
		maxAttempts:   defaultMaxAttempts,
		now:           time.Now,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateAccount opens an account for an owner, starting at balance zero.
// At most one account exists per owner; a second create reports
// ErrDuplicateAccount.
func (l *Ledger) CreateAccount(ctx context.Context, ownerID, firstName, lastName string) (models.Account, error) {
	account := models.Account{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		FirstName: firstName,
		LastName:  lastName,
		Balance:   decimal.Zero,
		Version:   1,
		CreatedAt: l.now().UTC(),
	}
	if err := l.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, interfaces.ErrOwnerTaken) {
			return models.Account{}, ErrDuplicateAccount
		}
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	l.log.Info("account created", zap.String("account_id", account.ID))
	return account, nil
}

// GetAccount returns the account linked to an owner.
func (l *Ledger) GetAccount(ctx context.Context, ownerID string) (models.Account, error) {
	account, err := l.store.GetAccountByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrAccountNotFound) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// GetBalance returns the owner's current balance.
func (l *Ledger) GetBalance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	account, err := l.GetAccount(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetEntries returns the owner's transaction history, newest first.
func (l *Ledger) GetEntries(ctx context.Context, ownerID string) ([]models.TransactionEntry, error) {
	account, err := l.GetAccount(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	entries, err := l.store.GetEntriesByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	return entries, nil
}

// Deposit adds amount to the owner's balance and records a deposit entry.
// No rules apply to deposits, only amount validation.
func (l *Ledger) Deposit(ctx context.Context, ownerID string, amount decimal.Decimal) (models.Account, models.TransactionEntry, error) {
	if err := validateAmount(amount); err != nil {
		return models.Account{}, models.TransactionEntry{}, err
	}
	return l.apply(ctx, ownerID, amount, models.KindDeposit)
}

// Withdraw subtracts amount from the owner's balance and records a withdrawal
// entry, provided every withdrawal rule passes against the balance read in the
// same attempt.
func (l *Ledger) Withdraw(ctx context.Context, ownerID string, amount decimal.Decimal) (models.Account, models.TransactionEntry, error) {
	if err := validateAmount(amount); err != nil {
		return models.Account{}, models.TransactionEntry{}, err
	}
	return l.apply(ctx, ownerID, amount, models.KindWithdrawal)
}

// apply drives the read-validate-commit cycle with bounded retry.
//
// Every iteration starts from a fresh read: the balance, the version token,
// the rule evaluation and the entry are all rebuilt from the state observed in
// that attempt, and a conflicted attempt leaves nothing behind. Rule failures
// and missing accounts are deterministic and are never retried; only a lost
// optimistic write triggers another iteration.
func (l *Ledger) apply(ctx context.Context, ownerID string, amount decimal.Decimal, kind models.TransactionKind) (models.Account, models.TransactionEntry, error) {
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		account, err := l.store.GetAccountByOwner(ctx, ownerID)
		if err != nil {
			if errors.Is(err, interfaces.ErrAccountNotFound) {
				return models.Account{}, models.TransactionEntry{}, ErrAccountNotFound
			}
			return models.Account{}, models.TransactionEntry{}, fmt.Errorf("read account: %w", err)
		}

		if kind == models.KindWithdrawal {
			if err := rules.Evaluate(account, amount, l.withdrawRules); err != nil {
				return models.Account{}, models.TransactionEntry{}, err
			}
		}

		delta := amount
		if kind == models.KindWithdrawal {
			delta = amount.Neg()
		}
		newBalance := account.Balance.Add(delta)

		entry := models.TransactionEntry{
			ID:         uuid.New().String(),
			AccountID:  account.ID,
			Amount:     delta,
			Kind:       kind,
			OccurredAt: l.now().UTC(),
		}

		err = l.store.CommitChange(ctx, account.ID, account.Version, newBalance, entry)
		if err == nil {
			account.Balance = newBalance
			account.Version++
			l.log.Info("transaction committed",
				zap.String("account_id", account.ID),
				zap.String("kind", string(kind)),
				zap.String("amount", delta.String()),
				zap.Int("attempt", attempt),
			)
			l.publish(entry, newBalance)
			return account, entry, nil
		}
		if !errors.Is(err, interfaces.ErrVersionConflict) {
			return models.Account{}, models.TransactionEntry{}, fmt.Errorf("commit change: %w", err)
		}

		// Lost the write race. The stale copy is discarded and the next
		// iteration re-reads and re-validates against the new balance.
		l.log.Debug("write conflict, retrying",
			zap.String("account_id", account.ID),
			zap.Int("attempt", attempt),
		)
	}
	return models.Account{}, models.TransactionEntry{}, ErrRetriesExhausted
}

// publish emits the transaction-completed event. Best-effort: the commit
// already happened, so a publish failure is logged and swallowed.
func (l *Ledger) publish(entry models.TransactionEntry, balance decimal.Decimal) {
	if l.publisher == nil {
		return
	}
	evt := eventmodels.TransactionCompleted{
		EntryID:    entry.ID,
		AccountID:  entry.AccountID,
		Kind:       string(entry.Kind),
		Amount:     entry.Amount,
		Balance:    balance,
		OccurredAt: entry.OccurredAt,
	}
	if err := l.publisher.Publish(TopicTransactionCompleted, evt); err != nil {
		l.log.Warn("event publish failed", zap.String("entry_id", entry.ID), zap.Error(err))
	}
}

// validateAmount rejects non-positive amounts and amounts with more than two
// decimal places before any store read happens.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	return nil
}
