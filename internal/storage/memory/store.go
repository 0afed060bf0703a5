package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// AccountStore is an in-memory implementation of interfaces.AccountStore.
// One mutex guards all state, which makes the version-conditioned commit
// atomic the same way a database transaction would: the version check, the
// balance update and the entry append happen as one indivisible step.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account            // account id -> account
	byOwner  map[string]string                    // owner id -> account id
	entries  map[string][]models.TransactionEntry // account id -> entries, newest first
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]models.Account),
		byOwner:  make(map[string]string),
		entries:  make(map[string][]models.TransactionEntry),
	}
}

// CreateAccount inserts a new account, enforcing one account per owner.
func (s *AccountStore) CreateAccount(ctx context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byOwner[account.OwnerID]; exists {
		return interfaces.ErrOwnerTaken
	}
	s.accounts[account.ID] = account
	s.byOwner[account.OwnerID] = account.ID
	return nil
}

// GetAccountByOwner returns a copy of the account linked to an owner id.
// Callers get a snapshot; mutating it has no effect on the store.
func (s *AccountStore) GetAccountByOwner(ctx context.Context, ownerID string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID, ok := s.byOwner[ownerID]
	if !ok {
		return models.Account{}, interfaces.ErrAccountNotFound
	}
	return s.accounts[accountID], nil
}

// GetAccountByID returns a copy of the account with the given id.
func (s *AccountStore) GetAccountByID(ctx context.Context, accountID string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return models.Account{}, interfaces.ErrAccountNotFound
	}
	return account, nil
}

// CommitChange applies the balance change and appends the entry if and only
// if the stored account is still at expectedVersion. On a stale version it
// returns interfaces.ErrVersionConflict and leaves the account untouched.
func (s *AccountStore) CommitChange(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, entry models.TransactionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return interfaces.ErrAccountNotFound
	}
	if account.Version != expectedVersion {
		return interfaces.ErrVersionConflict
	}

	account.Balance = newBalance
	account.Version++
	s.accounts[accountID] = account
	// prepend so entries read newest first, matching the SQL store's ordering
	s.entries[accountID] = append([]models.TransactionEntry{entry}, s.entries[accountID]...)
	return nil
}

// GetEntriesByAccount returns a copy of the account's entries, newest first.
func (s *AccountStore) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.TransactionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.entries[accountID]
	copied := make([]models.TransactionEntry, len(stored))
	copy(copied, stored)
	return copied, nil
}

// Compile-time check: ensure AccountStore implements the store interface
var _ interfaces.AccountStore = (*AccountStore)(nil)
