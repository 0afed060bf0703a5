package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// AccountStore is the postgres implementation of interfaces.AccountStore.
// The schema it expects is documented in schema.sql.
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore wraps an open database handle.
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// CreateAccount inserts a new account. The unique index on owner_id enforces
// one account per owner; a duplicate maps to interfaces.ErrOwnerTaken.
func (s *AccountStore) CreateAccount(ctx context.Context, account models.Account) error {
	const query = `INSERT INTO accounts (id, owner_id, first_name, last_name, balance, version, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		account.ID, account.OwnerID, account.FirstName, account.LastName,
		account.Balance, account.Version, account.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return interfaces.ErrOwnerTaken
	}
	return err
}

// GetAccountByOwner returns the account linked to an owner id.
func (s *AccountStore) GetAccountByOwner(ctx context.Context, ownerID string) (models.Account, error) {
	const query = `SELECT id, owner_id, first_name, last_name, balance, version, created_at
	FROM accounts WHERE owner_id = $1`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, ownerID))
}

// GetAccountByID returns the account with the given id.
func (s *AccountStore) GetAccountByID(ctx context.Context, accountID string) (models.Account, error) {
	const query = `SELECT id, owner_id, first_name, last_name, balance, version, created_at
	FROM accounts WHERE id = $1`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, accountID))
}

func (s *AccountStore) scanAccount(row *sql.Row) (models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.FirstName,
		&account.LastName,
		&account.Balance,
		&account.Version,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, interfaces.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// CommitChange writes the new balance and the ledger entry in one database
// transaction. The UPDATE is conditioned on the version the caller read; if
// another writer got there first the update matches zero rows and the whole
// transaction rolls back with interfaces.ErrVersionConflict.
func (s *AccountStore) CommitChange(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, entry models.TransactionEntry) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const updateQuery = `UPDATE accounts SET balance = $1, version = version + 1
	WHERE id = $2 AND version = $3`

	res, err := dbTx.ExecContext(ctx, updateQuery, newBalance, accountID, expectedVersion)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the account vanished or the version is stale.
		var one int
		scanErr := dbTx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1`, accountID).Scan(&one)
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = interfaces.ErrAccountNotFound
		} else {
			err = interfaces.ErrVersionConflict
		}
		return err
	}

	const insertQuery = `INSERT INTO transaction_entries (id, account_id, amount, kind, occurred_at)
	VALUES ($1, $2, $3, $4, $5)`

	_, err = dbTx.ExecContext(ctx, insertQuery,
		entry.ID, entry.AccountID, entry.Amount, string(entry.Kind), entry.OccurredAt,
	)
	if err != nil {
		return err
	}

	err = dbTx.Commit()
	return err
}

// GetEntriesByAccount returns the account's ledger entries, newest first.
func (s *AccountStore) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.TransactionEntry, error) {
	const query = `SELECT id, account_id, amount, kind, occurred_at
	FROM transaction_entries WHERE account_id = $1
	ORDER BY occurred_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TransactionEntry
	for rows.Next() {
		var entry models.TransactionEntry
		var kind string
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &kind, &entry.OccurredAt); err != nil {
			return nil, err
		}
		entry.Kind = models.TransactionKind(kind)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ interfaces.AccountStore = (*AccountStore)(nil)
