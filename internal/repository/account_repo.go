package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account-service/internal/domain"
	xerrors "account-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// Single account queries (optimized with proper indexes)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// GetByAccountNumberForUpdate locks the account row for the duration of
	// the transaction; concurrent posts against the same account serialize
	// on this lock.
	GetByAccountNumberForUpdate(ctx context.Context, accountNumber string, tx pgx.Tx) (*domain.Account, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)

	// Client-based queries
	GetByClientID(ctx context.Context, clientID string) ([]*domain.Account, error)
	GetAll(ctx context.Context) ([]*domain.Account, error)

	// Mutations. Each statement writes only the columns its caller owns:
	// balance moves exclusively through UpdateBalanceTx under the row lock,
	// so the tx-less updates can never clobber a concurrently posted
	// movement.
	Create(ctx context.Context, account *domain.Account, tx pgx.Tx) error
	UpdateEditableFields(ctx context.Context, accountNumber string, accountType domain.AccountType, status bool) error
	UpdateClientFields(ctx context.Context, accountNumber, clientName string, clientStatus bool) error
	UpdateBalanceTx(ctx context.Context, accountNumber string, balance decimal.Decimal, tx pgx.Tx) error

	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type accountRepo struct {
	db *pgxpool.Pool
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Query helpers to reduce duplication
const (
	baseSelectQuery = `
		SELECT id, account_number, account_type, balance, status,
		       client_id, client_name, client_status, created_at, updated_at
		FROM accounts`
)

// scanAccount scans a row into a domain.Account
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.Status,
		&a.ClientID, &a.ClientName, &a.ClientStatus, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &a, nil
}

// scanAccountRows scans multiple rows into a domain.Account slice
func scanAccountRows(rows pgx.Rows) ([]*domain.Account, error) {
	defer rows.Close()
	var accounts []*domain.Account

	for rows.Next() {
		var a domain.Account

		err := rows.Scan(
			&a.ID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.Status,
			&a.ClientID, &a.ClientName, &a.ClientStatus, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}

		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return accounts, nil
}

// GetByAccountNumber fetches an account by account number (unique index)
func (r *accountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, baseSelectQuery+` WHERE account_number=$1`, accountNumber)
	return scanAccount(row)
}

// GetByAccountNumberForUpdate fetches and row-locks an account within a transaction
func (r *accountRepo) GetByAccountNumberForUpdate(ctx context.Context, accountNumber string, tx pgx.Tx) (*domain.Account, error) {
	row := tx.QueryRow(ctx, baseSelectQuery+` WHERE account_number=$1 FOR UPDATE`, accountNumber)
	return scanAccount(row)
}

// ExistsByAccountNumber reports whether an account number is already taken
func (r *accountRepo) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number=$1)`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// GetByClientID fetches all accounts owned by a client
func (r *accountRepo) GetByClientID(ctx context.Context, clientID string) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, baseSelectQuery+` WHERE client_id=$1 ORDER BY id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by client: %w", err)
	}

	accounts, err := scanAccountRows(rows)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, xerrors.ErrNotFound
	}

	return accounts, nil
}

// GetAll fetches every account
func (r *accountRepo) GetAll(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, baseSelectQuery+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	return scanAccountRows(rows)
}

// Create inserts a single account within a transaction
func (r *accountRepo) Create(ctx context.Context, account *domain.Account, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	if !account.IsValid() {
		return xerrors.ErrInvalidInput
	}

	now := time.Now()
	err := tx.QueryRow(ctx, `
		INSERT INTO accounts (
			account_number, account_type, balance, status,
			client_id, client_name, client_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		account.AccountNumber,
		account.AccountType,
		account.Balance,
		account.Status,
		account.ClientID,
		account.ClientName,
		account.ClientStatus,
		now,
		now,
	).Scan(&account.ID)

	if err != nil {
		if xerrors.ParsePGErrorCode(err) == "23505" {
			return xerrors.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

const updateEditableFieldsQuery = `
	UPDATE accounts
	SET account_type = $1,
	    status = $2,
	    updated_at = $3
	WHERE account_number = $4`

const updateClientFieldsQuery = `
	UPDATE accounts
	SET client_name = $1,
	    client_status = $2,
	    updated_at = $3
	WHERE account_number = $4`

const updateBalanceQuery = `
	UPDATE accounts
	SET balance = $1,
	    updated_at = $2
	WHERE account_number = $3`

// UpdateEditableFields rewrites account type and status. Balance and client
// columns are never part of this statement.
func (r *accountRepo) UpdateEditableFields(ctx context.Context, accountNumber string, accountType domain.AccountType, status bool) error {
	cmdTag, err := r.db.Exec(ctx, updateEditableFieldsQuery,
		accountType, status, time.Now(), accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update account fields: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateClientFields rewrites the denormalized client name and status
func (r *accountRepo) UpdateClientFields(ctx context.Context, accountNumber, clientName string, clientStatus bool) error {
	cmdTag, err := r.db.Exec(ctx, updateClientFieldsQuery,
		clientName, clientStatus, time.Now(), accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update client fields: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateBalanceTx writes the account balance within the caller's
// transaction. Callers hold the FOR UPDATE lock on the row, so this is the
// only statement allowed to touch the balance column.
func (r *accountRepo) UpdateBalanceTx(ctx context.Context, accountNumber string, balance decimal.Decimal, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	cmdTag, err := tx.Exec(ctx, updateBalanceQuery,
		balance, time.Now(), accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update balance in tx: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
