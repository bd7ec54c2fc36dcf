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
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction, tx pgx.Tx) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByIDTx(ctx context.Context, id int64, tx pgx.Tx) (*domain.Transaction, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) ([]*domain.Transaction, error)
	GetByAccountNumberAndDateBetween(ctx context.Context, accountNumber string, from, to time.Time) ([]*domain.Transaction, error)
	GetAll(ctx context.Context) ([]*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction, tx pgx.Tx) error
}

type transactionRepo struct {
	db *pgxpool.Pool
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

const baseTransactionQuery = `
	SELECT id, date, transaction_type, amount, balance, account_number
	FROM transactions`

// scanTransaction scans a row into a domain.Transaction
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(&t.ID, &t.Date, &t.TransactionType, &t.Amount, &t.Balance, &t.AccountNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	return &t, nil
}

// scanTransactionRows scans multiple rows into a domain.Transaction slice
func scanTransactionRows(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()
	var transactions []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction

		err := rows.Scan(&t.ID, &t.Date, &t.TransactionType, &t.Amount, &t.Balance, &t.AccountNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// Create inserts a transaction record within the caller's transaction.
// The account balance update and this insert share one unit of work.
func (r *transactionRepo) Create(ctx context.Context, t *domain.Transaction, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (date, transaction_type, amount, balance, account_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, t.Date, t.TransactionType, t.Amount, t.Balance, t.AccountNumber).Scan(&t.ID)

	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByID fetches a transaction by primary key
func (r *transactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, baseTransactionQuery+` WHERE id=$1`, id)
	return scanTransaction(row)
}

// GetByIDTx same as GetByID but within a transaction
func (r *transactionRepo) GetByIDTx(ctx context.Context, id int64, tx pgx.Tx) (*domain.Transaction, error) {
	row := tx.QueryRow(ctx, baseTransactionQuery+` WHERE id=$1`, id)
	return scanTransaction(row)
}

// GetByAccountNumber fetches all transactions posted against an account
func (r *transactionRepo) GetByAccountNumber(ctx context.Context, accountNumber string) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		baseTransactionQuery+` WHERE account_number=$1 ORDER BY date ASC`, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by account: %w", err)
	}
	return scanTransactionRows(rows)
}

// GetByAccountNumberAndDateBetween fetches transactions whose date falls in
// [from, to] inclusive, in chronological order
func (r *transactionRepo) GetByAccountNumberAndDateBetween(ctx context.Context, accountNumber string, from, to time.Time) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, baseTransactionQuery+`
		WHERE account_number=$1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, accountNumber, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by date range: %w", err)
	}
	return scanTransactionRows(rows)
}

// GetAll fetches every transaction
func (r *transactionRepo) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, baseTransactionQuery+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return scanTransactionRows(rows)
}

// Update rewrites an amended transaction within the caller's transaction
func (r *transactionRepo) Update(ctx context.Context, t *domain.Transaction, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET transaction_type = $1, amount = $2, balance = $3
		WHERE id = $4
	`, t.TransactionType, t.Amount, t.Balance, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
