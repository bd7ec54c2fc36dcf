package xerrors

import "errors"
import "github.com/jackc/pgx/v5/pgconn"

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return ""
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input provided")
)

// Accounts
var (
	ErrAccountNotFound      = errors.New("account not found, verify the account number")
	ErrAccountAlreadyExists = errors.New("an account with this number already exists")
	ErrInactiveClient       = errors.New("cannot create account for inactive client")
	ErrInsufficientBalance  = errors.New("saldo no disponible")
)

// Transactions / reports
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrClientNotFound      = errors.New("no accounts found for this client")
)
