package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a posted movement against one account. Amount is signed:
// positive credits, negative debits. Balance is the account balance right
// after this transaction was applied; it is a snapshot, never recomputed.
type Transaction struct {
	ID              int64           `json:"id"`
	Date            time.Time       `json:"date"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	AccountNumber   string          `json:"account_number"`
}

// IsDeposit reports whether the movement credits the account
func (t *Transaction) IsDeposit() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// IsWithdrawal reports whether the movement debits the account
func (t *Transaction) IsWithdrawal() bool {
	return t.Amount.LessThan(decimal.Zero)
}

// AbsoluteAmount returns the unsigned magnitude of the movement
func (t *Transaction) AbsoluteAmount() decimal.Decimal {
	return t.Amount.Abs()
}
