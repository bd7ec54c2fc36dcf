package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates the supported account kinds
type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
)

// IsValid reports whether t is a known account type
func (t AccountType) IsValid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// Account represents a balance-holding account owned by a client.
// ClientName and ClientStatus are denormalized copies kept current by the
// client sync projection; client identity itself lives in another service.
type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"account_number"`
	AccountType   AccountType     `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        bool            `json:"status"`
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name"`
	ClientStatus  bool            `json:"client_status"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

// AccountPatch carries a partial update; nil fields are left untouched.
// Balance, account number and client identity fields are never patchable.
type AccountPatch struct {
	AccountType *AccountType `json:"account_type,omitempty"`
	Status      *bool        `json:"status,omitempty"`
}

// IsValid checks the fields a new account must carry
func (a *Account) IsValid() bool {
	return a.AccountNumber != "" && a.AccountType.IsValid() && a.ClientID != ""
}

// HasSufficientBalance reports whether the balance covers a debit of amount
func (a *Account) HasSufficientBalance(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// IsClientActive reports whether the owning client is active
func (a *Account) IsClientActive() bool {
	return a.ClientStatus
}
