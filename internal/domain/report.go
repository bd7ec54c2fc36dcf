package domain

import "github.com/shopspring/decimal"

// AccountStatement aggregates one account's current balance with the
// transactions that fell inside the requested period
type AccountStatement struct {
	AccountNumber  string          `json:"account_number"`
	AccountType    AccountType     `json:"account_type"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         bool            `json:"status"`
	Transactions   []*Transaction  `json:"transactions"`
}

// ClientReport is the statement for every account a client owns
type ClientReport struct {
	ClientID   string              `json:"client_id"`
	ClientName string              `json:"client_name"`
	Accounts   []*AccountStatement `json:"accounts"`
}
