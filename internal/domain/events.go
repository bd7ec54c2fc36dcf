package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientUpdatedEvent is published by the client identity service whenever
// a client's name or active status changes. Delivery is at-least-once.
type ClientUpdatedEvent struct {
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	ClientStatus bool   `json:"client_status"`
}

// TransactionEvent notifies downstream consumers of a posted movement
type TransactionEvent struct {
	EventID         string          `json:"event_id"`
	EventType       string          `json:"event_type"` // transaction.completed, transaction.amended
	AccountNumber   string          `json:"account_number"`
	TransactionID   int64           `json:"transaction_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Timestamp       time.Time       `json:"timestamp"`
}

const (
	EventTransactionCompleted = "transaction.completed"
	EventTransactionAmended   = "transaction.amended"
)
