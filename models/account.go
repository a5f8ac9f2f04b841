package models

import "time"

// Account represents a user's ledger account. Balances are stored in cents.
type Account struct {
	UserID     string
	Balance    int64
	LastPayday time.Time
}

// GrantResult is the outcome of a successful daily grant
type GrantResult struct {
	Amount     int64
	NewBalance int64
}

// TransferResult is the outcome of a successful transfer
type TransferResult struct {
	Amount     int64
	NewBalance int64
}
