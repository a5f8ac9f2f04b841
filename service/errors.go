package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAmount is returned when an operation is given a non-positive
	// amount or ticket count
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a debit would make a balance
	// negative
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// CooldownActiveError is returned by GrantDaily when the user's grant window
// has not elapsed. Remaining is truncated to the minute.
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	hours := int(e.Remaining.Hours())
	minutes := int(e.Remaining.Minutes()) % 60
	return fmt.Sprintf("wait for %d hours and %d minutes", hours, minutes)
}
