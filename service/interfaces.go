package service

import (
	"context"
	"time"

	"github.com/ben-j-c/bros-server-bot/events"
	"github.com/ben-j-c/bros-server-bot/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByUserID retrieves an account, or nil if none exists
	GetByUserID(ctx context.Context, userID string) (*models.Account, error)

	// GetByUserIDForUpdate retrieves an account and locks its row for the
	// duration of the enclosing transaction, or nil if none exists
	GetByUserIDForUpdate(ctx context.Context, userID string) (*models.Account, error)

	// CreateIfAbsent lazily creates an account with zero balance and a
	// last payday one grant window in the past
	CreateIfAbsent(ctx context.Context, userID string) error

	// AddBalance credits an existing account atomically
	AddBalance(ctx context.Context, userID string, amount int64) error

	// DeductBalance debits an existing account atomically, failing with
	// ErrInsufficientFunds if the debit would make the balance negative
	DeductBalance(ctx context.Context, userID string, amount int64) error

	// SetLastPayday records the time of the latest daily grant
	SetLastPayday(ctx context.Context, userID string, at time.Time) error
}

// LottoRepository defines the interface for lottery round data access
type LottoRepository interface {
	// GetLatestRound returns the most recently created round, or nil if none
	GetLatestRound(ctx context.Context) (*models.LottoRound, error)

	// CreateCompletedRound persists a finished round and fills in its ID and
	// creation date
	CreateCompletedRound(ctx context.Context, round *models.LottoRound) error
}

// LottoPoolRepository defines the interface for the current ticket pool
type LottoPoolRepository interface {
	// AddTickets adds tickets for a user, accumulating onto any existing entry
	AddTickets(ctx context.Context, userID string, count int64) error

	// GetEntries returns all pool entries in stable primary-key order
	GetEntries(ctx context.Context) ([]*models.PoolEntry, error)

	// TotalTickets returns the sum of all ticket counts in the pool
	TotalTickets(ctx context.Context) (int64, error)

	// Clear removes every entry from the pool
	Clear(ctx context.Context) error
}

// EventPublisher publishes events within a unit of work; events become visible
// only after the unit of work commits
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents one atomic transaction over the store
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	LottoRepository() LottoRepository
	LottoPoolRepository() LottoPoolRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// LedgerService defines the interface for account balance operations
type LedgerService interface {
	// GrantDaily credits the daily grant, failing with CooldownActiveError
	// if the user's last grant was less than one window ago
	GrantDaily(ctx context.Context, userID string) (*models.GrantResult, error)

	// GetBalance returns the user's balance; unknown accounts read as zero
	GetBalance(ctx context.Context, userID string) (int64, error)

	// Transfer moves amount from one user to another atomically
	Transfer(ctx context.Context, fromID, toID string, amount int64) (*models.TransferResult, error)

	// Withdraw debits a user inside the caller's unit of work, creating the
	// account if absent
	Withdraw(ctx context.Context, uow UnitOfWork, userID string, amount int64) error

	// Deposit credits a user inside the caller's unit of work, creating the
	// account if absent
	Deposit(ctx context.Context, uow UnitOfWork, userID string, amount int64) error
}

// LottoService defines the interface for coin flips and the daily lottery
type LottoService interface {
	// CoinFlip wagers bet on a fair coin; double or nothing
	CoinFlip(ctx context.Context, userID string, bet int64) (*models.FlipResult, error)

	// BuyTickets purchases count tickets at the configured ticket price
	BuyTickets(ctx context.Context, userID string, count int64) (*models.TicketPurchase, error)

	// PoolValue returns the current prize pool value in cents
	PoolValue(ctx context.Context) (int64, error)

	// NextDrawTime returns the estimated next draw time, or nil if no round
	// has ever been recorded
	NextDrawTime(ctx context.Context) (*time.Time, error)

	// ConductDraw selects a weighted winner from the pool, pays out the pot,
	// clears the pool, and persists the completed round, all in one
	// transaction. Returns a result with an empty winner when the pool was
	// empty.
	ConductDraw(ctx context.Context) (*models.DrawResult, error)
}
