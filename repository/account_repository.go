package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ben-j-c/bros-server-bot/database"
	"github.com/ben-j-c/bros-server-bot/models"
	"github.com/ben-j-c/bros-server-bot/service"
)

// queryable is satisfied by both *pgxpool.Pool and pgx.Tx
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository bound to a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByUserID retrieves an account by user ID, returning nil if none exists
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	return r.get(ctx, userID, false)
}

// GetByUserIDForUpdate retrieves an account and locks its row until the
// enclosing transaction ends
func (r *AccountRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*models.Account, error) {
	return r.get(ctx, userID, true)
}

func (r *AccountRepository) get(ctx context.Context, userID string, forUpdate bool) (*models.Account, error) {
	query := `
		SELECT user_id, balance, last_payday
		FROM accounts
		WHERE user_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var account models.Account
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.Balance,
		&account.LastPayday,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	return &account, nil
}

// CreateIfAbsent lazily creates an account with zero balance. The last payday
// is backdated one full grant window so a fresh account is immediately
// grant-eligible.
func (r *AccountRepository) CreateIfAbsent(ctx context.Context, userID string) error {
	query := `
		INSERT INTO accounts (user_id, balance, last_payday)
		VALUES ($1, 0, NOW() - INTERVAL '24 hours')
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to create account %s: %w", userID, err)
	}

	return nil
}

// AddBalance credits an existing account atomically
func (r *AccountRepository) AddBalance(ctx context.Context, userID string, amount int64) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add balance for account %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", userID)
	}

	return nil
}

// DeductBalance debits an existing account atomically. The WHERE guard keeps
// the balance non-negative; zero rows affected means insufficient funds.
func (r *AccountRepository) DeductBalance(ctx context.Context, userID string, amount int64) error {
	query := `
		UPDATE accounts
		SET balance = balance - $1
		WHERE user_id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for account %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrInsufficientFunds
	}

	return nil
}

// SetLastPayday records the time of the latest daily grant
func (r *AccountRepository) SetLastPayday(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE accounts
		SET last_payday = $1
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, at, userID)
	if err != nil {
		return fmt.Errorf("failed to set last payday for account %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", userID)
	}

	return nil
}
