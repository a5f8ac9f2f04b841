package repository

import (
	"context"
	"fmt"

	"github.com/ben-j-c/bros-server-bot/database"
	"github.com/ben-j-c/bros-server-bot/models"
)

// LottoPoolRepository implements the service.LottoPoolRepository interface
type LottoPoolRepository struct {
	q queryable
}

// NewLottoPoolRepository creates a new ticket pool repository
func NewLottoPoolRepository(db *database.DB) *LottoPoolRepository {
	return &LottoPoolRepository{q: db.Pool}
}

// newLottoPoolRepositoryWithTx creates a new ticket pool repository bound to a transaction
func newLottoPoolRepositoryWithTx(tx queryable) *LottoPoolRepository {
	return &LottoPoolRepository{q: tx}
}

// AddTickets adds tickets for a user, accumulating onto any existing entry
func (r *LottoPoolRepository) AddTickets(ctx context.Context, userID string, count int64) error {
	query := `
		INSERT INTO lotto_pool (user_id, count)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET count = lotto_pool.count + EXCLUDED.count
	`

	if _, err := r.q.Exec(ctx, query, userID, count); err != nil {
		return fmt.Errorf("failed to add tickets for user %s: %w", userID, err)
	}

	return nil
}

// GetEntries returns all pool entries in primary-key order. The order must be
// stable so the winning ticket maps deterministically onto an entry.
func (r *LottoPoolRepository) GetEntries(ctx context.Context) ([]*models.PoolEntry, error) {
	query := `
		SELECT user_id, count
		FROM lotto_pool
		ORDER BY user_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.PoolEntry
	for rows.Next() {
		var entry models.PoolEntry
		if err := rows.Scan(&entry.UserID, &entry.Count); err != nil {
			return nil, fmt.Errorf("failed to scan pool entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pool entries: %w", err)
	}

	return entries, nil
}

// TotalTickets returns the sum of all ticket counts in the pool
func (r *LottoPoolRepository) TotalTickets(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(count), 0)
		FROM lotto_pool
	`

	var total int64
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum pool tickets: %w", err)
	}

	return total, nil
}

// Clear removes every entry from the pool
func (r *LottoPoolRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM lotto_pool`); err != nil {
		return fmt.Errorf("failed to clear lotto pool: %w", err)
	}

	return nil
}
