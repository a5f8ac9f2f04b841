package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ben-j-c/bros-server-bot/database"
	"github.com/ben-j-c/bros-server-bot/models"
)

// LottoRepository implements the service.LottoRepository interface
type LottoRepository struct {
	q queryable
}

// NewLottoRepository creates a new lottery round repository
func NewLottoRepository(db *database.DB) *LottoRepository {
	return &LottoRepository{q: db.Pool}
}

// newLottoRepositoryWithTx creates a new lottery round repository bound to a transaction
func newLottoRepositoryWithTx(tx queryable) *LottoRepository {
	return &LottoRepository{q: tx}
}

// GetLatestRound returns the most recently created round, or nil if none exists
func (r *LottoRepository) GetLatestRound(ctx context.Context) (*models.LottoRound, error) {
	query := `
		SELECT id, creation_date, completed, pot, winner, winning_ticket
		FROM lotto
		ORDER BY creation_date DESC, id DESC
		LIMIT 1
	`

	var round models.LottoRound
	err := r.q.QueryRow(ctx, query).Scan(
		&round.ID,
		&round.CreationDate,
		&round.Completed,
		&round.Pot,
		&round.Winner,
		&round.WinningTicket,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest lotto round: %w", err)
	}

	return &round, nil
}

// CreateCompletedRound persists a finished round and fills in its generated
// ID and creation date
func (r *LottoRepository) CreateCompletedRound(ctx context.Context, round *models.LottoRound) error {
	query := `
		INSERT INTO lotto (completed, pot, winner, winning_ticket)
		VALUES (TRUE, $1, $2, $3)
		RETURNING id, creation_date, completed
	`

	err := r.q.QueryRow(ctx, query, round.Pot, round.Winner, round.WinningTicket).Scan(
		&round.ID,
		&round.CreationDate,
		&round.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to create completed lotto round: %w", err)
	}

	return nil
}
