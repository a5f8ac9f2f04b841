package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ben-j-c/bros-server-bot/events"
	"github.com/ben-j-c/bros-server-bot/models"
)

type lottoService struct {
	uowFactory   UnitOfWorkFactory
	ledger       LedgerService
	ticketPrice  int64
	drawInterval time.Duration
}

// NewLottoService creates a new lottery service. ticketPrice is in cents.
func NewLottoService(uowFactory UnitOfWorkFactory, ledger LedgerService, ticketPrice int64, drawInterval time.Duration) LottoService {
	return &lottoService{
		uowFactory:   uowFactory,
		ledger:       ledger,
		ticketPrice:  ticketPrice,
		drawInterval: drawInterval,
	}
}

func (s *lottoService) CoinFlip(ctx context.Context, userID string, bet int64) (*models.FlipResult, error) {
	if bet <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := s.ledger.Withdraw(ctx, uow, userID, bet); err != nil {
		return nil, err
	}

	won := rand.Intn(2) == 0
	var payout int64
	if won {
		payout = 2 * bet
		if err := s.ledger.Deposit(ctx, uow, userID, payout); err != nil {
			return nil, err
		}
	}

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.FlipResult{
		Won:        won,
		Bet:        bet,
		Payout:     payout,
		NewBalance: account.Balance,
	}, nil
}

func (s *lottoService) BuyTickets(ctx context.Context, userID string, count int64) (*models.TicketPurchase, error) {
	if count <= 0 {
		return nil, ErrInvalidAmount
	}

	cost := count * s.ticketPrice

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := s.ledger.Withdraw(ctx, uow, userID, cost); err != nil {
		return nil, err
	}

	if err := uow.LottoPoolRepository().AddTickets(ctx, userID, count); err != nil {
		return nil, fmt.Errorf("failed to add tickets: %w", err)
	}

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TicketPurchase{
		Count:      count,
		Cost:       cost,
		NewBalance: account.Balance,
	}, nil
}

func (s *lottoService) PoolValue(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	total, err := uow.LottoPoolRepository().TotalTickets(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get pool total: %w", err)
	}

	return total * s.ticketPrice, nil
}

func (s *lottoService) NextDrawTime(ctx context.Context) (*time.Time, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.LottoRepository().GetLatestRound(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest round: %w", err)
	}
	if round == nil {
		return nil, nil
	}

	next := round.CreationDate.Add(s.drawInterval)
	return &next, nil
}

// ConductDraw reads the pool, selects a weighted winner, pays out the pot,
// clears the pool, and persists the completed round as one transaction.
func (s *lottoService) ConductDraw(ctx context.Context) (*models.DrawResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.LottoPoolRepository().GetEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool: %w", err)
	}

	var total int64
	for _, entry := range entries {
		total += entry.Count
	}

	if total == 0 {
		// Nobody bought in; record the round so the schedule advances
		round := &models.LottoRound{}
		if err := uow.LottoRepository().CreateCompletedRound(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to record empty round: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}

		log.WithField("round_id", round.ID).Info("Lottery draw completed with empty pool")
		return &models.DrawResult{Round: round}, nil
	}

	winningTicket := rand.Int63n(total)
	winner := pickWinner(entries, winningTicket)
	pot := total * s.ticketPrice

	if err := s.ledger.Deposit(ctx, uow, winner.UserID, pot); err != nil {
		return nil, fmt.Errorf("failed to pay out pot: %w", err)
	}

	if err := uow.LottoPoolRepository().Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear pool: %w", err)
	}

	round := &models.LottoRound{
		Pot:           pot,
		Winner:        &winner.UserID,
		WinningTicket: &winningTicket,
	}
	if err := uow.LottoRepository().CreateCompletedRound(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to record round: %w", err)
	}

	uow.EventBus().Publish(events.DrawCompletedEvent{
		RoundID:       round.ID,
		Winner:        winner.UserID,
		Pot:           pot,
		WinningTicket: winningTicket,
		TotalTickets:  total,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"round_id":       round.ID,
		"winner":         winner.UserID,
		"pot":            pot,
		"winning_ticket": winningTicket,
		"total_tickets":  total,
	}).Info("Lottery draw completed")

	return &models.DrawResult{
		Round:         round,
		Winner:        winner.UserID,
		Pot:           pot,
		WinningTicket: winningTicket,
		TotalTickets:  total,
	}, nil
}

// pickWinner walks the entries in stable order accumulating counts and selects
// the entry holding winningTicket. winningTicket must be in [0, total); the
// final entry absorbs the top boundary.
func pickWinner(entries []*models.PoolEntry, winningTicket int64) *models.PoolEntry {
	var sum int64
	for _, entry := range entries {
		sum += entry.Count
		if winningTicket < sum {
			return entry
		}
	}
	return entries[len(entries)-1]
}
