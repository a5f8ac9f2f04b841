package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ben-j-c/bros-server-bot/events"
	"github.com/ben-j-c/bros-server-bot/models"
)

func TestLottoService_BuyTickets_Success(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPoolRepo := new(MockLottoPoolRepository)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, nil, mockPoolRepo)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// Buying 5 tickets at $1 each from a $10.00 balance leaves $5.00
	accountAfter := &models.Account{
		UserID:  "123456",
		Balance: 500,
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("DeductBalance", ctx, "123456", int64(500)).Return(nil)
	mockAccountRepo.On("GetByUserID", ctx, "123456").Return(accountAfter, nil)
	mockPoolRepo.On("AddTickets", ctx, "123456", int64(5)).Return(nil)

	result, err := service.BuyTickets(ctx, "123456", 5)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(5), result.Count)
	assert.Equal(t, int64(500), result.Cost)
	assert.Equal(t, int64(500), result.NewBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockPoolRepo.AssertExpectations(t)
}

func TestLottoService_BuyTickets_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPoolRepo := new(MockLottoPoolRepository)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, nil, mockPoolRepo)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	// No Commit expected since the debit fails

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("DeductBalance", ctx, "123456", int64(100000)).Return(ErrInsufficientFunds)

	result, err := service.BuyTickets(ctx, "123456", 1000)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, result)

	// No tickets enter the pool when the purchase fails
	mockPoolRepo.AssertNotCalled(t, "AddTickets", mock.Anything, mock.Anything, mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
}

func TestLottoService_BuyTickets_InvalidCount(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	for _, count := range []int64{0, -1, -100} {
		result, err := service.BuyTickets(ctx, "123456", count)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, result)
	}

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLottoService_CoinFlip_Outcomes(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, nil, nil)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	account := &models.Account{
		UserID:  "123456",
		Balance: 500,
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("DeductBalance", ctx, "123456", int64(500)).Return(nil)
	mockAccountRepo.On("AddBalance", ctx, "123456", int64(1000)).Return(nil).Maybe()
	mockAccountRepo.On("GetByUserID", ctx, "123456").Return(account, nil)

	result, err := service.CoinFlip(ctx, "123456", 500)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(500), result.Bet)
	if result.Won {
		assert.Equal(t, int64(1000), result.Payout)
	} else {
		assert.Equal(t, int64(0), result.Payout)
	}

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestLottoService_CoinFlip_InvalidBet(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	result, err := service.CoinFlip(ctx, "123456", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, result)

	result, err = service.CoinFlip(ctx, "123456", -500)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, result)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLottoService_CoinFlip_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, nil, nil)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("DeductBalance", ctx, "123456", int64(99999)).Return(ErrInsufficientFunds)

	result, err := service.CoinFlip(ctx, "123456", 99999)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, result)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
}

func TestLottoService_PoolValue(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPoolRepo := new(MockLottoPoolRepository)

	// Configure unit of work
	mockUoW.SetRepositories(nil, nil, mockPoolRepo)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPoolRepo.On("TotalTickets", ctx).Return(int64(42), nil)

	value, err := service.PoolValue(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(4200), value)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockPoolRepo.AssertExpectations(t)
}

func TestLottoService_NextDrawTime_NoRound(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockLottoRepo := new(MockLottoRepository)

	// Configure unit of work
	mockUoW.SetRepositories(nil, mockLottoRepo, nil)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLottoRepo.On("GetLatestRound", ctx).Return(nil, nil)

	next, err := service.NextDrawTime(ctx)

	assert.NoError(t, err)
	assert.Nil(t, next)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockLottoRepo.AssertExpectations(t)
}

func TestLottoService_NextDrawTime_FromLatestRound(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockLottoRepo := new(MockLottoRepository)

	// Configure unit of work
	mockUoW.SetRepositories(nil, mockLottoRepo, nil)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	round := &models.LottoRound{
		ID:           7,
		CreationDate: created,
		Completed:    true,
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLottoRepo.On("GetLatestRound", ctx).Return(round, nil)

	next, err := service.NextDrawTime(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, next)
	assert.Equal(t, created.Add(24*time.Hour), *next)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockLottoRepo.AssertExpectations(t)
}

func TestLottoService_ConductDraw_PaysWinnerAndClearsPool(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLottoRepo := new(MockLottoRepository)
	mockPoolRepo := new(MockLottoPoolRepository)
	mockPublisher := new(MockEventPublisher)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, mockLottoRepo, mockPoolRepo)
	mockUoW.SetEventBus(mockPublisher)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// A single entrant always wins their own pot
	entries := []*models.PoolEntry{
		{UserID: "123456", Count: 10},
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPoolRepo.On("GetEntries", ctx).Return(entries, nil)
	mockPoolRepo.On("Clear", ctx).Return(nil)

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("AddBalance", ctx, "123456", int64(1000)).Return(nil)

	mockLottoRepo.On("CreateCompletedRound", ctx, mock.MatchedBy(func(r *models.LottoRound) bool {
		return r.Pot == 1000 &&
			r.Winner != nil && *r.Winner == "123456" &&
			r.WinningTicket != nil && *r.WinningTicket >= 0 && *r.WinningTicket < 10
	})).Return(nil).Run(func(args mock.Arguments) {
		round := args.Get(1).(*models.LottoRound)
		round.ID = 99
		round.CreationDate = time.Now().UTC()
		round.Completed = true
	})

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		draw, ok := e.(events.DrawCompletedEvent)
		return ok &&
			draw.RoundID == 99 &&
			draw.Winner == "123456" &&
			draw.Pot == 1000 &&
			draw.TotalTickets == 10
	})).Return()

	result, err := service.ConductDraw(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "123456", result.Winner)
	assert.Equal(t, int64(1000), result.Pot)
	assert.Equal(t, int64(10), result.TotalTickets)
	assert.Equal(t, int64(99), result.Round.ID)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockLottoRepo.AssertExpectations(t)
	mockPoolRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestLottoService_ConductDraw_EmptyPool(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLottoRepo := new(MockLottoRepository)
	mockPoolRepo := new(MockLottoPoolRepository)
	mockPublisher := new(MockEventPublisher)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, mockLottoRepo, mockPoolRepo)
	mockUoW.SetEventBus(mockPublisher)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPoolRepo.On("GetEntries", ctx).Return([]*models.PoolEntry{}, nil)

	// An empty round still gets recorded so the schedule advances
	mockLottoRepo.On("CreateCompletedRound", ctx, mock.MatchedBy(func(r *models.LottoRound) bool {
		return r.Pot == 0 && r.Winner == nil && r.WinningTicket == nil
	})).Return(nil)

	result, err := service.ConductDraw(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result.Winner)
	assert.Equal(t, int64(0), result.Pot)

	// Nobody is paid and nothing is announced
	mockAccountRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	mockPoolRepo.AssertNotCalled(t, "Clear", mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockLottoRepo.AssertExpectations(t)
	mockPoolRepo.AssertExpectations(t)
}

func TestLottoService_ConductDraw_ClearFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLottoRepo := new(MockLottoRepository)
	mockPoolRepo := new(MockLottoPoolRepository)
	mockPublisher := new(MockEventPublisher)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, mockLottoRepo, mockPoolRepo)
	mockUoW.SetEventBus(mockPublisher)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	entries := []*models.PoolEntry{
		{UserID: "123456", Count: 3},
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	// No Commit expected; the payout must not become durable

	mockPoolRepo.On("GetEntries", ctx).Return(entries, nil)
	mockPoolRepo.On("Clear", ctx).Return(errors.New("database error"))

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("AddBalance", ctx, "123456", int64(300)).Return(nil)

	result, err := service.ConductDraw(ctx)

	assert.Error(t, err)
	assert.Nil(t, result)

	mockLottoRepo.AssertNotCalled(t, "CreateCompletedRound", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockPoolRepo.AssertExpectations(t)
}

func TestPickWinner_Boundaries(t *testing.T) {
	entries := []*models.PoolEntry{
		{UserID: "a", Count: 1},
		{UserID: "b", Count: 2},
		{UserID: "c", Count: 3},
	}

	tests := []struct {
		ticket int64
		winner string
	}{
		{0, "a"},
		{1, "b"},
		{2, "b"},
		{3, "c"},
		{4, "c"},
		{5, "c"}, // top boundary lands on the final entry
	}

	for _, tt := range tests {
		winner := pickWinner(entries, tt.ticket)
		assert.Equal(t, tt.winner, winner.UserID, "ticket %d", tt.ticket)
	}
}

func TestPickWinner_SingleEntry(t *testing.T) {
	entries := []*models.PoolEntry{
		{UserID: "only", Count: 7},
	}

	for ticket := int64(0); ticket < 7; ticket++ {
		assert.Equal(t, "only", pickWinner(entries, ticket).UserID)
	}
}

// TestPickWinner_Fairness checks that over many random draws each entrant wins
// in proportion to the tickets they hold
func TestPickWinner_Fairness(t *testing.T) {
	entries := []*models.PoolEntry{
		{UserID: "heavy", Count: 2},
		{UserID: "light", Count: 1},
	}
	var total int64 = 3

	numTrials := 30000
	wins := map[string]int{}
	for i := 0; i < numTrials; i++ {
		winner := pickWinner(entries, rand.Int63n(total))
		wins[winner.UserID]++
	}

	heavyRate := float64(wins["heavy"]) / float64(numTrials)
	assert.True(t, math.Abs(heavyRate-2.0/3.0) < 0.02,
		"expected heavy holder to win ~66.7%% of draws, won %.1f%%", heavyRate*100)
}

// TestLottoService_CoinFlip_Fairness checks that a flip wins approximately half
// the time over many trials
func TestLottoService_CoinFlip_Fairness(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	// Configure unit of work
	mockUoW.SetRepositories(mockAccountRepo, nil, nil)

	ledger := NewLedgerService(mockFactory, 10000)
	service := NewLottoService(mockFactory, ledger, 100, 24*time.Hour)

	account := &models.Account{
		UserID:  "123456",
		Balance: 1000000000,
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("CreateIfAbsent", ctx, "123456").Return(nil)
	mockAccountRepo.On("DeductBalance", ctx, "123456", int64(1000)).Return(nil)
	mockAccountRepo.On("AddBalance", ctx, "123456", int64(2000)).Return(nil)
	mockAccountRepo.On("GetByUserID", ctx, "123456").Return(account, nil)

	numTrials := 10000
	wins := 0
	for i := 0; i < numTrials; i++ {
		result, err := service.CoinFlip(ctx, "123456", 1000)
		assert.NoError(t, err)
		if result.Won {
			wins++
		}
	}

	winRate := float64(wins) / float64(numTrials)
	assert.True(t, math.Abs(winRate-0.5) < 0.02,
		"expected ~50%% win rate, got %.1f%%", winRate*100)
}
