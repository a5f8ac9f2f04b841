package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ben-j-c/bros-server-bot/models"
)

// GrantWindow is the cooldown between daily grants for a single user
const GrantWindow = 24 * time.Hour

type ledgerService struct {
	uowFactory  UnitOfWorkFactory
	grantAmount int64
}

// NewLedgerService creates a new ledger service. grantAmount is the daily
// grant in cents.
func NewLedgerService(uowFactory UnitOfWorkFactory, grantAmount int64) LedgerService {
	return &ledgerService{
		uowFactory:  uowFactory,
		grantAmount: grantAmount,
	}
}

func (s *ledgerService) GrantDaily(ctx context.Context, userID string) (*models.GrantResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	repo := uow.AccountRepository()

	// Ensure the row exists so the FOR UPDATE lock below serializes
	// concurrent grants for the same user
	if err := repo.CreateIfAbsent(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}

	account, err := repo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %s missing after creation", userID)
	}

	now := time.Now().UTC()
	eligibleAt := account.LastPayday.Add(GrantWindow)
	if now.Before(eligibleAt) {
		return nil, &CooldownActiveError{Remaining: eligibleAt.Sub(now).Truncate(time.Minute)}
	}

	if err := repo.AddBalance(ctx, userID, s.grantAmount); err != nil {
		return nil, fmt.Errorf("failed to credit grant: %w", err)
	}
	if err := repo.SetLastPayday(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to record payday: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.GrantResult{
		Amount:     s.grantAmount,
		NewBalance: account.Balance + s.grantAmount,
	}, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, userID string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		// Unknown accounts read as zero; reads never create rows
		return 0, nil
	}

	return account.Balance, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID string, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := s.Withdraw(ctx, uow, fromID, amount); err != nil {
		return nil, err
	}
	if err := s.Deposit(ctx, uow, toID, amount); err != nil {
		return nil, err
	}

	account, err := uow.AccountRepository().GetByUserID(ctx, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:     amount,
		NewBalance: account.Balance,
	}, nil
}

// Withdraw debits a user inside the caller's unit of work. Returns
// ErrInsufficientFunds if the debit would make the balance negative.
func (s *ledgerService) Withdraw(ctx context.Context, uow UnitOfWork, userID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	repo := uow.AccountRepository()
	if err := repo.CreateIfAbsent(ctx, userID); err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}

	return repo.DeductBalance(ctx, userID, amount)
}

// Deposit credits a user inside the caller's unit of work
func (s *ledgerService) Deposit(ctx context.Context, uow UnitOfWork, userID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	repo := uow.AccountRepository()
	if err := repo.CreateIfAbsent(ctx, userID); err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}

	return repo.AddBalance(ctx, userID, amount)
}
