package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ben-j-c/bros-server-bot/events"
	"github.com/ben-j-c/bros-server-bot/models"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateIfAbsent(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) SetLastPayday(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// MockLottoRepository is a mock implementation of LottoRepository
type MockLottoRepository struct {
	mock.Mock
}

func (m *MockLottoRepository) GetLatestRound(ctx context.Context) (*models.LottoRound, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LottoRound), args.Error(1)
}

func (m *MockLottoRepository) CreateCompletedRound(ctx context.Context, round *models.LottoRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

// MockLottoPoolRepository is a mock implementation of LottoPoolRepository
type MockLottoPoolRepository struct {
	mock.Mock
}

func (m *MockLottoPoolRepository) AddTickets(ctx context.Context, userID string, count int64) error {
	args := m.Called(ctx, userID, count)
	return args.Error(0)
}

func (m *MockLottoPoolRepository) GetEntries(ctx context.Context) ([]*models.PoolEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PoolEntry), args.Error(1)
}

func (m *MockLottoPoolRepository) TotalTickets(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLottoPoolRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are set
// directly with SetRepositories rather than through expectations.
type MockUnitOfWork struct {
	mock.Mock

	accountRepo   AccountRepository
	lottoRepo     LottoRepository
	lottoPoolRepo LottoPoolRepository
	eventBus      EventPublisher
}

// SetRepositories wires the repositories returned by the accessor methods
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, lottoRepo LottoRepository, lottoPoolRepo LottoPoolRepository) {
	m.accountRepo = accountRepo
	m.lottoRepo = lottoRepo
	m.lottoPoolRepo = lottoPoolRepo
	m.eventBus = &MockEventPublisher{}
}

// SetEventBus overrides the default event publisher for tests asserting events
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) LottoRepository() LottoRepository {
	return m.lottoRepo
}

func (m *MockUnitOfWork) LottoPoolRepository() LottoPoolRepository {
	return m.lottoPoolRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
