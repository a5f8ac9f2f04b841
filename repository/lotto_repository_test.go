package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-j-c/bros-server-bot/models"
	"github.com/ben-j-c/bros-server-bot/repository/testutil"
)

func TestLottoRepository_GetLatestRound_Empty(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLottoRepository(testDB.DB)
	ctx := context.Background()

	round, err := repo.GetLatestRound(ctx)
	require.NoError(t, err)
	assert.Nil(t, round)
}

func TestLottoRepository_CreateCompletedRound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLottoRepository(testDB.DB)
	ctx := context.Background()

	t.Run("round with winner", func(t *testing.T) {
		winner := "123456"
		ticket := int64(7)
		round := &models.LottoRound{
			Pot:           1000,
			Winner:        &winner,
			WinningTicket: &ticket,
		}

		err := repo.CreateCompletedRound(ctx, round)
		require.NoError(t, err)

		assert.NotZero(t, round.ID)
		assert.True(t, round.Completed)
		assert.False(t, round.CreationDate.IsZero())

		latest, err := repo.GetLatestRound(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, round.ID, latest.ID)
		assert.Equal(t, int64(1000), latest.Pot)
		require.NotNil(t, latest.Winner)
		assert.Equal(t, "123456", *latest.Winner)
		require.NotNil(t, latest.WinningTicket)
		assert.Equal(t, int64(7), *latest.WinningTicket)
	})

	t.Run("empty round has null winner", func(t *testing.T) {
		round := &models.LottoRound{}

		err := repo.CreateCompletedRound(ctx, round)
		require.NoError(t, err)

		latest, err := repo.GetLatestRound(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, round.ID, latest.ID)
		assert.Equal(t, int64(0), latest.Pot)
		assert.Nil(t, latest.Winner)
		assert.Nil(t, latest.WinningTicket)
	})

	t.Run("latest returns most recent", func(t *testing.T) {
		first := &models.LottoRound{Pot: 100}
		second := &models.LottoRound{Pot: 200}

		require.NoError(t, repo.CreateCompletedRound(ctx, first))
		require.NoError(t, repo.CreateCompletedRound(ctx, second))

		latest, err := repo.GetLatestRound(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)
	})
}
