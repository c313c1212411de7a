package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderBuruma/solana-research/internal/adapters/storage"
	"github.com/SanderBuruma/solana-research/internal/domain"
)

func makeRun(wallet string, ranAt time.Time, totalProfit float64) domain.AnalysisRun {
	return domain.AnalysisRun{
		ID:             uuid.NewString(),
		Wallet:         wallet,
		RanAt:          ranAt.UTC().Truncate(time.Second),
		Tokens:         12,
		Invested:       10.5,
		Received:       11.0,
		RealizedProfit: 0.2,
		TotalProfit:    totalProfit,
		WinRate:        58.3,
		MedianROI:      14.2,
	}
}

func TestSQLiteRunStore_SaveAndHistory(t *testing.T) {
	db, err := storage.NewSQLiteRunStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	wallet := "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

	older := makeRun(wallet, time.Now().Add(-time.Hour), 1.5)
	newer := makeRun(wallet, time.Now(), 2.5)
	require.NoError(t, db.SaveRun(ctx, older))
	require.NoError(t, db.SaveRun(ctx, newer))

	history, err := db.History(ctx, wallet, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Del más reciente al más antiguo
	assert.Equal(t, newer.ID, history[0].ID)
	assert.InDelta(t, 2.5, history[0].TotalProfit, 1e-9)
	assert.InDelta(t, 58.3, history[0].WinRate, 1e-9)
}

func TestSQLiteRunStore_HistoryFiltersByWallet(t *testing.T) {
	db, err := storage.NewSQLiteRunStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveRun(ctx, makeRun("wallet-a", time.Now(), 1)))
	require.NoError(t, db.SaveRun(ctx, makeRun("wallet-b", time.Now(), 2)))

	history, err := db.History(ctx, "wallet-a", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "wallet-a", history[0].Wallet)
}

func TestSQLiteRunStore_HistoryLimit(t *testing.T) {
	db, err := storage.NewSQLiteRunStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		run := makeRun("w", time.Now().Add(-time.Duration(i)*time.Minute), float64(i))
		require.NoError(t, db.SaveRun(ctx, run))
	}

	history, err := db.History(ctx, "w", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestSQLiteRunStore_EmptyHistory(t *testing.T) {
	db, err := storage.NewSQLiteRunStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	history, err := db.History(context.Background(), "unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
