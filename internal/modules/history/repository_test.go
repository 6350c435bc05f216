package history

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/modules/analysis"

	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, zerolog.Nop())
	require.NoError(t, repo.Init())
	return repo
}

func ptr(v float64) *float64 { return &v }

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestRepository_SaveAndGetPrices(t *testing.T) {
	repo := newTestRepo(t)

	samples := []analysis.PriceSample{
		{Date: day(1), Price: 100, High: ptr(101), Low: ptr(99), Volume: ptr(1e6)},
		{Date: day(2), Price: 102},
		{Date: day(3), Price: 101.5, High: ptr(103), Low: ptr(100.5), Volume: ptr(2e6)},
	}
	require.NoError(t, repo.SavePrices("AAPL", samples))

	got, err := repo.GetPrices("AAPL", 100)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// oldest-first ordering
	assert.Equal(t, day(1), got[0].Date)
	assert.Equal(t, day(3), got[2].Date)

	assert.Equal(t, 100.0, got[0].Price)
	require.NotNil(t, got[0].High)
	assert.Equal(t, 101.0, *got[0].High)
	require.NotNil(t, got[0].Volume)
	assert.Equal(t, 1e6, *got[0].Volume)

	// missing OHLC stays nil
	assert.Nil(t, got[1].High)
	assert.Nil(t, got[1].Low)
	assert.Nil(t, got[1].Volume)
}

func TestRepository_UpsertReplacesSameDay(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SavePrices("MSFT", []analysis.PriceSample{
		{Date: day(5), Price: 300, Volume: ptr(1e6)},
	}))
	require.NoError(t, repo.SavePrices("MSFT", []analysis.PriceSample{
		{Date: day(5), Price: 305, Volume: ptr(3e6)},
	}))

	got, err := repo.GetPrices("MSFT", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 305.0, got[0].Price)
	require.NotNil(t, got[0].Volume)
	assert.Equal(t, 3e6, *got[0].Volume)
}

func TestRepository_GetPricesLimitKeepsNewest(t *testing.T) {
	repo := newTestRepo(t)

	var samples []analysis.PriceSample
	for d := 1; d <= 10; d++ {
		samples = append(samples, analysis.PriceSample{Date: day(d), Price: float64(100 + d)})
	}
	require.NoError(t, repo.SavePrices("GOOG", samples))

	got, err := repo.GetPrices("GOOG", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// keeps the newest 3 rows but returns them oldest-first
	assert.Equal(t, day(8), got[0].Date)
	assert.Equal(t, day(10), got[2].Date)
}

func TestRepository_SymbolsIsolated(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SavePrices("AAA", []analysis.PriceSample{{Date: day(1), Price: 1}}))
	require.NoError(t, repo.SavePrices("BBB", []analysis.PriceSample{{Date: day(1), Price: 2}}))

	got, err := repo.GetPrices("AAA", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Price)
}

func TestRepository_EmptyBatchNoop(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.SavePrices("AAPL", nil))

	got, err := repo.GetPrices("AAPL", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
