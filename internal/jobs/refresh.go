// Package jobs holds the scheduled background jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketlens/marketlens/internal/modules/analysis"
)

// RefreshJob refetches history for every watchlist symbol, recomputes the
// analysis and stores a fresh snapshot. A symbol that fails is logged and
// skipped so one bad ticker cannot starve the rest of the list.
type RefreshJob struct {
	watchlist []string
	source    analysis.PriceSource
	store     analysis.HistoryStore
	svc       *analysis.Service
	snapshots *analysis.SnapshotRepository
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRefreshJob creates the watchlist refresh job.
func NewRefreshJob(
	watchlist []string,
	source analysis.PriceSource,
	store analysis.HistoryStore,
	svc *analysis.Service,
	snapshots *analysis.SnapshotRepository,
	log zerolog.Logger,
) *RefreshJob {
	return &RefreshJob{
		watchlist: watchlist,
		source:    source,
		store:     store,
		svc:       svc,
		snapshots: snapshots,
		timeout:   5 * time.Minute,
		log:       log.With().Str("job", "refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "refresh"
}

// Run refreshes every watchlist symbol.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	var failed int
	for _, symbol := range j.watchlist {
		if err := j.refreshSymbol(ctx, symbol); err != nil {
			failed++
			j.log.Error().Err(err).Str("symbol", symbol).Msg("Refresh failed")
		}
	}

	j.log.Info().
		Int("symbols", len(j.watchlist)).
		Int("failed", failed).
		Msg("Watchlist refresh finished")

	if failed == len(j.watchlist) && failed > 0 {
		return fmt.Errorf("all %d watchlist symbols failed to refresh", failed)
	}
	return nil
}

func (j *RefreshJob) refreshSymbol(ctx context.Context, symbol string) error {
	samples, err := j.source.DailyHistory(ctx, symbol, "1y")
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if err := j.store.SavePrices(symbol, samples); err != nil {
		return fmt.Errorf("failed to cache prices: %w", err)
	}

	result, err := j.svc.Analyze(symbol, samples, nil, analysis.AssetTypeStock)
	if err != nil {
		return fmt.Errorf("failed to analyze: %w", err)
	}

	if err := j.snapshots.Save(result); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}
