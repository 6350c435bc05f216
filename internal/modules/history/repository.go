// Package history stores daily price series in SQLite so analyses can be
// recomputed without refetching, and so the API keeps working when the
// upstream data source is unreachable.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketlens/marketlens/internal/modules/analysis"
)

// Repository provides access to cached daily price data.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a price history repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "history").Logger(),
	}
}

// Init creates the daily_prices table if it does not exist.
func (r *Repository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_prices (
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			close  REAL NOT NULL,
			high   REAL,
			low    REAL,
			volume REAL,
			PRIMARY KEY (symbol, date)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create daily_prices table: %w", err)
	}
	return nil
}

// SavePrices upserts a batch of samples for a symbol inside one transaction.
func (r *Repository) SavePrices(symbol string, samples []analysis.PriceSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (symbol, date, close, high, low, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			close = excluded.close,
			high = excluded.high,
			low = excluded.low,
			volume = excluded.volume
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		_, err := stmt.Exec(
			symbol,
			s.Date.UTC().Format("2006-01-02"),
			s.Price,
			nullable(s.High),
			nullable(s.Low),
			nullable(s.Volume),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert price for %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	r.log.Debug().Str("symbol", symbol).Int("samples", len(samples)).Msg("Prices stored")
	return nil
}

// GetPrices returns up to `limit` most recent samples for a symbol, ordered
// oldest-first as the analysis engine expects.
func (r *Repository) GetPrices(symbol string, limit int) ([]analysis.PriceSample, error) {
	rows, err := r.db.Query(`
		SELECT date, close, high, low, volume FROM (
			SELECT date, close, high, low, volume
			FROM daily_prices
			WHERE symbol = ?
			ORDER BY date DESC
			LIMIT ?
		) ORDER BY date ASC
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var samples []analysis.PriceSample
	for rows.Next() {
		var (
			date              string
			closePrice        float64
			high, low, volume sql.NullFloat64
		)
		if err := rows.Scan(&date, &closePrice, &high, &low, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
		}

		sample := analysis.PriceSample{Date: parsed, Price: closePrice}
		if high.Valid {
			v := high.Float64
			sample.High = &v
		}
		if low.Valid {
			v := low.Float64
			sample.Low = &v
		}
		if volume.Valid {
			v := volume.Float64
			sample.Volume = &v
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return samples, nil
}

// nullable maps an optional float to its SQL value.
func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
