package analysis

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotRepository persists analysis snapshots as msgpack blobs keyed by
// snapshot ID. Snapshots are append-only; a new analysis never overwrites an
// old one.
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// SnapshotMeta is the lightweight listing row for stored snapshots.
type SnapshotMeta struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
	}
}

// Init creates the snapshots table if it does not exist.
func (r *SnapshotRepository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id          TEXT PRIMARY KEY,
			symbol      TEXT NOT NULL,
			analyzed_at TIMESTAMP NOT NULL,
			payload     BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_time
			ON snapshots(symbol, analyzed_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// Save stores one snapshot.
func (r *SnapshotRepository) Save(a *QuantitativeAnalysis) error {
	payload, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO snapshots (id, symbol, analyzed_at, payload) VALUES (?, ?, ?, ?)`,
		a.ID, a.Symbol, a.AnalyzedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	r.log.Debug().Str("symbol", a.Symbol).Str("id", a.ID).Msg("Snapshot stored")
	return nil
}

// Latest returns the most recent snapshot for a symbol, or nil when none has
// been stored yet.
func (r *SnapshotRepository) Latest(symbol string) (*QuantitativeAnalysis, error) {
	var payload []byte
	err := r.db.QueryRow(
		`SELECT payload FROM snapshots WHERE symbol = ? ORDER BY analyzed_at DESC LIMIT 1`,
		symbol,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	var snapshot QuantitativeAnalysis
	if err := msgpack.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListRecent returns metadata for the most recent snapshots across all
// symbols, newest first.
func (r *SnapshotRepository) ListRecent(limit int) ([]SnapshotMeta, error) {
	rows, err := r.db.Query(
		`SELECT id, symbol, analyzed_at FROM snapshots ORDER BY analyzed_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var metas []SnapshotMeta
	for rows.Next() {
		var m SnapshotMeta
		if err := rows.Scan(&m.ID, &m.Symbol, &m.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return metas, nil
}
