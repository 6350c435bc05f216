package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PriceSource supplies daily history for a symbol, oldest first. The Yahoo
// client implements it; tests use a stub.
type PriceSource interface {
	DailyHistory(ctx context.Context, symbol, rng string) ([]PriceSample, error)
}

// HistoryStore caches fetched price series so analyses survive upstream
// outages.
type HistoryStore interface {
	SavePrices(symbol string, samples []PriceSample) error
	GetPrices(symbol string, limit int) ([]PriceSample, error)
}

// Narrator produces free-text commentary for a snapshot. It only reads the
// snapshot, never calls back into the engine.
type Narrator interface {
	Narrate(ctx context.Context, snapshot *QuantitativeAnalysis) (string, error)
}

// Handlers wires the analysis engine into the HTTP API.
type Handlers struct {
	svc       *Service
	source    PriceSource
	store     HistoryStore
	snapshots *SnapshotRepository
	narrator  Narrator
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewHandlers creates the analysis HTTP handlers. narrator may be nil when
// no AI backend is configured.
func NewHandlers(svc *Service, source PriceSource, store HistoryStore, snapshots *SnapshotRepository, narrator Narrator, log zerolog.Logger) *Handlers {
	return &Handlers{
		svc:       svc,
		source:    source,
		store:     store,
		snapshots: snapshots,
		narrator:  narrator,
		validate:  validator.New(),
		log:       log.With().Str("component", "analysis_handlers").Logger(),
	}
}

// Mount registers the analysis routes on the given router.
func (h *Handlers) Mount(r chi.Router) {
	r.Post("/", h.handleAnalyze)
	r.Get("/", h.handleListRecent)
	r.Get("/{symbol}", h.handleLatest)
	r.Get("/{symbol}/narrative", h.handleNarrative)
}

type analyzeRequest struct {
	Symbol       string            `json:"symbol" validate:"required,min=1,max=12"`
	AssetType    string            `json:"asset_type" validate:"omitempty,oneof=stock crypto"`
	Range        string            `json:"range" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y 5y"`
	Fundamentals *FinancialMetrics `json:"fundamentals"`
}

// handleAnalyze fetches history, runs a fresh analysis and stores the
// snapshot. Falls back to the cached series when the upstream fetch fails.
func (h *Handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.AssetType == "" {
		req.AssetType = string(AssetTypeStock)
	}
	if req.Range == "" {
		req.Range = "1y"
	}

	samples, err := h.source.DailyHistory(r.Context(), req.Symbol, req.Range)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Fetch failed, using cached history")
		samples, err = h.store.GetPrices(req.Symbol, 500)
		if err != nil || len(samples) == 0 {
			http.Error(w, "No price data available", http.StatusBadGateway)
			return
		}
	} else if err := h.store.SavePrices(req.Symbol, samples); err != nil {
		// Cache refresh failures must not block the analysis itself
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to cache prices")
	}

	snapshot, err := h.svc.Analyze(req.Symbol, samples, req.Fundamentals, AssetType(req.AssetType))
	if err != nil {
		var insufficient *InsufficientDataError
		if errors.As(err, &insufficient) {
			http.Error(w, insufficient.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Analysis failed")
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	if err := h.snapshots.Save(snapshot); err != nil {
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to store snapshot")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

// handleLatest returns the most recent stored snapshot for a symbol.
func (h *Handlers) handleLatest(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	snapshot, err := h.snapshots.Latest(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load snapshot")
		http.Error(w, "Failed to load snapshot", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		http.Error(w, "No analysis stored for symbol", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

// handleListRecent lists metadata for the newest snapshots.
func (h *Handlers) handleListRecent(w http.ResponseWriter, r *http.Request) {
	metas, err := h.snapshots.ListRecent(50)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		http.Error(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(metas)
}

// handleNarrative produces AI commentary for the latest snapshot.
func (h *Handlers) handleNarrative(w http.ResponseWriter, r *http.Request) {
	if h.narrator == nil {
		http.Error(w, "Narrative generation is not configured", http.StatusServiceUnavailable)
		return
	}

	symbol := chi.URLParam(r, "symbol")
	snapshot, err := h.snapshots.Latest(symbol)
	if err != nil {
		http.Error(w, "Failed to load snapshot", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		http.Error(w, "No analysis stored for symbol", http.StatusNotFound)
		return
	}

	text, err := h.narrator.Narrate(r.Context(), snapshot)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Narrative generation failed")
		http.Error(w, "Narrative generation failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"symbol":    symbol,
		"narrative": text,
	})
}
