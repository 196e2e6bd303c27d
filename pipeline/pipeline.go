// Package pipeline orchestrates the two flows: "build" trains every
// configured architecture for every eligible product, "predict" assembles
// history, forecast, uncertainty band and backtest metrics for every
// architecture that has a persisted artifact.
//
// Products are independent units of work: each one is handled by exactly one
// worker, its results land in a per-index slot, and the final output is a
// pure reduction over those slots in product order. Ineligible products are
// logged and skipped, never failed.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"demandcast/forecast"
	"demandcast/models"
	"demandcast/store"
)

// predictBuffer is the extra series length required beyond lookback plus
// validation span before a product is eligible for the predict flow.
const predictBuffer = 5

// SaleSource supplies the raw sale records. The production implementation
// reads PostgreSQL; tests feed slices.
type SaleSource interface {
	GetAll(ctx context.Context) ([]models.Sale, error)
}

// Config carries every tunable of the two flows.
type Config struct {
	Lookback        int
	ValDays         int
	Horizon         int
	HistoryPlotDays int
	Epochs          int
	BatchSize       int
	LearningRate    float64
	Patience        int
	Seed            int64

	// Architectures is the set of predictor tags each flow iterates over.
	Architectures []string

	// BuildProducts and PredictProducts are allow-list filters; an empty
	// list means every product in the data.
	BuildProducts   []string
	PredictProducts []string

	// Workers bounds the product-level worker pool. 1 keeps the flows
	// fully sequential.
	Workers int

	// UnitTimeout is the per-product deadline; breaching it is a logged
	// skip, consistent with the ineligibility policy. Zero disables it.
	UnitTimeout time.Duration

	// Summary rating thresholds on the final validation loss. These are
	// scale-dependent policy values, not derived quantities.
	SummaryGoodMax   float64
	SummaryMediumMax float64
}

// DefaultConfig mirrors the historical production settings.
func DefaultConfig() Config {
	return Config{
		Lookback:         60,
		ValDays:          90,
		Horizon:          90,
		HistoryPlotDays:  365,
		Epochs:           25,
		BatchSize:        64,
		LearningRate:     1e-3,
		Patience:         5,
		Architectures:    []string{"mlp", "deep_mlp", "ar_linear", "ar_mlp"},
		Workers:          1,
		SummaryGoodMax:   0.80,
		SummaryMediumMax: 0.90,
	}
}

// trainConfig narrows the pipeline config to what predictors need.
func (c Config) trainConfig() forecast.TrainConfig {
	return forecast.TrainConfig{
		Epochs:       c.Epochs,
		BatchSize:    c.BatchSize,
		LearningRate: c.LearningRate,
		Patience:     c.Patience,
		Seed:         c.Seed,
	}
}

// Service wires the flows to their collaborators.
type Service struct {
	sales     SaleSource
	artifacts store.ArtifactStore
	cfg       Config
	log       zerolog.Logger
}

// NewService creates a pipeline service.
func NewService(sales SaleSource, artifacts store.ArtifactStore, cfg Config, log zerolog.Logger) *Service {
	return &Service{sales: sales, artifacts: artifacts, cfg: cfg, log: log}
}

// allowed applies a product allow-list filter, preserving order.
func allowed(products, filter []string) []string {
	if len(filter) == 0 {
		return products
	}
	keep := make(map[string]bool, len(filter))
	for _, p := range filter {
		keep[p] = true
	}
	out := make([]string, 0, len(products))
	for _, p := range products {
		if keep[p] {
			out = append(out, p)
		}
	}
	return out
}

// unitContext derives the per-product deadline context.
func (s *Service) unitContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.UnitTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.UnitTimeout)
}
