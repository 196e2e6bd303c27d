package pipeline

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"demandcast/core/parallel"
	"demandcast/forecast"
	"demandcast/pkg/errors"
	"demandcast/preprocessing"
	"demandcast/store"
	"demandcast/timeseries"
)

// ArchHistories maps architecture tag to its training curves.
type ArchHistories map[string]forecast.TrainingHistory

// BuildResult is the output of the build flow. Metrics is a list of
// single-key maps keyed by product code, in product order; Summary rates
// each (product, architecture) pair.
type BuildResult struct {
	Metrics []map[string]ArchHistories        `json:"metrics"`
	Summary map[string]map[string]ArchSummary `json:"summary"`
}

// Build trains every configured architecture on every eligible product and
// persists the trained predictors plus one scaler per product. Ineligible
// or failing products are skipped, never fatal; only a data source failure
// aborts the flow.
func (s *Service) Build(ctx context.Context) (*BuildResult, error) {
	records, err := s.sales.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build: loading sales")
	}
	table := timeseries.BuildDailyTable(records)
	products := allowed(table.Products(), s.cfg.BuildProducts)
	s.log.Info().Int("products", len(products)).Int("records", len(records)).
		Msg("build flow started")

	units := make([]ArchHistories, len(products))
	parallel.ForEach(len(products), s.cfg.Workers, func(i int) {
		uctx, cancel := s.unitContext(ctx)
		defer cancel()
		units[i] = s.buildProduct(uctx, products[i], table.Series(products[i]))
	})

	out := &BuildResult{Summary: make(map[string]map[string]ArchSummary)}
	for i, product := range products {
		if len(units[i]) == 0 {
			continue
		}
		out.Metrics = append(out.Metrics, map[string]ArchHistories{product: units[i]})
		rated := make(map[string]ArchSummary, len(units[i]))
		for arch, hist := range units[i] {
			rated[arch] = summarizeHistory(hist, s.cfg.SummaryGoodMax, s.cfg.SummaryMediumMax)
		}
		out.Summary[product] = rated
	}
	s.log.Info().Int("trained", len(out.Metrics)).Msg("build flow finished")
	return out, nil
}

// buildProduct trains all architectures for one product. It returns nil
// when the product is ineligible or nothing could be trained.
func (s *Service) buildProduct(ctx context.Context, product string, series *timeseries.DailySeries) ArchHistories {
	log := s.log.With().Str("product", product).Logger()
	need := s.cfg.Lookback + s.cfg.ValDays
	if series == nil || series.Len() < need {
		log.Info().Int("length", seriesLen(series)).Int("required", need).
			Msg("series too short, skipping build")
		return nil
	}

	// The scaler is fitted on the training span only so that validation
	// data never leaks into the standardization statistics.
	trainEnd := series.Len() - s.cfg.ValDays
	var scaler preprocessing.Scaler
	if err := scaler.Fit(series.Values[:trainEnd]); err != nil {
		log.Warn().Err(err).Msg("scaler fit failed, skipping build")
		return nil
	}
	scaled, err := scaler.Transform(series.Values)
	if err != nil {
		log.Warn().Err(err).Msg("scaling failed, skipping build")
		return nil
	}

	x, y, err := timeseries.MakeWindows(scaled, s.cfg.Lookback, s.cfg.Horizon)
	if err != nil {
		log.Warn().Err(err).Msg("windowing failed, skipping build")
		return nil
	}
	rows, _ := x.Dims()
	if rows <= s.cfg.ValDays {
		log.Info().Int("windows", rows).Int("val_len", s.cfg.ValDays).
			Msg("not enough windows for a validation split, skipping build")
		return nil
	}
	xTr, xVa, yTr, yVa, err := timeseries.TimeSplit(x, y, s.cfg.ValDays)
	if err != nil {
		log.Warn().Err(err).Msg("split failed, skipping build")
		return nil
	}

	histories := make(ArchHistories)
	for _, arch := range s.cfg.Architectures {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Str("architecture", arch).
				Msg("unit deadline reached, remaining architectures skipped")
			break
		}
		hist, err := s.trainArch(arch, product, xTr, yTr, xVa, yVa)
		if err != nil {
			log.Error().Err(err).Str("architecture", arch).Msg("training failed")
			continue
		}
		histories[arch] = *hist
	}
	if len(histories) == 0 {
		return nil
	}

	// One scaler per product, persisted once after all architectures so
	// that every stored predictor pairs with the same statistics.
	blob, err := scaler.MarshalArtifact()
	if err != nil {
		log.Error().Err(err).Msg("scaler serialization failed")
		return nil
	}
	if err := s.artifacts.Put(store.ScalerKey(product), blob); err != nil {
		log.Error().Err(err).Msg("scaler persistence failed")
		return nil
	}
	log.Info().Int("architectures", len(histories)).Msg("product build complete")
	return histories
}

func (s *Service) trainArch(arch, product string, xTr, yTr, xVa, yVa *mat.Dense) (*forecast.TrainingHistory, error) {
	p, err := forecast.NewPredictor(arch, s.cfg.Lookback, s.cfg.Horizon, s.cfg.trainConfig())
	if err != nil {
		return nil, err
	}
	hist, err := p.Fit(xTr, yTr, xVa, yVa)
	if err != nil {
		return nil, err
	}
	blob, err := p.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := s.artifacts.Put(store.PredictorKey(arch, product), blob); err != nil {
		return nil, err
	}
	return hist, nil
}

func seriesLen(s *timeseries.DailySeries) int {
	if s == nil {
		return 0
	}
	return s.Len()
}
