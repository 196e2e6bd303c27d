package pipeline

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"demandcast/core/parallel"
	"demandcast/forecast"
	"demandcast/metrics"
	"demandcast/pkg/errors"
	"demandcast/preprocessing"
	"demandcast/store"
	"demandcast/timeseries"
)

// SeriesPayload is a dated value series ready for charting.
type SeriesPayload struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// ForecastPayload is the horizon forecast with its 95% uncertainty band,
// all in original demand units.
type ForecastPayload struct {
	Dates []string  `json:"dates"`
	Pred  []float64 `json:"pred"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// ForecastSummary aggregates the horizon into headline numbers.
type ForecastSummary struct {
	TotalPred float64 `json:"total_pred"`
	TotalLow  float64 `json:"total_low"`
	TotalUp   float64 `json:"total_up"`
	MeanDaily float64 `json:"mean_daily"`
	Median    float64 `json:"median"`
}

// ModelForecast is one architecture's complete answer for one product.
type ModelForecast struct {
	History  SeriesPayload   `json:"history"`
	Forecast ForecastPayload `json:"forecast"`
	Summary  ForecastSummary `json:"summary"`
	Metrics  metrics.Report  `json:"metrics"`
}

// ProductForecast groups per-architecture forecasts for one product.
type ProductForecast struct {
	ProductCode string                   `json:"product_code"`
	Models      map[string]ModelForecast `json:"models"`
}

// Predict forecasts the configured horizon for every eligible product using
// every architecture that has a persisted artifact. Products without any
// usable artifact, and architectures never built for a product, are omitted
// from the output rather than reported as errors.
func (s *Service) Predict(ctx context.Context) ([]ProductForecast, error) {
	records, err := s.sales.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "predict: loading sales")
	}
	table := timeseries.BuildDailyTable(records)
	products := allowed(table.Products(), s.cfg.PredictProducts)
	s.log.Info().Int("products", len(products)).Msg("predict flow started")

	units := make([]*ProductForecast, len(products))
	parallel.ForEach(len(products), s.cfg.Workers, func(i int) {
		uctx, cancel := s.unitContext(ctx)
		defer cancel()
		units[i] = s.predictProduct(uctx, products[i], table.Series(products[i]))
	})

	out := make([]ProductForecast, 0, len(products))
	for _, u := range units {
		if u != nil {
			out = append(out, *u)
		}
	}
	s.log.Info().Int("forecasted", len(out)).Msg("predict flow finished")
	return out, nil
}

// predictProduct assembles the forecast row for one product, or nil when
// the product is ineligible or no architecture has an artifact.
func (s *Service) predictProduct(ctx context.Context, product string, series *timeseries.DailySeries) *ProductForecast {
	log := s.log.With().Str("product", product).Logger()
	need := s.cfg.Lookback + s.cfg.ValDays + predictBuffer
	if series == nil || series.Len() < need {
		log.Info().Int("length", seriesLen(series)).Int("required", need).
			Msg("series too short, skipping predict")
		return nil
	}

	scaler := s.loadScaler(product, series, log)
	scaled, err := scaler.Transform(series.Values)
	if err != nil {
		log.Error().Err(err).Msg("scaling failed, skipping predict")
		return nil
	}
	window := scaled[len(scaled)-s.cfg.Lookback:]
	history := series.Tail(s.cfg.HistoryPlotDays)

	row := &ProductForecast{ProductCode: product, Models: make(map[string]ModelForecast)}
	for _, arch := range s.cfg.Architectures {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Str("architecture", arch).
				Msg("unit deadline reached, remaining architectures skipped")
			break
		}
		mf, err := s.forecastArch(arch, product, series, history, scaled, window, scaler)
		if err != nil {
			if errors.IsArtifactNotFound(err) {
				log.Debug().Str("architecture", arch).Msg("no artifact, architecture omitted")
			} else {
				log.Error().Err(err).Str("architecture", arch).Msg("forecast failed")
			}
			continue
		}
		row.Models[arch] = *mf
	}
	if len(row.Models) == 0 {
		return nil
	}
	log.Info().Int("models", len(row.Models)).Msg("product forecast complete")
	return row
}

// loadScaler fetches the persisted scaler for a product, falling back to
// fitting a fresh one on the full series when none was stored. The fallback
// keeps an unbuilt product forecastable, at the cost of statistics the
// persisted predictors were not trained against.
func (s *Service) loadScaler(product string, series *timeseries.DailySeries, log zerolog.Logger) *preprocessing.Scaler {
	blob, err := s.artifacts.Get(store.ScalerKey(product))
	switch {
	case err == nil:
		scaler, lerr := preprocessing.LoadScaler(blob)
		if lerr == nil {
			return scaler
		}
		log.Warn().Err(lerr).Msg("stored scaler unreadable, refitting")
	case errors.IsArtifactNotFound(err):
		log.Warn().Msg("no stored scaler, fitting on full series")
	default:
		log.Warn().Err(err).Msg("scaler load failed, refitting")
	}
	scaler := &preprocessing.Scaler{}
	_ = scaler.Fit(series.Values)
	return scaler
}

func (s *Service) forecastArch(arch, product string, series, history *timeseries.DailySeries,
	scaled, window []float64, scaler *preprocessing.Scaler) (*ModelForecast, error) {

	blob, err := s.artifacts.Get(store.PredictorKey(arch, product))
	if err != nil {
		return nil, err
	}
	p, err := forecast.LoadPredictor(arch, s.cfg.Lookback, s.cfg.Horizon, s.cfg.trainConfig(), blob)
	if err != nil {
		return nil, err
	}

	predZ, err := forecast.Forecast(p, window, s.cfg.Horizon)
	if err != nil {
		return nil, err
	}
	sigma, err := forecast.ResidualStd(p, scaled, s.cfg.Lookback, s.cfg.Horizon, s.cfg.ValDays)
	if err != nil {
		return nil, err
	}

	lowerZ := make([]float64, len(predZ))
	upperZ := make([]float64, len(predZ))
	for i, z := range predZ {
		lowerZ[i] = z - 1.96*sigma
		upperZ[i] = z + 1.96*sigma
	}
	pred, err := scaler.InverseTransform(predZ)
	if err != nil {
		return nil, err
	}
	lower, err := scaler.InverseTransform(lowerZ)
	if err != nil {
		return nil, err
	}
	upper, err := scaler.InverseTransform(upperZ)
	if err != nil {
		return nil, err
	}

	report, err := metrics.WalkForward(p, scaled, scaler, s.cfg.Lookback, s.cfg.ValDays, sigma)
	if err != nil {
		return nil, err
	}

	dates := make([]string, len(pred))
	for i := range pred {
		dates[i] = series.End().AddDate(0, 0, i+1).Format("2006-01-02")
	}
	return &ModelForecast{
		History:  SeriesPayload{Dates: history.Dates(), Values: history.Values},
		Forecast: ForecastPayload{Dates: dates, Pred: pred, Lower: lower, Upper: upper},
		Summary:  summarizeForecast(pred, lower, upper),
		Metrics:  *report,
	}, nil
}

// summarizeForecast reduces a horizon forecast to headline aggregates.
func summarizeForecast(pred, lower, upper []float64) ForecastSummary {
	var sum, low, up float64
	for i := range pred {
		sum += pred[i]
		low += lower[i]
		up += upper[i]
	}
	mean := 0.0
	if len(pred) > 0 {
		mean = sum / float64(len(pred))
	}
	return ForecastSummary{
		TotalPred: sum,
		TotalLow:  low,
		TotalUp:   up,
		MeanDaily: mean,
		Median:    median(pred),
	}
}

// median returns the middle value of xs, averaging the central pair for an
// even length. An empty slice yields 0.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
