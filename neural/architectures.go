package neural

import "demandcast/forecast"

// The built-in architecture set. Two direct multi-step models forecast the
// whole horizon in one call; two autoregressive single-output models are
// driven iteratively by the forecast engine. Importing this package wires
// all four into the registry.
func init() {
	forecast.Register("mlp", func(lookback, horizon int, cfg forecast.TrainConfig) forecast.Predictor {
		return NewNetwork(lookback, []int{128, 64}, horizon, cfg)
	})
	forecast.Register("deep_mlp", func(lookback, horizon int, cfg forecast.TrainConfig) forecast.Predictor {
		return NewNetwork(lookback, []int{128, 64, 32}, horizon, cfg)
	})
	forecast.Register("ar_linear", func(lookback, horizon int, cfg forecast.TrainConfig) forecast.Predictor {
		return NewNetwork(lookback, nil, 1, cfg)
	})
	forecast.Register("ar_mlp", func(lookback, horizon int, cfg forecast.TrainConfig) forecast.Predictor {
		return NewNetwork(lookback, []int{64}, 1, cfg)
	})
}
