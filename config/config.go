// Package config loads the runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"demandcast/pipeline"
)

// Config is the full runtime configuration.
type Config struct {
	DatabaseURL string
	Port        string
	ArtifactDir string
	LogLevel    string
	LogFormat   string

	Pipeline pipeline.Config
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        envStr("PORT", "8000"),
		ArtifactDir: envStr("ARTIFACT_DIR", "artifacts"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogFormat:   envStr("LOG_FORMAT", "console"),
		Pipeline:    pipeline.DefaultConfig(),
	}

	p := &cfg.Pipeline
	p.Lookback = envInt("LOOKBACK_DAYS", p.Lookback)
	p.ValDays = envInt("VAL_DAYS", p.ValDays)
	p.Horizon = envInt("HORIZON_DAYS", p.Horizon)
	p.HistoryPlotDays = envInt("HISTORY_PLOT_DAYS", p.HistoryPlotDays)
	p.Epochs = envInt("EPOCHS", p.Epochs)
	p.BatchSize = envInt("BATCH_SIZE", p.BatchSize)
	p.LearningRate = envFloat("LEARNING_RATE", p.LearningRate)
	p.Patience = envInt("PATIENCE", p.Patience)
	p.Workers = envInt("WORKERS", p.Workers)
	p.UnitTimeout = envDuration("UNIT_TIMEOUT", p.UnitTimeout)
	p.Architectures = envList("ARCHITECTURES", p.Architectures)
	p.BuildProducts = envList("BUILD_PRODUCTS", nil)
	p.PredictProducts = envList("PREDICT_PRODUCTS", nil)
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// envList parses a comma-separated list, trimming whitespace and dropping
// empty entries.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
