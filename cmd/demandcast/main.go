// Command demandcast serves the demand forecasting pipeline and the sales
// dashboard over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"demandcast/analytics"
	"demandcast/config"
	"demandcast/database"
	"demandcast/handlers"
	"demandcast/pipeline"
	"demandcast/pkg/log"
	"demandcast/repository"
	"demandcast/routes"
	"demandcast/store"

	// Architecture registrations.
	_ "demandcast/linear"
	_ "demandcast/neural"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := log.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	artifacts, err := store.OpenBadger(cfg.ArtifactDir, log.Component(logger, "store"))
	if err != nil {
		logger.Fatal().Err(err).Msg("artifact store open failed")
	}
	defer artifacts.Close()

	sales := repository.NewSaleRepository(pool)
	pipelineSvc := pipeline.NewService(sales, artifacts, cfg.Pipeline, log.Component(logger, "pipeline"))
	analyticsSvc := analytics.NewService(sales, log.Component(logger, "analytics"), nil)

	app := fiber.New(fiber.Config{AppName: "demandcast"})
	app.Use(cors.New())
	routes.Setup(app, handlers.New(pipelineSvc, analyticsSvc, log.Component(logger, "http")))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info().Str("port", cfg.Port).Msg("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
