// Package handlers exposes the pipeline and the dashboard over HTTP.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"demandcast/analytics"
	"demandcast/pipeline"
)

// Handler holds the services the HTTP layer delegates to.
type Handler struct {
	pipeline  *pipeline.Service
	analytics *analytics.Service
	log       zerolog.Logger
}

// New creates the handler set.
func New(p *pipeline.Service, a *analytics.Service, log zerolog.Logger) *Handler {
	return &Handler{pipeline: p, analytics: a, log: log}
}

// BuildModels trains and persists every configured architecture for every
// eligible product, returning the training curves and quality summary.
func (h *Handler) BuildModels(c *fiber.Ctx) error {
	result, err := h.pipeline.Build(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("build request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "model build failed",
		})
	}
	return c.JSON(result)
}

// Predict returns the per-product, per-architecture demand forecasts.
func (h *Handler) Predict(c *fiber.Ctx) error {
	rows, err := h.pipeline.Predict(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("predict request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "prediction failed",
		})
	}
	return c.JSON(rows)
}

// DashboardSummary returns the sales dashboard payload.
func (h *Handler) DashboardSummary(c *fiber.Ctx) error {
	dashboard, err := h.analytics.DashboardSummary(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "dashboard summary failed",
		})
	}
	return c.JSON(dashboard)
}

// Health reports liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
