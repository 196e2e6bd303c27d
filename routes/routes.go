// Package routes maps URLs to handlers.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"demandcast/handlers"
)

// Setup registers every route on the app.
func Setup(app *fiber.App, h *handlers.Handler) {
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	model := api.Group("/model")
	model.Get("/build", h.BuildModels)
	model.Get("/predict", h.Predict)

	sales := api.Group("/sales")
	sales.Get("/dashboard", h.DashboardSummary)
}
