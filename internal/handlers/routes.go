package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	UI      *UIHandler
	Match   *MatchHandler
	History *HistoryHandler // nil when history is disabled
}

func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/", h.UI.HandleIndex)
	app.Post("/match", h.UI.HandleMatch)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/match", h.Match.HandleMatch)

	if h.History != nil {
		api.Get("/matches", h.History.HandleList)
		api.Get("/matches/:id", h.History.HandleGet)
		api.Get("/matches/:id/csv", h.History.HandleCSV)
	}
}

// ErrorHandler renders errors as JSON with their HTTP status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
