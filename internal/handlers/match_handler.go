package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type MatchHandler struct {
	matcher     services.MatcherService
	validate    *validator.Validate
	maxFileSize int64
	log         *zap.Logger
}

func NewMatchHandler(
	matcher services.MatcherService,
	maxFileSize int64,
	log *zap.Logger,
) *MatchHandler {
	return &MatchHandler{
		matcher:     matcher,
		validate:    newValidator(),
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleMatch handles POST /api/v1/match. With ?format=csv the ranking is
// returned as a CSV attachment instead of JSON.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	input, err := parseMatchInput(c, h.validate, h.maxFileSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	docs := extractUploads(h.matcher, input.Files)

	outcome, err := h.matcher.Match(c.UserContext(), input.JobDescription, docs)
	if err != nil {
		h.log.Error("❌ Match request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to match resumes",
		})
	}

	if c.Query("format") == "csv" {
		return sendCSV(c, outcome.Results)
	}

	response := models.MatchResponse{
		Results: models.NewRankedCandidates(outcome.Results),
	}
	if outcome.RunID != nil {
		response.RunID = outcome.RunID.String()
	}

	return c.JSON(response)
}
