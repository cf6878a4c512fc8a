package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	runRepo repositories.MatchRunRepository
}

func NewHistoryHandler(runRepo repositories.MatchRunRepository) *HistoryHandler {
	return &HistoryHandler{
		runRepo: runRepo,
	}
}

// HandleList handles GET /api/v1/matches
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	runs, err := h.runRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load match history",
		})
	}

	summaries := make([]models.MatchRunSummary, len(runs))
	for i, run := range runs {
		summaries[i] = models.MatchRunSummary{
			ID:             run.ID.String(),
			CandidateCount: run.CandidateCount,
			JobDescription: run.JobDescription,
			CreatedAt:      run.CreatedAt.Format(time.RFC3339),
		}
	}

	return c.JSON(fiber.Map{
		"runs": summaries,
	})
}

// HandleGet handles GET /api/v1/matches/:id
func (h *HistoryHandler) HandleGet(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	return c.JSON(models.MatchResponse{
		RunID:   run.ID.String(),
		Results: models.NewRankedCandidates(run.ScoreResults()),
	})
}

// HandleCSV handles GET /api/v1/matches/:id/csv
func (h *HistoryHandler) HandleCSV(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	return sendCSV(c, run.ScoreResults())
}

func (h *HistoryHandler) findRun(c *fiber.Ctx) (*models.MatchRun, error) {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid match run ID format")
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchRunNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Match run not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load match run")
	}

	return run, nil
}
