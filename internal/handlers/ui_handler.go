package handlers

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"score": services.FormatScore}).
		ParseFS(templateFS, "templates/index.html"),
)

type pageData struct {
	Title          string
	JobDescription string
	Warning        string
	Error          string
	Results        []models.RankedCandidate
	CSVDataURL     template.URL
	CSVFilename    string
	RunID          string
}

type UIHandler struct {
	matcher     services.MatcherService
	validate    *validator.Validate
	maxFileSize int64
	log         *zap.Logger
}

func NewUIHandler(
	matcher services.MatcherService,
	maxFileSize int64,
	log *zap.Logger,
) *UIHandler {
	return &UIHandler{
		matcher:     matcher,
		validate:    newValidator(),
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleIndex handles GET /
func (h *UIHandler) HandleIndex(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, pageData{})
}

// HandleMatch handles POST /match. Invalid input re-renders the form with a
// warning and never reaches the pipeline.
func (h *UIHandler) HandleMatch(c *fiber.Ctx) error {
	input, err := parseMatchInput(c, h.validate, h.maxFileSize)
	if err != nil {
		data := pageData{Warning: err.Error()}
		if input != nil {
			data.JobDescription = input.JobDescription
		}
		return h.render(c, fiber.StatusBadRequest, data)
	}

	data := pageData{JobDescription: input.JobDescription}

	docs := extractUploads(h.matcher, input.Files)

	outcome, err := h.matcher.Match(c.UserContext(), input.JobDescription, docs)
	if err != nil {
		h.log.Error("❌ Match request failed", zap.Error(err))
		data.Error = "Matching failed. Please try again."
		return h.render(c, fiber.StatusInternalServerError, data)
	}

	var csvBuf bytes.Buffer
	if err := services.WriteResultsCSV(&csvBuf, outcome.Results); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to write CSV")
	}

	data.Results = models.NewRankedCandidates(outcome.Results)
	data.CSVDataURL = template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(csvBuf.Bytes()))
	data.CSVFilename = services.CSVFilename
	if outcome.RunID != nil {
		data.RunID = outcome.RunID.String()
	}

	return h.render(c, fiber.StatusOK, data)
}

func (h *UIHandler) render(c *fiber.Ctx, status int, data pageData) error {
	data.Title = "AI Resume Screener & JD Matcher"

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error("❌ Failed to render page", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}

	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
