package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

// inputError carries a message that is shown to the user as is.
type inputError string

func (e inputError) Error() string { return string(e) }

const errMissingInput inputError = "Please upload resumes and provide a job description."

// Multipart field names. Both the bare and the bracketed form are accepted
// for the file list.
const (
	fieldJobDescription = "job_description"
	fieldResumes        = "resumes"
)

type matchInput struct {
	JobDescription string
	Files          []*multipart.FileHeader
}

func newValidator() *validator.Validate {
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return validate
}

// parseMatchInput reads the job description and resume uploads from a
// multipart request. Every error it returns is meant for the user.
func parseMatchInput(c *fiber.Ctx, validate *validator.Validate, maxFileSize int64) (*matchInput, error) {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errMissingInput
	}

	form, err := c.MultipartForm()
	if err != nil {
		return &matchInput{JobDescription: req.JobDescription}, errMissingInput
	}

	var files []*multipart.FileHeader
	files = append(files, form.File[fieldResumes]...)
	files = append(files, form.File[fieldResumes+"[]"]...)
	input := &matchInput{JobDescription: req.JobDescription, Files: files}

	if len(files) == 0 || validate.Struct(req) != nil {
		return input, errMissingInput
	}

	for _, file := range files {
		if file.Size > maxFileSize {
			return input, inputError(fmt.Sprintf("Resume %s too large. Max size: %d bytes", file.Filename, maxFileSize))
		}
	}

	return input, nil
}

func extractUploads(matcher services.MatcherService, files []*multipart.FileHeader) []models.ResumeDocument {
	docs := make([]models.ResumeDocument, len(files))
	for i, file := range files {
		docs[i] = matcher.ExtractUpload(file)
	}
	return docs
}

func sendCSV(c *fiber.Ctx, results []models.ScoreResult) error {
	c.Attachment(services.CSVFilename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	if err := services.WriteResultsCSV(c, results); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to write CSV")
	}
	return nil
}
