package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

// MatcherService runs one match request: extraction, scoring and, when a
// history repository is configured, persistence of the ranked run.
type MatcherService interface {
	ExtractUpload(file *multipart.FileHeader) models.ResumeDocument
	ExtractBytes(name string, data []byte) models.ResumeDocument
	Match(ctx context.Context, jobText string, resumes []models.ResumeDocument) (*MatchOutcome, error)
}

type MatchOutcome struct {
	RunID   *uuid.UUID
	Results []models.ScoreResult
}

type matcherService struct {
	extractor      TextExtractor
	storage        StorageService
	scorer         Scorer
	runRepo        repositories.MatchRunRepository
	filenameWeight float64
	log            *zap.Logger
}

// NewMatcherService wires the pipeline. runRepo may be nil to disable history.
func NewMatcherService(
	extractor TextExtractor,
	storage StorageService,
	scorer Scorer,
	runRepo repositories.MatchRunRepository,
	filenameWeight float64,
	log *zap.Logger,
) MatcherService {
	return &matcherService{
		extractor:      extractor,
		storage:        storage,
		scorer:         scorer,
		runRepo:        runRepo,
		filenameWeight: filenameWeight,
		log:            log,
	}
}

// ExtractUpload implements MatcherService. The transient copy is removed as
// soon as its text has been read.
func (m *matcherService) ExtractUpload(file *multipart.FileHeader) models.ResumeDocument {
	kind := KindFromFilename(file.Filename)
	if kind == models.KindUnsupported {
		return m.document(file.Filename, unsupported(kind))
	}

	filename, filePath, err := m.storage.SaveFile(file)
	if err != nil {
		return m.document(file.Filename, failed(err))
	}

	res := m.extractor.ExtractFile(filePath, kind)

	if err := m.storage.DeleteFile(filename); err != nil {
		m.log.Warn("⚠️  Failed to remove transient upload", zap.String("file", filename), zap.Error(err))
	}

	return m.document(file.Filename, res)
}

// ExtractBytes implements MatcherService.
func (m *matcherService) ExtractBytes(name string, data []byte) models.ResumeDocument {
	return m.document(name, m.extractor.ExtractBytes(data, KindFromFilename(name)))
}

func (m *matcherService) document(name string, res models.ExtractionResult) models.ResumeDocument {
	switch res.Status {
	case models.ExtractionFailed, models.ExtractionUnsupported:
		m.log.Warn("⚠️  Could not read resume, it will score 0",
			zap.String("name", name),
			zap.String("status", string(res.Status)),
			zap.Error(res.Err),
		)
	default:
		m.log.Debug("📄 Resume extracted",
			zap.String("name", name),
			zap.String("status", string(res.Status)),
			zap.Int("chars", len(res.Text)),
			zap.Int("pages", res.PageCount),
		)
	}
	return models.NewResumeDocument(name, res)
}

// Match implements MatcherService. A history write failure is logged and
// does not affect the returned ranking.
func (m *matcherService) Match(ctx context.Context, jobText string, resumes []models.ResumeDocument) (*MatchOutcome, error) {
	m.log.Info("🔍 Matching resumes",
		zap.Int("candidates", len(resumes)),
		zap.String("job", logger.Truncate(jobText, 80)),
	)

	results, err := m.scorer.Score(ctx, jobText, resumes)
	if err != nil {
		return nil, fmt.Errorf("failed to score resumes: %w", err)
	}

	outcome := &MatchOutcome{Results: results}

	if m.runRepo != nil {
		run := newMatchRun(jobText, m.filenameWeight, results)
		if err := m.runRepo.Create(run); err != nil {
			m.log.Warn("⚠️  Failed to save match run", zap.Error(err))
		} else {
			outcome.RunID = &run.ID
		}
	}

	m.log.Info("✅ Matching complete", zap.Int("candidates", len(results)))
	return outcome, nil
}

func newMatchRun(jobText string, filenameWeight float64, results []models.ScoreResult) *models.MatchRun {
	run := &models.MatchRun{
		ID:             uuid.New(),
		JobDescription: jobText,
		FilenameWeight: filenameWeight,
		CandidateCount: len(results),
		CreatedAt:      time.Now(),
		Results:        make([]models.MatchRunResult, len(results)),
	}
	for i, r := range results {
		run.Results[i] = models.MatchRunResult{
			ID:               uuid.New(),
			MatchRunID:       run.ID,
			Rank:             i + 1,
			CandidateName:    r.Name,
			Score:            r.Score,
			ExtractionStatus: r.Status,
		}
	}
	return run
}
