package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-matcher/internal/models"
)

var ErrMatchRunNotFound = errors.New("match run not found")

type MatchRunRepository interface {
	Create(run *models.MatchRun) error
	FindByID(id uuid.UUID) (*models.MatchRun, error)
	FindRecent(limit int) ([]models.MatchRun, error)
}

type matchRunRepository struct {
	db *gorm.DB
}

func NewMatchRunRepository(db *gorm.DB) MatchRunRepository {
	return &matchRunRepository{db: db}
}

// Create implements MatchRunRepository. The run and its results are written
// in one transaction.
func (r *matchRunRepository) Create(run *models.MatchRun) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create match run: %w", err)
	}
	return nil
}

// FindByID implements MatchRunRepository.
func (r *matchRunRepository) FindByID(id uuid.UUID) (*models.MatchRun, error) {
	var run models.MatchRun
	err := r.db.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC")
		}).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchRunNotFound
		}
		return nil, fmt.Errorf("failed to find match run: %w", err)
	}

	return &run, nil
}

// FindRecent implements MatchRunRepository. Results are not preloaded.
func (r *matchRunRepository) FindRecent(limit int) ([]models.MatchRun, error) {
	var runs []models.MatchRun
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find match runs: %w", err)
	}

	return runs, nil
}
