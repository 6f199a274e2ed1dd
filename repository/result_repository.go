package repository

import (
	"fmt"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/camden-git/printprep/database"
	"github.com/camden-git/printprep/media"
	"github.com/camden-git/printprep/models"
)

// ResultRepository handles database operations for Result entities
type ResultRepository struct {
	DB *gorm.DB
}

// NewResultRepository creates a new instance of ResultRepository
func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// SaveConversion flattens a ConversionResult into a Result row and inserts it
func (r *ResultRepository) SaveConversion(cr media.ConversionResult) (*models.Result, error) {
	result := models.Result{
		InputPath:        filepath.ToSlash(cr.InputPath),
		Status:           string(cr.Status),
		ProcessingMillis: cr.ProcessingMillis,
	}
	if cr.OutputPath != "" {
		result.OutputPath = &cr.OutputPath
	}
	if cr.PreviewPath != "" {
		result.PreviewPath = &cr.PreviewPath
	}
	if cr.ErrorMessage != "" {
		result.ErrorMessage = &cr.ErrorMessage
	}

	if m := cr.Metrics; m != nil {
		result.ExposureLevel = &m.ExposureLevel
		result.ContrastLevel = &m.ContrastLevel
		result.ShadowClippingPercent = &m.ShadowClippingPercent
		result.HighlightClippingPercent = &m.HighlightClippingPercent
		result.SaturationLevel = &m.SaturationLevel
		result.SharpnessScore = &m.SharpnessScore
		result.NoiseLevel = &m.NoiseLevel
		result.SkinToneDetected = &m.SkinToneDetected
		if m.SkinToneHueRange != nil {
			result.SkinToneHueMin = &m.SkinToneHueRange.Min
			result.SkinToneHueMax = &m.SkinToneHueRange.Max
		}
		result.IsBacklit = &m.IsBacklit
		result.IsLowLight = &m.IsLowLight
		if c := m.Capture; c != nil {
			result.ISO = c.ISO
			result.ExposureTime = c.ExposureTime
			result.Aperture = c.Aperture
			result.FlashFired = c.FlashFired
		}
	}

	if p := cr.Params; p != nil {
		result.ExposureAdjustment = &p.ExposureAdjustment
		result.ContrastAdjustment = &p.ContrastAdjustment
		result.ShadowLift = &p.ShadowLift
		result.HighlightRecovery = &p.HighlightRecovery
		result.SaturationAdjustment = &p.SaturationAdjustment
		result.SharpnessAmount = &p.SharpnessAmount
		result.NoiseReduction = &p.NoiseReduction
		result.SkinToneProtection = &p.SkinToneProtection
	}

	if err := r.DB.Create(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to save conversion result for %s: %w", cr.InputPath, err)
	}
	return &result, nil
}

// GetByID retrieves a single result record
func (r *ResultRepository) GetByID(id uint) (*models.Result, error) {
	var result models.Result
	err := r.DB.First(&result, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get result %d: %w", id, err)
	}
	return &result, nil
}

// List returns results matching the filter, newest first. The filter is
// compiled by the squirrel report layer against the raw connection and the
// matching rows are then loaded through GORM.
func (r *ResultRepository) List(filter database.ResultFilter) ([]models.Result, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ids, err := database.FilteredResultIDs(sqlDB, filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Result{}, nil
	}

	var results []models.Result
	if err := r.DB.Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to load filtered results: %w", err)
	}
	return results, nil
}

// Summarize computes aggregates over the filtered result set
func (r *ResultRepository) Summarize(filter database.ResultFilter) (database.ResultSummary, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return database.ResultSummary{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return database.SummarizeResults(sqlDB, filter)
}
