package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// ResultFilter holds the optional review-API filters. Nil fields are not
// applied, so any combination composes into one query.
type ResultFilter struct {
	Status     *string
	IsBacklit  *bool
	IsLowLight *bool
	SkinTones  *bool
	MinISO     *int
	MaxISO     *int
	Limit      uint64
}

// ResultSummary aggregates a filtered result set for the review API.
type ResultSummary struct {
	Total            int64    `json:"total"`
	Successful       int64    `json:"successful"`
	Failed           int64    `json:"failed"`
	Skipped          int64    `json:"skipped"`
	AvgExposureLevel *float64 `json:"avg_exposure_level,omitempty"`
	AvgNoiseLevel    *float64 `json:"avg_noise_level,omitempty"`
	AvgSharpness     *float64 `json:"avg_sharpness_score,omitempty"`
	AvgProcessingMS  *float64 `json:"avg_processing_ms,omitempty"`
	BacklitCount     int64    `json:"backlit_count"`
	LowLightCount    int64    `json:"low_light_count"`
	SkinToneCount    int64    `json:"skin_tone_count"`
}

func applyFilter(builder sq.SelectBuilder, filter ResultFilter) sq.SelectBuilder {
	builder = builder.Where(sq.Eq{"deleted_at": nil})
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.IsBacklit != nil {
		builder = builder.Where(sq.Eq{"is_backlit": *filter.IsBacklit})
	}
	if filter.IsLowLight != nil {
		builder = builder.Where(sq.Eq{"is_low_light": *filter.IsLowLight})
	}
	if filter.SkinTones != nil {
		builder = builder.Where(sq.Eq{"skin_tone_detected": *filter.SkinTones})
	}
	if filter.MinISO != nil {
		builder = builder.Where(sq.GtOrEq{"iso": *filter.MinISO})
	}
	if filter.MaxISO != nil {
		builder = builder.Where(sq.LtOrEq{"iso": *filter.MaxISO})
	}
	return builder
}

// FilteredResultIDs returns the ids of results matching the filter, newest
// first. The repository hydrates full records through GORM afterwards.
func FilteredResultIDs(db *sql.DB, filter ResultFilter) ([]uint, error) {
	builder := applyFilter(psql.Select("id").From("results"), filter).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for FilteredResultIDs: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filtered results: %w", err)
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan result id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SummarizeResults computes aggregate counts and averages over the filtered
// result set.
func SummarizeResults(db *sql.DB, filter ResultFilter) (ResultSummary, error) {
	builder := applyFilter(psql.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0)",
		"AVG(exposure_level)",
		"AVG(noise_level)",
		"AVG(sharpness_score)",
		"AVG(processing_millis)",
		"COALESCE(SUM(CASE WHEN is_backlit THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN is_low_light THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN skin_tone_detected THEN 1 ELSE 0 END), 0)",
	).From("results"), filter)

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return ResultSummary{}, fmt.Errorf("failed to build SQL query for SummarizeResults: %w", err)
	}

	var s ResultSummary
	err = db.QueryRow(sqlStr, args...).Scan(
		&s.Total, &s.Successful, &s.Failed, &s.Skipped,
		&s.AvgExposureLevel, &s.AvgNoiseLevel, &s.AvgSharpness, &s.AvgProcessingMS,
		&s.BacklitCount, &s.LowLightCount, &s.SkinToneCount,
	)
	if err != nil {
		return ResultSummary{}, fmt.Errorf("failed to query or scan result summary: %w", err)
	}
	return s, nil
}
