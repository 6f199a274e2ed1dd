// media/types.go
package media

import (
	"github.com/camden-git/printprep/analyze"
	"github.com/camden-git/printprep/optimize"
)

type AssetType string

const (
	AssetTypePreview AssetType = "preview"
	AssetTypeUnknown AssetType = "unknown"
)

// ConversionStatus describes the outcome of a single conversion.
type ConversionStatus string

const (
	StatusSuccess ConversionStatus = "success"
	StatusFailed  ConversionStatus = "failed"
	StatusSkipped ConversionStatus = "skipped"
)

// ConversionResult is the per-image outcome record: status, the diagnostics
// the pipeline produced, and timing. Metrics and Params are exposed so the
// caller can persist or review them; the converter itself writes no
// diagnostics files.
type ConversionResult struct {
	InputPath        string           `json:"input_path"`
	OutputPath       string           `json:"output_path,omitempty"`
	PreviewPath      string           `json:"preview_path,omitempty"`
	Status           ConversionStatus `json:"status"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	Metrics          *analyze.Metrics `json:"metrics,omitempty"`
	Params           *optimize.Params `json:"optimization_params,omitempty"`
	ProcessingMillis int64            `json:"processing_ms"`
}

// BatchReport aggregates the results of a batch run.
type BatchReport struct {
	Results     []ConversionResult `json:"results"`
	TotalFiles  int                `json:"total_files"`
	Successful  int                `json:"successful"`
	Failed      int                `json:"failed"`
	Skipped     int                `json:"skipped"`
	TotalMillis int64              `json:"total_ms"`
}

// SuccessRate returns the percentage of successful conversions.
func (r BatchReport) SuccessRate() float64 {
	if r.TotalFiles == 0 {
		return 0.0
	}
	return float64(r.Successful) / float64(r.TotalFiles) * 100.0
}
