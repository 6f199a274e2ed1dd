package media

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/camden-git/printprep/analyze"
	"github.com/camden-git/printprep/config"
	"github.com/camden-git/printprep/optimize"
	"github.com/camden-git/printprep/transform"
)

// Converter runs the full per-image chain: decode, analyze, derive
// parameters, transform, encode, and optionally generate a review preview.
// It holds only immutable collaborators, so one Converter serves all
// workers concurrently.
type Converter struct {
	cfg       config.Config
	analyzer  *analyze.Analyzer
	deriver   *optimize.Deriver
	pipeline  *transform.Pipeline
	processor *Processor // nil disables previews
}

func NewConverter(cfg config.Config, processor *Processor) *Converter {
	return &Converter{
		cfg:       cfg,
		analyzer:  analyze.NewAnalyzer(),
		deriver:   optimize.NewDeriver(cfg.Style),
		pipeline:  transform.NewPipeline(),
		processor: processor,
	}
}

// OutputPathFor maps an input path to its converted JPEG path, honoring the
// configured output directory.
func (c *Converter) OutputPathFor(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + ".jpg"
	if c.cfg.OutputDirectory != "" {
		return filepath.Join(c.cfg.OutputDirectory, name)
	}
	return filepath.Join(filepath.Dir(inputPath), name)
}

// Convert processes a single image end to end. Failures are reported in the
// result rather than returned: the batch keeps moving and the caller decides
// what to do with failed entries.
func (c *Converter) Convert(inputPath string) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: inputPath}

	outputPath := c.OutputPathFor(inputPath)
	if c.cfg.NoOverwrite {
		if _, err := os.Stat(outputPath); err == nil {
			result.Status = StatusSkipped
			result.OutputPath = outputPath
			result.ProcessingMillis = time.Since(start).Milliseconds()
			log.Printf("converter: Skipping %s: output %s already exists", inputPath, outputPath)
			return result
		}
	}

	arr, meta, err := Decode(inputPath)
	if err != nil {
		return c.failed(result, start, fmt.Errorf("decode: %w", err))
	}

	metrics, err := c.analyzer.Analyze(arr, meta)
	if err != nil {
		return c.failed(result, start, fmt.Errorf("analyze: %w", err))
	}
	result.Metrics = &metrics

	params := c.deriver.Derive(metrics)
	result.Params = &params

	adjusted, err := c.pipeline.Apply(arr, params, meta)
	if err != nil {
		return c.failed(result, start, fmt.Errorf("transform: %w", err))
	}

	if err := EncodeJPEG(adjusted, outputPath, c.cfg.JPEGQuality); err != nil {
		return c.failed(result, start, fmt.Errorf("encode: %w", err))
	}
	result.OutputPath = outputPath

	if c.processor != nil && c.cfg.GeneratePreviews {
		previewPath, err := c.processor.GeneratePreview(adjusted, inputPath, c.cfg.PreviewMaxSize)
		if err != nil {
			// previews are best-effort; the converted file already exists
			log.Printf("converter: Preview generation failed for %s: %v", inputPath, err)
		} else {
			result.PreviewPath = previewPath
		}
	}

	result.Status = StatusSuccess
	result.ProcessingMillis = time.Since(start).Milliseconds()
	return result
}

func (c *Converter) failed(result ConversionResult, start time.Time, err error) ConversionResult {
	result.Status = StatusFailed
	result.ErrorMessage = err.Error()
	result.ProcessingMillis = time.Since(start).Milliseconds()
	log.Printf("converter: ERROR converting %s: %v", result.InputPath, err)
	return result
}
