package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/camden-git/printprep/optimize"
)

const DefaultPreviewsSubDir = "previews"

const (
	defaultJPEGQuality    = 100
	defaultBatchQueueSize = 200
	defaultNumWorkers     = 4
	defaultPreviewMaxSize = 600
)

type Config struct {
	// output directory for converted files; empty means alongside the input
	OutputDirectory string

	// database path for per-image diagnostics records
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // root for generated review assets
	PreviewsPath     string // full-calculated path for review previews

	// encode settings
	JPEGQuality int
	NoOverwrite bool

	// review preview settings
	GeneratePreviews bool
	PreviewMaxSize   int

	// worker settings
	BatchQueueSize int
	NumWorkers     int

	// per-run optimization style, shared read-only across the batch
	Style optimize.StylePreferences
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	outputDir := os.Getenv("OUTPUT_DIRECTORY")
	if outputDir != "" {
		absOutput, err := filepath.Abs(outputDir)
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute path for output directory '%s': %w", outputDir, err)
		}
		outputDir = absOutput
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "printprep.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	previewSubDir := getEnvOrDefault("PREVIEWS_SUBDIR", DefaultPreviewsSubDir)
	absPreviewsPath := filepath.Join(absMediaStorage, previewSubDir)

	quality := getEnvIntOrDefault("JPEG_QUALITY", defaultJPEGQuality)
	// quality above 100 is a usage error, not a fallback case
	if quality > 100 {
		return Config{}, fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", quality)
	}

	cfg := Config{
		OutputDirectory:  outputDir,
		DatabasePath:     dbPath,
		MediaStoragePath: absMediaStorage,
		PreviewsPath:     absPreviewsPath,
		JPEGQuality:      quality,
		NoOverwrite:      getEnvBoolOrDefault("NO_OVERWRITE", false),
		GeneratePreviews: getEnvBoolOrDefault("GENERATE_PREVIEWS", true),
		PreviewMaxSize:   getEnvIntOrDefault("PREVIEW_MAX_SIZE", defaultPreviewMaxSize),
		BatchQueueSize:   getEnvIntOrDefault("BATCH_QUEUE_SIZE", defaultBatchQueueSize),
		NumWorkers:       getEnvIntOrDefault("NUM_WORKERS", defaultNumWorkers),
		Style: optimize.StylePreferences{
			NaturalAppearance:  getEnvBoolOrDefault("STYLE_NATURAL_APPEARANCE", true),
			PreserveHighlights: getEnvBoolOrDefault("STYLE_PRESERVE_HIGHLIGHTS", true),
			StableSkinTones:    getEnvBoolOrDefault("STYLE_STABLE_SKIN_TONES", true),
			AvoidFilterLook:    getEnvBoolOrDefault("STYLE_AVOID_FILTER_LOOK", true),
		},
	}

	return cfg, nil
}
