package media

import (
	"fmt"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/camden-git/printprep/pixel"
)

const (
	PreviewJpegQuality   = 80
	PreviewFileExtension = ".jpg"
)

// Processor generates review assets from converted images. it relies on a
// Store implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// GeneratePreview creates a review preview where the longest side matches
// maxSize, saves it through the Store with a generated filename, and returns
// the relative path to the saved asset.
func (p *Processor) GeneratePreview(arr *pixel.Array, originalPath string, maxSize int) (string, error) {
	if err := arr.Validate(); err != nil {
		return "", fmt.Errorf("invalid image for preview: %w", err)
	}

	preview := imaging.Fit(arr.ToImage(), maxSize, maxSize, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		defer writer.Close()
		err := imaging.Encode(writer, preview, imaging.JPEG, imaging.JPEGQuality(PreviewJpegQuality))
		if err != nil {
			log.Printf("processor: Failed to encode preview: %v", err)
			writer.CloseWithError(fmt.Errorf("preview encoding failed: %w", err))
		}
	}()

	previewUUID, err := uuid.NewRandom()
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to generate UUID for preview: %w", err)
	}
	targetFilename := previewUUID.String() + PreviewFileExtension

	savedRelPath, err := p.store.Save(AssetTypePreview, targetFilename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to save preview via store: %w", err)
	}

	log.Printf("processor: Generated and saved preview for %s at %s", originalPath, savedRelPath)
	return savedRelPath, nil
}
