package media

import (
	"fmt"
	"log"

	"github.com/disintegration/imaging"

	"github.com/camden-git/printprep/metadata"
	"github.com/camden-git/printprep/pixel"
)

// Decode reads an image file into a pixel array and extracts whatever
// capture metadata it carries. Missing or unreadable metadata is never an
// error; only an undecodable image is.
func Decode(path string) (*pixel.Array, *metadata.CaptureMetadata, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	arr, err := pixel.FromImage(img)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read pixels from %s: %w", path, err)
	}

	meta, err := metadata.FromFile(path)
	if err != nil {
		// pixels decoded fine; proceed with image-only analysis
		log.Printf("media: could not read metadata for %s: %v", path, err)
		meta = nil
	}
	return arr, meta, nil
}

// EncodeJPEG writes the array to path as a JPEG at the given quality.
func EncodeJPEG(arr *pixel.Array, path string, quality int) error {
	if err := arr.Validate(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	err := imaging.Save(arr.ToImage(), path, imaging.JPEGQuality(quality))
	if err != nil {
		return fmt.Errorf("failed to save JPEG to %s: %w", path, err)
	}
	return nil
}
