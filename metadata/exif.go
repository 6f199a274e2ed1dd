package metadata

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// metering mode names per the EXIF spec, keyed by tag value
var meteringModeNames = map[int]string{
	0: "unknown",
	1: "average",
	2: "center-weighted",
	3: "spot",
	4: "multi-spot",
	5: "pattern",
	6: "partial",
}

// scene capture type names per the EXIF spec, keyed by tag value
var sceneTypeNames = map[int]string{
	0: "standard",
	1: "landscape",
	2: "portrait",
	3: "night",
}

// helper to safely get and convert a rational tag (like FNumber, ExposureBias)
func getRational(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil // Tag not found
	}
	// rational numbers are often stored as num/den
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		// sometimes stored as Int instead
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

// helper to safely get and convert an integer tag (like ISO)
func getInt(exifData *exif.Exif, tagName exif.FieldName) *int {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// ISO might be a slice, get the first value
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// helper to map an enumerated integer tag through a name table
func getEnum(exifData *exif.Exif, tagName exif.FieldName, names map[int]string) *string {
	val := getInt(exifData, tagName)
	if val == nil {
		return nil
	}
	name, ok := names[*val]
	if !ok {
		return nil
	}
	name = strings.TrimSpace(name)
	return &name
}

// getFlashFired decodes the EXIF Flash bitfield; bit 0 is "flash fired"
func getFlashFired(exifData *exif.Exif) *bool {
	val := getInt(exifData, exif.Flash)
	if val == nil {
		return nil
	}
	fired := *val&0x1 != 0
	return &fired
}

// FromReader extracts capture metadata from an image stream. A stream with
// no EXIF block, or with unreadable individual tags, is not an error: the
// corresponding fields are simply left nil.
func FromReader(r io.Reader) *CaptureMetadata {
	exifData, err := exif.Decode(r)
	if err != nil {
		// not necessarily a problem, the file might just lack EXIF data
		return &CaptureMetadata{}
	}

	return &CaptureMetadata{
		ISO:                  getInt(exifData, exif.ISOSpeedRatings),
		ExposureTime:         getRational(exifData, exif.ExposureTime),
		Aperture:             getRational(exifData, exif.FNumber),
		ExposureCompensation: getRational(exifData, exif.ExposureBiasValue),
		FlashFired:           getFlashFired(exifData),
		SceneType:            getEnum(exifData, exif.SceneCaptureType, sceneTypeNames),
		BrightnessValue:      getRational(exifData, exif.BrightnessValue),
		MeteringMode:         getEnum(exifData, exif.MeteringMode, meteringModeNames),
	}
}

// FromFile extracts capture metadata from an image file. Only failing to
// open the file is an error; missing metadata never is.
func FromFile(filePath string) (*CaptureMetadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	meta := FromReader(file)
	if meta.ISO == nil && meta.ExposureTime == nil && meta.Aperture == nil {
		log.Printf("metadata: no usable EXIF data found in %s", filePath)
	}
	return meta, nil
}
