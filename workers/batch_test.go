package workers

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/printprep/config"
	"github.com/camden-git/printprep/media"
	"github.com/camden-git/printprep/optimize"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(i % 255)
		img.Pix[i+1] = 100
		img.Pix[i+2] = 150
		img.Pix[i+3] = 255
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestBatchRun(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	good1 := filepath.Join(inputDir, "a.png")
	good2 := filepath.Join(inputDir, "b.png")
	bad := filepath.Join(inputDir, "broken.png")
	writeTestPNG(t, good1)
	writeTestPNG(t, good2)
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))

	cfg := config.Config{
		OutputDirectory: t.TempDir(),
		JPEGQuality:     90,
		Style:           optimize.DefaultStylePreferences(),
	}
	converter := media.NewConverter(cfg, nil)

	bp := NewBatchProcessor(converter, nil, 10, 2)
	defer bp.Stop()

	report := bp.Run([]string{good1, good2, bad})

	assert.Equal(t, 3, report.TotalFiles)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Skipped)
	assert.Len(t, report.Results, 3)
	assert.GreaterOrEqual(t, report.TotalMillis, int64(0))

	// the pool is reusable: a second run starts from a clean slate
	second := bp.Run([]string{good1})
	assert.Equal(t, 1, second.TotalFiles)
	assert.Equal(t, 1, second.Successful)
}
