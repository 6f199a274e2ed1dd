package media

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/printprep/config"
	"github.com/camden-git/printprep/optimize"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*img.Stride + x*4
			img.Pix[i] = uint8((x * 255) / w)
			img.Pix[i+1] = uint8((y * 255) / h)
			img.Pix[i+2] = 128
			img.Pix[i+3] = 255
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		OutputDirectory:  t.TempDir(),
		JPEGQuality:      90,
		GeneratePreviews: false,
		Style:            optimize.DefaultStylePreferences(),
	}
}

func TestOutputPathFor(t *testing.T) {
	t.Parallel()

	t.Run("into the configured output directory", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		c := NewConverter(cfg, nil)
		got := c.OutputPathFor("/photos/vacation/IMG_0042.png")
		assert.Equal(t, filepath.Join(cfg.OutputDirectory, "IMG_0042.jpg"), got)
	})

	t.Run("alongside the input when unset", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		cfg.OutputDirectory = ""
		c := NewConverter(cfg, nil)
		got := c.OutputPathFor("/photos/vacation/IMG_0042.png")
		assert.Equal(t, "/photos/vacation/IMG_0042.jpg", got)
	})
}

func TestConvert(t *testing.T) {
	t.Parallel()

	t.Run("end to end", func(t *testing.T) {
		t.Parallel()
		inputDir := t.TempDir()
		input := filepath.Join(inputDir, "shot.png")
		writeTestPNG(t, input, 64, 48)

		cfg := testConfig(t)
		c := NewConverter(cfg, nil)

		result := c.Convert(input)
		require.Equal(t, StatusSuccess, result.Status, "error: %s", result.ErrorMessage)
		assert.Equal(t, input, result.InputPath)
		require.NotNil(t, result.Metrics)
		require.NotNil(t, result.Params)
		assert.GreaterOrEqual(t, result.ProcessingMillis, int64(0))

		info, err := os.Stat(result.OutputPath)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("skips existing output under no-overwrite", func(t *testing.T) {
		t.Parallel()
		inputDir := t.TempDir()
		input := filepath.Join(inputDir, "shot.png")
		writeTestPNG(t, input, 32, 32)

		cfg := testConfig(t)
		cfg.NoOverwrite = true
		c := NewConverter(cfg, nil)

		first := c.Convert(input)
		require.Equal(t, StatusSuccess, first.Status)

		second := c.Convert(input)
		assert.Equal(t, StatusSkipped, second.Status)
		assert.Equal(t, first.OutputPath, second.OutputPath)
	})

	t.Run("reports undecodable input as failed", func(t *testing.T) {
		t.Parallel()
		inputDir := t.TempDir()
		input := filepath.Join(inputDir, "broken.png")
		require.NoError(t, os.WriteFile(input, []byte("not an image"), 0644))

		cfg := testConfig(t)
		result := NewConverter(cfg, nil).Convert(input)
		assert.Equal(t, StatusFailed, result.Status)
		assert.Contains(t, result.ErrorMessage, "decode")
	})
}

func TestIsRasterImage(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRasterImage("photo.JPG"))
	assert.True(t, IsRasterImage("photo.jpeg"))
	assert.True(t, IsRasterImage("scan.tiff"))
	assert.False(t, IsRasterImage("clip.mp4"))
	assert.False(t, IsRasterImage("noextension"))
}

func TestBatchReportSuccessRate(t *testing.T) {
	t.Parallel()

	report := BatchReport{TotalFiles: 4, Successful: 3}
	assert.InDelta(t, 75.0, report.SuccessRate(), 1e-9)

	empty := BatchReport{}
	assert.Zero(t, empty.SuccessRate())
}
