package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureHelpersNilSafe(t *testing.T) {
	t.Parallel()

	var m *CaptureMetadata
	assert.False(t, m.HighISO(800))
	assert.False(t, m.SlowShutter(1.0/30.0))
	assert.False(t, m.FlashWasFired())

	empty := &CaptureMetadata{}
	assert.False(t, empty.HighISO(800))
	assert.False(t, empty.SlowShutter(1.0/30.0))
	assert.False(t, empty.FlashWasFired())
}

func TestHighISO(t *testing.T) {
	t.Parallel()

	iso := 800
	m := &CaptureMetadata{ISO: &iso}
	assert.True(t, m.HighISO(800), "threshold is inclusive")
	assert.False(t, m.HighISO(801))
}

func TestSlowShutter(t *testing.T) {
	t.Parallel()

	exp := 0.5
	m := &CaptureMetadata{ExposureTime: &exp}
	assert.True(t, m.SlowShutter(1.0/30.0))

	fast := 1.0 / 500.0
	m.ExposureTime = &fast
	assert.False(t, m.SlowShutter(1.0/30.0))
}

func TestFlashWasFired(t *testing.T) {
	t.Parallel()

	fired := true
	m := &CaptureMetadata{FlashFired: &fired}
	assert.True(t, m.FlashWasFired())

	fired = false
	assert.False(t, m.FlashWasFired())
}
