package kcsrecover

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sineWave(freq, sampleRate float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return s
}

// TestAnalyzeSpectrumDiscriminatesTones checks that a pure low-tone signal
// produces lo >> hi energy and vice versa, across every window kind.
func TestAnalyzeSpectrumDiscriminatesTones(t *testing.T) {
	fs := 44100.0
	cfg := kcsConfig()
	cfg.StepsPerBit = 4

	for _, w := range []WindowKind{WindowNone, WindowBartlett, WindowWelch, WindowHann} {
		cfg.Window = w
		d := DeriveConfig(cfg, fs)

		loSignal := sineWave(cfg.LoHz, fs, d.W*6)
		lo, hi := AnalyzeSpectrum(loSignal, cfg, d)
		assert.NotEmpty(t, lo)
		mid := len(lo) / 2
		assert.Greater(t, lo[mid], hi[mid], "window=%v: expected low tone to dominate", w)

		hiSignal := sineWave(cfg.HiHz, fs, d.W*6)
		lo2, hi2 := AnalyzeSpectrum(hiSignal, cfg, d)
		assert.Greater(t, hi2[mid], lo2[mid], "window=%v: expected high tone to dominate", w)
	}
}

// TestAnalyzeSpectrumEqualLength checks invariant 2: |lo| == |hi| == P.
func TestAnalyzeSpectrumEqualLength(t *testing.T) {
	fs := 44100.0
	cfg := kcsConfig()
	d := DeriveConfig(cfg, fs)
	s := sineWave(cfg.LoHz, fs, d.W*10+37)

	lo, hi := AnalyzeSpectrum(s, cfg, d)
	wantP := (len(s)-d.W)/d.Step + 1
	assert.Len(t, lo, wantP)
	assert.Len(t, hi, wantP)
}

func TestAnalyzeSpectrumTooShort(t *testing.T) {
	fs := 44100.0
	cfg := kcsConfig()
	d := DeriveConfig(cfg, fs)
	s := make([]float64, d.W-1)

	lo, hi := AnalyzeSpectrum(s, cfg, d)
	assert.Nil(t, lo)
	assert.Nil(t, hi)
}

func TestSumOfThreeGuardsBounds(t *testing.T) {
	spec := []float64{1, 2, 3}
	assert.Equal(t, 1.0+2.0, sumOfThreeBins(spec, 0))
	assert.Equal(t, 2.0+3.0, sumOfThreeBins(spec, 2))
	assert.Equal(t, 1.0+2.0+3.0, sumOfThreeBins(spec, 1))
}

func TestApplyWindowShapes(t *testing.T) {
	n := 9
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = 1
	}
	applyWindow(buf, WindowHann)
	assert.InDelta(t, 0, buf[0], 1e-9)
	assert.InDelta(t, 0, buf[n-1], 1e-9)
	assert.InDelta(t, 1, buf[n/2], 1e-9)

	buf2 := make([]float64, n)
	for i := range buf2 {
		buf2[i] = 1
	}
	applyWindow(buf2, WindowBartlett)
	assert.InDelta(t, 0, buf2[0], 1e-9)
	assert.InDelta(t, 1, buf2[n/2], 1e-9)
}
