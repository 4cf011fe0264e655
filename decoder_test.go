package kcsrecover_test

import (
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrotape/kcsrecover"
	"github.com/retrotape/kcsrecover/internal/testtone"
)

func testConfig() kcsrecover.Config {
	frame, _ := kcsrecover.ParseFrameLayout("8N2")
	return kcsrecover.Config{
		LoHz: 1200, HiHz: 2400, Baud: 300,
		Frame:       frame,
		StepsPerBit: 4,
	}
}

func writeTape(t *testing.T, name string, samples []float64, rate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := testtone.WriteWAV(path, samples, rate); err != nil {
		t.Fatalf("writing fixture wav: %v", err)
	}
	return path
}

func matchRatio(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	match := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			match++
		}
	}
	return float64(match) / float64(len(a))
}

// TestDecoderRoundTripExact exercises the full pipeline end to end on a
// noise-free synthetic recording: ingest -> spectral analysis -> threshold
// -> bit timeline -> frame decode -> file emission.
func TestDecoderRoundTripExact(t *testing.T) {
	cfg := testConfig()
	cfg.KeepShortRuns = true // "HELLO" alone is under the 20-byte keep floor
	fs := 44100.0

	data := []byte("HELLO")
	opts := testtone.DefaultOptions(fs)
	samples := testtone.EncodeWaveform(data, cfg, opts)
	path := writeTape(t, "hello.wav", samples, int(fs))

	dec := &kcsrecover.Decoder{Config: cfg, Logger: log.New(io.Discard, "", 0)}
	out, err := dec.Run(path)
	assert.NoError(t, err)
	assert.Len(t, out.Files, 1)

	content, err := os.ReadFile(out.Files[0])
	assert.NoError(t, err)
	assert.Equal(t, data, content)
}

// TestDecoderRoundTripHighSNR exercises the noisy round-trip path: at a
// high SNR, the vast majority of bytes should still decode correctly.
func TestDecoderRoundTripHighSNR(t *testing.T) {
	cfg := testConfig()
	cfg.KeepShortRuns = true
	fs := 44100.0

	data := make([]byte, 40)
	for i := range data {
		data[i] = byte('A' + i%26)
	}
	opts := testtone.DefaultOptions(fs)
	samples := testtone.EncodeWaveform(data, cfg, opts)
	samples = testtone.AddNoise(samples, 25, rand.New(rand.NewSource(7)))
	path := writeTape(t, "noisy.wav", samples, int(fs))

	dec := &kcsrecover.Decoder{Config: cfg, Logger: log.New(io.Discard, "", 0)}
	out, err := dec.Run(path)
	assert.NoError(t, err)
	if assert.Len(t, out.Files, 1) {
		content, err := os.ReadFile(out.Files[0])
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, matchRatio(data, content), 0.99)
	}
}

// TestDecoderAllSilenceProducesNoFiles covers the all-silence boundary
// behavior: trimming removes every step, decoding emits nothing, and no
// error is raised for a well-formed but contentless recording.
func TestDecoderAllSilenceProducesNoFiles(t *testing.T) {
	cfg := testConfig()
	fs := 44100.0
	samples := make([]float64, 20000)
	path := writeTape(t, "silence.wav", samples, int(fs))

	dec := &kcsrecover.Decoder{Config: cfg, Logger: log.New(io.Discard, "", 0)}
	out, err := dec.Run(path)
	assert.NoError(t, err)
	assert.Empty(t, out.Files)
	assert.True(t, out.Threshold.Reverted)
}

// TestDecoderEmptyWaveformErrors covers a header-only recording with zero
// PCM samples: the sample ingester reports it as an error rather than
// silently producing zero output.
func TestDecoderEmptyWaveformErrors(t *testing.T) {
	cfg := testConfig()
	path := writeTape(t, "empty.wav", nil, 44100)

	dec := &kcsrecover.Decoder{Config: cfg, Logger: log.New(io.Discard, "", 0)}
	_, err := dec.Run(path)
	assert.Error(t, err)
}

// TestDecoderCarrierGapSplitsIntoTwoFiles covers the multi-file scenario:
// two data runs separated by a long carrier gap must split into two
// emitted files, each round-tripping its own content.
func TestDecoderCarrierGapSplitsIntoTwoFiles(t *testing.T) {
	cfg := testConfig()
	fs := 44100.0

	var first, second []byte
	for i := 0; i < 30; i++ {
		first = append(first, byte('a'+i%26))
		second = append(second, byte('0'+i%10))
	}

	opts := testtone.DefaultOptions(fs)
	samples := testtone.EncodeWaveform(first, cfg, opts)
	samples = append(samples, testtone.EncodeGap(cfg, opts, 200)...)
	samples = append(samples, testtone.EncodeWaveform(second, cfg, opts)...)
	path := writeTape(t, "twofiles.wav", samples, int(fs))

	dec := &kcsrecover.Decoder{Config: cfg, Logger: log.New(io.Discard, "", 0)}
	out, err := dec.Run(path)
	assert.NoError(t, err)
	if assert.Len(t, out.Files, 2) {
		c1, _ := os.ReadFile(out.Files[0])
		c2, _ := os.ReadFile(out.Files[1])
		assert.GreaterOrEqual(t, matchRatio(first, c1), 0.95)
		assert.GreaterOrEqual(t, matchRatio(second, c2), 0.95)
	}
}

// TestDecoderCUTSPreset covers the CUTS tone/baud preset with an
// alternating bit-pattern payload.
func TestDecoderCUTSPreset(t *testing.T) {
	cfg := testConfig()
	cfg.LoHz, cfg.HiHz, cfg.Baud = kcsrecover.CUTSPreset()
	cfg.KeepShortRuns = true
	fs := 44100.0

	data := make([]byte, 25)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0x55
		} else {
			data[i] = 0xAA
		}
	}
	opts := testtone.DefaultOptions(fs)
	samples := testtone.EncodeWaveform(data, cfg, opts)
	path := writeTape(t, "cuts.wav", samples, int(fs))

	dec := &kcsrecover.Decoder{Config: cfg, Logger: log.New(io.Discard, "", 0)}
	out, err := dec.Run(path)
	assert.NoError(t, err)
	if assert.Len(t, out.Files, 1) {
		content, _ := os.ReadFile(out.Files[0])
		assert.GreaterOrEqual(t, matchRatio(data, content), 0.95)
	}
}
