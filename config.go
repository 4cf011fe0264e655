// Package kcsrecover recovers byte streams from audio recordings of
// vintage-computer cassette tapes encoded in the Kansas City Standard and
// related FSK encodings (UK101, BBC Micro, Atari 400/800, CUTS).
package kcsrecover

import (
	"fmt"
	"math"
	"strconv"
)

// WindowKind selects the spectral window function applied before the FFT.
type WindowKind int

const (
	WindowNone WindowKind = iota
	WindowBartlett
	WindowWelch
	WindowHann
)

func ParseWindowKind(s string) (WindowKind, error) {
	switch s {
	case "", "none":
		return WindowNone, nil
	case "bartlett":
		return WindowBartlett, nil
	case "welch":
		return WindowWelch, nil
	case "hann":
		return WindowHann, nil
	default:
		return WindowNone, fmt.Errorf("kcsrecover: unknown window kind %q", s)
	}
}

// ParityKind selects the parity scheme declared by the frame layout. Parity
// is never verified (see spec Non-goals); it only affects cursor placement.
type ParityKind int

const (
	ParityNone ParityKind = iota
	ParityEven
	ParityOdd
)

// ChannelSel selects how a stereo sample pair collapses to one real series.
type ChannelSel int

const (
	ChannelLeft ChannelSel = iota
	ChannelRight
	ChannelSum
)

func ParseChannelSel(s string) (ChannelSel, error) {
	switch s {
	case "", "L":
		return ChannelLeft, nil
	case "R":
		return ChannelRight, nil
	case "A":
		return ChannelSum, nil
	default:
		return ChannelLeft, fmt.Errorf("kcsrecover: unknown channel selector %q", s)
	}
}

// FrameLayout is one UART-style character: start bit + data bits (LSB
// first) + optional parity + stop bits.
type FrameLayout struct {
	DataBits   int
	ParityBits int
	Parity     ParityKind
	StopBits   int
}

// ParseFrameLayout parses the "NxY" CLI syntax, e.g. "8N2" (8 data bits, no
// parity, 2 stop bits) or "7E1" (7 data bits, even parity, 1 stop bit).
func ParseFrameLayout(s string) (FrameLayout, error) {
	if len(s) < 3 {
		return FrameLayout{}, fmt.Errorf("kcsrecover: invalid frame layout %q", s)
	}
	// split at the single parity letter, which is the only non-digit rune.
	cut := -1
	for i, r := range s {
		if r == 'N' || r == 'E' || r == 'O' || r == 'n' || r == 'e' || r == 'o' {
			cut = i
			break
		}
	}
	if cut <= 0 || cut >= len(s)-1 {
		return FrameLayout{}, fmt.Errorf("kcsrecover: invalid frame layout %q", s)
	}
	dataBits, err := strconv.Atoi(s[:cut])
	if err != nil {
		return FrameLayout{}, fmt.Errorf("kcsrecover: invalid frame layout %q: %w", s, err)
	}
	stopBits, err := strconv.Atoi(s[cut+1:])
	if err != nil {
		return FrameLayout{}, fmt.Errorf("kcsrecover: invalid frame layout %q: %w", s, err)
	}
	var parity ParityKind
	parityBits := 0
	switch s[cut] {
	case 'N', 'n':
		parity = ParityNone
	case 'E', 'e':
		parity = ParityEven
		parityBits = 1
	case 'O', 'o':
		parity = ParityOdd
		parityBits = 1
	}
	return FrameLayout{
		DataBits:   dataBits,
		ParityBits: parityBits,
		Parity:     parity,
		StopBits:   stopBits,
	}, nil
}

// Config is the decoder configuration, frozen after construction.
type Config struct {
	LoHz  float64
	HiHz  float64
	Baud  float64
	Frame FrameLayout

	Window          WindowKind
	StepsPerBit     int
	Channel         ChannelSel
	KeepShortRuns   bool
	AssumeResampled bool
	BitStreamOutput bool
	GraphOutput     bool
	PrintData       bool

	// MaxSamples caps the sample ingester; zero means unlimited.
	MaxSamples int

	// Resample is the target samples-per-bit an upstream resampler should
	// produce; zero disables invoking the external resampler.
	Resample float64
}

// CUTSPreset returns the preset tone/baud configuration for the CUTS
// variant (1200 baud, 600/1200 Hz tones).
func CUTSPreset() (loHz, hiHz, baud float64) {
	return 600, 1200, 1200
}

// Derived holds the quantities computed once from Config and the sample
// rate of the input waveform.
type Derived struct {
	SamplesPerBit float64
	Step          int
	BitWidth      float64
	FrameBits     int
	FrameWidth    float64

	W int

	LoBin float64
	LoN1  int
	LoN2  int
	LoA1  float64
	LoA2  float64

	HiBin float64
	HiN1  int
	HiN2  int
	HiA1  float64
	HiA2  float64

	// SumOfThree selects the sum-of-three-bins rule over interpolation: it
	// applies only when the caller asserts the signal was externally
	// resampled to an integer number of samples per bit and both tone bins
	// land on exact integer bins.
	SumOfThree bool
}

// roundHalfUp implements the spec's "add 0.5, truncate" rounding rule,
// which every bit-position computation in the frame decoder must use to
// avoid accumulated drift.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func isIntegerish(x float64) bool {
	return math.Abs(x-math.Round(x)) < 1e-9
}

// largestPowerOfTwoLE returns the largest power of two <= x, with a floor
// of 1.
func largestPowerOfTwoLE(x float64) int {
	if x < 1 {
		return 1
	}
	n := 1
	for float64(n*2) <= x {
		n *= 2
	}
	return n
}

// DeriveConfig computes Derived from cfg and the waveform's sample rate.
func DeriveConfig(cfg Config, fs float64) Derived {
	var d Derived

	d.SamplesPerBit = math.Round(fs / cfg.Baud)
	d.Step = int(math.Max(1, math.Round(fs/cfg.Baud/float64(cfg.StepsPerBit))))
	d.BitWidth = fs / cfg.Baud / float64(d.Step)
	d.FrameBits = 1 + cfg.Frame.DataBits + cfg.Frame.ParityBits + cfg.Frame.StopBits
	d.FrameWidth = d.BitWidth * float64(d.FrameBits)

	w := largestPowerOfTwoLE(fs / cfg.Baud)
	if cfg.LoHz < cfg.Baud {
		w *= 2
	}
	d.W = w

	d.LoBin = cfg.LoHz * float64(w) / fs
	d.LoN1, d.LoN2, d.LoA1, d.LoA2 = splitBin(d.LoBin, w)

	d.HiBin = cfg.HiHz * float64(w) / fs
	d.HiN1, d.HiN2, d.HiA1, d.HiA2 = splitBin(d.HiBin, w)

	d.SumOfThree = cfg.AssumeResampled && isIntegerish(d.LoBin) && isIntegerish(d.HiBin)

	return d
}

func splitBin(bin float64, w int) (n1, n2 int, a1, a2 float64) {
	n1 = int(math.Floor(bin))
	n2 = n1 + 1
	a1 = float64(n2) - bin
	a2 = 1 - a1
	if n1 == 0 {
		a1 = 0
		a2 = 1
	}
	if n2 > w/2 {
		n2 = w / 2
	}
	return
}
