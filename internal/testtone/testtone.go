// Package testtone generates synthetic KCS/FSK cassette waveforms: pure
// sine cycles at the configured low-tone frequency for 0 bits and the
// high-tone frequency for 1 bits, framed per a kcsrecover.FrameLayout. It
// backs both the cmd/gentape fixture generator and the decoder's
// round-trip tests, the way the teacher's genFBwav/Mesen2wav tools built
// wav.Sample buffers from a bit sequence.
package testtone

import (
	"math"
	"math/rand"

	"github.com/retrotape/kcsrecover"
)

// Options controls synthetic waveform generation.
type Options struct {
	SampleRate    float64
	LeadInBits    int // carrier ("1") bits emitted before the first frame
	TrailingCarrierBits int // carrier bits emitted after the last frame
}

// DefaultOptions returns 80 bits of carrier lead-in and 20 bits of trailing
// carrier (about 0.27 s and 0.07 s at 300 baud); callers that need other
// counts set LeadInBits/TrailingCarrierBits directly.
func DefaultOptions(sampleRate float64) Options {
	return Options{SampleRate: sampleRate, LeadInBits: 80, TrailingCarrierBits: 20}
}

// EncodeWaveform builds a continuous-phase sine waveform encoding data as
// consecutive UART-style frames (start bit, data bits LSB-first, optional
// parity, stop bits) per cfg's frame layout and tone frequencies.
func EncodeWaveform(data []byte, cfg kcsrecover.Config, opts Options) []float64 {
	samplesPerBit := int(math.Round(opts.SampleRate / cfg.Baud))
	phase := 0.0

	var out []float64
	emitBit := func(bit int) {
		freq := cfg.LoHz
		if bit == 1 {
			freq = cfg.HiHz
		}
		dp := 2 * math.Pi * freq / opts.SampleRate
		for i := 0; i < samplesPerBit; i++ {
			out = append(out, math.Sin(phase))
			phase += dp
		}
	}

	for i := 0; i < opts.LeadInBits; i++ {
		emitBit(1)
	}

	for _, b := range data {
		emitBit(0) // start bit
		parityOnes := 0
		for i := 0; i < cfg.Frame.DataBits; i++ {
			bit := int((b >> uint(i)) & 1)
			if bit == 1 {
				parityOnes++
			}
			emitBit(bit)
		}
		if cfg.Frame.ParityBits > 0 {
			parityBit := parityOnes % 2
			if cfg.Frame.Parity == kcsrecover.ParityEven {
				emitBit(parityBit)
			} else {
				emitBit(1 - parityBit)
			}
		}
		for i := 0; i < cfg.Frame.StopBits; i++ {
			emitBit(1)
		}
	}

	for i := 0; i < opts.TrailingCarrierBits; i++ {
		emitBit(1)
	}

	return out
}

// EncodeGap returns a new slice holding bits bit widths of pure carrier,
// which callers append to a waveform when synthesizing the
// multi-file carrier-gap scenarios in the round-trip test suite.
func EncodeGap(cfg kcsrecover.Config, opts Options, bits int) []float64 {
	samplesPerBit := int(math.Round(opts.SampleRate / cfg.Baud))
	phase := 0.0
	dp := 2 * math.Pi * cfg.HiHz / opts.SampleRate
	out := make([]float64, 0, samplesPerBit*bits)
	for i := 0; i < bits*samplesPerBit; i++ {
		out = append(out, math.Sin(phase))
		phase += dp
	}
	return out
}

// AddNoise returns a copy of samples with additive white Gaussian noise at
// the given SNR in dB.
func AddNoise(samples []float64, snrDB float64, rng *rand.Rand) []float64 {
	var power float64
	for _, s := range samples {
		power += s * s
	}
	power /= float64(len(samples))

	noisePower := power / math.Pow(10, snrDB/10)
	sigma := math.Sqrt(noisePower)

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s + rng.NormFloat64()*sigma
	}
	return out
}
