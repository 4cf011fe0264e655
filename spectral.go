package kcsrecover

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// applyWindow multiplies buf in place by the configured window function,
// following spec's per-window formulas exactly rather than a library
// window table (the corpus hand-rolls window functions the same way, see
// nwpulei-cw's Hanning window in dsp.go).
func applyWindow(buf []float64, kind WindowKind) {
	n := len(buf)
	if n <= 1 || kind == WindowNone {
		return
	}
	nm1 := float64(n - 1)
	switch kind {
	case WindowBartlett:
		half := nm1 / 2
		for i := range buf {
			buf[i] *= 1 - math.Abs((float64(i)-half)/half)
		}
	case WindowWelch:
		half := nm1 / 2
		for i := range buf {
			x := (float64(i) - half) / half
			buf[i] *= 1 - x*x
		}
	case WindowHann:
		for i := range buf {
			buf[i] *= 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/nm1))
		}
	}
}

// powerSpectrum runs the FFT over a windowed real-valued frame and returns
// the non-negative power spectrum of length W/2+1. Any monotone estimate
// suffices per spec (comparisons downstream are ratio-wise against
// adaptive thresholds), so magnitude-squared is used directly.
func powerSpectrum(windowed []float64) []float64 {
	w := len(windowed)
	in := make([]complex128, w)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}
	out := fft.FFT(in)
	pow := make([]float64, w/2+1)
	for k := 0; k <= w/2; k++ {
		m := cmplx.Abs(out[k])
		pow[k] = m * m
	}
	return pow
}

// AnalyzeSpectrum slides a window of length d.W across s with hop d.Step,
// producing parallel lo/hi tone-energy sequences of length
// floor((len(s)-W)/step)+1.
func AnalyzeSpectrum(s []float64, cfg Config, d Derived) (lo, hi []float64) {
	n := len(s)
	if n < d.W {
		return nil, nil
	}
	p := (n-d.W)/d.Step + 1
	lo = make([]float64, p)
	hi = make([]float64, p)

	buf := make([]float64, d.W)
	for i := 0; i < p; i++ {
		start := i * d.Step
		copy(buf, s[start:start+d.W])
		applyWindow(buf, cfg.Window)
		spec := powerSpectrum(buf)

		if d.SumOfThree {
			lo[i] = sumOfThreeBins(spec, d.LoN1)
			hi[i] = sumOfThreeBins(spec, d.HiN1)
		} else {
			lo[i] = d.LoA1*spec[d.LoN1] + d.LoA2*spec[d.LoN2]
			hi[i] = d.HiA1*spec[d.HiN1] + d.HiA2*spec[d.HiN2]
		}
	}
	return lo, hi
}

// sumOfThreeBins sums spec[n1-1..n1+1], guarding both ends against
// out-of-range indices (the spec's own open question flags the original
// implementation as not guarding this).
func sumOfThreeBins(spec []float64, n1 int) float64 {
	sum := spec[n1]
	if n1-1 >= 0 {
		sum += spec[n1-1]
	}
	if n1+1 < len(spec) {
		sum += spec[n1+1]
	}
	return sum
}
