package kcsrecover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTrimAndThresholdConverges builds a synthetic spectral series
// alternating low/high dominance and checks the refined averages separate
// the two classes (invariant 3: every step belongs to exactly one class).
func TestTrimAndThresholdConverges(t *testing.T) {
	var lo, hi []float64
	// near-silence leader
	for i := 0; i < 5; i++ {
		lo = append(lo, 0.01)
		hi = append(hi, 0.01)
	}
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			lo = append(lo, 10.0)
			hi = append(hi, 1.0)
		} else {
			lo = append(lo, 1.0)
			hi = append(hi, 10.0)
		}
	}
	for i := 0; i < 5; i++ {
		lo = append(lo, 0.01)
		hi = append(hi, 0.01)
	}

	res := TrimAndThreshold(lo, hi, nil)
	assert.Equal(t, 5, res.HeadTrimmed)
	assert.Equal(t, 5, res.TailTrimmed)
	assert.False(t, res.Reverted)
	assert.Greater(t, res.AvLo, 0.0)
	assert.Greater(t, res.AvHi, 0.0)

	b := BuildBitTimeline(res.Lo, res.Hi, res.AvLo, res.AvHi)
	for i, bit := range b {
		if i%2 == 0 {
			assert.Equal(t, byte(0), bit)
		} else {
			assert.Equal(t, byte(1), bit)
		}
	}
}

// TestTrimAndThresholdRevertsOnImbalance checks that when one class would
// hold under 8% of steps, thresholds revert to the global mean rather than
// the refined (and here, nonsensical) split.
func TestTrimAndThresholdRevertsOnImbalance(t *testing.T) {
	var lo, hi []float64
	for i := 0; i < 200; i++ {
		lo = append(lo, 1.0)
		hi = append(hi, 10.0)
	}
	// a single low-dominant outlier: under the 8% floor.
	lo[0], hi[0] = 10.0, 1.0

	res := TrimAndThreshold(lo, hi, nil)
	assert.True(t, res.Reverted)
}

func TestTrimAndThresholdEmptyInput(t *testing.T) {
	res := TrimAndThreshold(nil, nil, nil)
	assert.Nil(t, res.Lo)
	assert.Nil(t, res.Hi)
}

func TestTrimAndThresholdAllSilence(t *testing.T) {
	var lo, hi []float64
	for i := 0; i < 50; i++ {
		lo = append(lo, 0)
		hi = append(hi, 0)
	}
	res := TrimAndThreshold(lo, hi, nil)
	assert.Empty(t, res.Lo)
	assert.True(t, res.Reverted)
	assert.Equal(t, 50, res.HeadTrimmed)
}
