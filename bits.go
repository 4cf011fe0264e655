package kcsrecover

// BuildBitTimeline converts each spectral step to a bit value: 0 if the
// low tone dominates (lo[i]/avlo > hi[i]/avhi), else 1.
func BuildBitTimeline(lo, hi []float64, avLo, avHi float64) []byte {
	b := make([]byte, len(lo))
	for i := range lo {
		if lo[i]/avLo > hi[i]/avHi {
			b[i] = 0
		} else {
			b[i] = 1
		}
	}
	return b
}

// SmoothBitTimeline corrects isolated singleton, pair, and triple
// polarity flips in place, gated by the steps-per-bit granularity. Passes
// run in order (singletons, pairs, triples), left to right, with
// immediate write-back so later passes observe earlier corrections.
func SmoothBitTimeline(b []byte, stepsPerBit int) {
	if stepsPerBit >= 3 {
		smoothSingletons(b)
	}
	if stepsPerBit >= 5 {
		smoothPairs(b)
	}
	if stepsPerBit >= 9 {
		smoothTriples(b)
	}
}

func smoothSingletons(b []byte) {
	for i := 1; i < len(b)-1; i++ {
		if b[i] != b[i-1] && b[i] != b[i+1] {
			b[i] = b[i-1]
		}
	}
}

func smoothPairs(b []byte) {
	for i := 1; i+2 < len(b); i++ {
		flank := b[i-1]
		if flank == b[i+2] && b[i] != flank && b[i+1] != flank {
			b[i] = flank
			b[i+1] = flank
		}
	}
}

func smoothTriples(b []byte) {
	for i := 1; i+3 < len(b); i++ {
		flank := b[i-1]
		if flank == b[i+3] && b[i] != flank && b[i+1] != flank && b[i+2] != flank {
			b[i] = flank
			b[i+1] = flank
			b[i+2] = flank
		}
	}
}
