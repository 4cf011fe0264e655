package kcsrecover

import "log"

// ThresholdResult carries the trimmed spectral series together with the
// final per-class averages used to build the bit timeline.
type ThresholdResult struct {
	Lo, Hi       []float64
	AvLo, AvHi   float64
	HeadTrimmed  int
	TailTrimmed  int
	Reverted     bool
	LowCount     int
	HighCount    int
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// TrimAndThreshold drops leading and trailing near-silence and then
// iteratively refines the two per-class (low tone, high tone) averages.
func TrimAndThreshold(lo, hi []float64, logger *log.Logger) ThresholdResult {
	var res ThresholdResult
	if len(lo) == 0 {
		return res
	}

	avLo0 := mean(lo)
	avHi0 := mean(hi)

	if avLo0 <= 0 && avHi0 <= 0 {
		// Every step carries exactly zero energy in both tone bins: true
		// digital silence. The relative trim test below can never fire
		// against its own zero-valued mean, so treat the whole series as
		// leading/trailing silence directly.
		res.HeadTrimmed = len(lo)
		res.Reverted = true
		return res
	}

	head := 0
	for head < len(lo) && lo[head] < avLo0/10 && hi[head] < avHi0/10 {
		head++
	}
	tail := len(lo)
	for tail > head && lo[tail-1] < avLo0/10 && hi[tail-1] < avHi0/10 {
		tail--
	}

	res.HeadTrimmed = head
	res.TailTrimmed = len(lo) - tail
	res.Lo = lo[head:tail]
	res.Hi = hi[head:tail]

	if logger != nil {
		logger.Printf("trim: dropped %d leading, %d trailing near-silent steps", res.HeadTrimmed, res.TailTrimmed)
	}

	n := len(res.Lo)
	if n == 0 {
		res.AvLo, res.AvHi = avLo0, avHi0
		res.Reverted = true
		return res
	}

	avLo, avHi := avLo0, avHi0
	reverted := false
	var lowCount, highCount int

	for pass := 0; pass < 5; pass++ {
		var loSum, hiSum float64
		lowCount, highCount = 0, 0
		for i := range res.Lo {
			if res.Lo[i]/avLo > res.Hi[i]/avHi {
				loSum += res.Lo[i]
				lowCount++
			} else {
				hiSum += res.Hi[i]
				highCount++
			}
		}
		if lowCount == 0 || highCount == 0 {
			reverted = true
			break
		}
		avLo = loSum / float64(lowCount)
		avHi = hiSum / float64(highCount)

		if logger != nil {
			logger.Printf("refine pass %d: avlo=%.4f (n=%d) avhi=%.4f (n=%d)", pass+1, avLo, lowCount, avHi, highCount)
		}
	}

	if !reverted {
		minFrac := 0.08
		if float64(lowCount) < minFrac*float64(n) || float64(highCount) < minFrac*float64(n) {
			reverted = true
		}
	}

	if reverted {
		avLo, avHi = avLo0, avHi0
		if logger != nil {
			logger.Printf("refine: reverted to global means avlo=%.4f avhi=%.4f", avLo, avHi)
		}
	}

	res.AvLo, res.AvHi = avLo, avHi
	res.Reverted = reverted
	res.LowCount, res.HighCount = lowCount, highCount
	return res
}
