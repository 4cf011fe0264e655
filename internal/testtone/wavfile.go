package testtone

import (
	"math"
	"os"

	"github.com/youpy/go-wav"
)

// WriteWAV renders samples (in [-1, 1]) as a mono 16-bit PCM WAV file,
// building the wav.Sample buffer and wav.Writer the way the teacher's
// genFBwav/Mesen2wav tools did for their hardcoded bit-to-tone tables.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]wav.Sample, len(samples))
	for i, s := range samples {
		x := s
		if x > 1 {
			x = 1
		}
		if x < -1 {
			x = -1
		}
		v := int(math.Round(x * 32767))
		buf[i] = wav.Sample{Values: [2]int{v, v}}
	}

	writer := wav.NewWriter(f, uint32(len(buf)), 1, uint32(sampleRate), 16)
	return writer.WriteSamples(buf)
}
