// Command gentape synthesizes a KCS/FSK cassette WAV file encoding the
// bytes of an input file, for exercising kcsrecover end to end without a
// real tape recording. Adapted from the teacher's genFBwav/Mesen2wav tools,
// generalized from their hardcoded FB timing to kcsrecover.Config's
// configurable tone frequencies, baud rate, and frame layout.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/retrotape/kcsrecover"
	"github.com/retrotape/kcsrecover/internal/testtone"
)

func main() {
	var (
		inFile     = flag.String("infile", "", "data file to encode")
		outFile    = flag.String("outfile", "", "wav file to write (default: infile.wav)")
		hi         = flag.Float64("hi", 2400, "high-tone frequency in Hz")
		lo         = flag.Float64("lo", 1200, "low-tone frequency in Hz")
		baud       = flag.Float64("baud", 300, "baud rate")
		cuts       = flag.Bool("CUTS", false, "use the CUTS preset (hi=1200, lo=600, baud=1200)")
		frame      = flag.String("frame", "8N2", "frame layout NxY")
		sampleRate = flag.Float64("rate", 44100, "output sample rate in Hz")
		snr        = flag.Float64("snr", 0, "add Gaussian noise at this SNR in dB (0 = no noise)")
		gapBits    = flag.Int("gap", 0, "emit a carrier gap of this many bit widths after the data (0 = none)")
	)
	flag.Parse()
	if len(os.Args) == 2 {
		*inFile = os.Args[1]
	}
	if *inFile == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -infile FILE [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *outFile == "" {
		*outFile = *inFile + ".wav"
	}

	if *cuts {
		*lo, *hi, *baud = kcsrecover.CUTSPreset()
	}
	frameLayout, err := kcsrecover.ParseFrameLayout(*frame)
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		log.Fatal(err)
	}

	cfg := kcsrecover.Config{LoHz: *lo, HiHz: *hi, Baud: *baud, Frame: frameLayout}
	opts := testtone.DefaultOptions(*sampleRate)

	samples := testtone.EncodeWaveform(data, cfg, opts)
	if *gapBits > 0 {
		samples = append(samples, testtone.EncodeGap(cfg, opts, *gapBits)...)
	}
	if *snr > 0 {
		samples = testtone.AddNoise(samples, *snr, rand.New(rand.NewSource(1)))
	}

	if err := testtone.WriteWAV(*outFile, samples, int(*sampleRate)); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%d samples, %d bytes encoded)\n", *outFile, len(samples), len(data))
}
