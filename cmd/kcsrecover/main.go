// Command kcsrecover recovers byte streams from audio recordings of
// vintage-computer cassette tapes stored in the Kansas City Standard and
// related FSK encodings.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/retrotape/kcsrecover"
)

func main() {
	var (
		hi         = flag.Float64("hi", 2400, "high-tone frequency in Hz")
		lo         = flag.Float64("lo", 1200, "low-tone frequency in Hz")
		baud       = flag.Float64("baud", 300, "baud rate")
		cuts       = flag.Bool("CUTS", false, "use the CUTS preset (hi=1200, lo=600, baud=1200)")
		frame      = flag.String("frame", "8N2", "frame layout NxY, e.g. 8N2 or 7E1")
		maxSamples = flag.Int("max", 0, "maximum number of samples to ingest (0 = unlimited)")
		steps      = flag.Int("steps", 4, "FFT steps per bit")
		window     = flag.String("window", "none", "spectral window: none, bartlett, welch, hann")
		resample   = flag.Float64("resample", 0, "resample to N samples/bit via an external resampler before decoding (0 = disabled)")
		keep       = flag.String("keep", "N", "keep all decoded runs regardless of length: Y or N")
		graph      = flag.String("graph", "N", "emit a .dat spectrogram-style file: Y or N")
		channel    = flag.String("channel", "L", "stereo channel selection: L, R, or A (sum)")
		bitOut     = flag.String("bit", "N", "emit a .bit raw bit-stream file: Y or N")
		printData  = flag.Bool("print_data", false, "echo decoded bytes to standard output once decoding finishes")
		resampledIn = flag.Bool("resampled", false, "assert the input was already resampled to an integer samples-per-bit")
	)
	flag.Parse()

	inFile := flag.Arg(0)
	if inFile == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [options] infile.wav\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *cuts {
		*lo, *hi, *baud = kcsrecover.CUTSPreset()
	}

	frameLayout, err := kcsrecover.ParseFrameLayout(*frame)
	if err != nil {
		log.Fatal(err)
	}
	windowKind, err := kcsrecover.ParseWindowKind(*window)
	if err != nil {
		log.Fatal(err)
	}
	channelSel, err := kcsrecover.ParseChannelSel(*channel)
	if err != nil {
		log.Fatal(err)
	}

	cfg := kcsrecover.Config{
		LoHz:            *lo,
		HiHz:            *hi,
		Baud:            *baud,
		Frame:           frameLayout,
		Window:          windowKind,
		StepsPerBit:     *steps,
		Channel:         channelSel,
		KeepShortRuns:   parseYN(*keep),
		AssumeResampled: *resampledIn,
		BitStreamOutput: parseYN(*bitOut),
		GraphOutput:     parseYN(*graph),
		PrintData:       *printData,
		MaxSamples:      *maxSamples,
		Resample:        *resample,
	}

	dec := kcsrecover.NewDecoder(cfg)
	out, err := dec.Run(inFile)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.PrintData {
		os.Stdout.Write(out.PrintedData)
	}
	for _, path := range out.Files {
		fmt.Println(path)
	}
}

func parseYN(s string) bool {
	return s == "Y" || s == "y"
}
