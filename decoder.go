package kcsrecover

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/youpy/go-wav"
)

// Decoder owns configuration and a logger and drives the full pipeline:
// sample ingester -> spectral analyzer -> edge trimmer & thresholder ->
// bit timeline builder -> frame decoder -> file emitter. It is the only
// orchestrating value; no package-level mutable state is used.
type Decoder struct {
	Config Config
	Logger *log.Logger
}

// NewDecoder builds a Decoder with a logger writing to os.Stderr, matching
// the diagnostics every teacher cmd/* entry point prints.
func NewDecoder(cfg Config) *Decoder {
	return &Decoder{Config: cfg, Logger: log.New(os.Stderr, "", 0)}
}

// DecodeOutput summarizes everything a Run call produced.
type DecodeOutput struct {
	Files         []string
	BitStreamPath string
	GraphPath     string
	PrintedData   []byte
	MaxVariance   float64
	Derived       Derived
	Threshold     ThresholdResult
}

// Run decodes inPath end to end, writing "<basename>-NNN.txt" files and any
// optional .bit / .dat outputs alongside it.
func (dec *Decoder) Run(inPath string) (*DecodeOutput, error) {
	logger := dec.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	readPath := inPath
	if dec.Config.Resample > 0 {
		rPath, err := Resample(inPath, dec.Config.Resample*dec.Config.Baud, logger)
		if err != nil {
			return nil, err
		}
		readPath = rPath
	}

	f, err := os.Open(readPath)
	if err != nil {
		return nil, fmt.Errorf("kcsrecover: opening %s: %w", readPath, err)
	}
	defer f.Close()

	reader := wav.NewReader(f)
	samples, info, err := IngestSamples(reader, dec.Config, logger)
	if err != nil {
		return nil, err
	}

	fs := float64(info.SampleRate)
	d := DeriveConfig(dec.Config, fs)
	logger.Printf("W=%d step=%d bit_width=%.3f frame_width=%.3f", d.W, d.Step, d.BitWidth, d.FrameWidth)
	logger.Printf("lo_bin=%.3f (n1=%d n2=%d) hi_bin=%.3f (n1=%d n2=%d)", d.LoBin, d.LoN1, d.LoN2, d.HiBin, d.HiN1, d.HiN2)

	basename := strings.TrimSuffix(inPath, filepath.Ext(inPath))

	lo, hi := AnalyzeSpectrum(samples, dec.Config, d)
	if len(lo) == 0 {
		logger.Printf("no spectral steps produced (input shorter than one FFT window); zero output files")
		return &DecodeOutput{Derived: d}, nil
	}

	thr := TrimAndThreshold(lo, hi, logger)

	timeline := BuildBitTimeline(thr.Lo, thr.Hi, thr.AvLo, thr.AvHi)
	if !dec.Config.GraphOutput {
		SmoothBitTimeline(timeline, dec.Config.StepsPerBit)
	}

	emitter, frameResult := DecodeFrames(timeline, dec.Config, d, logger)

	paths, err := emitter.WriteAll(basename)
	if err != nil {
		return nil, err
	}

	out := &DecodeOutput{
		Files:       paths,
		MaxVariance: frameResult.MaxVariance,
		Derived:     d,
		Threshold:   thr,
	}

	if dec.Config.BitStreamOutput {
		bitPath := basename + ".bit"
		if err := os.WriteFile(bitPath, frameResult.BitStream, 0644); err != nil {
			return out, fmt.Errorf("kcsrecover: writing %s: %w", bitPath, err)
		}
		out.BitStreamPath = bitPath
	}

	if dec.Config.GraphOutput {
		datPath := basename + ".dat"
		if err := writeGraph(datPath, thr); err != nil {
			return out, err
		}
		out.GraphPath = datPath
	}

	if dec.Config.PrintData {
		out.PrintedData = frameResult.PrintedData
	}

	logger.Printf("decoded %d file(s), max speed variance %.4f", len(paths), frameResult.MaxVariance)
	return out, nil
}

// writeGraph emits the two-column numeric file (step index,
// 100*(hi[i]/avhi - lo[i]/avlo)) an external plotter consumes.
func writeGraph(path string, thr ThresholdResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kcsrecover: writing %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for i := range thr.Lo {
		val := 100 * (thr.Hi[i]/thr.AvHi - thr.Lo[i]/thr.AvLo)
		fmt.Fprintf(w, "%d %g\n", i, val)
	}
	return nil
}
