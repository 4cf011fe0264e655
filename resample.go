package kcsrecover

import (
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
)

// ResampleCommand is the external resampler collaborator invocation
// template. It is a package variable (not a constant) so tests and
// alternate front ends can substitute a fake resampler binary.
var ResampleCommand = []string{"sox", "{in}", "-r", "{rate}", "{out}"}

// Resample invokes an external resampler as a separate process, rewriting
// inPath to "<basename>-r.wav" at targetRate Hz with high-quality
// resampling. It is a collaborator, not part of the core decoder: any
// resampler binary compatible with the ResampleCommand template works.
func Resample(inPath string, targetRate float64, logger *log.Logger) (string, error) {
	outPath := basenameOf(inPath) + "-r.wav"

	args := make([]string, 0, len(ResampleCommand))
	for _, tok := range ResampleCommand {
		tok = strings.ReplaceAll(tok, "{in}", inPath)
		tok = strings.ReplaceAll(tok, "{rate}", strconv.FormatFloat(targetRate, 'f', -1, 64))
		tok = strings.ReplaceAll(tok, "{out}", outPath)
		args = append(args, tok)
	}
	if len(args) == 0 {
		return "", fmt.Errorf("kcsrecover: empty resample command")
	}

	cmd := exec.Command(args[0], args[1:]...)
	if logger != nil {
		logger.Printf("resampling via: %s", strings.Join(args, " "))
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("kcsrecover: resample failed: %w: %s", err, out)
	}
	return outPath, nil
}

func basenameOf(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndexAny(path, "/\\") {
		return path[:i]
	}
	return path
}
