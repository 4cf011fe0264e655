package kcsrecover

import (
	"fmt"
	"log"
	"os"
)

// fileEmitter accumulates decoded bytes for the in-progress file and
// flushes completed files to an in-memory list; WriteAll persists them to
// disk at the end of decoding.
type fileEmitter struct {
	text     []byte
	files    [][]byte
	keepAll  bool
	logger   *log.Logger
}

func newFileEmitter(keepAll bool, logger *log.Logger) *fileEmitter {
	return &fileEmitter{keepAll: keepAll, logger: logger}
}

func (e *fileEmitter) Append(b byte) {
	e.text = append(e.text, b)
}

// Flush closes out the in-progress file: if it holds at least 20 decoded
// bytes, or the keep-all flag is set, it is kept; otherwise it is
// discarded as noise between programs.
func (e *fileEmitter) Flush() {
	if len(e.text) >= 20 || e.keepAll {
		snapshot := make([]byte, len(e.text))
		copy(snapshot, e.text)
		e.files = append(e.files, snapshot)
	}
	e.text = e.text[:0]
}

// WriteAll writes each accumulated file to "<basename>-NNN.txt" (1-based,
// zero-padded to 3 digits) as raw bytes.
func (e *fileEmitter) WriteAll(basename string) ([]string, error) {
	paths := make([]string, 0, len(e.files))
	for i, content := range e.files {
		path := fmt.Sprintf("%s-%03d.txt", basename, i+1)
		if err := os.WriteFile(path, content, 0644); err != nil {
			return paths, fmt.Errorf("kcsrecover: writing %s: %w", path, err)
		}
		paths = append(paths, path)
		if e.logger != nil {
			e.logger.Printf("wrote %s (%d bytes)", path, len(content))
		}
	}
	return paths, nil
}
