package kcsrecover

import (
	"fmt"
	"log"
	"math"
)

// FrameDecodeResult collects everything the frame decoder produces besides
// the emitted files themselves.
type FrameDecodeResult struct {
	BitStream   []byte
	PrintedData []byte
	MaxVariance float64
}

// DecodeFrames advances through the bit timeline locating start bits,
// samples data bits at mid-bit offsets using a bit width that tracks
// per-frame, emits bytes, monitors carrier gaps to split the byte stream
// into files, and returns the accumulated file emitter plus diagnostics.
//
// The nested per-frame logic uses an early-continue pattern (abandon this
// frame attempt on a bad start-bit midpoint or a failed long-gap stop-bit
// sanity check) modeled as a labeled loop rather than hidden inside
// callback chains, per the design notes.
func DecodeFrames(b []byte, cfg Config, d Derived, logger *log.Logger) (*fileEmitter, FrameDecodeResult) {
	p := 0
	last := 0
	lenB := len(b)
	bitW := d.BitWidth
	frameW := d.FrameWidth

	emitter := newFileEmitter(cfg.KeepShortRuns, logger)
	var result FrameDecodeResult

frameLoop:
	for float64(p) < float64(lenB)-frameW {
		// 1. seek start bit, skipping carrier.
		advance := 0
		for p < lenB && b[p] == 1 {
			p++
			advance++
		}
		if p >= lenB {
			break frameLoop
		}
		if cfg.BitStreamOutput {
			ones := int(float64(advance) / bitW)
			for i := 0; i < ones; i++ {
				result.BitStream = append(result.BitStream, '1')
			}
		}

		// 2. center on start bit.
		p += roundHalfUp(bitW / 2)
		if p >= lenB {
			break frameLoop
		}
		if b[p] != 0 {
			continue frameLoop
		}

		// 3. long-gap sanity: after a long gap, verify that both stop bits
		// of the frame starting here (bits 9 and 10) read 1 before trusting
		// this start bit.
		if float64(p-last) > 2*frameW {
			i9 := p + roundHalfUp(9*bitW)
			i10 := p + roundHalfUp(10*bitW)
			if i9 >= lenB || i10 >= lenB || b[i9] != 1 || b[i10] != 1 {
				continue frameLoop
			}
		}

		// 4. speed tracking.
		variance := math.Abs(float64(p-last)-d.FrameWidth) / d.FrameWidth
		if variance < 0.20 {
			frameW = float64(p - last)
			bitW = frameW / float64(d.FrameBits)
			if variance > result.MaxVariance {
				result.MaxVariance = variance
			}
		} else {
			frameW = d.FrameWidth
			bitW = d.BitWidth
			if float64(p-last) > 11*d.FrameWidth {
				emitter.Flush()
				if logger != nil {
					logger.Printf("starting new file at step %d", p)
				}
			}
		}

		// 5. bit-stream echo.
		if cfg.BitStreamOutput {
			for i := 0; i < cfg.Frame.DataBits+cfg.Frame.StopBits; i++ {
				idx := p + roundHalfUp(bitW*float64(i))
				if idx < lenB {
					result.BitStream = append(result.BitStream, '0'+b[idx])
				}
			}
		}

		// 6. decode byte, LSB first.
		var byteVal byte
		for i := 1; i <= cfg.Frame.DataBits; i++ {
			idx := p + roundHalfUp(bitW*float64(i))
			if idx < lenB && b[idx] == 1 {
				byteVal |= 1 << uint(i-1)
			}
		}
		emitter.Append(byteVal)
		if cfg.PrintData {
			result.PrintedData = appendPrintData(result.PrintedData, byteVal)
		}

		// 7. stop-bit check: log, don't abort.
		for i := 1; i <= cfg.Frame.StopBits; i++ {
			idx := p + roundHalfUp(float64(cfg.Frame.DataBits+cfg.Frame.ParityBits+i)*bitW)
			if idx >= lenB || b[idx] != 1 {
				if logger != nil {
					logger.Printf("stop-bit anomaly near sample offset %d", idx*d.Step)
				}
			}
		}

		// 8. advance to the middle of the first stop bit.
		last = p
		p += roundHalfUp(float64(1+cfg.Frame.DataBits+cfg.Frame.ParityBits) * bitW)
	}

	emitter.Flush()
	return emitter, result
}

// appendPrintData echoes a decoded byte the way an optional "print data"
// mode would: printable bytes pass through, 10 becomes a newline, 0 and 13
// are skipped, and everything else renders as a <HH> hex escape.
func appendPrintData(out []byte, b byte) []byte {
	switch {
	case b == 0 || b == 13:
		return out
	case b == 10:
		return append(out, '\n')
	case b >= 0x20 && b < 0x7f:
		return append(out, b)
	default:
		return append(out, []byte(fmt.Sprintf("<%02X>", b))...)
	}
}
