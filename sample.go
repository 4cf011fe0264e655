package kcsrecover

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/youpy/go-wav"
)

// WaveformInfo mirrors the header fields the sample ingester needs from
// the PCM container: declared sample rate, channel count, and bit width.
type WaveformInfo struct {
	SampleRate    int
	NumChannels   int
	BitsPerSample int
}

// IngestSamples pulls PCM samples from reader, reduces multi-channel
// samples to a single real-valued series per cfg.Channel, and halts early
// once cfg.MaxSamples samples have been produced (0 means unlimited). It
// reports a fatal error if the header declares an unsupported channel
// count.
func IngestSamples(reader *wav.Reader, cfg Config, logger *log.Logger) ([]float64, WaveformInfo, error) {
	format, err := reader.Format()
	if err != nil {
		return nil, WaveformInfo{}, fmt.Errorf("kcsrecover: reading wav format: %w", err)
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, WaveformInfo{}, errors.New("kcsrecover: unsupported wav audio format (not PCM)")
	}
	if format.NumChannels < 1 || format.NumChannels > 2 {
		return nil, WaveformInfo{}, fmt.Errorf("kcsrecover: unsupported channel count %d", format.NumChannels)
	}
	if format.BitsPerSample != 8 && format.BitsPerSample != 16 {
		return nil, WaveformInfo{}, fmt.Errorf("kcsrecover: unsupported sample width %d", format.BitsPerSample)
	}

	info := WaveformInfo{
		SampleRate:    int(format.SampleRate),
		NumChannels:   int(format.NumChannels),
		BitsPerSample: int(format.BitsPerSample),
	}

	if logger != nil {
		logger.Printf("format:      PCM")
		logger.Printf("bits/sample: %d", info.BitsPerSample)
		logger.Printf("ch:          %d", info.NumChannels)
		logger.Printf("sample rate: %d", info.SampleRate)
	}

	var out []float64
	stereo := info.NumChannels == 2
	for {
		if cfg.MaxSamples > 0 && len(out) >= cfg.MaxSamples {
			break
		}
		samples, err := reader.ReadSamples(2048)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, info, fmt.Errorf("kcsrecover: reading wav samples: %w", err)
		}
		for _, s := range samples {
			if cfg.MaxSamples > 0 && len(out) >= cfg.MaxSamples {
				break
			}
			var v float64
			if !stereo {
				v = float64(reader.IntValue(s, 0))
			} else {
				switch cfg.Channel {
				case ChannelLeft:
					v = float64(reader.IntValue(s, 0))
				case ChannelRight:
					v = float64(reader.IntValue(s, 1))
				case ChannelSum:
					v = float64(reader.IntValue(s, 0)) + float64(reader.IntValue(s, 1))
				}
			}
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, info, errors.New("kcsrecover: empty waveform")
	}

	if logger != nil {
		logger.Printf("samples read: %d", len(out))
	}
	return out, info, nil
}
