package transcode

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/resample"
	"github.com/RyanBlaney/sonido-voz/logging"
	"github.com/go-audio/wav"
)

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channel count of the source before downmix
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// TargetSampleRate resamples the decoded audio when non-zero
	TargetSampleRate int `json:"target_sample_rate" yaml:"target_sample_rate"`
	// MaxDuration truncates the decoded audio when non-zero
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration"`
}

// DefaultDecoderConfig keeps the source rate and length
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{}
}

// Decoder reads PCM WAV files into normalized float samples
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig, logger logging.Logger) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.OrGlobal(logger).WithFields(logging.Fields{"component": "audio_decoder"}),
	}
}

// DecodeFile decodes a WAV file
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	audio, err := d.DecodeReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return audio, nil
}

// DecodeReader decodes a WAV stream, averaging channels to mono and
// scaling integer samples to [-1, 1)
func (d *Decoder) DecodeReader(r io.ReadSeeker) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid PCM WAV stream")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	channels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	if channels <= 0 || sampleRate <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("invalid WAV format: %d channels, %d Hz, %d bit", channels, sampleRate, bitDepth)
	}

	scale := math.Pow(2, float64(bitDepth-1))
	frames := len(buf.Data) / channels
	pcm := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += float64(buf.Data[i*channels+c])
		}
		pcm[i] = sum / float64(channels) / scale
	}

	d.logger.Debug("decoded wav", logging.Fields{
		"sample_rate": sampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
		"frames":      frames,
	})

	if maxDuration := d.config.MaxDuration; maxDuration > 0 {
		limit := int(maxDuration.Seconds() * float64(sampleRate))
		if limit < len(pcm) {
			pcm = pcm[:limit]
		}
	}

	if target := d.config.TargetSampleRate; target > 0 && target != sampleRate {
		pcm, err = resample.Lanczos(pcm, sampleRate, target)
		if err != nil {
			return nil, fmt.Errorf("failed to resample: %w", err)
		}
		d.logger.Debug("resampled", logging.Fields{"from": sampleRate, "to": target})
		sampleRate = target
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
		Duration:   time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second)),
	}, nil
}

// Float32 returns the samples as float32 PCM
func (a *AudioData) Float32() []float32 {
	return common.Float64To32(a.PCM)
}
