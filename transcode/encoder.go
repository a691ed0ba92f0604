package transcode

import (
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/algorithms/temporal"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	pcm16Max       = 32767
	wavFormatPCM   = 1
	wavBitDepth    = 16
	ReferenceLevel = -20.0
)

// EncodeWAV writes mono float samples as 16-bit PCM. Samples outside
// [-1, 1] are clipped.
func EncodeWAV(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if err := common.RequirePositive("sample_rate", sampleRate); err != nil {
		return err
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(common.Clamp(s, -1, 1) * pcm16Max)
	}

	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// ReferenceClip prepares a voice-cloning reference: the speech chosen by
// temporal.SelectReference from the detected segments, RMS normalized to
// ReferenceLevel dBFS.
func ReferenceClip(samples []float64, sampleRate int, segments []temporal.Segment) []float64 {
	return common.NormalizeDB(temporal.SelectReference(samples, segments, sampleRate), ReferenceLevel)
}

// WriteReferenceClip writes ReferenceClip(samples) to path as a WAV file
func WriteReferenceClip(path string, samples []float64, sampleRate int, segments []temporal.Segment) error {
	clip := ReferenceClip(samples, sampleRate, segments)
	if len(clip) == 0 {
		return fmt.Errorf("no audio for reference clip")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create reference clip: %w", err)
	}
	if err := EncodeWAV(f, clip, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
