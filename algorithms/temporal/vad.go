package temporal

import (
	"github.com/RyanBlaney/sonido-voz/algorithms/common"
)

// VADState is the per-frame decision of the voice activity detector
type VADState int

const (
	Silence VADState = iota
	Speech
)

func (s VADState) String() string {
	if s == Speech {
		return "speech"
	}
	return "silence"
}

// Defaults for NewVoiceActivityDetector
const (
	DefaultVADFrameSize      = 512
	DefaultVADHopSize        = 256
	DefaultEnergyThresholdDB = -40.0
	DefaultZCRThreshold      = 0.1
	DefaultHangoverFrames    = 5
)

// VoiceActivityTrack holds one decision per analysis frame
type VoiceActivityTrack struct {
	Decisions []VADState `json:"decisions" yaml:"decisions"`
	FrameSize int        `json:"frame_size" yaml:"frame_size"`
	HopSize   int        `json:"hop_size" yaml:"hop_size"`
}

// SpeechRatio returns the fraction of frames classified as speech
func (t *VoiceActivityTrack) SpeechRatio() float64 {
	if len(t.Decisions) == 0 {
		return 0.0
	}
	speech := 0
	for _, d := range t.Decisions {
		if d == Speech {
			speech++
		}
	}
	return float64(speech) / float64(len(t.Decisions))
}

// Segment is a half-open sample range [Start, End) of detected speech
type Segment struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// VoiceActivityDetector classifies frames as speech when their energy is
// above a dB threshold and their zero-crossing rate is below a ZCR threshold.
// A hangover counter keeps the following frames in speech so trailing
// consonants are not clipped.
type VoiceActivityDetector struct {
	frameSize         int
	hopSize           int
	energyThresholdDB float64
	zcrThreshold      float64
	hangoverFrames    int
}

// NewVoiceActivityDetector creates a detector with default thresholds
func NewVoiceActivityDetector(frameSize, hopSize int) (*VoiceActivityDetector, error) {
	if err := common.RequirePositive("vad_frame_size", frameSize); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("vad_hop_size", hopSize); err != nil {
		return nil, err
	}

	return &VoiceActivityDetector{
		frameSize:         frameSize,
		hopSize:           hopSize,
		energyThresholdDB: DefaultEnergyThresholdDB,
		zcrThreshold:      DefaultZCRThreshold,
		hangoverFrames:    DefaultHangoverFrames,
	}, nil
}

// SetThresholds replaces the energy (dB) and ZCR thresholds
func (v *VoiceActivityDetector) SetThresholds(energyDB, zcr float64) error {
	if zcr < 0 {
		return common.NewConfigError("zcr_threshold", zcr, "must not be negative")
	}
	v.energyThresholdDB = energyDB
	v.zcrThreshold = zcr
	return nil
}

// SetHangover sets how many frames stay in speech after the last candidate
func (v *VoiceActivityDetector) SetHangover(frames int) error {
	if frames < 0 {
		return common.NewConfigError("hangover_frames", frames, "must not be negative")
	}
	v.hangoverFrames = frames
	return nil
}

// FrameSize returns the analysis frame length in samples
func (v *VoiceActivityDetector) FrameSize() int {
	return v.frameSize
}

// HopSize returns the frame advance in samples
func (v *VoiceActivityDetector) HopSize() int {
	return v.hopSize
}

// IsCandidate reports whether a single frame looks like voiced speech
func (v *VoiceActivityDetector) IsCandidate(frame []float64) bool {
	if len(frame) == 0 {
		return false
	}
	return FrameEnergyDB(frame) > v.energyThresholdDB && ZeroCrossingRate(frame) < v.zcrThreshold
}

// Detect runs the detector over samples
func (v *VoiceActivityDetector) Detect(samples []float64) *VoiceActivityTrack {
	numFrames := common.NumFrames(len(samples), v.frameSize, v.hopSize)
	track := &VoiceActivityTrack{
		Decisions: make([]VADState, numFrames),
		FrameSize: v.frameSize,
		HopSize:   v.hopSize,
	}

	// a candidate frame counts against its own hangover, so it is followed
	// by hangoverFrames-1 speech frames; a zero hangover marks nothing
	hangover := 0
	for i := range numFrames {
		if v.IsCandidate(common.Frame(samples, i, v.frameSize, v.hopSize)) {
			hangover = v.hangoverFrames
		}
		if hangover > 0 {
			hangover--
			track.Decisions[i] = Speech
		}
	}

	return track
}

// Segments converts the frame track of samples into speech sample ranges.
// A segment ends where the first following silence frame starts, or at
// the end of the clip.
func (v *VoiceActivityDetector) Segments(samples []float64) []Segment {
	return v.Detect(samples).Segments(len(samples))
}

// Segments converts the track into speech ranges for a clip of length samples
func (t *VoiceActivityTrack) Segments(length int) []Segment {
	var segments []Segment
	start := -1

	for i, d := range t.Decisions {
		switch {
		case d == Speech && start < 0:
			start = i * t.HopSize
		case d == Silence && start >= 0:
			segments = append(segments, Segment{Start: start, End: min(i*t.HopSize, length)})
			start = -1
		}
	}
	if start >= 0 {
		segments = append(segments, Segment{Start: start, End: length})
	}

	return segments
}
