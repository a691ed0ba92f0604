package voicemap

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// Pitch register boundaries used to label custom voices
const (
	lowPitchCeilingHz = 130.0
	highPitchFloorHz  = 200.0
)

// Characteristics is the rounded, human-facing summary of a voice
type Characteristics struct {
	Warmth           float64   `json:"warmth" yaml:"warmth"`
	Breathiness      float64   `json:"breathiness" yaml:"breathiness"`
	Clarity          float64   `json:"clarity" yaml:"clarity"`
	EstimatedPitchHz float64   `json:"estimated_pitch_hz" yaml:"estimated_pitch_hz"`
	PitchBand        PitchBand `json:"pitch_band" yaml:"pitch_band"`
	SpectralCentroid float64   `json:"spectral_centroid" yaml:"spectral_centroid"`
}

// RecommendedSettings are the synthesis settings for a custom voice
type RecommendedSettings struct {
	Pitch  float64 `json:"pitch" yaml:"pitch"`
	Speed  float64 `json:"speed" yaml:"speed"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// AdvancedSettings exposes raw level and spectral shape figures
type AdvancedSettings struct {
	RMSEnergy         float64 `json:"rms_energy" yaml:"rms_energy"`
	PeakAmplitude     float64 `json:"peak_amplitude" yaml:"peak_amplitude"`
	SpectralRolloff   float64 `json:"spectral_rolloff" yaml:"spectral_rolloff"`
	SpectralBandwidth float64 `json:"spectral_bandwidth" yaml:"spectral_bandwidth"`
}

// Bundle is the exportable result of analyzing one voice sample. It can
// be re-loaded as a custom catalog voice without re-running analysis.
type Bundle struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	SourceFile    string    `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	ReferenceClip string    `json:"reference_clip,omitempty" yaml:"reference_clip,omitempty"`
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
	Checksum      string    `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	// Voice is the matched catalog voice
	Voice string `json:"voice" yaml:"voice"`

	Characteristics     Characteristics     `json:"characteristics" yaml:"characteristics"`
	RecommendedSettings RecommendedSettings `json:"recommended_settings" yaml:"recommended_settings"`
	Advanced            AdvancedSettings    `json:"advanced" yaml:"advanced"`

	Features *FeatureRecord `json:"features" yaml:"features"`
	Mapping  MappingResult  `json:"mapping" yaml:"mapping"`
}

// NewBundle packages an analysis and its mapping under name
func NewBundle(name string, record *FeatureRecord, mapping MappingResult) *Bundle {
	if record == nil {
		record = &FeatureRecord{Silent: true, Gender: GenderNeutral}
	}

	id := Slug(name)
	if id == "" {
		id = generateID(record)
	}

	return &Bundle{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf("Custom voice from %s", name),
		GeneratedAt: time.Now().UTC(),
		Voice:       mapping.VoiceID,
		Characteristics: Characteristics{
			Warmth:           round(record.Warmth, 2),
			Breathiness:      round(record.Breathiness, 2),
			Clarity:          round(record.Clarity, 2),
			EstimatedPitchHz: round(record.Pitch.Mean, 1),
			PitchBand:        PitchBandFor(record.Pitch.Mean),
			SpectralCentroid: round(record.Spectral.CentroidMedian, 1),
		},
		RecommendedSettings: RecommendedSettings{
			Pitch:  round(mapping.RecommendedPitch, 2),
			Speed:  round(mapping.RecommendedSpeed, 2),
			Volume: 1.0,
		},
		Advanced: AdvancedSettings{
			RMSEnergy:         round(record.RMSEnergy, 4),
			PeakAmplitude:     round(record.PeakAmp, 4),
			SpectralRolloff:   round(record.Spectral.RolloffMedian, 1),
			SpectralBandwidth: round(record.Spectral.Bandwidth, 1),
		},
		Features: record,
		Mapping:  mapping,
	}
}

// ToCatalogEntry turns the bundle into a catalog voice scored on its own
// measured character. Breathy voices are flagged ASMR.
func (b *Bundle) ToCatalogEntry() VoiceCatalogEntry {
	entry := VoiceCatalogEntry{
		ID:        b.ID,
		Name:      b.Name,
		Gender:    GenderNeutral,
		Accent:    "custom",
		PitchBand: b.Characteristics.PitchBand,
		Style:     "custom",
		Warmth:    b.Characteristics.Warmth,
		Clarity:   b.Characteristics.Clarity,
		ASMR:      b.Characteristics.Breathiness > asmrBreathiness,
	}
	if b.Features != nil && b.Features.Gender != "" {
		entry.Gender = b.Features.Gender
	}
	if entry.PitchBand == "" {
		entry.PitchBand = PitchMid
	}
	return entry
}

// PitchBandFor labels a mean F0. Unvoiced input is mid.
func PitchBandFor(meanPitch float64) PitchBand {
	switch {
	case meanPitch <= 0:
		return PitchMid
	case meanPitch < lowPitchCeilingHz:
		return PitchLow
	case meanPitch > highPitchFloorHz:
		return PitchHigh
	default:
		return PitchMid
	}
}

// Slug lowercases name and joins its letter and digit runs with underscores
func Slug(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "_")
}

// Checksum returns a short content hash of data
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:8]
}

func generateID(record *FeatureRecord) string {
	hasher := sha256.New()
	fmt.Fprintf(hasher, "%d_%g_%d",
		time.Now().UnixNano(),
		record.Duration,
		record.SampleRate)
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
