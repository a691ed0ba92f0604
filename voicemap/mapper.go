package voicemap

import (
	"math"
	"strings"
	"unicode"

	"github.com/RyanBlaney/sonido-voz/algorithms/common"
	"github.com/RyanBlaney/sonido-voz/logging"
)

// Gender classification boundaries in Hz
const (
	MaleCeilingHz   = 165.0
	FemaleFloorHz   = 200.0
	MaleBaseHz      = 120.0
	FemaleBaseHz    = 220.0
	NeutralBaseHz   = 170.0
	MinPitchFactor  = 0.8
	MaxPitchFactor  = 1.2
	asmrBreathiness = 0.3
)

// Scoring weights
const (
	genderMatchScore = 5.0
	warmthPenalty    = 3.0
	clarityPenalty   = 2.0
	asmrBonus        = 2.0
	confidenceOffset = 10.0
	confidenceRange  = 15.0
)

var (
	femaleHints = []string{"female", "feminine", "woman", "girl"}
	maleHints   = []string{"masculine"}

	// short male words that occur inside unrelated names ("Malena", "Boyd",
	// "Manuel") only count as whole words
	maleWords = map[string]bool{"male": true, "males": true, "man": true, "men": true, "boy": true, "boys": true}
)

// Classify maps a mean fundamental frequency to a gender. Unvoiced input
// (meanPitch <= 0) is neutral.
func Classify(meanPitch float64) Gender {
	switch {
	case meanPitch <= 0:
		return GenderNeutral
	case meanPitch < MaleCeilingHz:
		return GenderMale
	case meanPitch > FemaleFloorHz:
		return GenderFemale
	default:
		return GenderNeutral
	}
}

// GenderFromHint looks for gender words in free text such as a file name.
// Female words are checked first, so "male_and_female" reads as female.
func GenderFromHint(text string) (Gender, bool) {
	lower := strings.ToLower(text)
	for _, hint := range femaleHints {
		if strings.Contains(lower, hint) {
			return GenderFemale, true
		}
	}
	for _, hint := range maleHints {
		if strings.Contains(lower, hint) {
			return GenderMale, true
		}
	}

	words := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		if maleWords[w] {
			return GenderMale, true
		}
	}
	return "", false
}

// ApplyHint overrides the record's gender when text carries a gender word.
// It reports whether the record changed.
func ApplyHint(record *FeatureRecord, text string) bool {
	if record == nil {
		return false
	}
	gender, ok := GenderFromHint(text)
	if !ok || gender == record.Gender {
		return false
	}
	record.Gender = gender
	return true
}

// Score rates how well entry fits the record. Higher is better.
func Score(record *FeatureRecord, entry VoiceCatalogEntry) float64 {
	score := 0.0
	if entry.Gender == record.Gender {
		score += genderMatchScore
	}
	score -= warmthPenalty * math.Abs(entry.Warmth-record.Warmth)
	score -= clarityPenalty * math.Abs(entry.Clarity-record.Clarity)
	if entry.ASMR && record.Breathiness > asmrBreathiness {
		score += asmrBonus
	}
	return score
}

// Map selects the best entry for record. Ties keep the earliest entry.
// An empty catalog or nil record yields a zero result with no voice.
func Map(record *FeatureRecord, entries []VoiceCatalogEntry) MappingResult {
	if record == nil || len(entries) == 0 {
		return MappingResult{}
	}

	best := 0
	bestScore := Score(record, entries[0])
	for i := 1; i < len(entries); i++ {
		if s := Score(record, entries[i]); s > bestScore {
			best, bestScore = i, s
		}
	}

	return MappingResult{
		VoiceID:          entries[best].ID,
		Confidence:       common.Clamp((bestScore+confidenceOffset)/confidenceRange, 0, 1),
		RecommendedPitch: RecommendPitch(record.Pitch.Mean, entries[best].Gender),
		RecommendedSpeed: RecommendSpeed(record.SpeakingRate),
	}
}

// RecommendPitch divides the measured F0 by the base frequency of gender,
// clamped to [0.8, 1.2]. Unvoiced input returns 1.
func RecommendPitch(meanPitch float64, gender Gender) float64 {
	if meanPitch <= 0 || math.IsNaN(meanPitch) {
		return 1.0
	}
	return common.Clamp(meanPitch/BaseFrequency(gender), MinPitchFactor, MaxPitchFactor)
}

// RecommendSpeed passes the normalized speaking rate through, with 0 meaning normal
func RecommendSpeed(rate float64) float64 {
	if rate <= 0 || math.IsNaN(rate) {
		return 1.0
	}
	return rate
}

// BaseFrequency is the assumed typical F0 of a gender
func BaseFrequency(gender Gender) float64 {
	switch gender {
	case GenderMale:
		return MaleBaseHz
	case GenderFemale:
		return FemaleBaseHz
	default:
		return NeutralBaseHz
	}
}

// Mapper matches feature records against a fixed catalog
type Mapper struct {
	catalog *Catalog
	logger  logging.Logger
}

// NewMapper creates a mapper over catalog
func NewMapper(catalog *Catalog, logger logging.Logger) (*Mapper, error) {
	if catalog == nil {
		return nil, common.NewConfigError("catalog", nil, "must not be nil")
	}
	return &Mapper{
		catalog: catalog,
		logger: logging.OrGlobal(logger).WithFields(logging.Fields{
			"component": "voice_mapper",
		}),
	}, nil
}

// Catalog returns the catalog the mapper scores against
func (m *Mapper) Catalog() *Catalog {
	return m.catalog
}

// Map selects the closest catalog voice for record
func (m *Mapper) Map(record *FeatureRecord) MappingResult {
	result := Map(record, m.catalog.entries)
	if result.VoiceID == "" {
		m.logger.Warn("No voice selected", logging.Fields{
			"catalog_size": m.catalog.Len(),
			"has_record":   record != nil,
		})
		return result
	}

	m.logger.Debug("Voice mapped", logging.Fields{
		"voice_id":   result.VoiceID,
		"confidence": result.Confidence,
		"pitch":      result.RecommendedPitch,
		"speed":      result.RecommendedSpeed,
		"gender":     record.Gender,
	})
	return result
}
