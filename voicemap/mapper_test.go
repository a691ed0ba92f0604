package voicemap

import (
	"testing"

	"github.com/RyanBlaney/sonido-voz/algorithms/tonal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordWithPitch(mean float64) *FeatureRecord {
	return &FeatureRecord{
		Pitch:        tonal.PitchStatistics{Mean: mean, VoicedCount: 10},
		Gender:       Classify(mean),
		Warmth:       0.5,
		Clarity:      0.5,
		SpeakingRate: 1.0,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		pitch float64
		want  Gender
	}{
		{0, GenderNeutral},
		{100, GenderMale},
		{164.9, GenderMale},
		{165, GenderNeutral},
		{200, GenderNeutral},
		{200.1, GenderFemale},
		{320, GenderFemale},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.pitch), "pitch %g", tt.pitch)
	}
}

func TestGenderFromHint(t *testing.T) {
	tests := []struct {
		text string
		want Gender
		ok   bool
	}{
		{"narrator_female_01.wav", GenderFemale, true},
		{"Old-Man-Reading.wav", GenderMale, true},
		{"woman_soft.mp3", GenderFemale, true},
		{"MALE_deep", GenderMale, true},
		{"girl-voice", GenderFemale, true},
		{"boy_choir", GenderMale, true},
		{"masculine tone", GenderMale, true},
		{"german_news.wav", "", false},
		{"sample_03.wav", "", false},
		{"Malena_sample.wav", "", false},
		{"boyd-interview", "", false},
		{"manuel_take2", "", false},
		{"two_men_talking", GenderMale, true},
		{"male2", GenderMale, true},
	}
	for _, tt := range tests {
		got, ok := GenderFromHint(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestApplyHint(t *testing.T) {
	rec := recordWithPitch(120)
	require.Equal(t, GenderMale, rec.Gender)

	assert.True(t, ApplyHint(rec, "sarah_female.wav"))
	assert.Equal(t, GenderFemale, rec.Gender)
	assert.False(t, ApplyHint(rec, "another_female.wav"), "no change when already female")
	assert.False(t, ApplyHint(rec, "clip.wav"))
	assert.False(t, ApplyHint(nil, "female"))
}

func TestMapSelectsASMRMaleVoice(t *testing.T) {
	rec := recordWithPitch(120)
	rec.Warmth = 0.9
	rec.Breathiness = 0.8

	entries := []VoiceCatalogEntry{
		{ID: "bright_female", Gender: GenderFemale, PitchBand: PitchHigh, Warmth: 0.3, Clarity: 0.9},
		{ID: "whisper_male", Gender: GenderMale, PitchBand: PitchLow, Warmth: 0.8, Clarity: 0.5, ASMR: true},
		{ID: "neutral", Gender: GenderNeutral, PitchBand: PitchMid, Warmth: 0.5, Clarity: 0.5},
	}

	result := Map(rec, entries)
	assert.Equal(t, "whisper_male", result.VoiceID)
	assert.Greater(t, result.Confidence, 0.5)
	assert.InDelta(t, 1.0, result.RecommendedPitch, 1e-9)
	assert.Equal(t, 1.0, result.RecommendedSpeed)
}

func TestScore(t *testing.T) {
	rec := recordWithPitch(120)
	rec.Warmth = 0.9
	rec.Clarity = 0.4
	rec.Breathiness = 0.8

	entry := VoiceCatalogEntry{Gender: GenderMale, Warmth: 0.7, Clarity: 0.6, ASMR: true}
	assert.InDelta(t, 5-3*0.2-2*0.2+2, Score(rec, entry), 1e-9)

	rec.Breathiness = 0.3
	assert.InDelta(t, 5-3*0.2-2*0.2, Score(rec, entry), 1e-9, "bonus needs breathiness above 0.3")

	entry.Gender = GenderFemale
	assert.InDelta(t, -3*0.2-2*0.2, Score(rec, entry), 1e-9)
}

func TestMapTieKeepsCatalogOrder(t *testing.T) {
	rec := recordWithPitch(180)
	entries := []VoiceCatalogEntry{
		{ID: "first", Gender: GenderNeutral, Warmth: 0.5, Clarity: 0.5},
		{ID: "second", Gender: GenderNeutral, Warmth: 0.5, Clarity: 0.5},
	}
	result := Map(rec, entries)
	assert.Equal(t, "first", result.VoiceID)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestMapPitchIsClampedAtExtremes(t *testing.T) {
	catalog := DefaultCatalog().Entries()
	for _, pitch := range []float64{50, 600} {
		result := Map(recordWithPitch(pitch), catalog)
		assert.GreaterOrEqual(t, result.RecommendedPitch, MinPitchFactor, "pitch %g", pitch)
		assert.LessOrEqual(t, result.RecommendedPitch, MaxPitchFactor, "pitch %g", pitch)
	}

	assert.Equal(t, MinPitchFactor, Map(recordWithPitch(50), catalog).RecommendedPitch)
	assert.Equal(t, MaxPitchFactor, Map(recordWithPitch(600), catalog).RecommendedPitch)
}

func TestMapConfidenceIsClamped(t *testing.T) {
	rec := recordWithPitch(300)
	rec.Warmth = 1
	rec.Clarity = 1
	entries := []VoiceCatalogEntry{{ID: "far", Gender: GenderMale, Warmth: 0, Clarity: 0}}

	result := Map(rec, entries)
	assert.Equal(t, "far", result.VoiceID)
	assert.InDelta(t, (-5.0+10)/15, result.Confidence, 1e-9)

	rec.Gender = GenderMale
	rec.Warmth, rec.Clarity = 0, 0
	assert.Equal(t, 1.0, Map(rec, entries).Confidence)
}

func TestMapEmptyCatalog(t *testing.T) {
	assert.Equal(t, MappingResult{}, Map(recordWithPitch(120), nil))
	assert.Equal(t, MappingResult{}, Map(nil, DefaultCatalog().Entries()))
}

func TestRecommendations(t *testing.T) {
	assert.Equal(t, 1.0, RecommendPitch(0, GenderMale), "unvoiced")
	assert.InDelta(t, 1.1, RecommendPitch(132, GenderMale), 1e-9)
	assert.InDelta(t, 0.9, RecommendPitch(198, GenderFemale), 1e-9)
	assert.InDelta(t, 1.0, RecommendPitch(170, GenderNeutral), 1e-9)

	assert.Equal(t, 1.0, RecommendSpeed(0))
	assert.Equal(t, 1.3, RecommendSpeed(1.3))
}

func TestMapperUsesCatalog(t *testing.T) {
	_, err := NewMapper(nil, nil)
	require.Error(t, err)

	mapper, err := NewMapper(DefaultCatalog(), nil)
	require.NoError(t, err)

	rec := recordWithPitch(90)
	rec.Warmth = 0.8
	result := mapper.Map(rec)
	assert.Equal(t, "am_adam", result.VoiceID)
	assert.Equal(t, MinPitchFactor, result.RecommendedPitch)

	empty, err := NewCatalog(nil)
	require.NoError(t, err)
	mapper, err = NewMapper(empty, nil)
	require.NoError(t, err)
	assert.Empty(t, mapper.Map(rec).VoiceID)
}

func TestSynthesisParams(t *testing.T) {
	params := MappingResult{VoiceID: "af_sky", Confidence: 0.7, RecommendedPitch: 1.1, RecommendedSpeed: 0.9}.SynthesisParams()
	assert.Equal(t, SynthesisParams{VoiceID: "af_sky", Pitch: 1.1, Speed: 0.9}, params)
}
