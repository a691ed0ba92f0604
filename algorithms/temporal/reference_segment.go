package temporal

import "math"

// Reference clip lengths in seconds
const (
	ReferenceMinSeconds    = 6.0
	ReferenceMaxSeconds    = 10.0
	ReferenceTargetSeconds = 8.0

	// MinSpeechSeconds drops speech segments too short to be a phrase
	MinSpeechSeconds = 0.5
)

// SelectReference picks the speech used as a voice-cloning reference:
//   - the single segment of 6-10 s closest to 8 s;
//   - otherwise consecutive segments joined until they reach 6 s, cut at 10 s;
//   - otherwise, with no usable speech, the first 8 s of the clip.
//
// Segments shorter than MinSpeechSeconds are ignored. The returned slice
// is a new buffer.
func SelectReference(samples []float64, segments []Segment, sampleRate int) []float64 {
	if sampleRate <= 0 || len(samples) == 0 {
		return nil
	}

	seconds := func(s float64) int { return int(s * float64(sampleRate)) }
	minLen, maxLen, target := seconds(ReferenceMinSeconds), seconds(ReferenceMaxSeconds), seconds(ReferenceTargetSeconds)

	var speech []Segment
	for _, s := range segments {
		s.Start = max(s.Start, 0)
		s.End = min(s.End, len(samples))
		if s.End-s.Start >= seconds(MinSpeechSeconds) {
			speech = append(speech, s)
		}
	}

	best, bestScore := -1, math.Inf(-1)
	for i, s := range speech {
		length := s.End - s.Start
		if length < minLen || length > maxLen {
			continue
		}
		score := 1.0 - math.Abs(float64(length-target))/float64(maxLen-minLen)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return append([]float64(nil), samples[speech[best].Start:speech[best].End]...)
	}

	if len(speech) > 0 {
		var joined []float64
		for _, s := range speech {
			joined = append(joined, samples[s.Start:s.End]...)
			if len(joined) >= minLen {
				break
			}
		}
		if len(joined) > maxLen {
			joined = joined[:maxLen]
		}
		return joined
	}

	return append([]float64(nil), samples[:min(len(samples), target)]...)
}
