// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Pattern is one vibration pattern extracted from a VibrationModel declaration.
// Field order matches the on-disk key order of the exported document.
type Pattern struct {
	// ID identifies the pattern (e.g. "VIB001"). Always non-empty.
	ID string `json:"id" yaml:"id"`

	// Timings holds one duration per vibration segment, in milliseconds.
	Timings []int64 `json:"timings" yaml:"timings"`

	// Amplitudes holds one intensity per segment. Usually the same length as
	// Timings, but nothing enforces it.
	Amplitudes []int64 `json:"amplitudes" yaml:"amplitudes"`

	SensationTags []string `json:"sensationTags" yaml:"sensationTags"`
	EmotionTags   []string `json:"emotionTags" yaml:"emotionTags"`
	Metaphors     []string `json:"metaphors" yaml:"metaphors"`
	UsageExamples []string `json:"usageExamples" yaml:"usageExamples"`

	// ImagePath is the drawable resource name (e.g. "vib000"), or nil when the
	// declaration has no image.
	ImagePath *string `json:"imagePath" yaml:"imagePath"`
}

// Facet names one of the four descriptive tag lists on a Pattern.
type Facet string

const (
	FacetSensation Facet = "sensation"
	FacetEmotion   Facet = "emotion"
	FacetMetaphor  Facet = "metaphor"
	FacetUsage     Facet = "usage"
)

// Facets lists every facet in display order.
var Facets = []Facet{FacetSensation, FacetEmotion, FacetMetaphor, FacetUsage}

// Tags returns the tag list of p that belongs to facet f.
func (p Pattern) Tags(f Facet) []string {
	switch f {
	case FacetSensation:
		return p.SensationTags
	case FacetEmotion:
		return p.EmotionTags
	case FacetMetaphor:
		return p.Metaphors
	case FacetUsage:
		return p.UsageExamples
	}
	return nil
}
