package domain

// Dimension maximums for the 100-point quality scale.
const (
	MaxStructureScore       = 35
	MaxPersonalizationScore = 25
	MaxMessageScore         = 25
	MaxIntentScore          = 15
	QualityThreshold        = 85
)

// DimensionScore holds one dimension's total plus the per-criterion points
// that produced it.
type DimensionScore struct {
	Total   int            `json:"total"`
	Details map[string]int `json:"details"`
}

// ScoreBreakdown is the structured result of scoring one email. Total always
// equals the sum of the four dimension scores; Intent is clamped so it is
// never negative. Created fresh per evaluation and never mutated afterwards.
type ScoreBreakdown struct {
	Total           int            `json:"total_score"`
	Structure       DimensionScore `json:"structure"`
	Personalization DimensionScore `json:"personalization"`
	Message         DimensionScore `json:"message"`
	Intent          DimensionScore `json:"selling_intent"`
}

// StructureDetail returns a structure sub-criterion score, zero when absent.
func (s *ScoreBreakdown) StructureDetail(name string) int {
	return s.Structure.Details[name]
}
