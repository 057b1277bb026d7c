package scorer

import (
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
)

// Regeneration thresholds on the total score.
const (
	regenerateBelow = 70
	acceptAt        = 85
)

// Suggestion thresholds sit at 80% of each dimension's maximum, truncated.
const (
	structureSuggestBelow       = domain.MaxStructureScore * 8 / 10
	personalizationSuggestBelow = domain.MaxPersonalizationScore * 8 / 10
	messageSuggestBelow         = domain.MaxMessageScore * 8 / 10
)

// ShouldRegenerate decides whether a scored email should be regenerated.
func ShouldRegenerate(score domain.ScoreBreakdown) (bool, string) {
	switch {
	case score.Total < regenerateBelow:
		return true, "Low quality score - immediate regeneration required"
	case score.Total < acceptAt:
		return true, "Medium quality score - single optimization attempt"
	default:
		return false, "Quality score acceptable"
	}
}

// ImprovementSuggestions maps issue tags to human-readable hints for the
// next generation attempt, derived from the score breakdown.
func ImprovementSuggestions(score domain.ScoreBreakdown) map[string]string {
	suggestions := make(map[string]string)

	if score.Structure.Total < structureSuggestBelow {
		suggestions["structure"] = "Improve email structure - ensure proper greeting, achievement recognition, industry context, value proposition, and CTA"
	}
	if score.Personalization.Total < personalizationSuggestBelow {
		suggestions["personalization"] = "Enhance personalization - improve LinkedIn research and company-specific context"
	}
	if score.Message.Total < messageSuggestBelow {
		suggestions["message"] = "Improve message quality - work on tone, flow, length and subject line"
	}

	if score.StructureDetail("first_name") == 0 {
		suggestions["first_name"] = "Ensure first name is capitalized and properly formatted in greeting"
	}
	if score.StructureDetail("achievement") < 7 {
		suggestions["achievement"] = "Add specific achievement recognition or improve generic pleasing message"
	}
	if score.StructureDetail("industry_context") < 8 {
		suggestions["industry_context"] = "Include specific reference customer use case from similar industry"
	}
	if score.StructureDetail("call_to_action") == 0 {
		suggestions["cta"] = "Add clear meeting request call-to-action"
	}

	return suggestions
}
