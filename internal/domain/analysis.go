package domain

// Severity tiers for failure patterns.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Named failure-pattern categories shared by the suite runner and the
// analyzer.
const (
	PatternIntentCompliance      = "intent_compliance"
	PatternIntentComplianceLow   = "intent_compliance_low"
	PatternStructureIssues       = "structure_issues"
	PatternPersonalizationWeak   = "personalization_weak"
	PatternMessageQualityLow     = "message_quality_low"
	PatternExecutionFailure      = "execution_failure"
	PatternCapitalizationError   = "capitalization_error"
	PatternMissingCTA            = "missing_cta"
	PatternGenericMessaging      = "generic_messaging"
	PatternCriticalIntentFailure = "critical_intent_failure"
)

// FailurePattern is a named category of failures with its inferred cause.
type FailurePattern struct {
	PatternType     string   `json:"pattern_type"`
	Frequency       int      `json:"frequency"`
	Percentage      float64  `json:"percentage"`
	AffectedAgent   string   `json:"affected_agent"`
	AffectedTask    string   `json:"affected_task"`
	ExampleFailures []string `json:"example_failures"`
	RootCause       string   `json:"root_cause"`
	Severity        string   `json:"severity"`
}

// AnalysisReport is the full output of a failure analysis pass.
type AnalysisReport struct {
	TotalFailures   int                 `json:"total_failures"`
	FailurePatterns []FailurePattern    `json:"failure_patterns"`
	AgentWeaknesses map[string][]string `json:"agent_weaknesses"`
	TaskWeaknesses  map[string][]string `json:"task_weaknesses"`
	PriorityFixes   []string            `json:"priority_fixes"`
	Summary         string              `json:"summary"`
}

// HasPattern reports whether a pattern of the given type was detected.
func (r *AnalysisReport) HasPattern(patternType string) bool {
	for _, p := range r.FailurePatterns {
		if p.PatternType == patternType {
			return true
		}
	}
	return false
}
