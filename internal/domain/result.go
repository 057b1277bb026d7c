package domain

import "time"

// TestResult pairs one prospect with the generation attempt made for it and
// the verdict on that attempt. Created once per test and never mutated.
type TestResult struct {
	ID               string            `json:"id"`
	Prospect         ProspectInput     `json:"prospect_input"`
	Output           *GenerationResult `json:"output,omitempty"`
	Score            *ScoreBreakdown   `json:"quality_score,omitempty"`
	Passed           bool              `json:"passed"`
	CriticalFailures []string          `json:"critical_failures"`
	Duration         time.Duration     `json:"execution_time_ns"`
	Error            string            `json:"error,omitempty"`
}

// TestSuiteResults aggregates a sequence of TestResults. Derived per run and
// never persisted beyond it.
type TestSuiteResults struct {
	TotalTests      int            `json:"total_tests"`
	PassedTests     int            `json:"passed_tests"`
	FailedTests     int            `json:"failed_tests"`
	PassRate        float64        `json:"pass_rate"`
	AvgQualityScore float64        `json:"avg_quality_score"`
	Results         []TestResult   `json:"results"`
	FailurePatterns map[string]int `json:"failure_patterns"`
	Timestamp       time.Time      `json:"timestamp"`
}

// Failures returns only the failed results, in suite order.
func (s *TestSuiteResults) Failures() []TestResult {
	var failed []TestResult
	for _, r := range s.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
