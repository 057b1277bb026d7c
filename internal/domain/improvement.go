package domain

import "time"

// Improvement targets.
const (
	TargetAgent = "agent"
	TargetTask  = "task"
)

// PromptImprovement is a single proposed edit to externally stored prompt
// configuration. OriginalText is retained only for audit and diffing.
type PromptImprovement struct {
	Target       string `json:"target"`
	Name         string `json:"name"`
	Field        string `json:"field"`
	OriginalText string `json:"original_text"`
	ImprovedText string `json:"improved_text"`
	Rationale    string `json:"rationale"`
}

// PromptImprovements is the adapter's full output for one iteration.
type PromptImprovements struct {
	Improvements   []PromptImprovement `json:"improvements"`
	Summary        string              `json:"summary"`
	ExpectedImpact string              `json:"expected_impact"`
}

// Terminal statuses of the improvement orchestrator.
type ImprovementStatus string

const (
	StatusSuccess       ImprovementStatus = "success"
	StatusEarlyStop     ImprovementStatus = "early_stop"
	StatusMaxIterations ImprovementStatus = "max_iterations"
	StatusTestOnly      ImprovementStatus = "test_only"
)

// IterationSnapshot records one improvement iteration for the run log.
type IterationSnapshot struct {
	Iteration       int            `json:"iteration"`
	PassRate        float64        `json:"pass_rate"`
	AvgQuality      float64        `json:"avg_quality"`
	Passed          int            `json:"passed"`
	Failed          int            `json:"failed"`
	FailurePatterns map[string]int `json:"failure_patterns"`
	AnalysisSummary string         `json:"analysis_summary,omitempty"`
	PriorityFixes   []string       `json:"priority_fixes,omitempty"`
	NumImprovements int            `json:"num_improvements"`
	Timestamp       time.Time      `json:"timestamp"`
}

// ImprovementReport summarizes a whole improvement cycle.
type ImprovementReport struct {
	Success          bool                `json:"success"`
	Status           ImprovementStatus   `json:"status"`
	Iterations       int                 `json:"iterations"`
	InitialPassRate  float64             `json:"initial_pass_rate"`
	FinalPassRate    float64             `json:"final_pass_rate"`
	TargetPassRate   float64             `json:"target_pass_rate"`
	Improvement      float64             `json:"improvement"`
	FinalAvgQuality  float64             `json:"final_avg_quality"`
	TotalTestsRun    int                 `json:"total_tests_run"`
	Timestamp        time.Time           `json:"timestamp"`
	IterationHistory []IterationSnapshot `json:"iteration_history"`
	Message          string              `json:"message"`
}
