package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/llm"
)

type completerFunc func(context.Context, *llm.CompletionRequest) (*llm.CompletionResponse, error)

func (f completerFunc) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return f(ctx, req)
}

func failedResult(intent, structure, personalization, message int, criticalFailures ...string) domain.TestResult {
	return domain.TestResult{
		Prospect: domain.ProspectInput{FirstName: "Sarah", LastName: "Johnson", Company: "Apex Systems"},
		Score: &domain.ScoreBreakdown{
			Total:           intent + structure + personalization + message,
			Intent:          domain.DimensionScore{Total: intent},
			Structure:       domain.DimensionScore{Total: structure},
			Personalization: domain.DimensionScore{Total: personalization},
			Message:         domain.DimensionScore{Total: message},
		},
		CriticalFailures: criticalFailures,
	}
}

func suiteWith(failures ...domain.TestResult) *domain.TestSuiteResults {
	return &domain.TestSuiteResults{
		TotalTests:  len(failures),
		FailedTests: len(failures),
		Results:     failures,
	}
}

func TestIdentifyPatterns(t *testing.T) {
	failures := []domain.TestResult{
		failedResult(5, 30, 22, 22),
		failedResult(14, 20, 15, 10, "Missing or weak call-to-action"),
	}

	patterns := identifyPatterns(failures)

	byType := make(map[string]domain.FailurePattern)
	for _, p := range patterns {
		byType[p.PatternType] = p
	}

	intent, ok := byType[domain.PatternIntentCompliance]
	require.True(t, ok)
	assert.Equal(t, 1, intent.Frequency)
	assert.InDelta(t, 50.0, intent.Percentage, 0.001)
	assert.Equal(t, "content_personalizer, email_copywriter", intent.AffectedAgent)
	assert.Equal(t, domain.SeverityCritical, intent.Severity)

	structure, ok := byType[domain.PatternStructureIssues]
	require.True(t, ok)
	assert.Equal(t, 1, structure.Frequency)
	assert.Equal(t, "email_copywriter", structure.AffectedAgent)

	cta, ok := byType[domain.PatternMissingCTA]
	require.True(t, ok)
	assert.Equal(t, 1, cta.Frequency)
	assert.NotEmpty(t, cta.ExampleFailures)
	assert.Contains(t, cta.ExampleFailures[0], "Sarah Johnson at Apex Systems")
}

func TestIdentifyPatternsNoFailures(t *testing.T) {
	assert.Nil(t, identifyPatterns(nil))
}

func TestAnalyzeFailuresParsesLLMResponse(t *testing.T) {
	response := `AGENT WEAKNESSES:
email_copywriter: [ignores selling intent, weak CTAs]
linkedin_researcher: [too conservative]

TASK WEAKNESSES:
write_email_task: [no CTA requirement]

PRIORITY FIXES:
1. Enforce selling intent keywords
2. Require assumptive CTA

SUMMARY:
Intent keywords are being dropped.
Fixing the copywriter prompt should recover most failures.
`

	a := New(completerFunc(func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return &llm.CompletionResponse{Content: response}, nil
	}))

	report := a.AnalyzeFailures(context.Background(), suiteWith(failedResult(5, 20, 15, 10)), "agents: {}", "tasks: {}")

	assert.Equal(t, 1, report.TotalFailures)
	assert.Equal(t, []string{"[ignores selling intent, weak CTAs]"}, report.AgentWeaknesses["email_copywriter"])
	assert.Equal(t, []string{"[no CTA requirement]"}, report.TaskWeaknesses["write_email_task"])
	assert.Equal(t, []string{"Enforce selling intent keywords", "Require assumptive CTA"}, report.PriorityFixes)
	assert.Equal(t, "Intent keywords are being dropped. Fixing the copywriter prompt should recover most failures.", report.Summary)
}

func TestAnalyzeFailuresFallsBackOnError(t *testing.T) {
	a := New(completerFunc(func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, errors.New("rate limited")
	}))

	report := a.AnalyzeFailures(context.Background(), suiteWith(failedResult(5, 20, 15, 10)), "", "")

	require.True(t, report.HasPattern(domain.PatternIntentCompliance))
	assert.NotEmpty(t, report.AgentWeaknesses["email_copywriter"])
	assert.NotEmpty(t, report.PriorityFixes)
	assert.NotEmpty(t, report.Summary)
}

func TestAnalyzeFailuresNilClient(t *testing.T) {
	a := New(nil)

	report := a.AnalyzeFailures(context.Background(), suiteWith(failedResult(14, 20, 15, 24)), "", "")

	assert.True(t, report.HasPattern(domain.PatternPersonalizationWeak))
	assert.False(t, report.HasPattern(domain.PatternIntentCompliance))
}

func TestParseAnalysisResponseMalformed(t *testing.T) {
	agents, tasks, fixes, summary := parseAnalysisResponse("complete garbage\nwith: colons\nbut no sections")

	assert.Empty(t, agents)
	assert.Empty(t, tasks)
	assert.Empty(t, fixes)
	assert.Empty(t, summary)
}
