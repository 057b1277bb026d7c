package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manana2520/ai-agent-outreach-email/internal/config"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/llm"
	"github.com/manana2520/ai-agent-outreach-email/internal/promptstore"
)

type completerFunc func(context.Context, *llm.CompletionRequest) (*llm.CompletionResponse, error)

func (f completerFunc) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return f(ctx, req)
}

func testDocuments() (*promptstore.Document, *promptstore.Document) {
	agents := promptstore.NewDocument()
	agents.Set("email_copywriter", map[string]string{
		"role":      "Email Copywriter",
		"backstory": "You write concise outreach emails.",
	}, []string{"role", "backstory"})
	agents.Set("linkedin_researcher", map[string]string{
		"backstory": "You research prospects on LinkedIn.",
	}, []string{"backstory"})

	tasks := promptstore.NewDocument()
	tasks.Set("write_email_task", map[string]string{
		"description": "Write the outreach email.",
	}, []string{"description"})

	return agents, tasks
}

func TestParseImprovements(t *testing.T) {
	agents, tasks := testDocuments()

	response := "IMPROVEMENT 1:\n" +
		"Target: agent\n" +
		"Name: email_copywriter\n" +
		"Field: backstory\n" +
		"Improved Text:\n" +
		"```\n" +
		"You write concise outreach emails.\n" +
		"ALWAYS use the selling intent keywords.\n" +
		"```\n" +
		"Rationale: Enforces intent keywords\n" +
		"\n" +
		"IMPROVEMENT 2:\n" +
		"Target: task\n" +
		"Name: write_email_task\n" +
		"Field: description\n" +
		"Improved Text:\n" +
		"End with an assumptive CTA.\n" +
		"Rationale: Adds CTA requirement\n" +
		"\n" +
		"SUMMARY:\n" +
		"Two targeted fixes.\n" +
		"\n" +
		"EXPECTED IMPACT:\n" +
		"Pass rate should rise by 20%.\n"

	improvements := ParseImprovements(response, agents, tasks)

	require.Len(t, improvements.Improvements, 2)

	first := improvements.Improvements[0]
	assert.Equal(t, domain.TargetAgent, first.Target)
	assert.Equal(t, "email_copywriter", first.Name)
	assert.Equal(t, "backstory", first.Field)
	assert.Equal(t, "You write concise outreach emails.\nALWAYS use the selling intent keywords.", first.ImprovedText)
	assert.Equal(t, "You write concise outreach emails.", first.OriginalText)
	assert.Equal(t, "Enforces intent keywords", first.Rationale)

	second := improvements.Improvements[1]
	assert.Equal(t, domain.TargetTask, second.Target)
	assert.Equal(t, "End with an assumptive CTA.", second.ImprovedText)
	assert.Equal(t, "Write the outreach email.", second.OriginalText)

	assert.Equal(t, "Two targeted fixes.", improvements.Summary)
	assert.Equal(t, "Pass rate should rise by 20%.", improvements.ExpectedImpact)
}

func TestParseImprovementsMalformed(t *testing.T) {
	agents, tasks := testDocuments()

	// A block missing its Improved Text section is dropped.
	response := "IMPROVEMENT 1:\n" +
		"Target: agent\n" +
		"Name: email_copywriter\n" +
		"Field: backstory\n" +
		"Rationale: no text given\n"

	improvements := ParseImprovements(response, agents, tasks)
	assert.Empty(t, improvements.Improvements)

	improvements = ParseImprovements("not a structured response at all", agents, tasks)
	assert.Empty(t, improvements.Improvements)
}

func TestAdaptPromptsFallback(t *testing.T) {
	agents, tasks := testDocuments()
	analysis := &domain.AnalysisReport{
		FailurePatterns: []domain.FailurePattern{
			{PatternType: domain.PatternIntentCompliance},
			{PatternType: domain.PatternPersonalizationWeak},
			{PatternType: domain.PatternMissingCTA},
		},
	}

	a := New(completerFunc(func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, errors.New("provider down")
	}))

	improvements := a.AdaptPrompts(context.Background(), analysis, agents, tasks, nil)

	require.Len(t, improvements.Improvements, 3)
	assert.Contains(t, improvements.Improvements[0].ImprovedText, "CRITICAL SELLING INTENT ENFORCEMENT")
	assert.Contains(t, improvements.Improvements[0].ImprovedText, "You write concise outreach emails.")
	assert.Contains(t, improvements.Improvements[1].ImprovedText, "MANDATORY: You MUST return LinkedIn profiles")
	assert.Contains(t, improvements.Improvements[2].ImprovedText, "MANDATORY CTA")
}

func TestAdaptPromptsFallbackSkipsUnknownEntities(t *testing.T) {
	agents := promptstore.NewDocument()
	tasks := promptstore.NewDocument()
	analysis := &domain.AnalysisReport{
		FailurePatterns: []domain.FailurePattern{{PatternType: domain.PatternIntentCompliance}},
	}

	a := New(nil)
	improvements := a.AdaptPrompts(context.Background(), analysis, agents, tasks, nil)
	assert.Empty(t, improvements.Improvements)
}

func TestApplyImprovements(t *testing.T) {
	dir := t.TempDir()
	agentsPath := filepath.Join(dir, "agents.yaml")
	tasksPath := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(agentsPath, []byte("email_copywriter:\n  backstory: old text\n"), 0o644))
	require.NoError(t, os.WriteFile(tasksPath, []byte("write_email_task:\n  description: old task\n"), 0o644))

	store := promptstore.NewStore(&config.PromptsConfig{AgentsPath: agentsPath, TasksPath: tasksPath})
	agents, err := store.LoadAgents()
	require.NoError(t, err)
	tasks, err := store.LoadTasks()
	require.NoError(t, err)

	improvements := &domain.PromptImprovements{
		Improvements: []domain.PromptImprovement{
			{Target: domain.TargetAgent, Name: "email_copywriter", Field: "backstory", ImprovedText: "new text"},
			{Target: domain.TargetTask, Name: "write_email_task", Field: "description", ImprovedText: "new task"},
			{Target: domain.TargetAgent, Name: "missing_agent", Field: "backstory", ImprovedText: "ignored"},
		},
	}

	a := New(nil)
	require.NoError(t, a.ApplyImprovements(improvements, store, agents, tasks))

	reloaded, err := store.LoadAgents()
	require.NoError(t, err)
	assert.Equal(t, "new text", reloaded.Field("email_copywriter", "backstory"))

	reloadedTasks, err := store.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, "new task", reloadedTasks.Field("write_email_task", "description"))
}
