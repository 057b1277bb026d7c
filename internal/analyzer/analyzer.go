package analyzer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/llm"
)

// Sub-score thresholds that turn failed results into coarse patterns.
const (
	intentPatternBelow          = 12
	structurePatternBelow       = domain.MaxStructureScore * 8 / 10
	personalizationPatternBelow = domain.MaxPersonalizationScore * 8 / 10
	messagePatternBelow         = domain.MaxMessageScore * 8 / 10

	maxPatternExamples = 3
	maxPromptChars     = 2000
)

// Completer is the completion collaborator used for deep analysis. The
// production implementation is *llm.Client; a nil or failing Completer
// degrades to the deterministic rule-based analysis.
type Completer interface {
	Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Analyzer groups test failures into named patterns and derives agent and
// task weaknesses from them.
type Analyzer struct {
	client Completer
}

func New(client Completer) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeFailures builds a full analysis report for a finished suite. The
// coarse patterns are derived deterministically; the weakness lists come
// from the completion collaborator when it is available and fall back to
// fixed rules when it is not. This never fails: a broken collaborator is
// logged and recovered.
func (a *Analyzer) AnalyzeFailures(ctx context.Context, suite *domain.TestSuiteResults, agentsText, tasksText string) *domain.AnalysisReport {
	failures := suite.Failures()
	patterns := identifyPatterns(failures)

	report := &domain.AnalysisReport{
		TotalFailures:   len(failures),
		FailurePatterns: patterns,
	}

	if a.client != nil {
		if err := a.llmAnalyze(ctx, report, failures, agentsText, tasksText); err == nil {
			return report
		} else {
			log.Printf("LLM analysis failed, using rule-based fallback: %v", err)
		}
	}

	fallbackAnalysis(report)
	return report
}

// identifyPatterns derives coarse failure patterns from sub-score and
// critical-failure thresholds. Severities and root causes are fixed per
// pattern type.
func identifyPatterns(failures []domain.TestResult) []domain.FailurePattern {
	total := len(failures)
	if total == 0 {
		return nil
	}

	var patterns []domain.FailurePattern

	addPattern := func(matched []domain.TestResult, patternType, agent, task, rootCause, severity string) {
		if len(matched) == 0 {
			return
		}
		patterns = append(patterns, domain.FailurePattern{
			PatternType:     patternType,
			Frequency:       len(matched),
			Percentage:      float64(len(matched)) / float64(total) * 100,
			AffectedAgent:   agent,
			AffectedTask:    task,
			ExampleFailures: extractExamples(matched, maxPatternExamples),
			RootCause:       rootCause,
			Severity:        severity,
		})
	}

	addPattern(
		filterScored(failures, func(s *domain.ScoreBreakdown) bool { return s.Intent.Total < intentPatternBelow }),
		domain.PatternIntentCompliance,
		"content_personalizer, email_copywriter",
		"personalize_content_task, write_email_task",
		"Agents not properly using selling_intent keywords",
		domain.SeverityCritical,
	)

	addPattern(
		filterScored(failures, func(s *domain.ScoreBreakdown) bool { return s.Personalization.Total < personalizationPatternBelow }),
		domain.PatternPersonalizationWeak,
		"linkedin_researcher, prospect_researcher",
		"linkedin_research_task, research_prospect_task",
		"Insufficient research or low-confidence findings",
		domain.SeverityHigh,
	)

	addPattern(
		filterScored(failures, func(s *domain.ScoreBreakdown) bool { return s.Structure.Total < structurePatternBelow }),
		domain.PatternStructureIssues,
		"email_copywriter",
		"write_email_task",
		"Email structure requirements not followed",
		domain.SeverityMedium,
	)

	addPattern(
		filterScored(failures, func(s *domain.ScoreBreakdown) bool { return s.Message.Total < messagePatternBelow }),
		domain.PatternMessageQualityLow,
		"email_copywriter",
		"write_email_task",
		"Poor tone, length, or subject line quality",
		domain.SeverityMedium,
	)

	var ctaFailures []domain.TestResult
	for _, f := range failures {
		if strings.Contains(strings.ToLower(strings.Join(f.CriticalFailures, " ")), "call-to-action") {
			ctaFailures = append(ctaFailures, f)
		}
	}
	addPattern(
		ctaFailures,
		domain.PatternMissingCTA,
		"email_copywriter",
		"write_email_task",
		"Missing or weak call-to-action",
		domain.SeverityHigh,
	)

	return patterns
}

func filterScored(failures []domain.TestResult, match func(*domain.ScoreBreakdown) bool) []domain.TestResult {
	var out []domain.TestResult
	for _, f := range failures {
		if f.Score != nil && match(f.Score) {
			out = append(out, f)
		}
	}
	return out
}

func extractExamples(failures []domain.TestResult, n int) []string {
	var examples []string
	for _, f := range failures {
		if len(examples) >= n {
			break
		}
		example := fmt.Sprintf("Prospect: %s at %s", f.Prospect.FullName(), f.Prospect.Company)
		if f.Score != nil {
			example += fmt.Sprintf(" | Score: %d/100", f.Score.Total)
		}
		if len(f.CriticalFailures) > 0 {
			issues := f.CriticalFailures
			if len(issues) > 2 {
				issues = issues[:2]
			}
			example += " | Issues: " + strings.Join(issues, ", ")
		}
		examples = append(examples, example)
	}
	return examples
}

func (a *Analyzer) llmAnalyze(ctx context.Context, report *domain.AnalysisReport, failures []domain.TestResult, agentsText, tasksText string) error {
	sample := failures
	if len(sample) > 5 {
		sample = sample[:5]
	}

	resp, err := a.client.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are an expert prompt engineer analyzing AI agent failures to recommend prompt improvements."},
			{Role: "user", Content: buildAnalysisPrompt(report.FailurePatterns, sample, agentsText, tasksText)},
		},
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		return fmt.Errorf("llm completion: %w", err)
	}

	agentWeaknesses, taskWeaknesses, priorityFixes, summary := parseAnalysisResponse(resp.Content)
	report.AgentWeaknesses = agentWeaknesses
	report.TaskWeaknesses = taskWeaknesses
	report.PriorityFixes = priorityFixes
	report.Summary = summary
	return nil
}

func buildAnalysisPrompt(patterns []domain.FailurePattern, sample []domain.TestResult, agentsText, tasksText string) string {
	var sb strings.Builder

	sb.WriteString("You are analyzing failures in a multi-agent sales email generation system.\n\n")

	sb.WriteString("FAILURE PATTERNS IDENTIFIED:\n")
	for _, p := range patterns {
		sb.WriteString(fmt.Sprintf("- %s: %d failures (%.0f%%) - %s\n", p.PatternType, p.Frequency, p.Percentage, p.RootCause))
	}

	sb.WriteString("\nEXAMPLE FAILURES:\n")
	for _, f := range sample {
		score := "N/A"
		if f.Score != nil {
			score = fmt.Sprintf("%d", f.Score.Total)
		}
		issues := f.CriticalFailures
		if len(issues) > 2 {
			issues = issues[:2]
		}
		sb.WriteString(fmt.Sprintf("- %s at %s: Score %s/100, Issues: %s\n",
			f.Prospect.FirstName, f.Prospect.Company, score, strings.Join(issues, ", ")))
	}

	sb.WriteString("\nCURRENT AGENT PROMPTS (agents.yaml):\n```yaml\n")
	sb.WriteString(truncate(agentsText, maxPromptChars))
	sb.WriteString("\n```\n\nCURRENT TASK DESCRIPTIONS (tasks.yaml):\n```yaml\n")
	sb.WriteString(truncate(tasksText, maxPromptChars))
	sb.WriteString("\n```\n")

	sb.WriteString(`
Please analyze these failures and provide:

1. AGENT WEAKNESSES: Which agent prompts are unclear, missing instructions, or contradictory?
2. TASK WEAKNESSES: Which task descriptions need strengthening or clarification?
3. PRIORITY FIXES: What are the top 5 most important changes to make?
4. SUMMARY: Brief 2-3 sentence summary of root causes and recommended approach

Format your response exactly as:

AGENT WEAKNESSES:
agent_name: [weakness1, weakness2]
...

TASK WEAKNESSES:
task_name: [weakness1, weakness2]
...

PRIORITY FIXES:
1. Fix1
2. Fix2
...

SUMMARY:
Your summary here.
`)

	return sb.String()
}

// parseAnalysisResponse parses the semi-structured section format. Unknown
// sections and malformed lines are skipped, never fatal; missing sections
// yield empty results.
func parseAnalysisResponse(text string) (map[string][]string, map[string][]string, []string, string) {
	agentWeaknesses := make(map[string][]string)
	taskWeaknesses := make(map[string][]string)
	var priorityFixes []string
	var summary strings.Builder

	section := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "AGENT WEAKNESSES:"):
			section = "agents"
		case strings.HasPrefix(line, "TASK WEAKNESSES:"):
			section = "tasks"
		case strings.HasPrefix(line, "PRIORITY FIXES:"):
			section = "priorities"
		case strings.HasPrefix(line, "SUMMARY:"):
			section = "summary"
		case line == "":
			// skip blanks
		default:
			switch section {
			case "agents":
				if name, rest, ok := strings.Cut(line, ":"); ok {
					agentWeaknesses[strings.TrimSpace(name)] = []string{strings.TrimSpace(rest)}
				}
			case "tasks":
				if name, rest, ok := strings.Cut(line, ":"); ok {
					taskWeaknesses[strings.TrimSpace(name)] = []string{strings.TrimSpace(rest)}
				}
			case "priorities":
				if line[0] >= '0' && line[0] <= '9' {
					if _, rest, ok := strings.Cut(line, "."); ok {
						priorityFixes = append(priorityFixes, strings.TrimSpace(rest))
					} else {
						priorityFixes = append(priorityFixes, line)
					}
				}
			case "summary":
				summary.WriteString(line)
				summary.WriteString(" ")
			}
		}
	}

	return agentWeaknesses, taskWeaknesses, priorityFixes, strings.TrimSpace(summary.String())
}

// fallbackAnalysis fills the weakness lists from fixed rules keyed by which
// pattern types were detected. Fully deterministic, no external calls.
func fallbackAnalysis(report *domain.AnalysisReport) {
	report.AgentWeaknesses = make(map[string][]string)
	report.TaskWeaknesses = make(map[string][]string)
	report.PriorityFixes = nil

	for _, pattern := range report.FailurePatterns {
		switch pattern.PatternType {
		case domain.PatternIntentCompliance:
			report.AgentWeaknesses["content_personalizer"] = []string{
				"Not consistently using selling_intent keywords",
				"May be using generic messaging instead of specific use case",
			}
			report.AgentWeaknesses["email_copywriter"] = []string{
				"Not enforcing selling_intent keywords in subject and body",
				"Allowing generic data platform messaging when specific intent provided",
			}
			report.PriorityFixes = append(report.PriorityFixes,
				"Strengthen selling_intent enforcement in content_personalizer and email_copywriter")

		case domain.PatternPersonalizationWeak:
			report.AgentWeaknesses["linkedin_researcher"] = []string{
				"May not be finding LinkedIn profiles consistently",
				"Confidence threshold may be too conservative",
			}
			report.PriorityFixes = append(report.PriorityFixes,
				"Improve LinkedIn research reliability and confidence assessment")

		case domain.PatternMissingCTA:
			report.AgentWeaknesses["email_copywriter"] = []string{
				"Not consistently including strong CTAs",
				"May be using weak permission-seeking language",
			}
			report.PriorityFixes = append(report.PriorityFixes,
				"Add explicit CTA requirements with examples to email_copywriter")
		}
	}

	var types []string
	for i, p := range report.FailurePatterns {
		if i >= 3 {
			break
		}
		types = append(types, p.PatternType)
	}
	report.Summary = fmt.Sprintf("Found %d failure patterns. Primary issues are %s.",
		len(report.FailurePatterns), strings.Join(types, ", "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
