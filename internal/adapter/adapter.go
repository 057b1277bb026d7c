package adapter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/llm"
	"github.com/manana2520/ai-agent-outreach-email/internal/promptstore"
)

// Completer is the completion collaborator used to draft prompt edits.
type Completer interface {
	Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Adapter turns an analysis report into concrete edits to the agent and
// task prompt documents.
type Adapter struct {
	client Completer
}

func New(client Completer) *Adapter {
	return &Adapter{client: client}
}

// AdaptPrompts generates prompt improvements for the weaknesses named in
// the analysis. LLM drafting is preferred; on any failure the fixed
// rule-based catalogue keyed by pattern type is used instead, so this
// always returns a usable (possibly empty) set of improvements.
func (a *Adapter) AdaptPrompts(ctx context.Context, analysis *domain.AnalysisReport, agents, tasks *promptstore.Document, examples []domain.TestResult) *domain.PromptImprovements {
	if a.client != nil {
		improvements, err := a.llmGenerate(ctx, analysis, agents, tasks, examples)
		if err == nil {
			return improvements
		}
		log.Printf("LLM improvement generation failed, using rule-based fallback: %v", err)
	}
	return fallbackImprovements(analysis, agents, tasks)
}

// ApplyImprovements writes the improved texts into the prompt documents
// and persists both files. Improvements naming unknown agents or tasks
// are skipped.
func (a *Adapter) ApplyImprovements(improvements *domain.PromptImprovements, store *promptstore.Store, agents, tasks *promptstore.Document) error {
	applied := 0
	for _, imp := range improvements.Improvements {
		switch imp.Target {
		case domain.TargetAgent:
			if agents.SetField(imp.Name, imp.Field, imp.ImprovedText) {
				applied++
				log.Printf("updated agent %q field %q", imp.Name, imp.Field)
			} else {
				log.Printf("skipping improvement for unknown agent %q", imp.Name)
			}
		case domain.TargetTask:
			if tasks.SetField(imp.Name, imp.Field, imp.ImprovedText) {
				applied++
				log.Printf("updated task %q field %q", imp.Name, imp.Field)
			} else {
				log.Printf("skipping improvement for unknown task %q", imp.Name)
			}
		default:
			log.Printf("skipping improvement with unknown target %q", imp.Target)
		}
	}

	if applied == 0 {
		return nil
	}
	if err := store.SaveAgents(agents); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	if err := store.SaveTasks(tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (a *Adapter) llmGenerate(ctx context.Context, analysis *domain.AnalysisReport, agents, tasks *promptstore.Document, examples []domain.TestResult) (*domain.PromptImprovements, error) {
	if len(examples) > 3 {
		examples = examples[:3]
	}

	resp, err := a.client.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are an expert prompt engineer specializing in improving AI agent prompts to fix specific failure patterns."},
			{Role: "user", Content: buildImprovementPrompt(analysis, agents, tasks, examples)},
		},
		MaxTokens:   3000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	improvements := ParseImprovements(resp.Content, agents, tasks)
	return improvements, nil
}

func buildImprovementPrompt(analysis *domain.AnalysisReport, agents, tasks *promptstore.Document, examples []domain.TestResult) string {
	var sb strings.Builder

	sb.WriteString("You are improving AI agent prompts based on failure analysis.\n\n")

	sb.WriteString("FAILURE ANALYSIS:\n")
	sb.WriteString(analysis.Summary)
	sb.WriteString("\n\nFAILURE PATTERNS:\n")
	for _, p := range analysis.FailurePatterns {
		sb.WriteString(fmt.Sprintf("- %s (%s): %d failures - %s\n", p.PatternType, p.Severity, p.Frequency, p.RootCause))
	}

	sb.WriteString("\nPRIORITY FIXES NEEDED:\n")
	for i, fix := range analysis.PriorityFixes {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, fix))
	}

	if len(examples) > 0 {
		sb.WriteString("\nEXAMPLE FAILURES:\n")
		for _, ex := range examples {
			score := "N/A"
			if ex.Score != nil {
				score = fmt.Sprintf("%d/100", ex.Score.Total)
			}
			sb.WriteString(fmt.Sprintf("- %s at %s: %s (%s)\n",
				ex.Prospect.FullName(), ex.Prospect.Company, score, strings.Join(ex.CriticalFailures, "; ")))
		}
	}

	sb.WriteString("\nCURRENT AGENTS: " + strings.Join(agents.Names(), ", "))
	sb.WriteString("\nCURRENT TASKS: " + strings.Join(tasks.Names(), ", "))

	sb.WriteString(`

YOUR TASK:
Generate specific prompt improvements to address these failures. For each improvement:
1. Identify which agent or task needs modification
2. Identify which field (backstory, goal, description, expected_output)
3. Provide the improved text
4. Explain the rationale

GUIDELINES:
- Be specific and actionable
- Address root causes, not symptoms
- Preserve existing good functionality
- Use clear, unambiguous language
- Add concrete examples where helpful
- Strengthen critical requirements with "CRITICAL:", "MANDATORY:", etc.
- For intent compliance issues: Add explicit selling_intent enforcement
- For personalization issues: Strengthen research requirements
- For CTA issues: Add CTA examples and requirements

FORMAT YOUR RESPONSE AS:

IMPROVEMENT 1:
Target: agent | task
Name: agent_name or task_name
Field: backstory | goal | description | expected_output
Improved Text:
` + "```" + `
Your improved text here (can be multiple lines)
` + "```" + `
Rationale: Why this change addresses the failure

IMPROVEMENT 2:
...

SUMMARY:
Brief summary of improvements and expected impact.

EXPECTED IMPACT:
Predicted improvement in pass rate and specific metrics.
`)

	return sb.String()
}

// ParseImprovements parses the IMPROVEMENT-block response format. The
// parser is line oriented and tolerant: blocks missing required fields
// are dropped, code fences around the improved text are stripped, and
// original texts are looked up from the current documents.
func ParseImprovements(text string, agents, tasks *promptstore.Document) *domain.PromptImprovements {
	var improvements []domain.PromptImprovement
	var current domain.PromptImprovement
	var improvedLines []string
	inImprovedText := false
	haveImprovedText := false

	flush := func() {
		if current.Name != "" && haveImprovedText {
			current.ImprovedText = strings.TrimSpace(strings.Join(improvedLines, "\n"))
			if current.ImprovedText != "" {
				improvements = append(improvements, current)
			}
		}
		current = domain.PromptImprovement{}
		improvedLines = nil
		inImprovedText = false
		haveImprovedText = false
	}

	lines := strings.Split(text, "\n")
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "IMPROVEMENT"):
			flush()

		case strings.HasPrefix(line, "Target:"):
			current.Target = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Target:")))
			inImprovedText = false

		case strings.HasPrefix(line, "Name:"):
			current.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			inImprovedText = false

		case strings.HasPrefix(line, "Field:"):
			current.Field = strings.TrimSpace(strings.TrimPrefix(line, "Field:"))
			inImprovedText = false

		case strings.HasPrefix(line, "Improved Text:"):
			inImprovedText = true
			haveImprovedText = true
			improvedLines = nil

		case strings.HasPrefix(line, "Rationale:"):
			inImprovedText = false
			current.Rationale = strings.TrimSpace(strings.TrimPrefix(line, "Rationale:"))
			current.OriginalText = lookupOriginal(current, agents, tasks)

		case strings.HasPrefix(line, "SUMMARY:"):
			flush()

		case inImprovedText && !strings.HasPrefix(line, "```"):
			improvedLines = append(improvedLines, raw)
		}
	}
	flush()

	summary, impact := parseTrailerSections(lines)
	return &domain.PromptImprovements{
		Improvements:   improvements,
		Summary:        summary,
		ExpectedImpact: impact,
	}
}

func lookupOriginal(imp domain.PromptImprovement, agents, tasks *promptstore.Document) string {
	switch imp.Target {
	case domain.TargetAgent:
		return agents.Field(imp.Name, imp.Field)
	case domain.TargetTask:
		return tasks.Field(imp.Name, imp.Field)
	}
	return ""
}

func parseTrailerSections(lines []string) (summary, impact string) {
	var sumB, impB strings.Builder
	section := ""
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			section = "summary"
		case strings.HasPrefix(line, "EXPECTED IMPACT:"):
			section = "impact"
		case line == "":
		case section == "summary":
			sumB.WriteString(line)
			sumB.WriteString(" ")
		case section == "impact":
			impB.WriteString(line)
			impB.WriteString(" ")
		}
	}
	return strings.TrimSpace(sumB.String()), strings.TrimSpace(impB.String())
}

// fallbackImprovements builds a fixed improvement per detected pattern
// type, appending enforcement text to the relevant prompt fields.
func fallbackImprovements(analysis *domain.AnalysisReport, agents, tasks *promptstore.Document) *domain.PromptImprovements {
	var improvements []domain.PromptImprovement

	if analysis.HasPattern(domain.PatternIntentCompliance) && agents.Has("email_copywriter") {
		original := agents.Field("email_copywriter", "backstory")
		improvements = append(improvements, domain.PromptImprovement{
			Target:       domain.TargetAgent,
			Name:         "email_copywriter",
			Field:        "backstory",
			OriginalText: original,
			ImprovedText: original +
				"\n\nCRITICAL SELLING INTENT ENFORCEMENT:\n" +
				"When selling_intent is provided, you MUST use those EXACT keywords throughout the email.\n" +
				"Subject line MUST contain keywords from selling_intent.\n" +
				"Email body MUST mention selling_intent keywords multiple times.\n" +
				"NO generic data platform messaging when specific intent provided.",
			Rationale: "Add explicit selling_intent enforcement to prevent generic messaging",
		})
	}

	if analysis.HasPattern(domain.PatternPersonalizationWeak) && agents.Has("linkedin_researcher") {
		original := agents.Field("linkedin_researcher", "backstory")
		improvements = append(improvements, domain.PromptImprovement{
			Target:       domain.TargetAgent,
			Name:         "linkedin_researcher",
			Field:        "backstory",
			OriginalText: original,
			ImprovedText: original +
				"\n\nMANDATORY: You MUST return LinkedIn profiles for unique name + company combinations.\n" +
				"Don't be overly cautious - if the profile clearly matches, return it with high confidence.",
			Rationale: "Increase aggressiveness in LinkedIn research",
		})
	}

	if analysis.HasPattern(domain.PatternMissingCTA) && tasks.Has("write_email_task") {
		original := tasks.Field("write_email_task", "description")
		improvements = append(improvements, domain.PromptImprovement{
			Target:       domain.TargetTask,
			Name:         "write_email_task",
			Field:        "description",
			OriginalText: original,
			ImprovedText: original +
				"\n\nMANDATORY CTA: Every email MUST end with a strong assumptive call-to-action.\n" +
				"Examples: 'When's the best time this week for a 15-minute call?'\n" +
				"FORBIDDEN: Weak CTAs like 'Would you be open to...'",
			Rationale: "Add explicit CTA requirements with examples",
		})
	}

	return &domain.PromptImprovements{
		Improvements:   improvements,
		Summary:        "Applied rule-based improvements for identified failure patterns",
		ExpectedImpact: "Improvements should address critical failure patterns",
	}
}
