package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/manana2520/ai-agent-outreach-email/internal/config"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
)

// CrewPipeline invokes the external generation pipeline as a subprocess and
// extracts the generated email from its stdout. The pipeline itself (agent
// orchestration, web research, text generation) is an opaque collaborator.
type CrewPipeline struct {
	command []string
	workDir string
}

func NewCrewPipeline(cfg *config.PipelineConfig) *CrewPipeline {
	return &CrewPipeline{
		command: strings.Fields(cfg.CrewCommand),
		workDir: cfg.WorkDir,
	}
}

func (p *CrewPipeline) Generate(ctx context.Context, prospect domain.ProspectInput) (*domain.GenerationResult, error) {
	if len(p.command) == 0 {
		return nil, fmt.Errorf("no crew command configured")
	}

	args := append(p.command[1:], prospectArgs(prospect)...)

	cmd := exec.CommandContext(ctx, p.command[0], args...)
	cmd.Dir = p.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("crew execution timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("crew execution failed: %w", err)
	}

	result, err := ParseCrewOutput(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("parse crew output: %w", err)
	}

	return result, nil
}

func prospectArgs(p domain.ProspectInput) []string {
	args := []string{
		"--first_name", p.FirstName,
		"--last_name", p.LastName,
		"--company", p.Company,
	}
	if p.Title != "" {
		args = append(args, "--title", p.Title)
	}
	if p.Phone != "" {
		args = append(args, "--phone", p.Phone)
	}
	if p.Country != "" {
		args = append(args, "--country", p.Country)
	}
	if p.LinkedInProfile != "" {
		args = append(args, "--linkedin_profile", p.LinkedInProfile)
	}
	if p.SellingIntent != "" {
		args = append(args, "--selling_intent", p.SellingIntent)
	}
	return args
}

// ParseCrewOutput extracts the generated email from raw pipeline stdout.
// The pipeline normally prints the result as a single JSON line near the end
// of its output; older versions print field markers instead.
func ParseCrewOutput(stdout string) (*domain.GenerationResult, error) {
	lines := strings.Split(stdout, "\n")

	// Look for a JSON line, scanning from the end.
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") && strings.Contains(line, "subject_line") {
			var result domain.GenerationResult
			if err := json.Unmarshal([]byte(line), &result); err != nil {
				continue
			}
			return &result, nil
		}
	}

	// Fall back to line-oriented field markers.
	var result domain.GenerationResult
	inOutput := false
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "subject_line:"):
			inOutput = true
			result.SubjectLine = fieldValue(line)
		case inOutput && strings.Contains(lower, "email_body:"):
			result.EmailBody = fieldValue(line)
		case inOutput && strings.Contains(lower, "follow_up_notes:"):
			result.FollowUpNotes = fieldValue(line)
		}
	}

	if result.SubjectLine != "" && result.EmailBody != "" {
		return &result, nil
	}

	return nil, fmt.Errorf("no recognizable output in %d lines of stdout", len(lines))
}

func fieldValue(line string) string {
	if _, after, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
