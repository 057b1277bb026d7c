package runner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/pipeline"
	"github.com/manana2520/ai-agent-outreach-email/internal/scorer"
)

// Thresholds the pass/fail verdict and pattern bucketing re-apply to scored
// results.
const (
	intentCriticalBelow       = 12
	ctaCriticalBelow          = 3
	structurePatternBelow     = domain.MaxStructureScore * 8 / 10
	personalizationPatternLow = domain.MaxPersonalizationScore * 8 / 10
	messagePatternLow         = domain.MaxMessageScore * 8 / 10
	simulatedConfidence       = 80
	validatedConfidence       = 95
)

// Runner drives end-to-end generations through the external pipeline and
// scores each one. Prospects are tested strictly one at a time; a failing
// test never aborts the suite.
type Runner struct {
	generator pipeline.Generator
	scorer    *scorer.Scorer
	timeout   time.Duration
}

func New(generator pipeline.Generator, timeout time.Duration) *Runner {
	if timeout == 0 {
		timeout = 3 * time.Minute
	}
	return &Runner{
		generator: generator,
		scorer:    scorer.New(),
		timeout:   timeout,
	}
}

// RunSingleTest generates an email for one prospect and validates it.
// Generation errors and timeouts are converted into a failed result with a
// diagnostic critical failure, never returned as an error.
func (r *Runner) RunSingleTest(ctx context.Context, prospect domain.ProspectInput) domain.TestResult {
	start := time.Now()

	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	output, err := r.generator.Generate(genCtx, prospect)
	if err != nil || output == nil {
		msg := "generation pipeline returned no output"
		if err != nil {
			msg = err.Error()
		}
		return domain.TestResult{
			ID:               uuid.New().String(),
			Prospect:         prospect,
			Passed:           false,
			CriticalFailures: []string{"Crew execution failed"},
			Duration:         time.Since(start),
			Error:            msg,
		}
	}

	score := r.scoreOutput(output, prospect)
	criticalFailures := checkCriticalFailures(output, prospect, score)
	passed := len(criticalFailures) == 0 && score.Total >= domain.QualityThreshold

	return domain.TestResult{
		ID:               uuid.New().String(),
		Prospect:         prospect,
		Output:           output,
		Score:            &score,
		Passed:           passed,
		CriticalFailures: criticalFailures,
		Duration:         time.Since(start),
	}
}

// RunSuite runs every prospect in order and aggregates the results.
func (r *Runner) RunSuite(ctx context.Context, prospects []domain.ProspectInput, targetPassRate float64) *domain.TestSuiteResults {
	log.Printf("Running test suite: %d prospects, target pass rate %.0f%%, quality threshold %d/100",
		len(prospects), targetPassRate*100, domain.QualityThreshold)

	results := make([]domain.TestResult, 0, len(prospects))

	for i, prospect := range prospects {
		log.Printf("[%d/%d] Testing %s at %s", i+1, len(prospects), prospect.FullName(), prospect.Company)

		result := r.RunSingleTest(ctx, prospect)
		if result.Passed {
			log.Printf("  PASS - score %d/100", result.Score.Total)
		} else if result.Score != nil {
			log.Printf("  FAIL - score %d/100, critical failures: %s",
				result.Score.Total, strings.Join(result.CriticalFailures, "; "))
		} else {
			log.Printf("  FAIL - %s", result.Error)
		}

		results = append(results, result)
	}

	passed := 0
	var qualitySum float64
	scored := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
		if r.Score != nil {
			qualitySum += float64(r.Score.Total)
			scored++
		}
	}

	var passRate, avgQuality float64
	if len(results) > 0 {
		passRate = float64(passed) / float64(len(results))
	}
	if scored > 0 {
		avgQuality = qualitySum / float64(scored)
	}

	suite := &domain.TestSuiteResults{
		TotalTests:      len(results),
		PassedTests:     passed,
		FailedTests:     len(results) - passed,
		PassRate:        passRate,
		AvgQualityScore: avgQuality,
		Results:         results,
		FailurePatterns: analyzeFailurePatterns(results),
		Timestamp:       time.Now(),
	}

	log.Printf("Suite complete: %d/%d passed (%.1f%%), avg quality %.1f/100",
		passed, len(results), passRate*100, avgQuality)
	if passRate < targetPassRate {
		log.Printf("Below target by %.1f percentage points", (targetPassRate-passRate)*100)
	}

	return suite
}

// scoreOutput composes the full email text and scores it. Research metadata
// is simulated from what the pipeline asserted: a validated LinkedIn profile
// raises the assumed confidence.
func (r *Runner) scoreOutput(output *domain.GenerationResult, prospect domain.ProspectInput) domain.ScoreBreakdown {
	fullEmail := "Subject: " + output.SubjectLine + "\n\n" + output.EmailBody

	research := domain.ResearchMetadata{
		LinkedInConfidence: simulatedConfidence,
	}
	if output.ValidatedLinkedInProfile != nil && *output.ValidatedLinkedInProfile != "" {
		research.LinkedInConfidence = validatedConfidence
	}

	return r.scorer.Score(fullEmail, research, prospect)
}

// checkCriticalFailures applies the fixed defect checks that force test
// failure regardless of total score.
func checkCriticalFailures(output *domain.GenerationResult, prospect domain.ProspectInput, score domain.ScoreBreakdown) []string {
	var failures []string

	if output.SubjectLine == "" {
		failures = append(failures, "Missing subject_line")
	}
	if output.EmailBody == "" {
		failures = append(failures, "Missing email_body")
	}

	firstName := prospect.FirstName
	if firstName != "" &&
		!strings.Contains(output.EmailBody, "Hi "+firstName) &&
		!strings.Contains(output.EmailBody, firstName+",") {
		failures = append(failures, "First name not properly capitalized in greeting")
	}

	sellingIntent := strings.TrimSpace(prospect.SellingIntent)
	if sellingIntent != "" && score.Intent.Total < intentCriticalBelow {
		failures = append(failures, fmt.Sprintf("Intent compliance too low: %d/%d (required: >= %d)",
			score.Intent.Total, domain.MaxIntentScore, intentCriticalBelow))
	}

	if score.StructureDetail("call_to_action") < ctaCriticalBelow {
		failures = append(failures, "Missing or weak call-to-action")
	}

	if sellingIntent != "" {
		bodyLower := strings.ToLower(output.EmailBody)
		hasKeyword := false
		for _, kw := range scorer.IntentKeywords(strings.ToLower(sellingIntent)) {
			if strings.Contains(bodyLower, kw) {
				hasKeyword = true
				break
			}
		}
		if !hasKeyword {
			failures = append(failures, "Generic messaging used despite specific selling_intent provided")
		}
	}

	return failures
}

// analyzeFailurePatterns buckets failed results into named patterns by
// re-applying sub-score and critical-failure thresholds.
func analyzeFailurePatterns(results []domain.TestResult) map[string]int {
	patterns := make(map[string]int)

	for _, result := range results {
		if result.Passed {
			continue
		}

		if result.Score == nil {
			patterns[domain.PatternExecutionFailure]++
		} else {
			if result.Score.Intent.Total < intentCriticalBelow {
				patterns[domain.PatternIntentComplianceLow]++
			}
			if result.Score.Structure.Total < structurePatternBelow {
				patterns[domain.PatternStructureIssues]++
			}
			if result.Score.Personalization.Total < personalizationPatternLow {
				patterns[domain.PatternPersonalizationWeak]++
			}
			if result.Score.Message.Total < messagePatternLow {
				patterns[domain.PatternMessageQualityLow]++
			}
		}

		for _, failure := range result.CriticalFailures {
			switch {
			case strings.Contains(failure, "Intent compliance"):
				patterns[domain.PatternCriticalIntentFailure]++
			case strings.Contains(failure, "First name"):
				patterns[domain.PatternCapitalizationError]++
			case strings.Contains(failure, "call-to-action"):
				patterns[domain.PatternMissingCTA]++
			case strings.Contains(failure, "Generic messaging"):
				patterns[domain.PatternGenericMessaging]++
			}
		}
	}

	return patterns
}
