package improver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/manana2520/ai-agent-outreach-email/internal/adapter"
	"github.com/manana2520/ai-agent-outreach-email/internal/analyzer"
	"github.com/manana2520/ai-agent-outreach-email/internal/config"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/promptstore"
	"github.com/manana2520/ai-agent-outreach-email/internal/prospects"
)

// Stop after this many consecutive iterations without a strictly better
// pass rate.
const stagnationLimit = 3

// SuiteRunner executes one prospect batch through the generation
// pipeline and scores the results. Implemented by *runner.Runner.
type SuiteRunner interface {
	RunSuite(ctx context.Context, prospects []domain.ProspectInput, targetPassRate float64) *domain.TestSuiteResults
}

// Improver drives the full improvement cycle: run a suite, analyze the
// failures, adapt the prompts, repeat.
type Improver struct {
	cfg       *config.ImproverConfig
	runner    SuiteRunner
	analyzer  *analyzer.Analyzer
	adapter   *adapter.Adapter
	store     *promptstore.Store
	prospects *prospects.Generator

	// TestOnly runs a single suite and reports without touching prompts.
	TestOnly bool
}

func New(cfg *config.ImproverConfig, r SuiteRunner, an *analyzer.Analyzer, ad *adapter.Adapter, store *promptstore.Store, gen *prospects.Generator) *Improver {
	return &Improver{
		cfg:       cfg,
		runner:    r,
		analyzer:  an,
		adapter:   ad,
		store:     store,
		prospects: gen,
	}
}

// Run executes improvement iterations until the target pass rate is
// reached, progress stalls, or the iteration budget runs out. Prompt
// files are backed up before the first mutation. Every iteration is
// persisted as a JSON snapshot under the run's log directory and the
// final report is written to the configured report path.
func (im *Improver) Run(ctx context.Context) (*domain.ImprovementReport, error) {
	runID := uuid.New().String()[:8]
	runDir := filepath.Join(im.cfg.LogDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	log.Printf("starting improvement run %s (max %d iterations, target %.0f%%)",
		runID, im.cfg.MaxIterations, im.cfg.TargetPassRate*100)

	backedUp := false
	bestPassRate := 0.0
	stagnant := 0
	totalTests := 0
	var history []domain.IterationSnapshot
	var initialPassRate float64
	status := domain.StatusMaxIterations

	for iteration := 1; iteration <= im.cfg.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Printf("=== Iteration %d/%d ===", iteration, im.cfg.MaxIterations)

		batch := im.prospects.Generate(im.cfg.NumProspects, true)
		suite := im.runner.RunSuite(ctx, batch, im.cfg.TargetPassRate)
		totalTests += suite.TotalTests
		if iteration == 1 {
			initialPassRate = suite.PassRate
		}

		snapshot := domain.IterationSnapshot{
			Iteration:       iteration,
			PassRate:        suite.PassRate,
			AvgQuality:      suite.AvgQualityScore,
			Passed:          suite.PassedTests,
			Failed:          suite.FailedTests,
			FailurePatterns: suite.FailurePatterns,
			Timestamp:       time.Now().UTC(),
		}

		if suite.PassRate >= im.cfg.TargetPassRate {
			history = append(history, snapshot)
			im.writeSnapshot(runDir, snapshot)
			status = domain.StatusSuccess
			log.Printf("target pass rate reached: %.0f%%", suite.PassRate*100)
			return im.finish(status, history, initialPassRate, totalTests)
		}

		if suite.PassRate > bestPassRate {
			bestPassRate = suite.PassRate
			stagnant = 0
		} else {
			stagnant++
			log.Printf("no improvement over best %.0f%% (%d/%d stagnant iterations)",
				bestPassRate*100, stagnant, stagnationLimit)
			if stagnant >= stagnationLimit {
				history = append(history, snapshot)
				im.writeSnapshot(runDir, snapshot)
				status = domain.StatusEarlyStop
				log.Printf("stopping early: pass rate stalled")
				return im.finish(status, history, initialPassRate, totalTests)
			}
		}

		if im.TestOnly {
			history = append(history, snapshot)
			im.writeSnapshot(runDir, snapshot)
			status = domain.StatusTestOnly
			break
		}

		agentsText, tasksText, err := im.store.ReadRaw()
		if err != nil {
			return nil, fmt.Errorf("read prompt files: %w", err)
		}

		analysis := im.analyzer.AnalyzeFailures(ctx, suite, agentsText, tasksText)
		snapshot.AnalysisSummary = analysis.Summary
		snapshot.PriorityFixes = analysis.PriorityFixes

		agents, err := im.store.LoadAgents()
		if err != nil {
			return nil, fmt.Errorf("load agents: %w", err)
		}
		tasks, err := im.store.LoadTasks()
		if err != nil {
			return nil, fmt.Errorf("load tasks: %w", err)
		}

		improvements := im.adapter.AdaptPrompts(ctx, analysis, agents, tasks, suite.Failures())
		snapshot.NumImprovements = len(improvements.Improvements)

		if len(improvements.Improvements) > 0 {
			if im.cfg.BackupPrompts && !backedUp {
				backupPath, err := im.store.Backup(im.cfg.BackupDir)
				if err != nil {
					return nil, fmt.Errorf("backup prompts: %w", err)
				}
				log.Printf("prompts backed up to %s", backupPath)
				backedUp = true
			}
			if err := im.adapter.ApplyImprovements(improvements, im.store, agents, tasks); err != nil {
				return nil, fmt.Errorf("apply improvements: %w", err)
			}
		} else {
			log.Printf("no improvements generated this iteration")
		}

		history = append(history, snapshot)
		im.writeSnapshot(runDir, snapshot)
	}

	return im.finish(status, history, initialPassRate, totalTests)
}

func (im *Improver) finish(status domain.ImprovementStatus, history []domain.IterationSnapshot, initialPassRate float64, totalTests int) (*domain.ImprovementReport, error) {
	report := &domain.ImprovementReport{
		Status:           status,
		Success:          status == domain.StatusSuccess,
		Iterations:       len(history),
		InitialPassRate:  initialPassRate,
		TargetPassRate:   im.cfg.TargetPassRate,
		TotalTestsRun:    totalTests,
		Timestamp:        time.Now().UTC(),
		IterationHistory: history,
	}
	if n := len(history); n > 0 {
		last := history[n-1]
		report.FinalPassRate = last.PassRate
		report.FinalAvgQuality = last.AvgQuality
		report.Improvement = last.PassRate - initialPassRate
	}

	switch status {
	case domain.StatusSuccess:
		report.Message = fmt.Sprintf("Target pass rate %.0f%% reached after %d iterations",
			im.cfg.TargetPassRate*100, report.Iterations)
	case domain.StatusEarlyStop:
		report.Message = fmt.Sprintf("Stopped early after %d iterations without pass rate improvement",
			stagnationLimit)
	case domain.StatusTestOnly:
		report.Message = "Single test suite completed; prompts were not modified"
	default:
		report.Message = fmt.Sprintf("Iteration budget of %d exhausted below target pass rate",
			im.cfg.MaxIterations)
	}

	if err := im.writeReport(report); err != nil {
		return report, err
	}
	return report, nil
}

func (im *Improver) writeSnapshot(runDir string, snapshot domain.IterationSnapshot) {
	path := filepath.Join(runDir, fmt.Sprintf("iteration_%03d.json", snapshot.Iteration))
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		log.Printf("failed to write iteration snapshot %s: %v", path, err)
	}
}

func (im *Improver) writeReport(report *domain.ImprovementReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(im.cfg.ReportPath, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Printf("report written to %s", im.cfg.ReportPath)
	return nil
}
