package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/manana2520/ai-agent-outreach-email/internal/adapter"
	"github.com/manana2520/ai-agent-outreach-email/internal/analyzer"
	"github.com/manana2520/ai-agent-outreach-email/internal/config"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/improver"
	"github.com/manana2520/ai-agent-outreach-email/internal/llm"
	"github.com/manana2520/ai-agent-outreach-email/internal/pipeline"
	"github.com/manana2520/ai-agent-outreach-email/internal/promptstore"
	"github.com/manana2520/ai-agent-outreach-email/internal/prospects"
	"github.com/manana2520/ai-agent-outreach-email/internal/runner"
)

var (
	version = "v0.1.0" // Overwritten at build time

	maxIterations  int
	targetPassRate float64
	numProspects   int
	reportPath     string
	noBackup       bool
	seed           int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "improve",
		Short: "Automated quality improvement for the sales email crew",
		Long: `improve runs the sales email generation pipeline against batches of
synthetic prospects, scores every email, and rewrites the crew's agent
and task prompts until the pass rate reaches the target.`,
		SilenceUsage: true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newImproveCmd(),
		newTestCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newImproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full improvement cycle",
		Long: `Run test suites, analyze failures, and apply prompt improvements
iteratively until the target pass rate is reached, progress stalls, or
the iteration budget runs out.

Examples:
  # Default cycle (10 iterations, 95% target, 20 prospects per batch)
  improve run

  # Shorter cycle against a lower bar
  improve run --max-iterations 3 --target-pass-rate 0.8 --num-prospects 5`,
		RunE: runImprove,
	}

	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Maximum improvement iterations (0 = from env)")
	cmd.Flags().Float64Var(&targetPassRate, "target-pass-rate", 0, "Pass rate that ends the cycle (0 = from env)")
	cmd.Flags().IntVar(&numProspects, "num-prospects", 0, "Prospects per test batch (0 = from env)")
	cmd.Flags().StringVar(&reportPath, "output-report", "", "Path for the final JSON report")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip backing up prompt files before the first change")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Prospect generator seed (0 = time-based)")

	return cmd
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run a single test suite without changing prompts",
		RunE:  runTest,
	}

	cmd.Flags().IntVar(&numProspects, "num-prospects", 0, "Prospects per test batch (0 = from env)")
	cmd.Flags().Float64Var(&targetPassRate, "target-pass-rate", 0, "Pass rate the suite is judged against (0 = from env)")
	cmd.Flags().StringVar(&reportPath, "output-report", "", "Path for the final JSON report")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Prospect generator seed (0 = time-based)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("improve version %s\n", version)
		},
	}
}

func runImprove(cmd *cobra.Command, args []string) error {
	return run(false)
}

func runTest(cmd *cobra.Command, args []string) error {
	return run(true)
}

func run(testOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)

	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		log.Printf("Warning: no LLM provider available, analysis will use rule-based fallback: %v", err)
		llmClient = nil
	}

	crew := pipeline.NewCrewPipeline(&cfg.Pipeline)
	r := runner.New(crew, cfg.Pipeline.TestTimeout)
	store := promptstore.NewStore(&cfg.Prompts)

	genSeed := seed
	if genSeed == 0 {
		genSeed = time.Now().UnixNano()
	}

	// A typed nil *llm.Client would defeat the analyzer's nil check, so
	// only wrap it when a provider was actually configured.
	an := analyzer.New(nil)
	ad := adapter.New(nil)
	if llmClient != nil {
		an = analyzer.New(llmClient)
		ad = adapter.New(llmClient)
	}

	if err := preflight(store); err != nil {
		return err
	}

	im := improver.New(&cfg.Improver, r, an, ad, store, prospects.New(genSeed))
	im.TestOnly = testOnly

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printHeader(cfg, testOnly)

	report, err := im.Run(ctx)
	if err != nil {
		return err
	}

	printReport(report)

	if !report.Success && !testOnly {
		return fmt.Errorf("target pass rate %.0f%% not reached (final: %.0f%%)",
			report.TargetPassRate*100, report.FinalPassRate*100)
	}
	return nil
}

// preflight verifies the prompt configuration parses before any suite
// is run, so a broken YAML file fails fast instead of mid-cycle.
func preflight(store *promptstore.Store) error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Loading prompt configuration..."
	s.Start()
	defer s.Stop()

	if _, err := store.LoadAgents(); err != nil {
		return fmt.Errorf("agents config: %w", err)
	}
	if _, err := store.LoadTasks(); err != nil {
		return fmt.Errorf("tasks config: %w", err)
	}
	return nil
}

func applyFlags(cfg *config.Config) {
	if maxIterations > 0 {
		cfg.Improver.MaxIterations = maxIterations
	}
	if targetPassRate > 0 {
		cfg.Improver.TargetPassRate = targetPassRate
	}
	if numProspects > 0 {
		cfg.Improver.NumProspects = numProspects
	}
	if reportPath != "" {
		cfg.Improver.ReportPath = reportPath
	}
	if noBackup {
		cfg.Improver.BackupPrompts = false
	}
}

func printHeader(cfg *config.Config, testOnly bool) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	if testOnly {
		cyan.Println("Sales Email Quality Test Suite")
	} else {
		cyan.Println("Sales Email Auto-Improvement")
	}
	fmt.Printf("Prospects per batch: %d\n", cfg.Improver.NumProspects)
	fmt.Printf("Target pass rate:    %.0f%%\n", cfg.Improver.TargetPassRate*100)
	if !testOnly {
		fmt.Printf("Max iterations:      %d\n", cfg.Improver.MaxIterations)
	}
	fmt.Println()
}

func printReport(report *domain.ImprovementReport) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	fmt.Println()
	if report.Success {
		green.Println("TARGET REACHED")
	} else if report.Status == domain.StatusEarlyStop {
		yellow.Println("STOPPED EARLY (no further improvement)")
	} else if report.Status == domain.StatusTestOnly {
		yellow.Println("SUITE COMPLETE (below target)")
	} else {
		red.Println("TARGET NOT REACHED")
	}

	fmt.Printf("Iterations:      %d\n", report.Iterations)
	fmt.Printf("Initial rate:    %.0f%%\n", report.InitialPassRate*100)
	fmt.Printf("Final rate:      %.0f%%\n", report.FinalPassRate*100)
	fmt.Printf("Improvement:     %+.0f%%\n", report.Improvement*100)
	fmt.Printf("Avg quality:     %.1f/100\n", report.FinalAvgQuality)
	fmt.Printf("Tests run:       %d\n", report.TotalTestsRun)
	fmt.Println(report.Message)
}
