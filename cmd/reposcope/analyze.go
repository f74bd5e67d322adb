package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/pkg/core/orchestrator"
	"github.com/reposcope/reposcope/pkg/core/walker"
	"github.com/reposcope/reposcope/pkg/logger"
	"github.com/reposcope/reposcope/pkg/model"
)

var (
	outputFormat        string
	scanMode            string
	maxFileSizeMB       int64
	noGit               bool
	skipGitignored      bool
	downgradeGitignored bool
	failOn              string
	analyzeTimeout      time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a repository and report its languages, frameworks, Docker topology, and secrets",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVarP(&outputFormat, "output", "o", "summary", "output format: summary|json|tree")
	flags.StringVar(&scanMode, "scan-mode", string(model.ScanBalanced), "scan aggressiveness: lightning|fast|balanced|thorough|paranoid")
	flags.Int64Var(&maxFileSizeMB, "max-file-size-mb", 10, "skip files larger than this, in megabytes")
	flags.BoolVar(&noGit, "no-git", false, "don't use git to restrict the walk to tracked files")
	flags.BoolVar(&skipGitignored, "skip-gitignored-secrets", false, "don't report secrets found in gitignored files")
	flags.BoolVar(&downgradeGitignored, "downgrade-gitignored-secrets", true, "downgrade the severity of secrets found in gitignored files")
	flags.StringVar(&failOn, "fail-on", "", "exit non-zero if a finding at or above this severity is found: Critical|High|Medium|Low|Info")
	flags.DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := args[0]
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	if outputFormat == "tree" {
		return printTree(cmd.Context(), root)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	cfg := orchestrator.DefaultConfig()
	cfg.Walker.ScanMode = model.ScanMode(scanMode)
	cfg.Walker.MaxFileSize = maxFileSizeMB * 1024 * 1024
	cfg.Walker.UseGit = !noGit
	cfg.Security.MaxFileSize = cfg.Walker.MaxFileSize
	cfg.Security.SkipGitignored = skipGitignored
	cfg.Security.DowngradeGitignoredSeverity = downgradeGitignored
	cfg.Observer = progressObserver()

	result, errs := orchestrator.Analyze(ctx, root, cfg)
	for _, e := range errs {
		logger.Warnf("analysis warning: %v", e)
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	default:
		printSummary(result)
	}

	if failOn != "" && exceedsThreshold(result, model.SecuritySeverity(failOn)) {
		os.Exit(2)
	}
	return nil
}

func progressObserver() orchestrator.ProgressObserver {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return func(e orchestrator.ProgressEvent) {
		fmt.Fprintf(os.Stderr, "\r\033[K[%-9s] %s", e.Phase, e.Message)
		if e.Phase == orchestrator.PhaseFinalize {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func printTree(ctx context.Context, root string) error {
	w := walker.New(walker.DefaultOptions())
	files, errs := w.Walk(ctx, root)
	for _, e := range errs {
		logger.Warnf("walk warning: %v", e)
	}
	fmt.Println(walker.Tree(root, files).String())
	return nil
}

func exceedsThreshold(result *model.MonorepoAnalysis, threshold model.SecuritySeverity) bool {
	if result.Security == nil {
		return false
	}
	for sev, count := range result.Security.CountsBySeverity {
		// Rank() is 0 for Critical, increasing with decreasing severity.
		if count > 0 && sev.Rank() <= threshold.Rank() {
			return true
		}
	}
	return false
}

func printSummary(result *model.MonorepoAnalysis) {
	bold := color.New(color.Bold)
	bold.Printf("%s\n", result.ProjectRoot)
	fmt.Printf("  architecture: %s\n", result.TechnologySummary.ArchitecturePattern)
	fmt.Printf("  languages:    %v\n", result.TechnologySummary.Languages)
	if len(result.TechnologySummary.Frameworks) > 0 {
		fmt.Printf("  frameworks:   %v\n", result.TechnologySummary.Frameworks)
	}
	fmt.Println()

	for _, p := range result.Projects {
		fmt.Printf("  %s (%s) — %s\n", p.Name, p.Path, p.Category)
		for _, l := range p.Analysis.Languages {
			fmt.Printf("      %s %.0f%%\n", l.Name, l.Confidence*100)
		}
	}

	fmt.Println()
	if result.Security != nil {
		scoreColor := scoreColorFor(result.Security.RiskLevel)
		scoreColor.Printf("  security score: %d/100 (%s)\n", result.Security.OverallScore, result.Security.RiskLevel)
		for _, f := range result.Security.Findings {
			sevColor := severityColorFor(f.Severity)
			sevColor.Printf("    [%s] %s — %s:%d\n", f.Severity, f.Title, f.FilePath, f.Line)
		}
	}
}

func scoreColorFor(level model.RiskLevel) *color.Color {
	switch level {
	case model.RiskCritical, model.RiskHigh:
		return color.New(color.FgRed, color.Bold)
	case model.RiskMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func severityColorFor(sev model.SecuritySeverity) *color.Color {
	switch sev {
	case model.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityHigh:
		return color.New(color.FgRed)
	case model.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}
