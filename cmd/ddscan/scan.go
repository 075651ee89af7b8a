package ddscan

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/redactyl/ddscan/internal/audit"
	"github.com/redactyl/ddscan/internal/cache"
	"github.com/redactyl/ddscan/internal/detectors"
	"github.com/redactyl/ddscan/internal/engine"
	"github.com/redactyl/ddscan/internal/linker"
	"github.com/redactyl/ddscan/internal/report"
	"github.com/redactyl/ddscan/internal/types"
)

var (
	flagGitHubRepo     string
	flagDefaultBranch  string
	flagOutputDir      string
	flagFormat         string
	flagDataType       string
	flagProject        string
	flagDetailed       bool
	flagExtensions     string
	flagIgnorePatterns string
	flagContextLines   int
	flagScopes         string
	flagMaxBytes       int64
	flagDryRun         bool
	flagNoCache        bool
	flagBaseline       string
	flagFailOnFindings bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [DIR...]",
		Short: "Scan projects for telemetry SDK usage",
		Long: "Scan discovers projects under each DIR (a DIR that is itself a project is scanned directly), " +
			"runs the TypeScript/JavaScript and C# detectors and writes the selected reports.",
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagGitHubRepo, "github-repo", "", "base URL for source links (default "+linker.DefaultBaseURL+")")
	cmd.Flags().StringVar(&flagDefaultBranch, "default-branch", "", "branch used when git metadata is unavailable (default "+linker.DefaultBranch+")")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "directory for report files (default "+defaultOutputDir+")")
	cmd.Flags().StringVar(&flagFormat, "format", "", "comma separated formats: table,json,csv,sarif,html (default "+defaultFormats+")")
	cmd.Flags().StringVar(&flagDataType, "data-type", "", "only report one data category, e.g. user-data")
	cmd.Flags().StringVar(&flagProject, "project", "", "only report the named project")
	cmd.Flags().BoolVar(&flagDetailed, "extract-data-detailed", false, "attach parsed call parameters to findings")
	cmd.Flags().StringVar(&flagExtensions, "file-extensions", "", "comma separated extensions to scan (default: all supported)")
	cmd.Flags().StringVar(&flagIgnorePatterns, "ignore-patterns", "", "comma separated glob patterns to skip")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", detectors.DefaultContextLines, "lines of context around each finding")
	cmd.Flags().StringVar(&flagScopes, "scopes", "", "comma separated npm scopes treated as the SDK (default @datadog,@telemetry)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1 MiB)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list what would be scanned without reading files")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the per-file result cache")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file (default "+report.BaselineFile+" in the first DIR)")
	cmd.Flags().BoolVar(&flagFailOnFindings, "fail-on-findings", false, "exit 1 when findings not in the baseline remain")
}

// scanRun is a fully resolved scan invocation.
type scanRun struct {
	Roots          []string
	Engine         engine.Config
	OutputDir      string
	Formats        []string
	Category       types.DataCategory
	Project        string
	BaselinePath   string
	FailOnFindings bool
	NoColor        bool
	Progress       bool
	Log            hclog.Logger
}

func absRoots(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	roots := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", a, err)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}

// resolveScan applies CLI > local config > global config > defaults.
func resolveScan(flags *pflag.FlagSet, args []string, stderr io.Writer) (scanRun, error) {
	roots, err := absRoots(args)
	if err != nil {
		return scanRun{}, err
	}
	c, err := loadConfigs(roots[0], flagConfig)
	if err != nil {
		return scanRun{}, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(c, stderr)
	l, g := c.local, c.global

	formats, err := report.ParseFormats(orDefault(pickString(flagFormat, l.OutputFormats(), g.OutputFormats()), defaultFormats))
	if err != nil {
		return scanRun{}, err
	}
	var category types.DataCategory
	if flagDataType != "" {
		cat, ok := types.ParseCategory(flagDataType)
		if !ok {
			return scanRun{}, fmt.Errorf("unknown data type %q", flagDataType)
		}
		category = cat
	}

	cfg := engine.DefaultConfig(roots...)
	cfg.Logger = log
	cfg.Linker = linker.New(
		pickString(flagGitHubRepo, l.BaseURL(), g.BaseURL()),
		pickString(flagDefaultBranch, l.DefaultBranch(), g.DefaultBranch()),
		log,
	)
	cfg.Extensions = splitList(pickString(flagExtensions, l.Extensions, g.Extensions))
	cfg.IgnorePatterns = splitList(pickString(flagIgnorePatterns, l.Ignore, g.Ignore))
	if scopes := splitList(pickString(flagScopes, l.Scopes, g.Scopes)); len(scopes) > 0 {
		cfg.Scopes = scopes
	}
	cfg.ContextLines = pickInt(flagContextLines, flags.Changed("context-lines"), l.ContextLines, g.ContextLines, detectors.DefaultContextLines)
	cfg.Threads = pickInt(flagThreads, flagThreads != 0, l.Threads, g.Threads, engine.DefaultThreads)
	cfg.MaxBytes = pickInt64(flagMaxBytes, l.MaxBytes, g.MaxBytes)
	cfg.Detailed = pickBool(flagDetailed, l.Detailed, g.Detailed)
	cfg.DryRun = flagDryRun
	cfg.NoCache = flagNoCache

	baseline := flagBaseline
	if baseline == "" {
		baseline = filepath.Join(roots[0], report.BaselineFile)
	}
	noColor := pickBool(flagNoColor, l.NoColor, g.NoColor)
	return scanRun{
		Roots:          roots,
		Engine:         cfg,
		OutputDir:      orDefault(pickString(flagOutputDir, l.OutputDir(), g.OutputDir()), defaultOutputDir),
		Formats:        formats,
		Category:       category,
		Project:        flagProject,
		BaselinePath:   baseline,
		FailOnFindings: flagFailOnFindings,
		NoColor:        noColor,
		Progress:       !flagDryRun && !flagVerbose && !pickBool(flagLogJSON, l.LogJSON, g.LogJSON) && isTerminal(os.Stderr),
		Log:            log,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func runScan(cmd *cobra.Command, args []string) error {
	run, err := resolveScan(cmd.Flags(), args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return run.execute(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func (r scanRun) execute(ctx context.Context, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := r.Engine
	var bar *projectProgress
	if r.Progress {
		bar = newProjectProgress(stderr)
		cfg.OnProject = bar.start
		cfg.Progress = bar.add
	}
	if cfg.DryRun {
		cfg.OnProject = func(p types.ProjectInfo, files int) {
			fmt.Fprintf(stdout, "%-24s %-8s %d files\n", p.Name, p.Type, files)
		}
	}

	res, err := engine.ScanContext(ctx, cfg)
	bar.finish()
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if cfg.DryRun {
		fmt.Fprintf(stdout, "Would scan %d files in %d projects.\n", res.FilesScanned, len(res.Projects))
		return nil
	}
	types.SortFindings(res.Findings)

	if err := cache.SaveResults(r.OutputDir, r.Roots, res); err != nil {
		r.Log.Warn("last scan not saved", "error", err)
	}

	base, err := report.LoadBaseline(r.BaselinePath)
	if err != nil {
		r.Log.Warn("baseline unreadable", "path", r.BaselinePath, "error", err)
	}
	fresh := report.FilterNew(res.Findings, base)
	if err := audit.NewLog(r.OutputDir).LogScan(audit.NewScanRecord(r.Roots, res, fresh, r.BaselinePath, time.Now())); err != nil {
		r.Log.Warn("scan history not written", "error", err)
	}

	shown := r.narrow(report.FilterFindings(res, fresh))
	if err := render(stdout, stderr, shown, r.Formats, r.OutputDir, r.Roots, r.NoColor); err != nil {
		return err
	}
	if r.FailOnFindings && len(shown.Findings) > 0 {
		return errFindings
	}
	return nil
}

// narrow applies the category and project filters.
func (r scanRun) narrow(res types.ScanResults) types.ScanResults {
	if r.Category != "" {
		res = report.FilterCategory(res, r.Category)
	}
	if r.Project != "" {
		res = report.FilterProject(res, r.Project)
	}
	return res
}

// render prints the table and summary when requested and writes the report
// files.
func render(stdout, stderr io.Writer, res types.ScanResults, formats []string, outputDir string, roots []string, noColor bool) error {
	for _, f := range formats {
		if f != report.FormatTable {
			continue
		}
		rel := ""
		if len(roots) == 1 {
			rel = filepath.Dir(roots[0])
		}
		if err := report.PrintTable(stdout, res.Findings, report.TableOptions{RelativeTo: rel}); err != nil {
			return fmt.Errorf("table error: %w", err)
		}
		fmt.Fprintln(stdout)
		color := false
		if file, ok := stdout.(*os.File); ok {
			color = report.ColorEnabled(file, noColor)
		}
		report.PrintSummary(stdout, res, report.SummaryOptions{NoColor: !color})
	}
	written, err := report.WriteFiles(outputDir, res, formats, time.Now())
	for _, p := range written {
		fmt.Fprintln(stderr, "wrote", p)
	}
	return err
}
