package ddscan

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagThreads int
	flagVerbose bool
	flagLogJSON bool
	flagNoColor bool
	flagConfig  string

	version = "0.1.0"
)

// errFindings is returned by scan when --fail-on-findings is set and new
// findings remain. It maps to exit code 1.
var errFindings = errors.New("new telemetry findings present")

// rootCmd is the base Cobra command for the ddscan CLI.
var rootCmd = &cobra.Command{
	Use:           "ddscan",
	Short:         "Find telemetry SDK usage in web and Unity projects",
	Long:          "ddscan walks TypeScript, JavaScript and C# projects and reports every call site that sends data through the Datadog RUM and Logs SDKs, classified by the kind of data sent.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the ddscan CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return 1
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 2
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count per project (0 = 8)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .ddscan.yml in the first scan root)")
}
