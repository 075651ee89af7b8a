package ddscan

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/redactyl/ddscan/internal/cache"
	"github.com/redactyl/ddscan/internal/report"
	"github.com/redactyl/ddscan/internal/types"
)

func init() {
	var (
		outputDir string
		format    string
		dataType  string
		project   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render the last scan without rescanning",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outputDir == "" {
				outputDir = defaultOutputDir
			}
			last, err := cache.LoadResults(outputDir)
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no previous scan in %s; run 'ddscan scan' first", outputDir)
			}
			if err != nil {
				return err
			}
			formats, err := report.ParseFormats(orDefault(format, report.FormatTable))
			if err != nil {
				return err
			}
			run := scanRun{Project: project}
			if dataType != "" {
				cat, ok := types.ParseCategory(dataType)
				if !ok {
					return fmt.Errorf("unknown data type %q", dataType)
				}
				run.Category = cat
			}
			res := run.narrow(last.Results)
			return render(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, formats, outputDir, last.Roots, flagNoColor)
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory holding the last scan (default "+defaultOutputDir+")")
	cmd.Flags().StringVar(&format, "format", "", "comma separated formats: table,json,csv,sarif,html (default table)")
	cmd.Flags().StringVar(&dataType, "data-type", "", "only report one data category, e.g. user-data")
	cmd.Flags().StringVar(&project, "project", "", "only report the named project")
	rootCmd.AddCommand(cmd)
}
