package ddscan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redactyl/ddscan/internal/audit"
	"github.com/redactyl/ddscan/internal/types"
)

func init() {
	var (
		outputDir string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scans recorded in the output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outputDir == "" {
				outputDir = defaultOutputDir
			}
			records, err := audit.NewLog(outputDir).LoadHistory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No scans recorded.")
				return nil
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s  %-36s findings=%d new=%d user=%d files=%d duration=%s\n",
					r.Timestamp.Local().Format("2006-01-02 15:04"), r.ScanID,
					r.TotalFindings, r.NewFindings, r.CategoryCounts[types.CatUser], r.FilesScanned, r.Duration)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory holding the history (default "+defaultOutputDir+")")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of scans to show (0 = all)")
	rootCmd.AddCommand(cmd)
}
