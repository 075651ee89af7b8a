package ddscan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redactyl/ddscan/internal/detectors"
)

func init() {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List available detectors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := detectors.DefaultRegistry(detectors.DefaultOptions()).Infos()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			for _, info := range infos {
				fmt.Fprintf(out, "%-8s %-24s %s\n", info.ID, info.Language, strings.Join(info.Extensions, " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(cmd)
}
