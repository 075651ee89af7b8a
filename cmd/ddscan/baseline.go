package ddscan

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/redactyl/ddscan/internal/engine"
	"github.com/redactyl/ddscan/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var path string
	update := &cobra.Command{
		Use:   "update [DIR...]",
		Short: "Accept every current finding into the baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := absRoots(args)
			if err != nil {
				return err
			}
			c, err := loadConfigs(roots[0], flagConfig)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg := engine.DefaultConfig(roots...)
			cfg.Logger = newLogger(c, cmd.ErrOrStderr())
			cfg.Threads = pickInt(flagThreads, flagThreads != 0, c.local.Threads, c.global.Threads, engine.DefaultThreads)
			cfg.Extensions = splitList(pickString("", c.local.Extensions, c.global.Extensions))
			cfg.IgnorePatterns = splitList(pickString("", c.local.Ignore, c.global.Ignore))
			if scopes := splitList(pickString("", c.local.Scopes, c.global.Scopes)); len(scopes) > 0 {
				cfg.Scopes = scopes
			}
			res, err := engine.ScanContext(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("scan error: %w", err)
			}
			if path == "" {
				path = filepath.Join(roots[0], report.BaselineFile)
			}
			if err := report.SaveBaseline(path, res.Findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings in %s\n", len(res.Findings), path)
			return nil
		},
	}
	update.Flags().StringVar(&path, "baseline", "", "baseline file (default "+report.BaselineFile+" in the first DIR)")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
