package ddscan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redactyl/ddscan/internal/config"
	"github.com/redactyl/ddscan/internal/files"
)

var (
	cfgForce     bool
	cfgGitignore bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a starter " + config.LocalNames[0],
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "add ddscan cache and report paths to .gitignore")
	cfgCmd.AddCommand(initCmd)

	showCmd := &cobra.Command{
		Use:   "show [DIR]",
		Short: "Print the merged global and local configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}
	cfgCmd.AddCommand(showCmd)
}

func dirArg(args []string) (string, error) {
	if len(args) == 0 {
		return filepath.Abs(".")
	}
	return filepath.Abs(args[0])
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := dirArg(args)
	if err != nil {
		return err
	}
	path, err := config.WriteStarter(dir, cfgForce)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("config already exists in %s (use --force to overwrite)", dir)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	if cfgGitignore {
		added, err := files.AppendIgnore(dir, files.ScanArtifacts()...)
		if err != nil {
			return fmt.Errorf("update .gitignore: %w", err)
		}
		for _, p := range added {
			fmt.Fprintln(cmd.OutOrStdout(), "ignored", p)
		}
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	dir, err := dirArg(args)
	if err != nil {
		return err
	}
	c, err := loadConfigs(dir, flagConfig)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(config.Merge(c.global, c.local)); err != nil {
		return err
	}
	return enc.Close()
}
