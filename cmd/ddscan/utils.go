package ddscan

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/redactyl/ddscan/internal/config"
	"github.com/redactyl/ddscan/internal/logging"
)

const (
	defaultOutputDir = "datadog_reports"
	defaultFormats   = "table,json,csv"
)

// configs holds the two config layers below the command line.
type configs struct {
	local  config.FileConfig
	global config.FileConfig
}

// loadConfigs reads the global config and either the explicit file or the
// local config in root. Missing files are not an error.
func loadConfigs(root, explicit string) (configs, error) {
	var c configs
	if g, err := config.LoadGlobal(); err == nil {
		c.global = g
	} else if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, config.ErrNotFound) {
		return c, err
	}
	if explicit != "" {
		l, err := config.LoadFile(explicit)
		if err != nil {
			return c, err
		}
		c.local = l
		return c, nil
	}
	if l, err := config.LoadLocal(root); err == nil {
		c.local = l
	} else if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, config.ErrNotFound) {
		return c, err
	}
	return c, nil
}

func newLogger(c configs, stderr io.Writer) hclog.Logger {
	level := pickString("", c.local.LogLevel, c.global.LogLevel)
	if level == "" {
		level = "warn"
	}
	if flagVerbose {
		level = "debug"
	}
	return logging.New("ddscan", logging.Options{
		Level:   level,
		JSON:    pickBool(flagLogJSON, c.local.LogJSON, c.global.LogJSON),
		NoColor: pickBool(flagNoColor, c.local.NoColor, c.global.NoColor),
		Output:  stderr,
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

// pickInt treats cli as set only when changed is true, so an explicit zero
// on the command line wins over config files.
func pickInt(cli int, changed bool, local, global *int, def int) int {
	if changed {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return def
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
