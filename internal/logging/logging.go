// Package logging builds the hclog loggers shared by the CLI and the engine.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options configure New. The zero value logs at info level to stderr.
type Options struct {
	Level   string
	JSON    bool
	NoColor bool
	Output  io.Writer
}

// New returns a root logger named name.
func New(name string, opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	color := hclog.AutoColor
	if opts.NoColor || opts.JSON {
		color = hclog.ColorOff
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Output:     out,
		Level:      level,
		JSONFormat: opts.JSON,
		Color:      color,
	})
}

// Discard returns a logger that drops everything; used as the default when a
// caller does not supply one.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l hclog.Logger) hclog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
