package core

import (
	"context"

	"github.com/redactyl/ddscan/internal/detectors"
	"github.com/redactyl/ddscan/internal/engine"
	"github.com/redactyl/ddscan/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Finding = types.Finding
type ProjectInfo = types.ProjectInfo
type ScanResults = types.ScanResults

// DefaultConfig returns the configuration the CLI uses when nothing is set.
func DefaultConfig(roots ...string) Config { return engine.DefaultConfig(roots...) }

// Scan is the stable entrypoint for other programs.
func Scan(cfg Config) (ScanResults, error) {
	return engine.Scan(cfg)
}

// ScanContext is Scan with cancellation of not yet started files.
func ScanContext(ctx context.Context, cfg Config) (ScanResults, error) {
	return engine.ScanContext(ctx, cfg)
}

// SupportedExtensions lists every file extension some detector handles.
func SupportedExtensions() []string {
	return detectors.DefaultRegistry(detectors.DefaultOptions()).SupportedExtensions()
}
