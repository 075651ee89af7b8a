// Package engine discovers projects under the scan roots, selects their
// source files, and runs the language detectors over them on a bounded worker
// pool per project. This package is internal; external consumers should use
// the stable facade in pkg/core.
package engine
