// Package detectors finds Datadog SDK call sites in source files. A detector
// resolves the file's SDK imports, then matches each line against a literal
// pattern table and, failing that, against the resolved local symbols. At most
// one finding is reported per line.
package detectors
