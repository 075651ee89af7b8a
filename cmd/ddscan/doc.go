// Package ddscan provides the command-line interface for the ddscan tool.
// It configures subcommands (scan, report, baseline, config, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/ddscan/cmd/ddscan"
//	func main() { ddscan.Execute() }
package ddscan
