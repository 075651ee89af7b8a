// Package report renders scan results for terminals and writes the JSON, CSV,
// SARIF and HTML report files. It also owns the finding baseline used to
// suppress known call sites.
package report
