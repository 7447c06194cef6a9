// Package cli implements the command-line interface for nhl-scores.
//
// The cli package provides the Cobra-based CLI with three commands: scrape
// collects season results into a JSON archive, analyze prints score statistics
// and renders charts, and serve exposes the archive over a read-only HTTP API.
// Settings come from built-in defaults, an optional YAML config file and
// explicitly set flags, in increasing order of precedence.
package cli
