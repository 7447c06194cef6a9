// Package storage provides JSON-based persistence for the game archive.
//
// A scrape run writes one archive file (gameData.json by default) holding every
// collected season, keyed by season-ending year, plus the years that failed.
// Writes replace the file atomically so a crash never leaves a truncated archive.
package storage
