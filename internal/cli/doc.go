// Package cli implements the command-line interface for racecard-horses.
//
// The cli package provides the Cobra-based root command. A run loads configuration,
// fetches the racecards page, extracts (race, horse) entries, writes them to the CSV
// file and echoes them to stdout as text or JSON. Failures map to distinct non-zero
// exit codes for fetch, extraction and file errors.
package cli
