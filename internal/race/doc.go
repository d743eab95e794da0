// Package race provides the types produced while scraping a racecards page.
//
// A Block is one race container found in the parsed document. Each Block yields
// zero or more Entry values, one per horse name resolved inside it. Entries keep
// the exact document order of (race, runner) so that output is deterministic.
package race
