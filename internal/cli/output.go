package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/racecard-horses/internal/race"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	ScrapedAt  time.Time          `json:"scraped_at"`
	SourceURL  string             `json:"source_url"`
	Meeting    *race.Meeting      `json:"meeting,omitempty"`
	OutputFile string             `json:"output_file"`
	EntryCount int                `json:"entry_count"`
	Entries    []race.Entry       `json:"entries"`
	Races      []race.RaceSummary `json:"races"`
}

// NewOutputResult builds the result for a completed run
func NewOutputResult(races []race.RaceSummary, sourceURL, outputFile string, scrapedAt time.Time) *OutputResult {
	if races == nil {
		races = []race.RaceSummary{}
	}
	entries := race.Entries(races)

	result := &OutputResult{
		ScrapedAt:  scrapedAt,
		SourceURL:  sourceURL,
		OutputFile: outputFile,
		EntryCount: len(entries),
		Entries:    entries,
		Races:      races,
	}
	if meeting, ok := race.MeetingFromURL(sourceURL); ok {
		result.Meeting = &meeting
	}
	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs one "<race>: <horse>" line per entry
func writeText(w io.Writer, result *OutputResult) error {
	for _, e := range result.Entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}
