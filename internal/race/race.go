package race

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Block is a race container located in the parsed document
type Block struct {
	Index     int // 1-based position in document order
	Label     string
	Details   Details
	Selection *goquery.Selection
}

// Entry is one resolved (race, horse) pair
type Entry struct {
	Race  string `json:"race"`
	Horse string `json:"horse"`
}

// RaceSummary holds the runners resolved for one race block
type RaceSummary struct {
	Race    string   `json:"race"`
	Details Details  `json:"details"`
	Runners int      `json:"runners"`
	Horses  []string `json:"horses"`
}

// DefaultLabel returns the synthesized label for the block at the given
// 1-based position.
func DefaultLabel(index int) string {
	return "Race " + strconv.Itoa(index)
}

// NewEntry trims both fields. It reports false when the horse name is empty
// after trimming.
func NewEntry(raceLabel, horse string) (Entry, bool) {
	horse = strings.TrimSpace(horse)
	if horse == "" {
		return Entry{}, false
	}
	return Entry{
		Race:  strings.TrimSpace(raceLabel),
		Horse: horse,
	}, true
}

// String formats the entry as a console line
func (e Entry) String() string {
	return e.Race + ": " + e.Horse
}

// Entries flattens the races into (race, horse) pairs, keeping race order
// and the runner order within each race.
func Entries(races []RaceSummary) []Entry {
	entries := make([]Entry, 0)
	for _, r := range races {
		for _, horse := range r.Horses {
			if e, ok := NewEntry(r.Race, horse); ok {
				entries = append(entries, e)
			}
		}
	}
	return entries
}
