package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/pfrederiksen/racecard-horses/internal/race"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaces() []race.RaceSummary {
	return []race.RaceSummary{
		{
			Race:    "2:00 Lingfield",
			Details: race.Details{Class: "Class 5", Going: "Good to Soft"},
			Runners: 2,
			Horses:  []string{"Bold Venture", "Speedy Sam"},
		},
		{Race: "Race 2", Runners: 1, Horses: []string{"Lucky Star"}},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	result := NewOutputResult(sampleRaces(), "http://example.test", "horses_data.csv", time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, result, FormatText))

	assert.Equal(t, "2:00 Lingfield: Bold Venture\n2:00 Lingfield: Speedy Sam\nRace 2: Lucky Star\n", buf.String())
}

func TestWriteOutput_TextEmpty(t *testing.T) {
	result := NewOutputResult(nil, "http://example.test", "horses_data.csv", time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, result, FormatText))
	assert.Empty(t, buf.String())
}

func TestWriteOutput_JSON(t *testing.T) {
	scrapedAt := time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
	result := NewOutputResult(sampleRaces(), "http://example.test", "horses_data.csv", scrapedAt)

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, result, FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "2026-04-05T12:00:00Z", decoded["scraped_at"])
	assert.Equal(t, "http://example.test", decoded["source_url"])
	assert.Equal(t, "horses_data.csv", decoded["output_file"])
	assert.EqualValues(t, 3, decoded["entry_count"])

	entries := decoded["entries"].([]interface{})
	require.Len(t, entries, 3)
	assert.Equal(t, map[string]interface{}{"race": "Race 2", "horse": "Lucky Star"}, entries[2])

	races := decoded["races"].([]interface{})
	require.Len(t, races, 2)
	first := races[0].(map[string]interface{})
	assert.Equal(t, "2:00 Lingfield", first["race"])
	assert.Equal(t, map[string]interface{}{"class": "Class 5", "going": "Good to Soft"}, first["details"])
	assert.Equal(t, map[string]interface{}{}, races[1].(map[string]interface{})["details"])

	_, hasMeeting := decoded["meeting"]
	assert.False(t, hasMeeting)
}

func TestNewOutputResult_Meeting(t *testing.T) {
	result := NewOutputResult(sampleRaces(), "https://www.sportinglife.com/racing/racecards/2026-04-05/lingfield-park", "horses_data.csv", time.Now())

	require.NotNil(t, result.Meeting)
	assert.Equal(t, race.Meeting{Date: "2026-04-05", Racecourse: "Lingfield Park"}, *result.Meeting)
	assert.Equal(t, 3, result.EntryCount)
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	result := NewOutputResult(sampleRaces(), "", "", time.Now())

	var buf bytes.Buffer
	assert.Error(t, WriteOutput(&buf, result, OutputFormat("yaml")))
}

func TestNewOutputResult_NilRaces(t *testing.T) {
	result := NewOutputResult(nil, "http://example.test", "horses_data.csv", time.Now())

	assert.NotNil(t, result.Entries)
	assert.Zero(t, result.EntryCount)
	assert.Empty(t, result.Races)
}
