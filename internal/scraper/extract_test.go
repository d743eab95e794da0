package scraper

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/pfrederiksen/racecard-horses/internal/logger"
	"github.com/pfrederiksen/racecard-horses/internal/race"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetDefault(logger.New(logger.LevelError, io.Discard))
	os.Exit(m.Run())
}

const exampleDoc = `
<html><body>
  <div class="race-card">
    <h2 class="race-title">2:00 Lingfield</h2>
    <ul>
      <li><a class="horse-name" href="/h/1">Bold Venture</a> <span>5/2</span></li>
      <li><a class="horse-name" href="/h/2">Speedy Sam</a> <span>7/1</span></li>
    </ul>
  </div>
  <div class="race-card">
    <table><tr><td>1</td><td>Lucky Star</td><td>Evs</td><td>2:30</td></tr></table>
  </div>
</body></html>`

func TestExtract_Example(t *testing.T) {
	logger.DefaultMetrics().Reset()

	entries, err := NewExtractor().ExtractString(exampleDoc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "2:00 Lingfield", Horse: "Bold Venture"},
		{Race: "2:00 Lingfield", Horse: "Speedy Sam"},
		{Race: "Race 2", Horse: "Lucky Star"},
	}, entries)

	metrics := logger.DefaultMetrics()
	assert.EqualValues(t, 1, metrics.Counter("extract.strategy."+StrategyPrimary))
	assert.EqualValues(t, 1, metrics.Counter("extract.strategy."+StrategyText))
	assert.EqualValues(t, 0, metrics.Counter("extract.blocks.skipped"))
	assert.EqualValues(t, 3, metrics.Counter("extract.entries"))
}

func TestExtract_Fixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/fixtures/racecards.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	entries, err := NewExtractor().ExtractString(string(data))
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "2:00 Lingfield", Horse: "Bold Venture"},
		{Race: "2:00 Lingfield", Horse: "Speedy Sam"},
		{Race: "2:00 Lingfield", Horse: "Kissing Cousin (IRE)"},
		{Race: "2:35 Lingfield", Horse: "Osculation"},
		{Race: "2:35 Lingfield", Horse: "Argonaut"},
		{Race: "Race 3", Horse: "Lucky Star"},
	}, entries)
}

func TestExtractRaces_Fixture(t *testing.T) {
	f, err := os.Open("../../testdata/fixtures/racecards.html")
	require.NoError(t, err)
	defer f.Close()

	races, err := NewExtractor().ExtractRaces(f)
	require.NoError(t, err)
	require.Len(t, races, 3)

	assert.Equal(t, race.RaceSummary{
		Race: "2:00 Lingfield",
		Details: race.Details{
			Class:           "Class 5",
			Distance:        "1m 2f",
			Going:           "Good to Soft",
			DeclaredRunners: 8,
		},
		Runners: 3,
		Horses:  []string{"Bold Venture", "Speedy Sam", "Kissing Cousin (IRE)"},
	}, races[0])
	assert.True(t, races[1].Details.IsZero())
	assert.Equal(t, "Race 3", races[2].Race)
	assert.Equal(t, []string{"Lucky Star"}, races[2].Horses)
}

func TestExtract_NestedContainersCountOnce(t *testing.T) {
	doc := `
		<div class="racecard">
			<div class="race-card"><h2>1:00 York</h2><a class="horse-name">Kyprios</a></div>
		</div>
		<div class="racecard" data-race-card="2">
			<div class="race-card"><h2>1:30 York</h2><a class="horse-name">Stradivarius</a></div>
		</div>`

	entries, err := NewExtractor().ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "1:00 York", Horse: "Kyprios"},
		{Race: "1:30 York", Horse: "Stradivarius"},
	}, entries)
}

func TestExtract_HeadingWrappingRunnerIsNotLabel(t *testing.T) {
	doc := `<div class="race-card">
		<h3><a class="horse-name">Bold Venture</a></h3>
		<h3><a class="horse-name">Speedy Sam</a></h3>
	</div>`

	entries, err := NewExtractor().ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "Race 1", Horse: "Bold Venture"},
		{Race: "Race 1", Horse: "Speedy Sam"},
	}, entries)
}

// spy wraps a strategy and counts how often it runs
func spy(s Strategy, calls map[string]int) Strategy {
	return Strategy{
		Name: s.Name,
		Match: func(block *goquery.Selection) []string {
			calls[s.Name]++
			return s.Match(block)
		},
	}
}

func spiedExtractor(calls map[string]int) *Extractor {
	strategies := DefaultStrategies(LabelSelector)
	for i := range strategies {
		strategies[i] = spy(strategies[i], calls)
	}
	return NewExtractor(WithStrategies(strategies...))
}

func TestExtract_PrimaryShortCircuits(t *testing.T) {
	calls := make(map[string]int)
	doc := `<div class="race-card">
		<h2 class="race-title">4:10 Kempton</h2>
		<a class="horse-name">Frankel</a>
		<span class="name">Should Not Appear</span>
		<p>Also Not Here</p>
	</div>`

	entries, err := spiedExtractor(calls).ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{{Race: "4:10 Kempton", Horse: "Frankel"}}, entries)
	assert.Equal(t, 1, calls[StrategyPrimary])
	assert.Zero(t, calls[StrategyNamed])
	assert.Zero(t, calls[StrategyText])
}

func TestExtract_NamedFallback(t *testing.T) {
	calls := make(map[string]int)
	doc := `<div class="racecard">
		<h2 class="race-name">5:15 Ascot</h2>
		<div class="runner"><span class="name">Golden Horn</span><span>3/1</span></div>
		<div class="runner"><span itemprop="name">Sea The Stars</span></div>
		<div class="runner"><span data-name="Enable"></span></div>
		<p>Text Only Horse</p>
	</div>`

	entries, err := spiedExtractor(calls).ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "5:15 Ascot", Horse: "Golden Horn"},
		{Race: "5:15 Ascot", Horse: "Sea The Stars"},
		{Race: "5:15 Ascot", Horse: "Enable"},
	}, entries)
	assert.Equal(t, 1, calls[StrategyPrimary])
	assert.Equal(t, 1, calls[StrategyNamed])
	assert.Zero(t, calls[StrategyText])
}

func TestExtract_TextFallbackFiltersNonNames(t *testing.T) {
	doc := `<div class="race-card">
		<ul>
			<li>Lucky Star</li>
			<li>5/2</li>
			<li>11 / 4</li>
			<li>Evs</li>
			<li>10:45</li>
			<li>2.30pm</li>
			<li>Jockey</li>
			<li>Odds</li>
			<li>Form</li>
			<li>Evens Fav</li>
			<li>Jt Fav</li>
			<li>Odds On</li>
			<li>Good To Soft</li>
			<li>Good To Firm</li>
			<li>Yielding</li>
			<li>Noon</li>
			<li>1-2-3</li>
			<li>x</li>
			<li>McCoy's Dream</li>
			<li>This Name Has Far Too Many Words</li>
			<li>lowercase name</li>
		</ul>
		<script>var horse = "Hidden Horse";</script>
	</div>`

	entries, err := NewExtractor().ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "Race 1", Horse: "Lucky Star"},
		{Race: "Race 1", Horse: "McCoy's Dream"},
	}, entries)
	for _, e := range entries {
		assert.True(t, isNameLike(e.Horse), "%q should be name-like", e.Horse)
	}
}

func TestExtract_EmptyBlockSkipped(t *testing.T) {
	logger.DefaultMetrics().Reset()
	doc := `
		<div class="race-card"><h2>1:00 York</h2><a class="horse-name">Stradivarius</a></div>
		<div class="race-card"><h2>1:30 York</h2><p>5/2</p><p>Non-runner</p><a class="horse-name">   </a></div>
		<div class="race-card"><h2>2:00 York</h2><a class="horse-name">Kyprios</a></div>`

	entries, err := NewExtractor().ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{
		{Race: "1:00 York", Horse: "Stradivarius"},
		{Race: "2:00 York", Horse: "Kyprios"},
	}, entries)
	assert.EqualValues(t, 1, logger.DefaultMetrics().Counter("extract.blocks.skipped"))
}

func TestExtract_AllBlocksEmpty(t *testing.T) {
	doc := `<div class="race-card"><h2>1:00 York</h2><p>9/4</p></div>`

	entries, err := NewExtractor().ExtractString(doc)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtract_NoRaceContainers(t *testing.T) {
	doc := `<html><body><a class="horse-name">Orphan</a></body></html>`

	entries, err := NewExtractor().ExtractString(doc)
	require.Error(t, err)
	assert.Nil(t, entries)

	var extractErr *ExtractionError
	assert.True(t, errors.As(err, &extractErr))
	assert.ErrorIs(t, err, ErrNoRaceContainers)
	assert.Contains(t, err.Error(), "no race containers found")
}

func TestExtract_DuplicatesPreserved(t *testing.T) {
	doc := `<div class="race-card">
		<h2 class="race-title">6:00 Wolverhampton</h2>
		<a class="horse-name">Double Trouble</a>
		<a class="horse-name">Double Trouble</a>
	</div>`

	entries, err := NewExtractor().ExtractString(doc)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, entries[0], entries[1])
}

func TestExtract_WhitespaceOnlyNamesFallThrough(t *testing.T) {
	calls := make(map[string]int)
	doc := `<div class="race-card">
		<a class="horse-name">  </a>
		<span class="name">Desert Crown</span>
	</div>`

	entries, err := spiedExtractor(calls).ExtractString(doc)
	require.NoError(t, err)

	assert.Equal(t, []race.Entry{{Race: "Race 1", Horse: "Desert Crown"}}, entries)
	assert.Equal(t, 1, calls[StrategyNamed])
}

func TestExtract_StrategyOutputIsTrimmed(t *testing.T) {
	raw := Strategy{
		Name: "raw",
		Match: func(*goquery.Selection) []string {
			return []string{"  Padded Name  ", "\t", ""}
		},
	}

	entries, err := NewExtractor(WithStrategies(raw)).ExtractString(`<div class="race-card"></div>`)
	require.NoError(t, err)
	assert.Equal(t, []race.Entry{{Race: "Race 1", Horse: "Padded Name"}}, entries)
}

func TestExtract_CustomSelectors(t *testing.T) {
	doc := `<article class="meeting">
		<header class="title">7:20 Chelmsford</header>
		<a class="horse-name">Baaeed</a>
	</article>`

	e := NewExtractor(
		WithContainerSelector(cascadia.MustCompile("article.meeting")),
		WithLabelSelector(cascadia.MustCompile(".title")),
	)

	entries, err := e.ExtractString(doc)
	require.NoError(t, err)
	assert.Equal(t, []race.Entry{{Race: "7:20 Chelmsford", Horse: "Baaeed"}}, entries)
}

func TestBlocks_Labels(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(stringsReader(`
		<div class="race-card"><h2>  </h2><h3>3:00   Newmarket</h3></div>
		<div class="race-card"></div>
		<div class="racecard"><div class="race-title">3:35 Newmarket</div></div>`))
	require.NoError(t, err)

	blocks := NewExtractor().Blocks(doc)
	require.Len(t, blocks, 3)

	assert.Equal(t, 1, blocks[0].Index)
	assert.Equal(t, "3:00 Newmarket", blocks[0].Label)
	assert.Equal(t, "Race 2", blocks[1].Label)
	assert.Equal(t, "3:35 Newmarket", blocks[2].Label)
}

func TestBlocks_Details(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(stringsReader(`
		<div class="race-card">
			<h2>3:00 Newmarket</h2>
			<div class="race-subtitle">2YO only | 6f | Good to Firm | Turf</div>
		</div>
		<div class="race-card">
			<h2>3:35 Newmarket</h2>
			<p>Class 4
			7f 3yo+ Soft</p>
		</div>
		<div class="race-card"><h2>4:10 Newmarket</h2><p>Good Boy</p></div>`))
	require.NoError(t, err)

	blocks := NewExtractor().Blocks(doc)
	require.Len(t, blocks, 3)

	assert.Equal(t, race.Details{Distance: "6f", Going: "Good to Firm", Surface: race.SurfaceTurf, Age: "2YO only"}, blocks[0].Details)
	assert.Equal(t, race.Details{Class: "Class 4"}, blocks[1].Details)
	assert.True(t, blocks[2].Details.IsZero())
}
