package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/pfrederiksen/racecard-horses/internal/logger"
	"github.com/pfrederiksen/racecard-horses/internal/race"
)

var (
	// ContainerSelector locates one race per match.
	ContainerSelector = cascadia.MustCompile(`.race-card, .racecard, [data-race-card]`)

	// LabelSelector locates the title-like element holding the race label.
	LabelSelector = cascadia.MustCompile(`.race-title, .race-name, h1, h2, h3`)

	// DetailsSelector locates the race conditions line (class, distance, going).
	DetailsSelector = cascadia.MustCompile(`.race-details, .race-info, [class*="subtitle"], [class*="details"]`)

	detailsLine = regexp.MustCompile(`(?i)\bclass\s+\d`)
)

// Extractor turns a racecards document into ordered entries
type Extractor struct {
	containers goquery.Matcher
	labels     goquery.Matcher
	details    goquery.Matcher
	strategies []Strategy
}

// ExtractorOption configures an Extractor
type ExtractorOption func(*Extractor)

// WithContainerSelector overrides the race container selector
func WithContainerSelector(m goquery.Matcher) ExtractorOption {
	return func(e *Extractor) {
		e.containers = m
	}
}

// WithLabelSelector overrides the race label selector. Unless strategies are
// also given, the default strategies exclude elements matching it.
func WithLabelSelector(m goquery.Matcher) ExtractorOption {
	return func(e *Extractor) {
		e.labels = m
	}
}

// WithStrategies replaces the strategy chain
func WithStrategies(strategies ...Strategy) ExtractorOption {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// NewExtractor creates an Extractor with the default selectors and strategies
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		containers: ContainerSelector,
		labels:     LabelSelector,
		details:    DetailsSelector,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.strategies == nil {
		e.strategies = DefaultStrategies(e.labels)
	}
	return e
}

// Extract parses the document and returns its entries in document order.
// A document with no race containers returns an *ExtractionError.
func (e *Extractor) Extract(r io.Reader) ([]race.Entry, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}
	return e.ExtractDocument(doc)
}

// ExtractString is Extract for an in-memory document
func (e *Extractor) ExtractString(doc string) ([]race.Entry, error) {
	return e.Extract(strings.NewReader(doc))
}

// ExtractRaces is Extract keeping the per-race grouping and race details
func (e *Extractor) ExtractRaces(r io.Reader) ([]race.RaceSummary, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}
	return e.Races(doc)
}

// ExtractDocument runs the strategy chain over every race block of doc
func (e *Extractor) ExtractDocument(doc *goquery.Document) ([]race.Entry, error) {
	races, err := e.Races(doc)
	if err != nil {
		return nil, err
	}
	return race.Entries(races), nil
}

// Races resolves the runners of every race block of doc. Blocks without
// runners are left out.
func (e *Extractor) Races(doc *goquery.Document) ([]race.RaceSummary, error) {
	blocks := e.Blocks(doc)
	if len(blocks) == 0 {
		return nil, &ExtractionError{Err: ErrNoRaceContainers}
	}

	races := make([]race.RaceSummary, 0, len(blocks))
	entries := 0
	for _, block := range blocks {
		log := logger.Default().With(logger.Fields{
			"block": block.Index,
			"race":  block.Label,
		})

		names, strategy := e.resolve(block)
		if len(names) == 0 {
			log.Debug("No horse names found in race block", nil)
			logger.IncrCounter("extract.blocks.skipped")
			continue
		}

		logger.IncrCounter("extract.strategy." + strategy)
		logger.AddCounter("extract.entries", int64(len(names)))
		log.Debug("Resolved race block", logger.Fields{
			"strategy": strategy,
			"horses":   len(names),
		})

		races = append(races, race.RaceSummary{
			Race:    block.Label,
			Details: block.Details,
			Runners: len(names),
			Horses:  names,
		})
		entries += len(names)
	}

	logger.Info("Extracted entries", logger.Fields{
		"blocks":  len(blocks),
		"races":   len(races),
		"entries": entries,
	})

	return races, nil
}

func parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ExtractionError{Err: fmt.Errorf("parsing HTML: %w", err)}
	}
	return doc, nil
}

// Blocks returns the race blocks of doc in document order with their labels
// and details resolved. A container wrapping another container is not a block
// of its own; only the innermost one counts.
func (e *Extractor) Blocks(doc *goquery.Document) []*race.Block {
	blocks := make([]*race.Block, 0)
	doc.FindMatcher(e.containers).Each(func(_ int, sel *goquery.Selection) {
		if sel.FindMatcher(e.containers).Length() > 0 {
			return
		}
		index := len(blocks) + 1
		label := e.label(sel)
		if label == "" {
			label = race.DefaultLabel(index)
		}
		blocks = append(blocks, &race.Block{
			Index:     index,
			Label:     label,
			Details:   e.raceDetails(sel),
			Selection: sel,
		})
	})
	return blocks
}

// label returns the first non-empty title text in the block. Titles wrapping
// a runner link are runner rows, not race titles.
func (e *Extractor) label(sel *goquery.Selection) string {
	var label string
	sel.FindMatcher(e.labels).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.IsMatcher(PrimarySelector) || s.FindMatcher(PrimarySelector).Length() > 0 {
			return true
		}
		label = cleanText(s.Text())
		return label == ""
	})
	return label
}

// raceDetails parses the conditions line of the block, falling back to any
// line that mentions a race class.
func (e *Extractor) raceDetails(sel *goquery.Selection) race.Details {
	parts := make([]string, 0)
	sel.FindMatcher(e.details).Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		for _, line := range strings.Split(sel.Text(), "\n") {
			if line = cleanText(line); detailsLine.MatchString(line) {
				parts = append(parts, line)
			}
		}
	}
	return race.ParseDetails(strings.Join(parts, " "))
}

// resolve tries each strategy in order and stops at the first that yields names
func (e *Extractor) resolve(block *race.Block) ([]string, string) {
	for _, strategy := range e.strategies {
		names := make([]string, 0)
		for _, name := range strategy.Match(block.Selection) {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names, strategy.Name
		}
	}
	return nil, ""
}
