package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/pfrederiksen/racecard-horses/internal/race"
	"golang.org/x/net/html"
)

// Strategy names, also used as metric suffixes
const (
	StrategyPrimary = "primary"
	StrategyNamed   = "named"
	StrategyText    = "text"
)

// Strategy finds horse names inside one race block. Match returns trimmed,
// non-empty names in document order; an empty result lets the next strategy run.
type Strategy struct {
	Name  string
	Match func(block *goquery.Selection) []string
}

var (
	// PrimarySelector matches the anchors racecards use for runner names.
	PrimarySelector = cascadia.MustCompile(`a.horse-name, a.horse-link`)

	// NamedSelector matches any element carrying a generic name class or attribute.
	NamedSelector = cascadia.MustCompile(`.name, [name], [data-name], [itemprop="name"]`)
)

// PrimaryStrategy selects names from elements matching sel
func PrimaryStrategy(sel goquery.Matcher) Strategy {
	return Strategy{
		Name: StrategyPrimary,
		Match: func(block *goquery.Selection) []string {
			return selectionTexts(block.FindMatcher(sel))
		},
	}
}

// NamedStrategy selects names from elements matching sel, ignoring elements that
// match exclude (race titles) and outer elements that wrap another match.
// An element without text falls back to its data-name attribute.
func NamedStrategy(sel, exclude goquery.Matcher) Strategy {
	return Strategy{
		Name: StrategyNamed,
		Match: func(block *goquery.Selection) []string {
			names := make([]string, 0)
			block.FindMatcher(sel).NotMatcher(exclude).Each(func(_ int, s *goquery.Selection) {
				if s.FindMatcher(sel).Length() > 0 {
					return
				}
				name := cleanText(s.Text())
				if name == "" {
					name = cleanText(s.AttrOr("data-name", ""))
				}
				if name != "" {
					names = append(names, name)
				}
			})
			return names
		},
	}
}

// TextStrategy scans every text node in the block and keeps the lines that look
// like a horse name. Text inside script, style or elements matching exclude is
// ignored.
func TextStrategy(exclude goquery.Matcher) Strategy {
	return Strategy{
		Name: StrategyText,
		Match: func(block *goquery.Selection) []string {
			names := make([]string, 0)
			for _, root := range block.Nodes {
				for n := range root.Descendants() {
					if n.Type != html.TextNode || insideIgnored(n, root, exclude) {
						continue
					}
					for _, line := range strings.Split(n.Data, "\n") {
						line = cleanText(line)
						if isNameLike(line) {
							names = append(names, line)
						}
					}
				}
			}
			return names
		},
	}
}

// DefaultStrategies returns the primary, named and text strategies in priority order
func DefaultStrategies(labels goquery.Matcher) []Strategy {
	return []Strategy{
		PrimaryStrategy(PrimarySelector),
		NamedStrategy(NamedSelector, labels),
		TextStrategy(labels),
	}
}

func insideIgnored(n, root *html.Node, exclude goquery.Matcher) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if p.Data == "script" || p.Data == "style" || p.Data == "noscript" {
			return true
		}
		if exclude != nil && exclude.Match(p) {
			return true
		}
	}
	return false
}

func selectionTexts(sel *goquery.Selection) []string {
	names := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if name := cleanText(s.Text()); name != "" {
			names = append(names, name)
		}
	})
	return names
}

// cleanText trims and collapses internal whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const (
	minNameLength = 2
	maxNameLength = 30
)

var (
	// One to four capitalised tokens, optionally followed by a country suffix like (IRE).
	namePattern = regexp.MustCompile(
		`^[A-Z][A-Za-z'’.]*(?:-[A-Za-z][A-Za-z'’]*)*(?: [A-Z][A-Za-z'’.]*(?:-[A-Za-z][A-Za-z'’]*)*){0,3}(?: \([A-Z]{2,3}\))?$`)

	// Prices, optionally with a favourite marker: "5/2", "Evens Fav", "Odds On", "9/4 Jt Fav".
	oddsPattern = regexp.MustCompile(`(?i)^(?:\d+\s*/\s*\d+|evs|evens|odds[ -]on)(?:\s+(?:(?:jt|co)[ -]?)?fav)?$`)
	timePattern = regexp.MustCompile(`^\d{1,2}[:.]\d{2}(?:\s*[ap]m)?$`)

	// Tokens only ever seen in betting shows
	oddsTokens = map[string]bool{
		"fav": true, "jt": true, "jt-fav": true, "co-fav": true, "sp": true,
	}

	// Labels that appear as standalone text on racecards
	nonNameLabels = map[string]bool{
		"age": true, "bumper": true, "chase": true, "class": true,
		"distance": true, "draw": true, "evens": true, "evs": true,
		"fav": true, "firm": true, "flat": true, "form": true,
		"going": true, "good": true, "handicap": true, "heavy": true,
		"hurdle": true, "jockey": true, "midday": true, "more": true,
		"non-runner": true, "noon": true, "nr": true, "odds": true,
		"or": true, "owner": true, "prize": true, "racecard": true,
		"rating": true, "results": true, "runner": true, "runners": true,
		"silk": true, "soft": true, "sp": true, "standard": true,
		"time": true, "tips": true, "trainer": true, "turf": true,
		"view": true, "weight": true, "wgt": true,
	}
)

// isNameLike reports whether a cleaned line of text looks like a horse name
func isNameLike(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < minNameLength || n > maxNameLength {
		return false
	}
	if oddsPattern.MatchString(s) || timePattern.MatchString(s) || race.IsGoing(s) {
		return false
	}
	if nonNameLabels[strings.ToLower(s)] {
		return false
	}
	for _, token := range strings.Fields(s) {
		if oddsTokens[strings.ToLower(token)] {
			return false
		}
	}
	return namePattern.MatchString(s)
}
