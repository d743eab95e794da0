package race

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Details holds the race conditions printed alongside a racecard
type Details struct {
	Class           string `json:"class,omitempty"`
	Distance        string `json:"distance,omitempty"`
	Going           string `json:"going,omitempty"`
	Surface         string `json:"surface,omitempty"`
	Age             string `json:"age,omitempty"`
	DeclaredRunners int    `json:"declared_runners,omitempty"`
}

// Surfaces
const (
	SurfaceTurf       = "Turf"
	SurfaceAllWeather = "All Weather"
)

var (
	classPattern    = regexp.MustCompile(`(?i)\bclass\s+(\d+)\b`)
	distancePattern = regexp.MustCompile(`\b(\d+m(?:\s*\d+f)?(?:\s*\d+y)?|\d+f(?:\s*\d+y)?)\b`)
	agePattern      = regexp.MustCompile(`(?i)\b(\d+(?:-\d+)?yo\+?(?:\s+only)?)`)
	runnersPattern  = regexp.MustCompile(`(?i)\b(\d+)\s*runners?\b`)
	allWeather      = regexp.MustCompile(`(?i)all[- ]weather|polytrack|tapeta|fibresand|\baw\b`)
	turf            = regexp.MustCompile(`(?i)\bturf\b`)

	// Compound descriptions come first so "Good to Soft" wins over "Good".
	goingTerms = `good to soft|good to firm|good to yielding|yielding to soft|soft to heavy|` +
		`standard to slow|good|soft|firm|heavy|yielding|standard|slow`
	goingPattern = regexp.MustCompile(`(?i)\b(` + goingTerms + `)\b`)
	goingExact   = regexp.MustCompile(`(?i)^(?:` + goingTerms + `)$`)
)

// IsZero reports whether no detail was recognised
func (d Details) IsZero() bool {
	return d == Details{}
}

// ParseDetails reads race conditions out of free text such as
// "Class 5 | 1m 2f | Good to Soft | 8 Runners". Unrecognised fields stay empty.
func ParseDetails(text string) Details {
	var d Details

	if m := classPattern.FindStringSubmatch(text); m != nil {
		d.Class = "Class " + m[1]
	}
	if m := distancePattern.FindStringSubmatch(text); m != nil {
		d.Distance = strings.Join(strings.Fields(m[1]), " ")
	}
	if m := goingPattern.FindStringSubmatch(text); m != nil {
		d.Going = titleWords(m[1])
	}
	switch {
	case turf.MatchString(text):
		d.Surface = SurfaceTurf
	case allWeather.MatchString(text):
		d.Surface = SurfaceAllWeather
	}
	if m := agePattern.FindStringSubmatch(text); m != nil {
		d.Age = strings.Replace(strings.Join(strings.Fields(strings.ToLower(m[1])), " "), "yo", "YO", 1)
	}
	if m := runnersPattern.FindStringSubmatch(text); m != nil {
		d.DeclaredRunners, _ = strconv.Atoi(m[1])
	}

	return d
}

// IsGoing reports whether s is exactly a going description such as "Good to Firm"
func IsGoing(s string) bool {
	return goingExact.MatchString(strings.Join(strings.Fields(s), " "))
}

// titleWords capitalises every word except "to"
func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "to" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Meeting identifies the fixture a racecards URL points at
type Meeting struct {
	Date       string `json:"date"`
	Racecourse string `json:"racecourse"`
}

var meetingPattern = regexp.MustCompile(`racecards/(\d{4}-\d{2}-\d{2})/([^/?#]+)`)

// MeetingFromURL extracts the date and racecourse from URLs shaped like
// ".../racecards/2026-04-05/kempton-park/...". It reports false for any other URL.
func MeetingFromURL(rawURL string) (Meeting, bool) {
	m := meetingPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Meeting{}, false
	}
	return Meeting{
		Date:       m[1],
		Racecourse: titleWords(strings.ReplaceAll(m[2], "-", " ")),
	}, true
}
