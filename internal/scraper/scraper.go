package scraper

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/racecard-horses/internal/config"
	"github.com/pfrederiksen/racecard-horses/internal/logger"
	"github.com/pfrederiksen/racecard-horses/internal/race"
	"golang.org/x/net/html/charset"
)

const (
	RaceCardsURL = config.DefaultURL
	UserAgent    = config.DefaultUserAgent
	Timeout      = config.DefaultTimeout
)

// Scraper fetches the racecards page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithURL overrides the page URL
func WithURL(url string) Option {
	return func(s *Scraper) {
		s.url = url
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		s.client = c
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:       RaceCardsURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the page URL the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// Fetch issues a single GET for the page and returns the body as UTF-8 text.
// Any transport failure or non-2xx status is returned as a *FetchError.
func (s *Scraper) Fetch() (string, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("fetch.duration", time.Since(start))
	}()

	req, err := http.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		return "", &FetchError{URL: s.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: s.url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType != "text/html" {
		logger.Warn("Unexpected content type", logger.Fields{
			"url":          s.url,
			"content_type": contentType,
		})
	}

	body, err := charset.NewReader(resp.Body, contentType)
	if err != nil {
		return "", &FetchError{URL: s.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding body: %w", err)}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &FetchError{URL: s.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	logger.Info("Fetched racecards page", logger.Fields{
		"url":    s.url,
		"status": resp.StatusCode,
		"bytes":  len(data),
	})

	return string(data), nil
}

// FetchEntries fetches the page and extracts entries with the default Extractor
func (s *Scraper) FetchEntries() ([]race.Entry, error) {
	body, err := s.Fetch()
	if err != nil {
		return nil, err
	}
	return NewExtractor().Extract(strings.NewReader(body))
}
