package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus indicates a non-2xx response
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrNoRaceContainers indicates the document has no race containers at all
	ErrNoRaceContainers = errors.New("no race containers found")
)

// FetchError represents a transport failure or non-success response
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionError represents a document that cannot yield any entries
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
