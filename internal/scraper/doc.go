// Package scraper provides HTTP fetching and HTML extraction of horse names from a
// racecards page.
//
// The Scraper fetches one page and returns its body decoded to UTF-8. The Extractor
// locates race containers in the document and, for each one, tries an ordered list of
// strategies (anchor selector, generic name selector, text heuristic) until one of
// them yields names. A container where every strategy comes back empty is skipped;
// a document without any container is an ExtractionError.
package scraper
