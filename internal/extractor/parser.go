package extractor

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
)

var (
	// ErrParseFailed means every parser backend rejected the markup.
	ErrParseFailed = errors.New("markup could not be parsed by any backend")
	// ErrMissingURL means a record lacks its mandatory url identity.
	ErrMissingURL = errors.New("record missing mandatory url")
)

// parserBackend is one strategy for turning raw markup into a document.
// Backends are tried in order and the first success short-circuits.
type parserBackend struct {
	name  string
	parse func(markup string) (*goquery.Document, error)
}

// parseStrict rejects markup that is not well-formed before building the
// document. Scraped pages are frequently truncated mid-tag; catching that
// here lets the lenient backend take over explicitly.
func parseStrict(markup string) (*goquery.Document, error) {
	if _, err := xmlquery.Parse(strings.NewReader(markup)); err != nil {
		return nil, fmt.Errorf("strict parse: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// parseLenient accepts whatever the HTML5 recovery algorithm can make of
// the markup.
func parseLenient(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

var backends = []parserBackend{
	{name: "strict-xml", parse: parseStrict},
	{name: "lenient-html", parse: parseLenient},
}

func parseDocument(markup string) (*goquery.Document, error) {
	var lastErr error
	for _, b := range backends {
		doc, err := b.parse(markup)
		if err == nil {
			return doc, nil
		}
		slog.Debug("parser backend rejected markup", "backend", b.name, "error", err)
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrParseFailed, lastErr)
}
