package scraper

import (
	"fmt"
	"io"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// AttributeScraper collects attribute values of one element type whose value matches a pattern.
type AttributeScraper struct {
	Tag       string
	Attribute string
	Pattern   *regexp.Regexp
}

// NewAttributeScraper compiles pattern. Patterns are matched from the start of the value, so
// "/photo/" and "^/photo/" behave the same.
func NewAttributeScraper(tag, attribute, pattern string) (*AttributeScraper, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &AttributeScraper{Tag: tag, Attribute: attribute, Pattern: re}, nil
}

// Scrape returns the matching values in document order with duplicates removed.
func (s *AttributeScraper) Scrape(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	seen := make(map[string]struct{})
	var values []string
	doc.Find(s.Tag).Each(func(_ int, sel *goquery.Selection) {
		value, ok := sel.Attr(s.Attribute)
		if !ok || !s.Pattern.MatchString(value) {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		values = append(values, value)
	})
	return values, nil
}
