package scraper

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-padel-watcher/internal/model"
)

// Scanner walks a rolling window of upcoming calendar days and collects
// every match it can build, day-major in page order.
type Scanner struct {
	fetcher    MarkupFetcher
	builder    *Builder
	windowDays int
	strict     bool
	now        func() time.Time
}

// NewScanner builds a scanner over the next windowDays days. With strict
// set, an unrecognized roster fragment aborts the whole scan instead of
// skipping the match.
func NewScanner(fetcher MarkupFetcher, builder *Builder, windowDays int, strict bool) *Scanner {
	return &Scanner{
		fetcher:    fetcher,
		builder:    builder,
		windowDays: windowDays,
		strict:     strict,
		now:        time.Now,
	}
}

// Scan fetches each day of the window in turn. A failed fetch abandons that
// day only; a match that cannot be built is skipped (unless strict mode
// classifies it as fatal) and the scan carries on.
func (s *Scanner) Scan() ([]model.Match, error) {
	var matches []model.Match

	today := s.now()
	for i := 0; i < s.windowDays; i++ {
		day := today.AddDate(0, 0, i)
		dayStr := day.Format("2006-01-02")

		html, err := s.fetcher.FetchDay(day)
		if err != nil {
			log.Printf("⚠️ Failed to fetch grid for %s: %v", dayStr, err)
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			log.Printf("⚠️ Failed to parse grid for %s: %v", dayStr, err)
			continue
		}

		var fatal error
		doc.Find("div.gridviewestilocabecera").EachWithBreak(func(_ int, header *goquery.Selection) bool {
			match, err := s.builder.Build(header, day)
			if err != nil {
				var rosterErr *RosterError
				if s.strict && errors.As(err, &rosterErr) {
					fatal = err
					return false
				}
				log.Printf("⚠️ Skipping match on %s: %v", dayStr, err)
				return true
			}
			if match != nil {
				matches = append(matches, *match)
			}
			return true
		})
		if fatal != nil {
			return matches, fmt.Errorf("unexpected roster layout on %s: %w", dayStr, fatal)
		}
	}

	return matches, nil
}
