package gmaps

import (
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
)

const (
	searchBoxXPath  = `//input[@id="searchboxinput"]`
	resultLinkXPath = `//a[contains(@href, "https://www.google.com/maps/place")]`
	scrollDeltaY    = 10000
)

// search submits query and scrolls the results pane until either MaxResults
// links are loaded or a scroll step loads nothing new. It returns the
// clickable row of every loaded result.
func (s *Scraper) search(page Page, query string) ([]*cdp.Node, error) {
	if err := page.Fill(searchBoxXPath, query); err != nil {
		return nil, fmt.Errorf("fill search box: %w", err)
	}
	if err := page.Submit(searchBoxXPath); err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	// Links from the previous query stay visible until the new results
	// render, so this is a plain delay rather than a visibility wait.
	if err := page.Settle("", s.cfg.SearchSettle); err != nil {
		return nil, err
	}

	if err := page.Hover(resultLinkXPath); err != nil {
		// A query with no results is skipped rather than ending the run.
		if errors.Is(err, ErrNoMatch) {
			s.logger.Warn("[gmaps] No results for %q", query)
			return nil, nil
		}
		return nil, fmt.Errorf("hover results: %w", err)
	}

	previous := 0
	for {
		if err := page.Wheel(0, scrollDeltaY); err != nil {
			return nil, fmt.Errorf("scroll results: %w", err)
		}
		if err := page.Settle("", s.cfg.ScrollSettle); err != nil {
			return nil, err
		}

		count, err := page.Count(resultLinkXPath)
		if err != nil {
			return nil, fmt.Errorf("count results: %w", err)
		}
		s.logger.Debug("[gmaps] %q: %d results loaded", query, count)

		if count >= s.cfg.MaxResults {
			return s.collect(page, "")
		}
		if count == previous {
			return s.collect(page, "Arrived at all available")
		}
		previous = count
	}
}

func (s *Scraper) collect(page Page, note string) ([]*cdp.Node, error) {
	listings, err := page.Parents(resultLinkXPath)
	if err != nil {
		return nil, fmt.Errorf("collect results: %w", err)
	}
	if note != "" {
		s.logger.Info("[gmaps] %s", note)
	}
	s.logger.Info("[gmaps] Total Scraped: %d", len(listings))
	return listings, nil
}
