package gmaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"

	"gated-communities-scraper/config"
	"gated-communities-scraper/models"
	"gated-communities-scraper/services"
	"gated-communities-scraper/storage"
	"gated-communities-scraper/utils"
)

const detailPollInterval = 100 * time.Millisecond

// ErrStaleDetail means a clicked listing never replaced the previous page state.
var ErrStaleDetail = errors.New("detail view did not change after opening listing")

// ListingResult is the outcome of opening and reading one listing. Exactly
// one of Community and Err is set.
type ListingResult struct {
	Community *models.Community
	Err       error
}

// Scraper orchestrates the search over every postal code and query template.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	exporter *storage.Exporter
	store    storage.CommunityStore

	open func(ctx context.Context) (Page, error)
}

// New creates a Scraper that drives Chrome. store may be nil.
func New(cfg *config.Config, logger *utils.Logger, exporter *storage.Exporter, store storage.CommunityStore) *Scraper {
	return &Scraper{
		cfg:      cfg,
		logger:   logger,
		exporter: exporter,
		store:    store,
		open: func(ctx context.Context) (Page, error) {
			return LaunchChrome(ctx, cfg, logger)
		},
	}
}

// Scrape opens the browser, searches every postal code with every query
// template, writes one export per postal code and a combined export, and
// closes the browser on every return path.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.ScrapeResult, error) {
	s.logger.Info("[gmaps] Starting scrape: %d postal codes x %d query templates",
		len(s.cfg.PostalCodes), len(s.cfg.QueryTemplates))

	page, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.logger.Warn("[gmaps] Closing browser: %v", err)
		}
	}()

	if err := page.Navigate(s.cfg.MapsURL, s.cfg.NavigateTimeout); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", s.cfg.MapsURL, err)
	}
	if err := page.Settle(searchBoxXPath, s.cfg.SearchSettle); err != nil {
		return nil, err
	}

	progress := utils.NewProgress(len(s.cfg.PostalCodes)*len(s.cfg.QueryTemplates), "Searching")
	defer progress.Finish()

	results := make([]*models.ScrapeResult, 0, len(s.cfg.PostalCodes))
	for _, postalCode := range s.cfg.PostalCodes {
		result, err := s.scrapePostalCode(ctx, page, postalCode, progress)
		if err != nil {
			return results, err
		}

		paths, err := s.exporter.ExportPostalCode(postalCode, result.Communities)
		if err != nil {
			return results, err
		}
		s.logger.Info("[gmaps] %s: %d communities saved to %v", postalCode, len(result.Communities), paths)

		if s.store != nil {
			if err := s.store.Save(ctx, postalCode, result.Communities); err != nil {
				return results, err
			}
		}

		results = append(results, result)
	}

	path, err := s.exporter.ExportCombined(results)
	if err != nil {
		return results, err
	}
	s.logger.Info("[gmaps] Combined export saved to %s", path)

	return results, nil
}

func (s *Scraper) scrapePostalCode(ctx context.Context, page Page, postalCode string, progress *utils.Progress) (*models.ScrapeResult, error) {
	collection := services.NewCollection(postalCode)
	result := &models.ScrapeResult{PostalCode: postalCode}

	for _, template := range s.cfg.QueryTemplates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		query := template + " " + postalCode
		s.logger.Info("[gmaps] Searching for: %s", query)

		listings, err := s.search(page, query)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}

		for _, listing := range listings {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			res := s.openListing(page, listing)
			if res.Err != nil {
				s.logger.Warn("[gmaps] Error occurred: %v", res.Err)
				result.Failures++
				continue
			}

			community := res.Community
			community.PostalCode = postalCode
			if !collection.Add(community) {
				s.logger.Info("[gmaps] Duplicate found: %s, %s", community.Name, community.Address)
				result.Duplicates++
			}
		}
		progress.Step()
	}

	result.Communities = collection.Communities()
	return result, nil
}

// openListing clicks a result row and reads the detail view it opens.
// Any failure is returned in the result rather than aborting the run.
func (s *Scraper) openListing(page Page, listing *cdp.Node) ListingResult {
	before, err := s.snapshot(page)
	if err != nil {
		return ListingResult{Err: err}
	}
	if err := page.Click(listing); err != nil {
		return ListingResult{Err: fmt.Errorf("open listing: %w", err)}
	}

	after, err := s.waitForDetail(page, before)
	if err != nil {
		return ListingResult{Err: fmt.Errorf("wait for detail: %w", err)}
	}

	community, err := ExtractCommunity(after.html, after.url)
	if err != nil {
		return ListingResult{Err: err}
	}
	return ListingResult{Community: community}
}

// pageState is what the page shows at one instant.
type pageState struct {
	url   string
	html  string
	panel detailPanel
}

func (s *Scraper) snapshot(page Page) (pageState, error) {
	url, err := page.URL()
	if err != nil {
		return pageState{}, fmt.Errorf("read url: %w", err)
	}
	html, err := page.HTML()
	if err != nil {
		return pageState{}, fmt.Errorf("read detail html: %w", err)
	}
	panel, err := readPanel(html)
	if err != nil {
		return pageState{}, err
	}
	return pageState{url: url, html: html, panel: panel}, nil
}

// waitForDetail polls for at most OpenSettle until the page shows the newly
// opened listing: a new URL and a named panel different from before. The
// URL can update before the panel re-renders, so a new URL alone is not
// enough. At the deadline the current state is accepted only if the panel
// changed, or the URL changed and there was no panel before; otherwise the
// page still shows the previous listing and ErrStaleDetail is returned.
func (s *Scraper) waitForDetail(page Page, before pageState) (pageState, error) {
	deadline := time.Now().Add(s.cfg.OpenSettle)

	for {
		now, err := s.snapshot(page)
		if err != nil {
			return pageState{}, err
		}

		urlMoved := now.url != before.url
		panelMoved := now.panel != before.panel
		if urlMoved && panelMoved && now.panel.Name != "" {
			return now, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if panelMoved || (urlMoved && before.panel == detailPanel{}) {
				return now, nil
			}
			return pageState{}, ErrStaleDetail
		}
		if err := page.Settle("", min(detailPollInterval, remaining)); err != nil {
			return pageState{}, err
		}
	}
}
