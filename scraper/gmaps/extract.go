package gmaps

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gated-communities-scraper/models"
	"gated-communities-scraper/services"
)

const (
	nameSelector    = `h1.DUwDvf.lfPIob`
	addressSelector = `button[data-item-id="address"] div[class*="fontBodyMedium"]`
)

// detailPanel is the raw text of the detail view. Empty fields mean the
// element is absent or blank.
type detailPanel struct {
	Name    string
	Address string
}

// readPanel parses the name and address out of the page HTML.
func readPanel(html string) (detailPanel, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return detailPanel{}, fmt.Errorf("parse detail html: %w", err)
	}
	return detailPanel{
		Name:    firstText(doc, nameSelector),
		Address: firstText(doc, addressSelector),
	}, nil
}

// ExtractCommunity reads a listing's detail view from the page HTML and
// its coordinates from the page URL.
func ExtractCommunity(html, pageURL string) (*models.Community, error) {
	panel, err := readPanel(html)
	if err != nil {
		return nil, err
	}

	lat, lon, err := services.ParseCoordinates(pageURL)
	if err != nil {
		return nil, err
	}

	return &models.Community{
		Name:      orDefault(panel.Name, models.NoName),
		Address:   orDefault(panel.Address, models.NoAddress),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func firstText(doc *goquery.Document, sel string) string {
	return strings.TrimSpace(doc.Find(sel).First().Text())
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
