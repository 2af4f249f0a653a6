package services

import (
	"fmt"

	"github.com/uber/h3-go/v4"

	"gated-communities-scraper/models"
)

// CellFor returns the hex H3 index of the community's location at resolution res.
func CellFor(c *models.Community, res int) (string, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(c.Latitude, c.Longitude), res)
	if err != nil {
		return "", fmt.Errorf("h3: cell for %q: %w", c.Name, err)
	}
	return cell.String(), nil
}
