package gmaps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gated-communities-scraper/models"
	"gated-communities-scraper/services"
)

func TestExtractCommunity(t *testing.T) {
	c, err := ExtractCommunity(
		detailHTML("Casa Grande Arista", "Perumbakkam, Chennai, Tamil Nadu 600100"),
		"https://www.google.com/maps/place/Casa+Grande/@12.8955,80.2087,17z/data=!3m1",
	)
	require.NoError(t, err)

	assert.Equal(t, "Casa Grande Arista", c.Name)
	assert.Equal(t, "Perumbakkam, Chennai, Tamil Nadu 600100", c.Address)
	assert.Equal(t, 12.8955, c.Latitude)
	assert.Equal(t, 80.2087, c.Longitude)
}

func TestExtractCommunitySentinels(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		wantName    string
		wantAddress string
	}{
		{"no name", detailHTML("", "OMR"), models.NoName, "OMR"},
		{"no address", detailHTML("Olympia", ""), "Olympia", models.NoAddress},
		{"neither", detailHTML("", ""), models.NoName, models.NoAddress},
		{"blank heading", `<h1 class="DUwDvf lfPIob">   </h1>`, models.NoName, models.NoAddress},
		{
			"address outside address button",
			`<h1 class="DUwDvf lfPIob">Olympia</h1><div class="fontBodyMedium">elsewhere</div>`,
			"Olympia", models.NoAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ExtractCommunity(tt.html, placeURL("x", 12.9, 80.2))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, tt.wantAddress, c.Address)
		})
	}
}

func TestExtractCommunityFirstMatchWins(t *testing.T) {
	html := `<h1 class="DUwDvf lfPIob">First</h1><h1 class="DUwDvf lfPIob">Second</h1>`
	c, err := ExtractCommunity(html, placeURL("x", 12.9, 80.2))
	require.NoError(t, err)
	assert.Equal(t, "First", c.Name)
}

func TestExtractCommunityBadURL(t *testing.T) {
	_, err := ExtractCommunity(detailHTML("Olympia", "OMR"), "https://www.google.com/maps/search/villas")

	var pe *services.ParseError
	assert.True(t, errors.As(err, &pe), "expected *services.ParseError, got %v", err)
}
