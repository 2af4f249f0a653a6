package models

const (
	NoName    = "No Name Available"
	NoAddress = "No Address Available"
)

// Community is one scraped residential-community listing.
// Name and Address are never empty; missing fields carry the sentinels above.
type Community struct {
	PostalCode string
	Name       string
	Address    string
	Latitude   float64
	Longitude  float64
}

// Key identifies a community for deduplication. Coordinates are not part of it.
type Key struct {
	Name    string
	Address string
}

// Key returns the (name, address) identity of c.
func (c *Community) Key() Key {
	return Key{Name: c.Name, Address: c.Address}
}

// ScrapeResult is everything collected for one postal code.
type ScrapeResult struct {
	PostalCode  string
	Communities []*Community
	Duplicates  int
	Failures    int
}

// SummaryReport holds the computed run statistics.
type SummaryReport struct {
	PostalCodes      int
	TotalCommunities int
	TotalDuplicates  int
	TotalFailures    int
	PerPostalCode    []PostalCodeStats
	DensestCells     []CellCount
}

// PostalCodeStats are the counters for a single postal code.
type PostalCodeStats struct {
	PostalCode string
	Unique     int
	Duplicates int
	Failures   int
}

// CellCount is the number of communities inside one H3 cell.
type CellCount struct {
	Cell  string
	Count int
}
