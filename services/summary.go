package services

import (
	"fmt"
	"sort"
	"strings"

	"gated-communities-scraper/models"
	"gated-communities-scraper/utils"
)

const (
	densestCellLimit = 5
	maxBarWidth      = 40
)

type SummaryService struct {
	logger       *utils.Logger
	h3Resolution int
}

func NewSummaryService(logger *utils.Logger, h3Resolution int) *SummaryService {
	return &SummaryService{logger: logger, h3Resolution: h3Resolution}
}

// Generate computes run statistics over all postal code results.
func (s *SummaryService) Generate(results []*models.ScrapeResult) *models.SummaryReport {
	report := &models.SummaryReport{PostalCodes: len(results)}
	cells := make(map[string]int)

	for _, r := range results {
		report.PerPostalCode = append(report.PerPostalCode, models.PostalCodeStats{
			PostalCode: r.PostalCode,
			Unique:     len(r.Communities),
			Duplicates: r.Duplicates,
			Failures:   r.Failures,
		})
		report.TotalCommunities += len(r.Communities)
		report.TotalDuplicates += r.Duplicates
		report.TotalFailures += r.Failures

		for _, c := range r.Communities {
			cell, err := CellFor(c, s.h3Resolution)
			if err != nil {
				s.logger.Debug("[summary] %v", err)
				continue
			}
			cells[cell]++
		}
	}

	for cell, n := range cells {
		report.DensestCells = append(report.DensestCells, models.CellCount{Cell: cell, Count: n})
	}
	sort.Slice(report.DensestCells, func(i, j int) bool {
		a, b := report.DensestCells[i], report.DensestCells[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Cell < b.Cell
	})
	if len(report.DensestCells) > densestCellLimit {
		report.DensestCells = report.DensestCells[:densestCellLimit]
	}

	return report
}

func (s *SummaryService) Print(r *models.SummaryReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  GATED COMMUNITY SCRAPE SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Postal codes searched  : \033[1m%d\033[0m\n", r.PostalCodes)
	fmt.Printf("  Unique communities     : \033[1m%d\033[0m\n", r.TotalCommunities)
	fmt.Printf("  Duplicates discarded   : \033[1m%d\033[0m\n", r.TotalDuplicates)
	fmt.Printf("  Listings failed        : \033[1m%d\033[0m\n", r.TotalFailures)
	fmt.Println()

	fmt.Printf("\033[1;33m  Per Postal Code\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, pc := range r.PerPostalCode {
		fmt.Printf("  %-10s %5d unique %5d dup %5d failed\n",
			pc.PostalCode, pc.Unique, pc.Duplicates, pc.Failures)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Densest Areas (H3 res %d)\033[0m\n", s.h3Resolution)
	fmt.Printf("  %s\n", thin)
	if len(r.DensestCells) == 0 {
		fmt.Printf("  No located communities\n")
	}
	for _, cc := range r.DensestCells {
		bar := scaledBar(cc.Count, r.DensestCells[0].Count)
		fmt.Printf("  %-18s %s (%d)\n", cc.Cell, bar, cc.Count)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

// scaledBar draws count relative to max, at most maxBarWidth cells wide.
// Any non-zero count gets at least one cell.
func scaledBar(count, max int) string {
	if count <= 0 || max <= 0 {
		return ""
	}
	width := count
	if max > maxBarWidth {
		width = count * maxBarWidth / max
	}
	if width < 1 {
		width = 1
	}
	return strings.Repeat("█", width)
}
