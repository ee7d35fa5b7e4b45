package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"catalog-browser/models"
	"catalog-browser/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Facets computes the sidebar option lists for ds.
func (s *InsightService) Facets(ds *models.Dataset) models.Facets {
	availability := utils.NewStringSet()
	condition := utils.NewStringSet()
	category := utils.NewStringSet()

	for _, p := range ds.Records() {
		if v := strings.TrimSpace(p.Availability); v != "" {
			availability.Add(p.Availability)
		}
		if v := strings.TrimSpace(p.Condition); v != "" {
			condition.Add(p.Condition)
		}
		category.Add(string(p.Category))
	}

	min, max, ok := ds.PriceBounds()
	return models.Facets{
		Availability: availability.Values(),
		Condition:    condition.Values(),
		Category:     category.Values(),
		MinPrice:     min,
		MaxPrice:     max,
		HasPrices:    ok,
	}
}

func (s *InsightService) Generate(ds *models.Dataset) *models.CatalogReport {
	report := &models.CatalogReport{
		ByCategory:     make(map[models.Category]int),
		ByAvailability: make(map[string]int),
		ByCondition:    make(map[string]int),
		Facets:         s.Facets(ds),
	}
	if ds == nil {
		return report
	}
	report.DroppedRows = ds.Dropped()

	records := ds.Records()
	if len(records) == 0 {
		return report
	}
	report.TotalProducts = len(records)

	total := decimal.Zero
	for i, p := range records {
		report.ByCategory[p.Category]++
		if p.Availability != "" {
			report.ByAvailability[p.Availability]++
		}
		if p.Condition != "" {
			report.ByCondition[p.Condition]++
		}
		total = total.Add(p.SellingPrice)
		if report.MostExpensive == nil || p.SellingPrice.GreaterThan(report.MostExpensive.SellingPrice) {
			report.MostExpensive = &records[i]
		}
	}

	report.AveragePrice = total.Div(decimal.NewFromInt(int64(len(records)))).Round(2)
	report.MinPrice = report.Facets.MinPrice
	report.MaxPrice = report.Facets.MaxPrice

	s.logger.Debug("[insights] %d products across %d categories", report.TotalProducts, len(report.ByCategory))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.CatalogReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  CATALOG SUMMARY\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Products loaded      : %d\n", r.TotalProducts)
	fmt.Fprintf(w, "  Rows dropped (price) : %d\n", r.DroppedRows)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Selling Price\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalProducts > 0 {
		fmt.Fprintf(w, "  Average : $%s\n", r.AveragePrice.StringFixed(2))
		fmt.Fprintf(w, "  Minimum : $%s\n", r.MinPrice.StringFixed(2))
		fmt.Fprintf(w, "  Maximum : $%s\n", r.MaxPrice.StringFixed(2))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "  Most Expensive Product\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Name, 50))
		fmt.Fprintf(w, "  Category : %s\n", r.MostExpensive.Category)
		fmt.Fprintf(w, "  Price    : $%s\n", r.MostExpensive.SellingPrice.String())
		fmt.Fprintln(w)
	}

	byCategory := make(map[string]int, len(r.ByCategory))
	for c, n := range r.ByCategory {
		byCategory[string(c)] = n
	}
	printCounts(w, "Products by Category", thin, byCategory)
	printCounts(w, "Products by Availability", thin, r.ByAvailability)
	printCounts(w, "Products by Condition", thin, r.ByCondition)

	fmt.Fprintf(w, "%s\n\n", sep)
}

func printCounts(w io.Writer, title, thin string, counts map[string]int) {
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	type labelCount struct {
		label string
		count int
	}
	var rows []labelCount
	for label, n := range counts {
		rows = append(rows, labelCount{label, n})
	}
	// Sort by count descending, then label for stable output
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].label < rows[j].label
	})
	for _, lc := range rows {
		bar := strings.Repeat("█", min(lc.count, 30))
		fmt.Fprintf(w, "  %-24s %s (%d)\n", truncate(lc.label, 22), bar, lc.count)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
