// Package market summarizes zip-level market conditions from the sold pool.
package market

import (
	"fmt"
	"sort"

	"leadintel/server/internal/models"
	"leadintel/server/internal/stats"
)

// Inventory labels
const (
	InventoryTight    = "tight"
	InventoryModerate = "moderate"
	InventoryElevated = "elevated"
)

// Summarize derives a MarketSnapshot from the full same-zip sold pool.
// The list-to-sale ratio is total sold price over total original list price
// for comps that carry both. Comps without a sold date are left out of the
// monthly series.
func Summarize(pool []models.Comp, activeInventory int) models.MarketSnapshot {
	var prices, doms []float64
	var soldTotal, listTotal float64
	monthCounts := map[string]int{}
	monthDOMs := map[string][]float64{}

	for _, c := range pool {
		if c.SoldPrice <= 0 {
			continue
		}
		prices = append(prices, c.SoldPrice)
		month := ""
		if !c.SoldDate.IsZero() {
			month = c.SoldDate.Format("2006-01")
			monthCounts[month]++
		}
		if c.DaysOnMarket > 0 {
			doms = append(doms, float64(c.DaysOnMarket))
			if month != "" {
				monthDOMs[month] = append(monthDOMs[month], float64(c.DaysOnMarket))
			}
		}
		if c.OriginalListPrice > 0 {
			soldTotal += c.SoldPrice
			listTotal += c.OriginalListPrice
		}
	}

	snapshot := models.MarketSnapshot{
		MedianSoldPrice: stats.Median(prices),
		MedianDOM:       stats.Median(doms),
		SoldCount12mo:   len(prices),
		ActiveInventory: max(activeInventory, 0),
	}
	if listTotal > 0 {
		snapshot.ListToSaleRatioPct = stats.Round(soldTotal/listTotal*100, 1)
	}
	snapshot.ClosedSalesByMonth, snapshot.MedianDOMByMonth = monthlySeries(monthCounts, monthDOMs)
	return snapshot
}

// monthlySeries orders both series chronologically. A month with sales but
// no usable DOM appears only in the count series.
func monthlySeries(counts map[string]int, doms map[string][]float64) ([]models.MonthCount, []models.MonthDOM) {
	if len(counts) == 0 {
		return nil, nil
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	sales := make([]models.MonthCount, 0, len(months))
	var medians []models.MonthDOM
	for _, m := range months {
		sales = append(sales, models.MonthCount{Month: m, Count: counts[m]})
		if values := doms[m]; len(values) > 0 {
			medians = append(medians, models.MonthDOM{Month: m, MedianDOM: stats.Median(values)})
		}
	}
	return sales, medians
}

// InventoryLabel buckets an active listing count.
func InventoryLabel(activeInventory int) string {
	switch {
	case activeInventory <= 40:
		return InventoryTight
	case activeInventory <= 80:
		return InventoryModerate
	default:
		return InventoryElevated
	}
}

// InventoryTalkingPoint renders the supply sentence used in reports and the
// call script.
func InventoryTalkingPoint(activeInventory int, town string) string {
	location := "in this area"
	if town != "" {
		location = "in " + town
	}

	switch InventoryLabel(activeInventory) {
	case InventoryTight:
		descriptor := "tight"
		if activeInventory <= 25 {
			descriptor = "exceptionally tight"
		}
		return fmt.Sprintf("Supply is %s with only %d active listings, meaning buyers have fewer options %s.",
			descriptor, activeInventory, location)
	case InventoryModerate:
		return fmt.Sprintf("Supply is moderate with %d active listings, providing a balanced environment for motivated buyers %s.",
			activeInventory, location)
	default:
		return fmt.Sprintf("Supply is elevated with %d active listings, increasing the competition for attention among local sellers %s.",
			activeInventory, location)
	}
}
