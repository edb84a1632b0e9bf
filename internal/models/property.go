package models

import (
	"math"
	"time"

	"github.com/paulmach/orb"
)

// SubjectProperty is the expired listing a seller-outreach call is prepared for.
type SubjectProperty struct {
	Address           string     `json:"address"`
	Street            string     `json:"street"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	Zip               string     `json:"zip"`
	OriginalListPrice float64    `json:"original_list_price"`
	FinalListPrice    float64    `json:"final_list_price"`
	DaysOnMarket      int        `json:"days_on_market"`
	ExpirationDate    time.Time  `json:"expiration_date"`
	Beds              float64    `json:"beds"`
	Baths             float64    `json:"baths"`
	Sqft              int        `json:"sqft"`
	YearBuilt         int        `json:"year_built"`
	PropertyType      string     `json:"property_type"`
	ListAgentName     string     `json:"list_agent_name"`
	ListAgentEmail    string     `json:"list_agent_email"`
	ListAgentPhone    string     `json:"list_agent_phone"`
	Location          *orb.Point `json:"location,omitempty"`
}

// Ask returns the final list price, falling back to the original list price
// when the final price is missing.
func (s SubjectProperty) Ask() float64 {
	if s.FinalListPrice > 0 {
		return s.FinalListPrice
	}
	return s.OriginalListPrice
}

// PriceCut returns the absolute reduction from original to final list price.
func (s SubjectProperty) PriceCut() float64 {
	if s.FinalListPrice <= 0 || s.OriginalListPrice <= s.FinalListPrice {
		return 0
	}
	return s.OriginalListPrice - s.FinalListPrice
}

// Comp is a sold property used as a pricing reference.
type Comp struct {
	Address           string     `json:"address"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	Zip               string     `json:"zip"`
	Beds              float64    `json:"beds"`
	Baths             float64    `json:"baths"`
	Sqft              int        `json:"sqft"`
	SoldDate          time.Time  `json:"sold_date"`
	SoldPrice         float64    `json:"sold_price"`
	OriginalListPrice float64    `json:"original_list_price"`
	DaysOnMarket      int        `json:"days_on_market"`
	ListAgentName     string     `json:"list_agent_name"`
	ListAgentPhone    string     `json:"list_agent_phone"`
	Location          *orb.Point `json:"location,omitempty"`
	DistanceMiles     float64    `json:"distance_miles,omitempty"`
}

// MarketSnapshot holds zip-level market metrics derived from the comp pool.
type MarketSnapshot struct {
	MedianSoldPrice    float64      `json:"median_sold_price"`
	MedianDOM          float64      `json:"median_dom"`
	ListToSaleRatioPct float64      `json:"list_to_sale_ratio_pct"`
	SoldCount12mo      int          `json:"sold_count_12mo"`
	ActiveInventory    int          `json:"active_inventory"`
	ClosedSalesByMonth []MonthCount `json:"closed_sales_by_month,omitempty"`
	MedianDOMByMonth   []MonthDOM   `json:"median_dom_by_month,omitempty"`
}

// MonthCount is the number of closed sales in one calendar month ("2006-01").
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MonthDOM is the median days on market of one month's closed sales.
type MonthDOM struct {
	Month     string  `json:"month"`
	MedianDOM float64 `json:"median_dom"`
}

// PriceCutPct returns the reduction from original to final list price as a
// percentage of the original, rounded to one decimal.
func (s SubjectProperty) PriceCutPct() float64 {
	cut := s.PriceCut()
	if cut == 0 {
		return 0
	}
	return math.Round(cut/s.OriginalListPrice*1000) / 10
}
