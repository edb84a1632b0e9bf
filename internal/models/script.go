package models

// FactPack is the numeric bundle behind the call script. It is derived on
// every render and never stored.
type FactPack struct {
	DaysOnMarket       int     `json:"days_on_market"`
	DOMDelta           int     `json:"dom_delta"`
	PriceCutPct        float64 `json:"price_cut_pct"`
	DaysSinceExpired   int     `json:"days_since_expired"`
	CompCount          int     `json:"comp_count"`
	CompMedian         float64 `json:"comp_median"`
	CompMin            float64 `json:"comp_min"`
	CompMax            float64 `json:"comp_max"`
	CompRange          string  `json:"comp_range"`
	HasClosestComp     bool    `json:"has_closest_comp"`
	ClosestCompAddress string  `json:"closest_comp_address"`
	ClosestCompPrice   float64 `json:"closest_comp_price"`
	ClosestDelta       float64 `json:"closest_delta"`
	HasAgent           bool    `json:"has_agent"`
	AgentDOMDelta      float64 `json:"agent_dom_delta"`
	AgentPriceCutDelta float64 `json:"agent_price_cut_delta"`
	AgentOverAskPct    float64 `json:"agent_over_ask_pct"`
	MarketMedianDOM    int     `json:"market_median_dom"`
	MarketListToSale   float64 `json:"market_list_to_sale"`
	MarketInventory    int     `json:"market_inventory"`
}

// Hook is a scored talking point tied to one data category.
type Hook struct {
	Category string `json:"category"`
	Headline string `json:"headline"`
	Fact     string `json:"fact"`
	Question string `json:"question"`
	Score    int    `json:"score"`
}
