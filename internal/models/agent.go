package models

import "time"

// SoldActivity is a single sale closed by an agent.
type SoldActivity struct {
	Address   string    `json:"address"`
	SoldDate  time.Time `json:"sold_date"`
	SoldPrice float64   `json:"sold_price"`
}

// AgentPerformanceRecord aggregates a listing agent's trailing performance.
type AgentPerformanceRecord struct {
	AvgDOM                float64        `json:"avg_dom"`
	PriceReductionPct     float64        `json:"price_reduction_pct"`
	ZipTransactions12mo   int            `json:"zip_transactions_12mo"`
	TotalTransactions12mo int            `json:"total_transactions_12mo"`
	OverAskCount          int            `json:"over_ask_count"`
	Activity              []SoldActivity `json:"activity"`
}

// ZipAggregatePerformance is the zip-wide counterpart of AgentPerformanceRecord.
type ZipAggregatePerformance struct {
	AvgDOM               float64 `json:"avg_dom"`
	PriceReductionPct    float64 `json:"price_reduction_pct"`
	TransactionCount12mo int     `json:"transaction_count_12mo"`
}

// TopAgent is one entry of a zip-level agent ranking.
type TopAgent struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Zip            string  `json:"zip"`
	SellTxn1yr     int     `json:"sell_transactions_last_1yr"`
	SellTxn3yr     int     `json:"sell_transactions_last_3yr"`
	ZipSellTxn1yr  int     `json:"zip_sell_transactions_last_1yr"`
	ZipSellTxn3yr  int     `json:"zip_sell_transactions_last_3yr"`
	AvgSellerPrice float64 `json:"avg_property_price_seller"`
	MedianDOM3yr   float64 `json:"median_dom_last_3yr"`
	TopProducer    bool    `json:"top_producer"`
	FastSeller     bool    `json:"fast_seller"`
	IsSubjectAgent bool    `json:"is_subject_agent"`
}
