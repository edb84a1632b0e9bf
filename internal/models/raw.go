package models

// Raw records mirror the rows returned by the data stores. Zero values mean the
// column was empty; only the ingest package turns them into domain records.

// RawListing is an expired listing row as stored upstream.
type RawListing struct {
	StreetAddress  string   `json:"street_address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	OrigListPrice  float64  `json:"orig_list_price"`
	ListPrice      float64  `json:"list_price"`
	Dom            int      `json:"dom"`
	ExpireDate     string   `json:"expire_date"`
	PropertyType   string   `json:"property_type"`
	Bed            float64  `json:"bed"`
	Bath           float64  `json:"bath"`
	Sqft           int      `json:"sqft"`
	YearBuilt      int      `json:"year_built"`
	ListAgentName  string   `json:"list_agent_name"`
	ListAgentEmail string   `json:"list_agent_email"`
	ListAgentPhone string   `json:"list_agent_phone"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// RawComp is a sold listing row.
type RawComp struct {
	Address        string   `json:"address"`
	StreetAddress  string   `json:"street_address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	Bed            float64  `json:"bed"`
	Bath           float64  `json:"bath"`
	Sqft           int      `json:"sqft"`
	CloseDate      string   `json:"close_date"`
	CurrentPrice   float64  `json:"current_price"`
	OrigListPrice  float64  `json:"orig_list_price"`
	Dom            int      `json:"dom"`
	ListAgentName  string   `json:"list_agent_name"`
	ListAgentPhone string   `json:"list_agent_phone"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// RawTopAgent is one row of the zip ranking procedure.
type RawTopAgent struct {
	AgentName                    string  `json:"agent_name"`
	AgentPhone                   string  `json:"agent_phone"`
	AgentEmail                   string  `json:"agent_email"`
	ZipCode                      string  `json:"zip_code"`
	SellTransactionsLast1yr      int     `json:"sell_transactions_last_1yr"`
	SellTransactionsLast3yr      int     `json:"sell_transactions_last_3yr"`
	SellerTransactionsLast1yrZip int     `json:"seller_transactions_last_1yr_zipcode"`
	SellerTransactionsLast3yrZip int     `json:"seller_transactions_last_3yr_zipcode"`
	AvgPropertyPriceSeller       float64 `json:"avg_property_price_seller"`
	MedianDomLast3yrSeller       float64 `json:"median_dom_last_3yr_seller"`
	TopProducer                  bool    `json:"top_producer"`
	FastSeller                   bool    `json:"fast_seller"`
}

// RawAgentPerformance is the payload of the previous-agent performance procedure.
type RawAgentPerformance struct {
	Performance    *RawPerformanceStats `json:"performance"`
	NearbyActivity []RawActivity        `json:"nearby_activity"`
}

// RawPerformanceStats holds the agent and zip metrics side by side.
type RawPerformanceStats struct {
	AvgDomAgent            float64 `json:"avg_dom_agent"`
	AvgDomZip              float64 `json:"avg_dom_zip"`
	PriceReductionPctAgent float64 `json:"price_reduction_pct_agent"`
	PriceReductionPctZip   float64 `json:"price_reduction_pct_zip"`
	AgentTxn12moZip        int     `json:"agent_txn_12mo_zip"`
	AgentTxn12moTotal      int     `json:"agent_txn_12mo_total"`
	ZipTxn12mo             int     `json:"zip_txn_12mo"`
	OverAskCount           int     `json:"over_ask_count"`
}

// RawActivity is a sale listed in the agent's nearby activity.
type RawActivity struct {
	Address   string  `json:"address"`
	SoldDate  string  `json:"sold_date"`
	SoldPrice float64 `json:"sold_price"`
}
