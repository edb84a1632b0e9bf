package database

import (
	"leadintel/server/internal/models"
)

// ExpiredListing is a row of the expired listing table searched by address.
type ExpiredListing struct {
	ID             uint   `gorm:"primaryKey"`
	StreetAddress  string `gorm:"index:idx_expired_address"`
	City           string `gorm:"index:idx_expired_address"`
	State          string
	ZipCode        string `gorm:"index"`
	OrigListPrice  float64
	ListPrice      float64
	Dom            int
	ExpireDate     string
	PropertyType   string
	Bed            float64
	Bath           float64
	Sqft           int
	YearBuilt      int
	ListAgentName  string
	ListAgentEmail string
	ListAgentPhone string
	Latitude       *float64
	Longitude      *float64
}

// SoldListing is a closed sale usable as a comp.
type SoldListing struct {
	ID             uint   `gorm:"primaryKey"`
	Address        string
	StreetAddress  string
	City           string
	State          string
	ZipCode        string `gorm:"index:idx_sold_zip_close"`
	CloseDate      string `gorm:"index:idx_sold_zip_close"`
	Bed            float64
	Bath           float64
	Sqft           int
	CurrentPrice   float64
	OrigListPrice  float64
	Dom            int
	ListAgentName  string
	ListAgentPhone string
	Latitude       *float64
	Longitude      *float64
}

// ActiveListing is a listing currently on the market.
type ActiveListing struct {
	ID            uint   `gorm:"primaryKey"`
	StreetAddress string
	ZipCode       string `gorm:"index"`
	ListPrice     float64
	ListDate      string
}

// AgentPerformance holds the precomputed agent-vs-zip metrics for one agent
// in one zip.
type AgentPerformance struct {
	ID                     uint            `gorm:"primaryKey"`
	AgentEmail             string          `gorm:"uniqueIndex:idx_agent_zip"`
	AgentPhone             string          `gorm:"uniqueIndex:idx_agent_zip"`
	ZipCode                string          `gorm:"uniqueIndex:idx_agent_zip"`
	AvgDomAgent            float64
	AvgDomZip              float64
	PriceReductionPctAgent float64
	PriceReductionPctZip   float64
	AgentTxn12moZip        int
	AgentTxn12moTotal      int
	ZipTxn12mo             int
	OverAskCount           int
	Activity               []AgentActivity `gorm:"constraint:OnDelete:CASCADE"`
}

// AgentActivity is one sale in an agent's nearby activity.
type AgentActivity struct {
	ID                 uint `gorm:"primaryKey"`
	AgentPerformanceID uint `gorm:"index"`
	Address            string
	SoldDate           string
	SoldPrice          float64
}

// ZipTopAgent is one precomputed row of a zip's agent ranking.
type ZipTopAgent struct {
	ID                           uint   `gorm:"primaryKey"`
	ZipCode                      string `gorm:"index:idx_top_zip_rank"`
	Ranking                      int    `gorm:"index:idx_top_zip_rank"`
	AgentName                    string
	AgentPhone                   string
	AgentEmail                   string
	SellTransactionsLast1yr      int
	SellTransactionsLast3yr      int
	SellerTransactionsLast1yrZip int
	SellerTransactionsLast3yrZip int
	AvgPropertyPriceSeller       float64
	MedianDomLast3yrSeller       float64
	TopProducer                  bool
	FastSeller                   bool
}

func (r ExpiredListing) raw() models.RawListing {
	return models.RawListing{
		StreetAddress:  r.StreetAddress,
		City:           r.City,
		State:          r.State,
		ZipCode:        r.ZipCode,
		OrigListPrice:  r.OrigListPrice,
		ListPrice:      r.ListPrice,
		Dom:            r.Dom,
		ExpireDate:     r.ExpireDate,
		PropertyType:   r.PropertyType,
		Bed:            r.Bed,
		Bath:           r.Bath,
		Sqft:           r.Sqft,
		YearBuilt:      r.YearBuilt,
		ListAgentName:  r.ListAgentName,
		ListAgentEmail: r.ListAgentEmail,
		ListAgentPhone: r.ListAgentPhone,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

func (r SoldListing) raw() models.RawComp {
	return models.RawComp{
		Address:        r.Address,
		StreetAddress:  r.StreetAddress,
		City:           r.City,
		State:          r.State,
		ZipCode:        r.ZipCode,
		Bed:            r.Bed,
		Bath:           r.Bath,
		Sqft:           r.Sqft,
		CloseDate:      r.CloseDate,
		CurrentPrice:   r.CurrentPrice,
		OrigListPrice:  r.OrigListPrice,
		Dom:            r.Dom,
		ListAgentName:  r.ListAgentName,
		ListAgentPhone: r.ListAgentPhone,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

func (r ZipTopAgent) raw() models.RawTopAgent {
	return models.RawTopAgent{
		AgentName:                    r.AgentName,
		AgentPhone:                   r.AgentPhone,
		AgentEmail:                   r.AgentEmail,
		ZipCode:                      r.ZipCode,
		SellTransactionsLast1yr:      r.SellTransactionsLast1yr,
		SellTransactionsLast3yr:      r.SellTransactionsLast3yr,
		SellerTransactionsLast1yrZip: r.SellerTransactionsLast1yrZip,
		SellerTransactionsLast3yrZip: r.SellerTransactionsLast3yrZip,
		AvgPropertyPriceSeller:       r.AvgPropertyPriceSeller,
		MedianDomLast3yrSeller:       r.MedianDomLast3yrSeller,
		TopProducer:                  r.TopProducer,
		FastSeller:                   r.FastSeller,
	}
}

func (r AgentPerformance) raw() *models.RawAgentPerformance {
	out := &models.RawAgentPerformance{
		Performance: &models.RawPerformanceStats{
			AvgDomAgent:            r.AvgDomAgent,
			AvgDomZip:              r.AvgDomZip,
			PriceReductionPctAgent: r.PriceReductionPctAgent,
			PriceReductionPctZip:   r.PriceReductionPctZip,
			AgentTxn12moZip:        r.AgentTxn12moZip,
			AgentTxn12moTotal:      r.AgentTxn12moTotal,
			ZipTxn12mo:             r.ZipTxn12mo,
			OverAskCount:           r.OverAskCount,
		},
		NearbyActivity: make([]models.RawActivity, 0, len(r.Activity)),
	}
	for _, a := range r.Activity {
		out.NearbyActivity = append(out.NearbyActivity, models.RawActivity{
			Address:   a.Address,
			SoldDate:  a.SoldDate,
			SoldPrice: a.SoldPrice,
		})
	}
	return out
}
