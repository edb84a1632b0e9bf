package database

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leadintel/server/internal/ingest"
	"leadintel/server/internal/models"
)

// Fixture is the JSON document the snapshot is seeded from. Listing and comp
// entries use the same field names as the remote store.
type Fixture struct {
	ExpiredListings  []models.RawListing  `json:"expired_listings"`
	SoldListings     []models.RawComp     `json:"sold_listings"`
	ActiveListings   []FixtureActive      `json:"active_listings"`
	AgentPerformance []FixtureAgent       `json:"agent_performance"`
	TopAgents        []models.RawTopAgent `json:"top_agents"`
}

// FixtureActive is an active listing entry.
type FixtureActive struct {
	StreetAddress string  `json:"street_address"`
	ZipCode       string  `json:"zip_code"`
	ListPrice     float64 `json:"list_price"`
	ListDate      string  `json:"list_date"`
}

// FixtureAgent is one agent's performance payload, keyed like the lookup.
type FixtureAgent struct {
	AgentEmail string `json:"agent_email"`
	AgentPhone string `json:"agent_phone"`
	ZipCode    string `json:"zip_code"`
	models.RawAgentPerformance
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Seed replaces the snapshot contents with f in a single transaction.
// Zip codes are stored normalized so lookups can match them exactly.
func (d *Database) Seed(f *Fixture) error {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&AgentActivity{}, &AgentPerformance{}, &ZipTopAgent{},
			&ActiveListing{}, &SoldListing{}, &ExpiredListing{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		for _, l := range f.ExpiredListings {
			row := expiredRow(l)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert expired listing: %w", err)
			}
		}
		for _, c := range f.SoldListings {
			row := soldRow(c)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert sold listing: %w", err)
			}
		}
		for _, a := range f.ActiveListings {
			row := ActiveListing{
				StreetAddress: a.StreetAddress,
				ZipCode:       ingest.NormalizeZip(a.ZipCode),
				ListPrice:     a.ListPrice,
				ListDate:      a.ListDate,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert active listing: %w", err)
			}
		}
		for _, a := range f.AgentPerformance {
			row := agentRow(a)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert agent performance: %w", err)
			}
		}
		for i, a := range f.TopAgents {
			row := topAgentRow(a, i+1)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert top agent: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"expired": len(f.ExpiredListings),
		"sold":    len(f.SoldListings),
		"active":  len(f.ActiveListings),
		"agents":  len(f.AgentPerformance),
		"ranked":  len(f.TopAgents),
	}).Info("Seeded snapshot database")
	return nil
}

func expiredRow(l models.RawListing) ExpiredListing {
	return ExpiredListing{
		StreetAddress:  l.StreetAddress,
		City:           l.City,
		State:          l.State,
		ZipCode:        ingest.NormalizeZip(l.ZipCode),
		OrigListPrice:  l.OrigListPrice,
		ListPrice:      l.ListPrice,
		Dom:            l.Dom,
		ExpireDate:     l.ExpireDate,
		PropertyType:   l.PropertyType,
		Bed:            l.Bed,
		Bath:           l.Bath,
		Sqft:           l.Sqft,
		YearBuilt:      l.YearBuilt,
		ListAgentName:  l.ListAgentName,
		ListAgentEmail: l.ListAgentEmail,
		ListAgentPhone: l.ListAgentPhone,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
	}
}

func soldRow(c models.RawComp) SoldListing {
	return SoldListing{
		Address:        c.Address,
		StreetAddress:  c.StreetAddress,
		City:           c.City,
		State:          c.State,
		ZipCode:        ingest.NormalizeZip(c.ZipCode),
		CloseDate:      c.CloseDate,
		Bed:            c.Bed,
		Bath:           c.Bath,
		Sqft:           c.Sqft,
		CurrentPrice:   c.CurrentPrice,
		OrigListPrice:  c.OrigListPrice,
		Dom:            c.Dom,
		ListAgentName:  c.ListAgentName,
		ListAgentPhone: c.ListAgentPhone,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
	}
}

func agentRow(a FixtureAgent) AgentPerformance {
	row := AgentPerformance{
		AgentEmail: a.AgentEmail,
		AgentPhone: a.AgentPhone,
		ZipCode:    ingest.NormalizeZip(a.ZipCode),
	}
	if p := a.Performance; p != nil {
		row.AvgDomAgent = p.AvgDomAgent
		row.AvgDomZip = p.AvgDomZip
		row.PriceReductionPctAgent = p.PriceReductionPctAgent
		row.PriceReductionPctZip = p.PriceReductionPctZip
		row.AgentTxn12moZip = p.AgentTxn12moZip
		row.AgentTxn12moTotal = p.AgentTxn12moTotal
		row.ZipTxn12mo = p.ZipTxn12mo
		row.OverAskCount = p.OverAskCount
	}
	for _, act := range a.NearbyActivity {
		row.Activity = append(row.Activity, AgentActivity{
			Address:   act.Address,
			SoldDate:  act.SoldDate,
			SoldPrice: act.SoldPrice,
		})
	}
	return row
}

func topAgentRow(a models.RawTopAgent, ranking int) ZipTopAgent {
	return ZipTopAgent{
		ZipCode:                      ingest.NormalizeZip(a.ZipCode),
		Ranking:                      ranking,
		AgentName:                    a.AgentName,
		AgentPhone:                   a.AgentPhone,
		AgentEmail:                   a.AgentEmail,
		SellTransactionsLast1yr:      a.SellTransactionsLast1yr,
		SellTransactionsLast3yr:      a.SellTransactionsLast3yr,
		SellerTransactionsLast1yrZip: a.SellerTransactionsLast1yrZip,
		SellerTransactionsLast3yrZip: a.SellerTransactionsLast3yrZip,
		AvgPropertyPriceSeller:       a.AvgPropertyPriceSeller,
		MedianDomLast3yrSeller:       a.MedianDomLast3yrSeller,
		TopProducer:                  a.TopProducer,
		FastSeller:                   a.FastSeller,
	}
}
