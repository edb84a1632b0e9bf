package ingest

import (
	"regexp"
	"strings"

	"github.com/paulmach/orb"

	"leadintel/server/internal/models"
)

// Subject turns an expired listing row into a SubjectProperty.
func Subject(row models.RawListing) models.SubjectProperty {
	zip := NormalizeZip(row.ZipCode)
	street := strings.TrimSpace(row.StreetAddress)
	city := strings.TrimSpace(row.City)
	address := FormatAddress(street, city, row.State, zip)

	return models.SubjectProperty{
		Address:           address,
		Street:            street,
		City:              city,
		State:             ResolveState(row.State, address),
		Zip:               zip,
		OriginalListPrice: nonNegative(row.OrigListPrice),
		FinalListPrice:    nonNegative(row.ListPrice),
		DaysOnMarket:      max(row.Dom, 0),
		ExpirationDate:    ParseDate(row.ExpireDate),
		Beds:              nonNegative(row.Bed),
		Baths:             nonNegative(row.Bath),
		Sqft:              max(row.Sqft, 0),
		YearBuilt:         max(row.YearBuilt, 0),
		PropertyType:      valueOr(row.PropertyType, "Single Family"),
		ListAgentName:     strings.TrimSpace(row.ListAgentName),
		ListAgentEmail:    strings.ToLower(strings.TrimSpace(row.ListAgentEmail)),
		ListAgentPhone:    strings.TrimSpace(row.ListAgentPhone),
		Location:          location(row.Latitude, row.Longitude),
	}
}

// Comps turns sold rows into comps. Rows without a zip inherit fallbackZip,
// the zip the pool was fetched for.
func Comps(rows []models.RawComp, fallbackZip string) []models.Comp {
	fallbackZip = NormalizeZip(fallbackZip)

	comps := make([]models.Comp, 0, len(rows))
	for _, row := range rows {
		zip := NormalizeZip(row.ZipCode)
		if zip == "" {
			zip = fallbackZip
		}
		address := strings.TrimSpace(row.Address)
		if address == "" {
			address = valueOr(row.StreetAddress, "Unknown Address")
		}

		comps = append(comps, models.Comp{
			Address:           address,
			City:              strings.TrimSpace(row.City),
			State:             ResolveState(row.State, address),
			Zip:               zip,
			Beds:              nonNegative(row.Bed),
			Baths:             nonNegative(row.Bath),
			Sqft:              max(row.Sqft, 0),
			SoldDate:          ParseDate(row.CloseDate),
			SoldPrice:         nonNegative(row.CurrentPrice),
			OriginalListPrice: nonNegative(row.OrigListPrice),
			DaysOnMarket:      max(row.Dom, 0),
			ListAgentName:     strings.TrimSpace(row.ListAgentName),
			ListAgentPhone:    strings.TrimSpace(row.ListAgentPhone),
			Location:          location(row.Latitude, row.Longitude),
		})
	}
	return comps
}

// AgentPerformance splits the previous-agent payload into the agent record,
// the zip aggregate and the agent's sold activity. The records are nil when
// the payload carries no performance block.
func AgentPerformance(raw *models.RawAgentPerformance) (*models.AgentPerformanceRecord, *models.ZipAggregatePerformance, []models.SoldActivity) {
	if raw == nil {
		return nil, nil, nil
	}

	activity := make([]models.SoldActivity, 0, len(raw.NearbyActivity))
	for _, a := range raw.NearbyActivity {
		activity = append(activity, models.SoldActivity{
			Address:   valueOr(a.Address, "Unknown Address"),
			SoldDate:  ParseDate(a.SoldDate),
			SoldPrice: nonNegative(a.SoldPrice),
		})
	}

	p := raw.Performance
	if p == nil {
		return nil, nil, activity
	}

	agent := &models.AgentPerformanceRecord{
		AvgDOM:                nonNegative(p.AvgDomAgent),
		PriceReductionPct:     nonNegative(p.PriceReductionPctAgent),
		ZipTransactions12mo:   max(p.AgentTxn12moZip, 0),
		TotalTransactions12mo: max(p.AgentTxn12moTotal, 0),
		OverAskCount:          max(p.OverAskCount, 0),
		Activity:              activity,
	}
	zip := &models.ZipAggregatePerformance{
		AvgDOM:               nonNegative(p.AvgDomZip),
		PriceReductionPct:    nonNegative(p.PriceReductionPctZip),
		TransactionCount12mo: max(p.ZipTxn12mo, 0),
	}
	return agent, zip, activity
}

// TopAgents turns ranking rows into TopAgents and flags the subject's own
// listing agent, matched by phone digits or case-insensitive name.
func TopAgents(rows []models.RawTopAgent, subjectName, subjectPhone string) []models.TopAgent {
	subjectName = strings.TrimSpace(subjectName)
	subjectDigits := PhoneDigits(subjectPhone)

	agents := make([]models.TopAgent, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.AgentName)
		isSubject := (subjectDigits != "" && PhoneDigits(row.AgentPhone) == subjectDigits) ||
			(subjectName != "" && strings.EqualFold(name, subjectName))

		agents = append(agents, models.TopAgent{
			Name:           valueOr(name, "Unknown Agent"),
			Phone:          strings.TrimSpace(row.AgentPhone),
			Email:          strings.ToLower(strings.TrimSpace(row.AgentEmail)),
			Zip:            NormalizeZip(row.ZipCode),
			SellTxn1yr:     max(row.SellTransactionsLast1yr, 0),
			SellTxn3yr:     max(row.SellTransactionsLast3yr, 0),
			ZipSellTxn1yr:  max(row.SellerTransactionsLast1yrZip, 0),
			ZipSellTxn3yr:  max(row.SellerTransactionsLast3yrZip, 0),
			AvgSellerPrice: nonNegative(row.AvgPropertyPriceSeller),
			MedianDOM3yr:   nonNegative(row.MedianDomLast3yrSeller),
			TopProducer:    row.TopProducer,
			FastSeller:     row.FastSeller,
			IsSubjectAgent: isSubject,
		})
	}
	return agents
}

var trailingZip = regexp.MustCompile(`^(.*\S)\s+(\d+)$`)

// ParseAddressQuery splits free text such as "12 Main, Lexington, MA 2420"
// into prefix filters. A trailing number on the third part is taken as the
// zip code and padded to five digits.
func ParseAddressQuery(text string) models.AddressQuery {
	var parts []string
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var q models.AddressQuery
	if len(parts) == 3 {
		if m := trailingZip.FindStringSubmatch(parts[2]); m != nil {
			parts[2] = m[1]
			parts = append(parts, m[2])
		}
	}
	for i, p := range parts {
		switch i {
		case 0:
			q.Street = p
		case 1:
			q.City = p
		case 2:
			q.State = p
		case 3:
			q.Zip = p
			if isDigits(p) {
				q.Zip = NormalizeZip(p)
			}
		}
	}
	return q
}

func location(lat, lng *float64) *orb.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &orb.Point{*lng, *lat}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func valueOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
