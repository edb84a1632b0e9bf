// Package cma selects comparable sales for a subject property and measures
// how the subject's ask compares with the local median.
package cma

import (
	"leadintel/server/config"
	"leadintel/server/internal/ingest"
	"leadintel/server/internal/models"
)

// Tier labels
const (
	TierTight          = "tight"
	TierWide           = "wide"
	TierAsymmetricWide = "asymmetric-wide"
	TierZipOnly        = "zip-only-fallback"
	TierFullMarket     = "full-market/no-price-filter"
)

// Tier is a price band around the subject's ask, expressed as fractions.
// A comp matches when ask*(1-Below) <= soldPrice <= ask*(1+Above).
type Tier struct {
	Label string
	Below float64
	Above float64
}

// DefaultTiers are tried in strictly increasing permissiveness.
var DefaultTiers = []Tier{
	{Label: TierTight, Below: 0.05, Above: 0.05},
	{Label: TierWide, Below: 0.10, Above: 0.10},
	{Label: TierAsymmetricWide, Below: 0.10, Above: 0.15},
}

// Policy holds the tier list and the states that bypass price bands.
type Policy struct {
	Tiers        []Tier
	exemptStates map[string]struct{}
}

// Selection is the outcome of comparable selection.
type Selection struct {
	Comps         []models.Comp `json:"comps"`
	TierLabel     string        `json:"tier_label"`
	PriceFiltered bool          `json:"price_filtered"`
}

// NewPolicy builds a policy using DefaultTiers. State names and codes are
// both accepted.
func NewPolicy(exemptStates []string) *Policy {
	p := &Policy{
		Tiers:        DefaultTiers,
		exemptStates: make(map[string]struct{}, len(exemptStates)),
	}
	for _, s := range exemptStates {
		if code := config.NormalizeState(s); code != "" {
			p.exemptStates[code] = struct{}{}
		}
	}
	return p
}

// IsExempt reports whether comparable selection in state skips price bands.
func (p *Policy) IsExempt(state string) bool {
	_, ok := p.exemptStates[config.NormalizeState(state)]
	return ok
}

// Select picks the comparable set for subject out of pool.
func (p *Policy) Select(subject models.SubjectProperty, pool []models.Comp) Selection {
	sameZip := filterZip(subject.Zip, pool)

	if p.IsExempt(subject.State) {
		return Selection{Comps: sameZip, TierLabel: TierFullMarket}
	}

	ask := subject.Ask()
	if ask > 0 {
		for _, tier := range p.Tiers {
			if matched := tier.filter(ask, sameZip); len(matched) > 0 {
				return Selection{Comps: matched, TierLabel: tier.Label, PriceFiltered: true}
			}
		}
	}

	return Selection{Comps: sameZip, TierLabel: TierZipOnly}
}

func (t Tier) filter(ask float64, comps []models.Comp) []models.Comp {
	low := ask * (1 - t.Below)
	high := ask * (1 + t.Above)

	matched := make([]models.Comp, 0, len(comps))
	for _, c := range comps {
		if c.SoldPrice >= low && c.SoldPrice <= high {
			matched = append(matched, c)
		}
	}
	return matched
}

// filterZip keeps comps in the subject's zip. Both sides are normalized so
// "2420" and "02420" compare equal. A subject without a zip keeps the whole
// pool, which the fetch has already scoped.
func filterZip(zip string, pool []models.Comp) []models.Comp {
	zip = ingest.NormalizeZip(zip)

	out := make([]models.Comp, 0, len(pool))
	for _, c := range pool {
		if zip == "" || ingest.NormalizeZip(c.Zip) == zip {
			out = append(out, c)
		}
	}
	return out
}
