// Package callscript builds the seller-outreach call script: the fact pack,
// the scored talking-point hooks, the opener and the objection pivots.
package callscript

import (
	"fmt"
	"math"
	"time"

	"leadintel/server/internal/benchmark"
	"leadintel/server/internal/cma"
	"leadintel/server/internal/models"
	"leadintel/server/internal/stats"
)

// Inputs are everything a script is derived from. Benchmark may be nil and
// the analysis may carry no comps; the script still renders with zeroed facts.
type Inputs struct {
	Subject   models.SubjectProperty
	Analysis  cma.Analysis
	Benchmark *benchmark.Result
	Market    models.MarketSnapshot
	Now       time.Time
}

// BuildFactPack assembles the numeric bundle behind the hooks and pivots.
// The nearest-by-size comp comes from the same selected set as the CMA.
func BuildFactPack(in Inputs) models.FactPack {
	marketDOM := int(math.Round(in.Market.MedianDOM))

	fp := models.FactPack{
		DaysOnMarket:     in.Subject.DaysOnMarket,
		PriceCutPct:      in.Subject.PriceCutPct(),
		DaysSinceExpired: daysSince(in.Subject.ExpirationDate, in.Now),
		CompCount:        len(in.Analysis.Comps),
		CompMedian:       in.Analysis.Median,
		CompMin:          in.Analysis.Min,
		CompMax:          in.Analysis.Max,
		CompRange:        compRange(in.Analysis.Min, in.Analysis.Max),
		MarketMedianDOM:  marketDOM,
		MarketListToSale: in.Market.ListToSaleRatioPct,
		MarketInventory:  in.Market.ActiveInventory,
	}
	if marketDOM > 0 {
		fp.DOMDelta = in.Subject.DaysOnMarket - marketDOM
	}

	if nearest := in.Analysis.NearestBySize; nearest != nil {
		fp.HasClosestComp = true
		fp.ClosestCompAddress = nearest.Address
		fp.ClosestCompPrice = nearest.SoldPrice
		fp.ClosestDelta = in.Analysis.NearestDelta
	}

	if b := in.Benchmark; b != nil {
		fp.HasAgent = true
		fp.AgentDOMDelta = stats.Round(b.DOMDelta, 1)
		fp.AgentPriceCutDelta = stats.Round(b.PriceReductionDelta, 1)
		fp.AgentOverAskPct = b.OverAskRatePct
	}
	return fp
}

func daysSince(t, now time.Time) int {
	if t.IsZero() || now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}

// compRange renders the comp price range in thousands, e.g. "$950k-$1,100k".
func compRange(lo, hi float64) string {
	if lo == 0 && hi == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%sk-%sk", thousands(lo), thousands(hi))
}
