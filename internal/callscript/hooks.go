package callscript

import (
	"fmt"
	"math"
	"sort"

	"leadintel/server/internal/format"
	"leadintel/server/internal/models"
)

// Hook categories, in library order.
const (
	CategoryPricing  = "Pricing"
	CategoryMomentum = "Momentum"
	CategoryCMA      = "CMA"
	CategoryMarket   = "Market"
	CategoryAgent    = "Agent"
)

// MaxHooks is the number of distinct categories a script presents.
const MaxHooks = 3

// Library evaluates every hook template against fp. The CMA hook needs a
// nearest comp and the Agent hook needs benchmark data; both are left out
// otherwise.
func Library(fp models.FactPack, length Length) []models.Hook {
	short := length != Long
	hooks := make([]models.Hook, 0, 5)

	hooks = append(hooks, models.Hook{
		Category: CategoryPricing,
		Headline: "Local Pricing Trends",
		Fact: pick(short,
			fmt.Sprintf("Area homes are currently closing at %.0f%% of list price.", fp.MarketListToSale),
			fmt.Sprintf("Market data shows local properties are closing at %.0f%% of list price, which is quite strong.", fp.MarketListToSale)),
		Question: "During your listing, what was the general feedback on the initial pricing strategy?",
		Score:    scoreIf(fp.PriceCutPct > 5, 90, 40),
	})

	hooks = append(hooks, models.Hook{
		Category: CategoryMomentum,
		Headline: "Market Momentum",
		Fact: pick(short,
			fmt.Sprintf("The neighborhood median time to sell is %d days.", fp.MarketMedianDOM),
			fmt.Sprintf("Neighborhood statistics show a median of %d days to find a buyer right now.", fp.MarketMedianDOM)),
		Question: fmt.Sprintf("Did the traffic you received during your %d days on market meet your expectations?", fp.DaysOnMarket),
		Score:    scoreIf(fp.DOMDelta > 14, 85, 50),
	})

	if fp.HasClosestComp {
		price := format.Money(fp.ClosestCompPrice)
		hooks = append(hooks, models.Hook{
			Category: CategoryCMA,
			Headline: "Recent Comparable Sale",
			Fact: pick(short,
				fmt.Sprintf("A similar property at %s recently closed for %s.", fp.ClosestCompAddress, price),
				fmt.Sprintf("I noticed a similar property at %s recently closed for %s, which is a key data point for your street.", fp.ClosestCompAddress, price)),
			Question: "How did your previous valuation compare to these most recent local results?",
			Score:    scoreIf(math.Abs(fp.ClosestDelta) < 50000, 95, 60),
		})
	}

	hooks = append(hooks, models.Hook{
		Category: CategoryMarket,
		Headline: "Active Inventory",
		Fact: pick(short,
			fmt.Sprintf("There are %d active listings competing for buyers in your area.", fp.MarketInventory),
			fmt.Sprintf("According to the latest reports, there are %d active listings currently competing for the attention of local buyers.", fp.MarketInventory)),
		Question: "Did your previous strategy focus on how to stand out specifically against these active competitors?",
		Score:    70,
	})

	if fp.HasAgent {
		days := formatDays(math.Abs(fp.AgentDOMDelta))
		pace := "faster"
		if fp.AgentDOMDelta < 0 {
			pace = "slower"
		}
		hooks = append(hooks, models.Hook{
			Category: CategoryAgent,
			Headline: "Listing Strategy",
			Fact: pick(short,
				fmt.Sprintf("The average sale in this zip code happens %s days %s than your agent's current average.", days, pace),
				fmt.Sprintf("Current records show a %s day difference between the neighborhood median speed and the average timeline for your previous brokerage.", days)),
			Question: "Were you looking for a more aggressive timeline to get the property moved?",
			Score:    scoreIf(fp.AgentDOMDelta > 5, 80, 30),
		})
	}

	return hooks
}

// SelectHooks orders hooks by score, highest first, and keeps the first hook
// of each category until MaxHooks categories are represented. Equal scores
// keep library order.
func SelectHooks(hooks []models.Hook) []models.Hook {
	sorted := make([]models.Hook, len(hooks))
	copy(sorted, hooks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	selected := make([]models.Hook, 0, MaxHooks)
	used := make(map[string]bool, MaxHooks)
	for _, h := range sorted {
		if len(selected) == MaxHooks {
			break
		}
		if used[h.Category] {
			continue
		}
		used[h.Category] = true
		selected = append(selected, h)
	}
	return selected
}

func pick(short bool, shortText, longText string) string {
	if short {
		return shortText
	}
	return longText
}

func scoreIf(cond bool, high, low int) int {
	if cond {
		return high
	}
	return low
}

// formatDays drops the decimal for whole numbers: 6 -> "6", 6.5 -> "6.5".
func formatDays(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func thousands(v float64) string {
	return "$" + format.Count(int(math.Round(v/1000)))
}
