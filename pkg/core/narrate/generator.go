package narrate

import (
	"fmt"
	"sort"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/health"
	"finsight/pkg/core/trends"
)

// InsightGenerator turns analysis output into a short, prioritized list of
// actionable recommendations.
type InsightGenerator struct {
	max int
}

// NewInsightGenerator builds a generator capped at max recommendations. A
// non-positive max falls back to MaxRecommendations.
func NewInsightGenerator(max int) *InsightGenerator {
	if max <= 0 {
		max = MaxRecommendations
	}
	return &InsightGenerator{max: max}
}

// Generate evaluates four rule groups in order (critical, risk management,
// opportunity, monitoring), sorts the result by priority, and truncates to
// the configured cap. Ties keep evaluation order, so output is stable.
func (g *InsightGenerator) Generate(hs *health.HealthScore, in health.Input) []Recommendation {
	red := map[string]flags.Flag{}
	for _, f := range in.RedFlags {
		red[f.ID] = f
	}
	green := map[string]flags.Flag{}
	for _, f := range in.GreenFlags {
		green[f.ID] = f
	}
	dir := map[string]trends.Direction{}
	for _, tr := range in.Trends {
		dir[tr.Metric] = tr.Direction
	}

	var recs []Recommendation
	recs = append(recs, criticalRecs(hs, red)...)
	recs = append(recs, riskRecs(red, dir)...)
	recs = append(recs, opportunityRecs(hs, green)...)
	recs = append(recs, monitoringRecs(hs, red, green, dir)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank(recs[i].Priority) < priorityRank(recs[j].Priority)
	})
	if len(recs) > g.max {
		recs = recs[:g.max]
	}
	return recs
}

func criticalRecs(hs *health.HealthScore, red map[string]flags.Flag) []Recommendation {
	var recs []Recommendation

	if f, ok := red["insolvency_risk"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeAction,
			Priority:    PriorityHigh,
			Title:       "Treat this as a distressed situation",
			Description: "Liabilities exceed assets. Do not invest new money until you understand the path back to positive equity.",
			Rationale:   f.Description,
			Timeframe:   "Immediately",
		})
	}
	if f, ok := red["liquidity_crisis"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeAction,
			Priority:    PriorityHigh,
			Title:       "Check how the next 12 months of bills get paid",
			Description: "Short-term obligations exceed short-term resources and operations are not covering the gap. Look for committed credit lines or planned asset sales.",
			Rationale:   f.Description,
			Timeframe:   "Immediately",
		})
	}
	if f, ok := red["cash_burn_with_leverage"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeAction,
			Priority:    PriorityHigh,
			Title:       "Estimate the cash runway",
			Description: "The company is burning cash while carrying heavy debt. Work out how many quarters of losses the cash balance can absorb before it must raise money.",
			Rationale:   f.Description,
			Timeframe:   "Immediately",
		})
	}
	if hs.Overall < 50 && len(recs) == 0 {
		recs = append(recs, Recommendation{
			Type:        TypeAction,
			Priority:    PriorityHigh,
			Title:       "Size any position very conservatively",
			Description: "Overall financial health is weak even without a single dominant problem. If you hold this stock, keep it small relative to your portfolio.",
			Rationale:   fmt.Sprintf("Composite health score of %d sits in the weak range.", hs.Overall),
			Timeframe:   "Before your next trade",
		})
	}

	return recs
}

func riskRecs(red map[string]flags.Flag, dir map[string]trends.Direction) []Recommendation {
	var recs []Recommendation

	if f, ok := red["unsustainable_debt_service"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityHigh,
			Title:       "Review the debt maturity schedule",
			Description: "Operating cash flow is not covering interest and scheduled repayments. Read the debt footnote to see when the big maturities hit and at what rates.",
			Rationale:   f.Description,
			Timeframe:   "Within a week",
		})
	} else if f, ok := red["weak_interest_coverage"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityMedium,
			Title:       "Stress-test the interest burden",
			Description: "Operating profit covers interest less than two times over. Ask what happens to coverage if earnings dip 20% or rates reset higher.",
			Rationale:   f.Description,
			Timeframe:   "Within a month",
		})
	}

	if f, ok := red["gross_margin_compression"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityMedium,
			Title:       "Find out who is squeezing the margins",
			Description: "Gross margin dropped sharply year over year. Check earnings calls for pricing pressure, input cost inflation, or a mix shift toward lower-margin products.",
			Rationale:   f.Description,
			Timeframe:   "Within a month",
		})
	} else if f, ok := red["margin_compression_trend"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityMedium,
			Title:       "Understand the multi-year margin slide",
			Description: "Gross margin has declined for several consecutive years. Determine whether this is competitive erosion or a deliberate strategy shift.",
			Rationale:   f.Description,
			Timeframe:   "Within a month",
		})
	}

	if f, ok := red["receivables_outpacing_revenue"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityMedium,
			Title:       "Watch collections next quarter",
			Description: "Unpaid customer invoices are growing faster than sales. If the gap widens again next quarter, revenue quality is deteriorating.",
			Rationale:   f.Description,
			Timeframe:   "Next quarterly report",
		})
	}
	if f, ok := red["inventory_buildup"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityMedium,
			Title:       "Watch for inventory write-downs",
			Description: "Inventory is growing much faster than sales. Piles of unsold product often end in discounts or write-offs; watch gross margin next quarter.",
			Rationale:   f.Description,
			Timeframe:   "Next quarterly report",
		})
	}

	if f, ok := red["unsustainable_dividend"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeAction,
			Priority:    PriorityHigh,
			Title:       "Do not count on the dividend",
			Description: "The dividend costs more than the company generates in free cash. Assume a cut is possible and do not buy this stock for the yield alone.",
			Rationale:   f.Description,
			Timeframe:   "Before your next trade",
		})
	}

	if dir["Revenue"] == trends.DirectionDeteriorating {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityHigh,
			Title:       "Find out why sales are shrinking",
			Description: "Revenue has been trending down across recent years. Determine whether the company is losing customers, exiting businesses, or facing a shrinking market.",
			Rationale:   "The multi-year revenue trend is deteriorating.",
			Timeframe:   "Within a week",
		})
	}

	return recs
}

func opportunityRecs(hs *health.HealthScore, green map[string]flags.Flag) []Recommendation {
	var recs []Recommendation

	if hs.Overall >= 80 {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityMedium,
			Title:       "Check the price before celebrating",
			Description: "The business looks excellent, but quality is often expensive. Compare the valuation against peers before buying; a great company at a bad price is a bad investment.",
			Rationale:   fmt.Sprintf("Composite health score of %d signals a high-quality business.", hs.Overall),
			Timeframe:   "Before your next trade",
		})
	}
	if f, ok := green["compound_growth_machine"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeInvestigate,
			Priority:    PriorityMedium,
			Title:       "Gauge how long the growth can run",
			Description: "Revenue, profit, and free cash flow are all compounding double digits. Research the market size and competition to judge how many more years this can continue.",
			Rationale:   f.Description,
			Timeframe:   "Within a month",
		})
	}
	if f, ok := green["capital_light_growth"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityLow,
			Title:       "Note the capital-light model",
			Description: "The company grows without heavy reinvestment, which usually means abundant free cash. Watch where management deploys it: buybacks, dividends, or acquisitions.",
			Rationale:   f.Description,
			Timeframe:   "Ongoing",
		})
	}
	if f, ok := green["aggressive_buybacks"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityLow,
			Title:       "Track the buyback pace",
			Description: "The share count is shrinking, which boosts your ownership per share over time. Confirm buybacks continue at sensible prices rather than at peaks.",
			Rationale:   f.Description,
			Timeframe:   "Ongoing",
		})
	}
	if f, ok := green["expanding_margins"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityLow,
			Title:       "Watch whether margin gains stick",
			Description: "Profitability per dollar of sales has been improving. If the expansion holds through the next downturn, it points to durable pricing power.",
			Rationale:   f.Description,
			Timeframe:   "Next annual report",
		})
	}

	return recs
}

func monitoringRecs(hs *health.HealthScore, red, green map[string]flags.Flag, dir map[string]trends.Direction) []Recommendation {
	var recs []Recommendation

	if hs.Overall >= 50 && hs.Overall < 70 {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityMedium,
			Title:       "Re-check the picture each quarter",
			Description: "The company sits in the middle of the pack. Mixed financials can resolve either way, so re-run the numbers when each new quarterly report lands.",
			Rationale:   fmt.Sprintf("Composite health score of %d is middling, neither strong nor distressed.", hs.Overall),
			Timeframe:   "Quarterly",
		})
	}
	if f, ok := red["poor_earnings_quality"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityMedium,
			Title:       "Compare reported profit to cash each quarter",
			Description: "Reported profits are not backed by cash coming in. If the gap persists for several quarters, treat the earnings numbers with suspicion.",
			Rationale:   f.Description,
			Timeframe:   "Quarterly",
		})
	} else if f, ok := red["high_accruals"]; ok {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityLow,
			Title:       "Keep an eye on accounting adjustments",
			Description: "A meaningful slice of profit comes from accounting accruals rather than cash. That is not automatically bad, but it deserves a recurring look.",
			Rationale:   f.Description,
			Timeframe:   "Quarterly",
		})
	}
	if _, fortress := green["fortress_balance_sheet"]; dir["Total Debt"] == trends.DirectionImproving && !fortress {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityLow,
			Title:       "Watch the rising debt load",
			Description: "Total debt has been climbing year over year. Check what the borrowed money funds and whether earnings are growing fast enough to carry it.",
			Rationale:   "The multi-year total debt trend is rising.",
			Timeframe:   "Next annual report",
		})
	}
	if cat, ok := categoryScore(hs, health.CategoryGrowth); ok && cat < 40 {
		recs = append(recs, Recommendation{
			Type:        TypeMonitor,
			Priority:    PriorityLow,
			Title:       "Look for a return to growth",
			Description: "Growth is the weakest part of the story. Watch for new products, markets, or pricing moves that could restart it; without growth, even a sturdy business stagnates.",
			Rationale:   fmt.Sprintf("The growth category scored %d out of 100.", cat),
			Timeframe:   "Ongoing",
		})
	}

	return recs
}

func categoryScore(hs *health.HealthScore, name string) (int, bool) {
	for _, c := range hs.Categories {
		if c.Name == name {
			return c.Score, true
		}
	}
	return 0, false
}
