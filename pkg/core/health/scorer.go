package health

import (
	"fmt"
	"math"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/ratios"
	"finsight/pkg/core/trends"
)

// Input carries the four analyzer outputs the scorer consumes.
type Input struct {
	Ratios     []ratios.FinancialRatio
	Trends     []trends.TrendAnalysis
	RedFlags   []flags.Flag
	GreenFlags []flags.Flag
}

// Scorer computes the weighted composite.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// category accumulates additive deltas against a neutral baseline and records
// each contribution for the audit trail.
type category struct {
	score   float64
	factors []string
}

func newCategory(baseline float64) *category {
	return &category{score: baseline, factors: []string{fmt.Sprintf("baseline %.0f", baseline)}}
}

func (c *category) add(delta float64, reason string) {
	c.score += delta
	c.factors = append(c.factors, fmt.Sprintf("%+.0f %s", delta, reason))
}

func (c *category) result(name string, weight int) HealthScoreCategory {
	return HealthScoreCategory{
		Name:    name,
		Weight:  weight,
		Score:   int(math.Round(clamp(c.score))),
		Factors: c.factors,
	}
}

// lookups indexes the analyzer outputs for constant-time rule checks.
type lookups struct {
	bands  map[string]ratios.Band
	red    map[string]bool
	green  map[string]bool
	dirs   map[string]trends.Direction
	ratios map[string]ratios.FinancialRatio
}

func index(in Input) lookups {
	l := lookups{
		bands:  map[string]ratios.Band{},
		red:    map[string]bool{},
		green:  map[string]bool{},
		dirs:   map[string]trends.Direction{},
		ratios: map[string]ratios.FinancialRatio{},
	}
	for _, r := range in.Ratios {
		l.bands[r.ID] = r.Interpretation.Band
		l.ratios[r.ID] = r
	}
	for _, f := range in.RedFlags {
		l.red[f.ID] = true
	}
	for _, f := range in.GreenFlags {
		l.green[f.ID] = true
	}
	for _, t := range in.Trends {
		l.dirs[t.Metric] = t.Direction
	}
	return l
}

// bandAdjust applies the standard band-to-delta mapping for one ratio.
func (c *category) bandAdjust(l lookups, id string, excellent, good, poor float64) {
	switch l.bands[id] {
	case ratios.BandExcellent:
		c.add(excellent, id+" in excellent band")
	case ratios.BandGood:
		if good != 0 {
			c.add(good, id+" in good band")
		}
	case ratios.BandPoor:
		c.add(poor, id+" in poor band")
	}
}

// Score produces the composite health score. Deterministic for a fixed input.
func (s *Scorer) Score(in Input) *HealthScore {
	l := index(in)

	prof := scoreProfitability(l)
	growth := scoreGrowth(l)
	stability := scoreStability(l)
	efficiency := scoreEfficiency(l)
	shareholder := scoreShareholderValue(l)

	byName := map[string]*category{
		CategoryProfitability:      prof,
		CategoryGrowth:             growth,
		CategoryFinancialStability: stability,
		CategoryEfficiency:         efficiency,
		CategoryShareholderValue:   shareholder,
	}

	var categories []HealthScoreCategory
	weighted := 0.0
	for _, cw := range categoryWeights {
		res := byName[cw.Name].result(cw.Name, cw.Weight)
		categories = append(categories, res)
		weighted += float64(res.Score) * float64(cw.Weight)
	}
	overall := int(math.Round(clamp(weighted / float64(WeightSum()))))

	hs := &HealthScore{
		Overall:    overall,
		Grade:      Grade(overall),
		Categories: categories,
		Strengths:  strengths(in),
		Weaknesses: weaknesses(in),
	}
	hs.Summary = summaryText(hs, in)
	hs.Interpretation = interpretationText(hs)
	hs.Insights = insights(hs, l)
	return hs
}

func scoreProfitability(l lookups) *category {
	c := newCategory(50)
	c.bandAdjust(l, "return_on_equity", 15, 8, -10)
	c.bandAdjust(l, "net_margin", 10, 5, -10)
	c.bandAdjust(l, "operating_margin", 8, 4, -8)
	c.bandAdjust(l, "return_on_invested_capital", 10, 0, -5)
	if l.red["negative_gross_margin"] {
		c.add(-20, "selling below cost")
	}
	if l.red["gross_margin_compression"] {
		c.add(-8, "sharp gross margin decline")
	}
	if l.red["margin_compression_trend"] {
		c.add(-6, "multi-year margin erosion")
	}
	if l.green["strong_pricing_power"] {
		c.add(8, "durable pricing power")
	}
	if l.green["expanding_margins"] {
		c.add(5, "expanding gross margin")
	}
	switch l.dirs["Net Margin"] {
	case trends.DirectionImproving:
		c.add(5, "net margin trending up")
	case trends.DirectionDeteriorating:
		c.add(-5, "net margin trending down")
	}
	return c
}

func scoreGrowth(l lookups) *category {
	c := newCategory(50)
	switch l.dirs["Revenue"] {
	case trends.DirectionImproving:
		c.add(15, "revenue trending up")
	case trends.DirectionDeteriorating:
		c.add(-15, "revenue trending down")
	case trends.DirectionVolatile:
		c.add(-5, "revenue volatile")
	}
	switch l.dirs["Net Income"] {
	case trends.DirectionImproving:
		c.add(10, "earnings trending up")
	case trends.DirectionDeteriorating:
		c.add(-10, "earnings trending down")
	}
	switch l.dirs["EPS (Diluted)"] {
	case trends.DirectionImproving:
		c.add(5, "EPS trending up")
	case trends.DirectionDeteriorating:
		c.add(-5, "EPS trending down")
	}
	if l.green["compound_growth_machine"] {
		c.add(20, "compounding revenue, earnings and cash")
	}
	if l.green["operating_leverage"] {
		c.add(8, "operating leverage")
	}
	if l.green["capital_light_growth"] {
		c.add(5, "capital-light growth")
	}
	return c
}

func scoreStability(l lookups) *category {
	c := newCategory(75)
	if l.red["insolvency_risk"] {
		c.add(-40, "liabilities exceed assets")
	}
	if l.red["liquidity_crisis"] {
		c.add(-30, "uncovered working-capital shortfall")
	}
	if l.red["cash_burn_with_leverage"] {
		c.add(-25, "burning cash while leveraged")
	}
	if l.red["unsustainable_debt_service"] {
		c.add(-15, "cash flow below debt service")
	}
	if l.red["weak_interest_coverage"] {
		c.add(-10, "weak interest coverage")
	}
	if l.red["liquidity_warning"] {
		c.add(-5, "thin liquidity buffer")
	}
	c.bandAdjust(l, "current_ratio", 5, 0, -10)
	c.bandAdjust(l, "debt_to_equity", 5, 0, -10)
	if l.green["fortress_balance_sheet"] {
		c.add(10, "net cash fortress balance sheet")
	}
	if l.green["conservative_leverage"] {
		c.add(5, "conservative debt load")
	}
	// Total Debt direction is literal: a rising series reads "improving".
	switch l.dirs["Total Debt"] {
	case trends.DirectionImproving:
		c.add(-5, "debt load rising")
	case trends.DirectionDeteriorating:
		c.add(5, "debt load falling")
	}
	return c
}

func scoreEfficiency(l lookups) *category {
	c := newCategory(50)
	c.bandAdjust(l, "asset_turnover", 15, 8, -10)
	c.bandAdjust(l, "inventory_turnover", 8, 0, -8)
	c.bandAdjust(l, "receivables_turnover", 7, 0, -7)
	if l.red["receivables_outpacing_revenue"] {
		c.add(-8, "receivables outpacing sales")
	}
	if l.red["inventory_buildup"] {
		c.add(-8, "inventory piling up")
	}
	if l.red["rising_capital_intensity"] {
		c.add(-5, "rising capital intensity")
	}
	if l.green["capital_light_growth"] {
		c.add(8, "capital-light growth")
	}
	switch l.dirs["Asset Turnover"] {
	case trends.DirectionImproving:
		c.add(5, "asset productivity improving")
	case trends.DirectionDeteriorating:
		c.add(-5, "asset productivity declining")
	}
	return c
}

func scoreShareholderValue(l lookups) *category {
	c := newCategory(50)
	if l.red["unsustainable_dividend"] {
		c.add(-15, "dividend not covered by cash")
	}
	if l.red["dilution_treadmill"] {
		c.add(-15, "dilution without growth")
	}
	if l.green["aggressive_buybacks"] {
		c.add(15, "meaningful buybacks")
	}
	if l.green["sustainable_dividend"] {
		c.add(10, "well-covered dividend")
	}
	if l.green["dividend_growth_streak"] {
		c.add(8, "consecutive dividend raises")
	}
	if l.green["high_fcf_margin"] {
		c.add(10, "prolific free cash flow")
	}
	if l.green["superior_cash_generation"] {
		c.add(5, "cash outruns reported profit")
	}
	// Shares Outstanding direction is literal: a shrinking count reads
	// "deteriorating" and is the good case here.
	switch l.dirs["Shares Outstanding"] {
	case trends.DirectionDeteriorating:
		c.add(8, "share count shrinking")
	case trends.DirectionImproving:
		c.add(-8, "share count growing")
	}
	if l.dirs["EPS (Diluted)"] == trends.DirectionImproving {
		c.add(5, "per-share earnings rising")
	}
	return c
}

// strengths picks the top three positives: exceptional green flags first,
// then excellent ratios, then improving trends.
func strengths(in Input) []string {
	var out []string
	for _, f := range in.GreenFlags {
		if f.Strength == flags.StrengthExceptional && len(out) < 3 {
			out = append(out, f.Title)
		}
	}
	for _, r := range in.Ratios {
		if r.Interpretation.Band == ratios.BandExcellent && len(out) < 3 {
			out = append(out, r.Name+" in the excellent range")
		}
	}
	for _, t := range in.Trends {
		if t.Direction == trends.DirectionImproving && len(out) < 3 {
			out = append(out, t.Metric+" trending up")
		}
	}
	return out
}

// weaknesses mirrors strengths: critical/high red flags, then poor ratios,
// then deteriorating trends.
func weaknesses(in Input) []string {
	var out []string
	for _, f := range in.RedFlags {
		if (f.Severity == flags.SeverityCritical || f.Severity == flags.SeverityHigh) && len(out) < 3 {
			out = append(out, f.Title)
		}
	}
	for _, r := range in.Ratios {
		if r.Interpretation.Band == ratios.BandPoor && len(out) < 3 {
			out = append(out, r.Name+" in the poor range")
		}
	}
	for _, t := range in.Trends {
		if t.Direction == trends.DirectionDeteriorating && len(out) < 3 {
			out = append(out, t.Metric+" trending down")
		}
	}
	return out
}

func summaryText(hs *HealthScore, in Input) string {
	critical := 0
	for _, f := range in.RedFlags {
		if f.Severity == flags.SeverityCritical {
			critical++
		}
	}
	exceptional := 0
	for _, f := range in.GreenFlags {
		if f.Strength == flags.StrengthExceptional {
			exceptional++
		}
	}
	return fmt.Sprintf("Overall financial health score of %d/100 (grade %s) across %d warning signs (%d critical) and %d positive signals (%d exceptional).",
		hs.Overall, hs.Grade, len(in.RedFlags), critical, len(in.GreenFlags), exceptional)
}

func interpretationText(hs *HealthScore) string {
	best, worst := hs.Categories[0], hs.Categories[0]
	for _, c := range hs.Categories {
		if c.Score > best.Score {
			best = c
		}
		if c.Score < worst.Score {
			worst = c
		}
	}
	tier := "in serious financial trouble"
	switch {
	case hs.Overall >= 80:
		tier = "financially very healthy"
	case hs.Overall >= 65:
		tier = "in solid financial shape"
	case hs.Overall >= 50:
		tier = "financially adequate but uneven"
	}
	return fmt.Sprintf("This company is %s. Its strongest area is %s (%d/100) and its weakest is %s (%d/100).",
		tier, best.Name, best.Score, worst.Name, worst.Score)
}

// insights emits actionable template strings gated by score and specific
// signal presence, capped at five.
func insights(hs *HealthScore, l lookups) []string {
	var out []string
	add := func(s string) {
		if len(out) < 5 {
			out = append(out, s)
		}
	}
	if l.red["insolvency_risk"] || l.red["liquidity_crisis"] {
		add("Resolve the solvency question first: read the going-concern and liquidity disclosures in the latest filing.")
	}
	if hs.Overall < 50 {
		add("The composite score sits in failing territory; treat this as a speculative situation, not an investment.")
	}
	if l.red["poor_earnings_quality"] || l.red["high_accruals"] {
		add("Reported earnings are running ahead of cash; reconcile net income to operating cash flow before trusting the P&L.")
	}
	if l.green["compound_growth_machine"] {
		add("Revenue, earnings and cash are compounding together; focus diligence on how long the growth runway lasts.")
	}
	if l.red["weak_interest_coverage"] || l.red["unsustainable_debt_service"] {
		add("Debt service is tight; map the maturity schedule against projected cash flow.")
	}
	if hs.Overall >= 80 {
		add("Fundamentals are strong; the bigger risk from here is the price paid, not the business.")
	}
	if len(out) == 0 {
		add("No single issue dominates; weigh the category scores against your own priorities.")
	}
	return out
}
