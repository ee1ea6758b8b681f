package flags

import (
	"fmt"
	"math"

	"finsight/pkg/models"
)

// GreenRule is one independent positive-signal check.
type GreenRule struct {
	ID       string
	Evaluate func(s *models.FinancialStatements) *Flag
}

// GreenAnalyzer folds the positive-signal registry over the statements.
type GreenAnalyzer struct {
	rules []GreenRule
}

func NewGreenAnalyzer() *GreenAnalyzer {
	return &GreenAnalyzer{rules: greenRules()}
}

// Analyze runs every rule and returns triggered flags sorted by strength,
// exceptional first.
func (a *GreenAnalyzer) Analyze(s *models.FinancialStatements) []Flag {
	var out []Flag
	for _, r := range a.rules {
		if f := r.Evaluate(s); f != nil {
			out = append(out, *f)
		}
	}
	sortByStrength(out)
	return out
}

func greenRules() []GreenRule {
	return []GreenRule{
		{"superior_cash_generation", checkSuperiorCashGeneration},
		{"high_fcf_margin", checkHighFCFMargin},
		{"compound_growth_machine", checkCompoundGrowth},
		{"capital_light_growth", checkCapitalLightGrowth},
		{"fortress_balance_sheet", checkFortressBalanceSheet},
		{"conservative_leverage", checkConservativeLeverage},
		{"strong_pricing_power", checkPricingPower},
		{"expanding_margins", checkExpandingMargins},
		{"aggressive_buybacks", checkBuybacks},
		{"sustainable_dividend", checkSustainableDividend},
		{"dividend_growth_streak", checkDividendGrowth},
		{"operating_leverage", checkOperatingLeverage},
		{"high_return_on_equity", checkHighROE},
		{"high_return_on_assets", checkHighROA},
		{"high_return_on_capital", checkHighROIC},
		{"conservative_accounting", checkConservativeAccounting},
	}
}

func checkSuperiorCashGeneration(s *models.FinancialStatements) *Flag {
	ocf, ni, basis := earningsQualityInputs(s)
	if ocf == nil || ni == nil || *ni <= 0 {
		return nil
	}
	ratio := *ocf / *ni
	if ratio <= 1.2 {
		return nil
	}
	return &Flag{
		ID:       "superior_cash_generation",
		Strength: StrengthExceptional,
		Category: "cash_generation",
		Title:    "Cash Outruns Reported Profit",
		Description: fmt.Sprintf("Operating cash flow is %.0f%% of net income (%s basis).",
			ratio*100, basis),
		Explanation: "The business collects more cash than it even reports as profit, the opposite of accounting gimmickry.",
		Formula:     "OCF / Net Income > 1.2",
		Value:       ratio,
		Threshold:   "ratio above 1.2",
		Advice:      "Conservative earnings like these often leave room for positive surprises.",
		Confidence:  confidence("operatingCashFlow", "netIncome"),
	}
}

func checkHighFCFMargin(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	c := s.CashFlow.Latest()
	if i == nil || c == nil {
		return nil
	}
	m := models.Div(c.FCFOrComputed(), i.Revenue)
	if m == nil || *m <= 0.15 {
		return nil
	}
	return &Flag{
		ID:       "high_fcf_margin",
		Strength: StrengthExceptional,
		Category: "cash_generation",
		Title:    "Prolific Free Cash Flow",
		Description: fmt.Sprintf("Free cash flow equals %.1f%% of revenue.",
			*m*100),
		Explanation: "After paying every bill and reinvesting in the business, a large slice of each sales dollar is pure spendable cash.",
		Formula:     "Free Cash Flow / Revenue > 15%",
		Value:       *m * 100,
		Threshold:   "FCF margin above 15%",
		Advice:      "Cash this abundant funds buybacks, dividends and acquisitions without borrowing.",
		Confidence:  confidence("freeCashFlow", "operatingCashFlow", "capitalExpenditures", "revenue"),
	}
}

func checkCompoundGrowth(s *models.FinancialStatements) *Flag {
	revenues := chronologicalValues(s.Income, func(p *models.Period) *float64 { return p.Revenue })
	earnings := chronologicalValues(s.Income, func(p *models.Period) *float64 { return p.NetIncome })
	fcfs := chronologicalValues(s.CashFlow, func(p *models.Period) *float64 { return p.FCFOrComputed() })

	revCAGR := seriesCAGR(lastN(revenues, 4))
	niCAGR := seriesCAGR(lastN(earnings, 4))
	fcfCAGR := seriesCAGR(lastN(fcfs, 4))
	if revCAGR == nil || niCAGR == nil || fcfCAGR == nil {
		return nil
	}
	if *revCAGR <= 0.10 || *niCAGR <= 0.10 || *fcfCAGR <= 0.10 {
		return nil
	}
	return &Flag{
		ID:       "compound_growth_machine",
		Strength: StrengthExceptional,
		Category: "growth",
		Title:    "Compound Growth Machine",
		Description: fmt.Sprintf("Three-year CAGR: revenue %.1f%%, net income %.1f%%, free cash flow %.1f%%.",
			*revCAGR*100, *niCAGR*100, *fcfCAGR*100),
		Explanation: "Sales, profit and cash are all compounding above 10% a year at the same time, the signature of a genuinely growing business.",
		Formula:     "3y CAGR of revenue, net income and FCF each > 10%",
		Value:       *revCAGR * 100,
		Threshold:   "all three CAGRs above 10%",
		Advice:      "Growth across all three measures at once is rare; check how much of it is organic.",
		Confidence:  confidence("revenue", "netIncome", "freeCashFlow"),
	}
}

func checkCapitalLightGrowth(s *models.FinancialStatements) *Flag {
	i0, i1 := s.Income.Latest(), s.Income.Prior()
	c := s.CashFlow.Latest()
	if i0 == nil || i1 == nil || c == nil {
		return nil
	}
	if !models.Has(c.CapitalExpenditures, i0.Revenue) || *i0.Revenue == 0 {
		return nil
	}
	intensity := math.Abs(*c.CapitalExpenditures) / *i0.Revenue * 100
	revGrowth := growthPct(i0.Revenue, i1.Revenue)
	if intensity >= 5 || revGrowth == nil || *revGrowth <= 0 {
		return nil
	}
	return &Flag{
		ID:       "capital_light_growth",
		Strength: StrengthExceptional,
		Category: "capital_efficiency",
		Title:    "Growth Without Heavy Spending",
		Description: fmt.Sprintf("Revenue grew %.1f%% while CapEx consumed only %.1f%% of revenue.",
			*revGrowth, intensity),
		Explanation: "The company grows without pouring money into plants and equipment, so more of each new sales dollar reaches owners.",
		Formula:     "CapEx/Revenue < 5% with positive revenue growth",
		Value:       intensity,
		Threshold:   "intensity below 5% with growth",
		Advice:      "Capital-light models scale well; confirm the moat that keeps competitors out.",
		Confidence:  confidence("capitalExpenditures", "revenue"),
	}
}

func checkFortressBalanceSheet(s *models.FinancialStatements) *Flag {
	b := s.Balance.Latest()
	if b == nil || b.CashAndCashEquivalents == nil {
		return nil
	}
	debt := b.TotalDebt()
	if debt == nil {
		return nil
	}
	netCash := *b.CashAndCashEquivalents - *debt
	cr := currentRatio(b)
	if netCash <= 0 || cr == nil || *cr <= 2 {
		return nil
	}
	return &Flag{
		ID:       "fortress_balance_sheet",
		Strength: StrengthStrong,
		Category: "balance_sheet",
		Title:    "Fortress Balance Sheet",
		Description: fmt.Sprintf("Net cash position of %s with a current ratio of %.2f.",
			money(netCash), *cr),
		Explanation: "More cash than debt and double coverage of near-term bills: this company can survive storms that sink rivals.",
		Formula:     "Cash > Total Debt and Current Ratio > 2",
		Value:       netCash,
		Threshold:   "net cash positive with current ratio above 2",
		Advice:      "Financial strength like this supports opportunistic acquisitions in downturns.",
		Confidence:  confidence("cashAndCashEquivalents", "shortTermDebt", "longTermDebt", "currentAssets", "currentLiabilities"),
	}
}

func checkConservativeLeverage(s *models.FinancialStatements) *Flag {
	b := s.Balance.Latest()
	if b == nil {
		return nil
	}
	de := debtToEquity(b)
	if de == nil || *de >= 0.3 {
		return nil
	}
	return &Flag{
		ID:       "conservative_leverage",
		Strength: StrengthGood,
		Category: "balance_sheet",
		Title:    "Conservative Debt Load",
		Description: fmt.Sprintf("Debt is only %.2fx shareholder equity.",
			*de),
		Explanation: "The company barely relies on borrowed money, leaving plenty of room to maneuver.",
		Formula:     "Debt / Equity < 0.3",
		Value:       *de,
		Threshold:   "debt/equity below 0.3",
		Advice:      "Low leverage means earnings belong to shareholders, not lenders.",
		Confidence:  confidence("shortTermDebt", "longTermDebt", "totalShareholderEquity"),
	}
}

func checkPricingPower(s *models.FinancialStatements) *Flag {
	margins := chronologicalValues(s.Income, grossMarginPct)
	if len(margins) < 3 {
		return nil
	}
	avg := mean(margins)
	vol := stdev(margins)
	if avg <= 40 || vol >= 3 {
		return nil
	}
	return &Flag{
		ID:       "strong_pricing_power",
		Strength: StrengthStrong,
		Category: "pricing_power",
		Title:    "Durable Pricing Power",
		Description: fmt.Sprintf("Gross margin averaged %.1f%% with a standard deviation of only %.1f points.",
			avg, vol),
		Explanation: "Consistently high margins mean customers keep paying premium prices, year in and year out.",
		Formula:     "Average gross margin > 40% with stdev < 3 pts",
		Value:       avg,
		Threshold:   "average above 40%, low volatility",
		Advice:      "Stable high margins are the clearest statement-level evidence of a moat.",
		Confidence:  confidence("grossProfit", "revenue"),
	}
}

func checkExpandingMargins(s *models.FinancialStatements) *Flag {
	margins := chronologicalValues(s.Income, grossMarginPct)
	if len(margins) < 2 {
		return nil
	}
	expansion := margins[len(margins)-1] - margins[0]
	if expansion <= 3 {
		return nil
	}
	return &Flag{
		ID:       "expanding_margins",
		Strength: StrengthGood,
		Category: "pricing_power",
		Title:    "Expanding Gross Margin",
		Description: fmt.Sprintf("Gross margin expanded %.1f points over the period, from %.1f%% to %.1f%%.",
			expansion, margins[0], margins[len(margins)-1]),
		Explanation: "The company keeps more of each sales dollar than it used to, a sign of improving pricing or cost discipline.",
		Formula:     "Gross margin expansion > 3 pts over the period",
		Value:       expansion,
		Threshold:   "expansion above 3 points",
		Advice:      "Margin expansion compounds: the same revenue now produces more profit.",
		Confidence:  confidence("grossProfit", "revenue"),
	}
}

func checkBuybacks(s *models.FinancialStatements) *Flag {
	b0, b2 := s.Balance.Latest(), s.Balance.At(2)
	i := s.Income.Latest()
	c := s.CashFlow.Latest()

	// Preferred evidence: the share count itself shrinking.
	if b0 != nil && b2 != nil && models.Has(b0.SharesOutstanding, b2.SharesOutstanding) && *b2.SharesOutstanding > 0 {
		reduction := (*b2.SharesOutstanding - *b0.SharesOutstanding) / *b2.SharesOutstanding * 100
		if reduction > 5 {
			return &Flag{
				ID:       "aggressive_buybacks",
				Strength: StrengthExceptional,
				Category: "shareholder_returns",
				Title:    "Meaningful Share Count Reduction",
				Description: fmt.Sprintf("Shares outstanding fell %.1f%% over two years.",
					reduction),
				Explanation: "The company retired a real chunk of its own shares, so each remaining share owns more of the business.",
				Formula:     "Share count down > 5% over 2 years",
				Value:       reduction,
				Threshold:   "reduction above 5%",
				Advice:      "Buybacks that actually shrink the count (not just offset dilution) are the ones that pay.",
				Confidence:  confidence("sharesOutstanding"),
			}
		}
	}

	// Fallback evidence: repurchase spend relative to revenue.
	if i == nil || c == nil || !models.Has(c.StockRepurchased, i.Revenue) || *i.Revenue == 0 {
		return nil
	}
	spendPct := math.Abs(*c.StockRepurchased) / *i.Revenue * 100
	if spendPct <= 2 {
		return nil
	}
	strength := StrengthStrong
	if spendPct > 5 {
		strength = StrengthExceptional
	}
	return &Flag{
		ID:       "aggressive_buybacks",
		Strength: strength,
		Category: "shareholder_returns",
		Title:    "Heavy Buyback Program",
		Description: fmt.Sprintf("Share repurchases equal %.1f%% of annual revenue.",
			spendPct),
		Explanation: "A substantial slice of sales is being returned to shareholders by retiring stock.",
		Formula:     "Buybacks / Revenue > 2% (exceptional above 5%)",
		Value:       spendPct,
		Threshold:   "spend above 2% of revenue",
		Advice:      "Check the share count alongside the spend; buybacks should shrink it.",
		Confidence:  confidence("stockRepurchased", "revenue"),
	}
}

func checkSustainableDividend(s *models.FinancialStatements) *Flag {
	c := s.CashFlow.Latest()
	if c == nil || c.DividendsPaid == nil {
		return nil
	}
	dividends := math.Abs(*c.DividendsPaid)
	fcf := c.FCFOrComputed()
	if dividends == 0 || fcf == nil || *fcf <= 0 {
		return nil
	}
	payout := dividends / *fcf * 100
	if payout >= 50 {
		return nil
	}
	return &Flag{
		ID:       "sustainable_dividend",
		Strength: StrengthGood,
		Category: "shareholder_returns",
		Title:    "Well-Covered Dividend",
		Description: fmt.Sprintf("Dividends consume only %.0f%% of free cash flow.",
			payout),
		Explanation: "The dividend takes less than half the leftover cash, leaving a comfortable cushion even in a weak year.",
		Formula:     "Dividends Paid / Free Cash Flow < 50%",
		Value:       payout,
		Threshold:   "payout below 50% of FCF",
		Advice:      "Low payout ratios leave room for dividend growth.",
		Confidence:  confidence("dividendsPaid", "freeCashFlow", "operatingCashFlow", "capitalExpenditures"),
	}
}

func checkDividendGrowth(s *models.FinancialStatements) *Flag {
	dividends := chronologicalValues(s.CashFlow, func(p *models.Period) *float64 {
		if p.DividendsPaid == nil {
			return nil
		}
		v := math.Abs(*p.DividendsPaid)
		return &v
	})
	if len(dividends) < 3 {
		return nil
	}
	last := lastN(dividends, 4)
	for i := 1; i < len(last); i++ {
		if last[i] <= last[i-1] {
			return nil
		}
	}
	growth := 0.0
	if last[0] > 0 {
		growth = (last[len(last)-1] - last[0]) / last[0] * 100
	}
	return &Flag{
		ID:       "dividend_growth_streak",
		Strength: StrengthGood,
		Category: "shareholder_returns",
		Title:    "Consecutive Dividend Increases",
		Description: fmt.Sprintf("Dividends paid rose every year on record, %.0f%% in total over the streak.",
			growth),
		Explanation: "Management has raised the cash paid to shareholders year after year, a signal of confidence in future cash flow.",
		Formula:     "Dividends paid strictly increasing for 3+ consecutive years",
		Value:       growth,
		Threshold:   "3 consecutive annual increases",
		Advice:      "Long raise streaks attract income investors and discipline capital allocation.",
		Confidence:  confidence("dividendsPaid"),
	}
}

func checkOperatingLeverage(s *models.FinancialStatements) *Flag {
	i0, i1 := s.Income.Latest(), s.Income.Prior()
	if i0 == nil || i1 == nil {
		return nil
	}
	revGrowth := growthPct(i0.Revenue, i1.Revenue)
	oiGrowth := growthPct(i0.OperatingIncome, i1.OperatingIncome)
	if revGrowth == nil || oiGrowth == nil {
		return nil
	}
	if *revGrowth <= 5 || *oiGrowth <= 1.5**revGrowth {
		return nil
	}
	return &Flag{
		ID:       "operating_leverage",
		Strength: StrengthStrong,
		Category: "capital_efficiency",
		Title:    "Operating Leverage Kicking In",
		Description: fmt.Sprintf("Operating income grew %.1f%% on revenue growth of %.1f%%.",
			*oiGrowth, *revGrowth),
		Explanation: "Profit is growing much faster than sales because the cost base barely moves as revenue climbs.",
		Formula:     "Operating income growth > 1.5x revenue growth with revenue growth > 5%",
		Value:       *oiGrowth,
		Threshold:   "profit growth above 1.5x sales growth",
		Advice:      "Operating leverage cuts both ways; it will amplify any revenue decline too.",
		Confidence:  confidence("operatingIncome", "revenue"),
	}
}

func checkHighROE(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	b := s.Balance.Latest()
	if i == nil || b == nil || !models.Has(i.NetIncome, b.TotalShareholderEquity) || *b.TotalShareholderEquity <= 0 {
		return nil
	}
	roe := *i.NetIncome / *b.TotalShareholderEquity * 100
	if roe <= 20 {
		return nil
	}
	return &Flag{
		ID:       "high_return_on_equity",
		Strength: StrengthExceptional,
		Category: "returns",
		Title:    "Exceptional Return On Equity",
		Description: fmt.Sprintf("Return on equity of %.1f%%.",
			roe),
		Explanation: "Every $100 shareholders have in the business earns more than $20 a year, roughly double the market norm.",
		Formula:     "Net Income / Shareholder Equity > 20%",
		Value:       roe,
		Threshold:   "ROE above 20%",
		Advice:      "Confirm the high ROE comes from the business, not from extreme leverage.",
		Confidence:  confidence("netIncome", "totalShareholderEquity"),
	}
}

func checkHighROA(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	b := s.Balance.Latest()
	if i == nil || b == nil || !models.Has(i.NetIncome, b.TotalAssets) || *b.TotalAssets <= 0 {
		return nil
	}
	roa := *i.NetIncome / *b.TotalAssets * 100
	if roa <= 10 {
		return nil
	}
	return &Flag{
		ID:       "high_return_on_assets",
		Strength: StrengthExceptional,
		Category: "returns",
		Title:    "Exceptional Return On Assets",
		Description: fmt.Sprintf("Return on assets of %.1f%%.",
			roa),
		Explanation: "The whole asset base earns double-digit returns, which cannot be manufactured with leverage.",
		Formula:     "Net Income / Total Assets > 10%",
		Value:       roa,
		Threshold:   "ROA above 10%",
		Advice:      "High asset returns suggest genuinely productive operations.",
		Confidence:  confidence("netIncome", "totalAssets"),
	}
}

func checkHighROIC(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	b := s.Balance.Latest()
	if i == nil || b == nil || !models.Has(i.OperatingIncome, b.TotalShareholderEquity) {
		return nil
	}
	rate := 0.21
	if models.Has(i.IncomeTaxExpense, i.IncomeBeforeTax) && *i.IncomeBeforeTax > 0 {
		eff := *i.IncomeTaxExpense / *i.IncomeBeforeTax
		if eff >= 0 && eff <= 0.6 {
			rate = eff
		}
	}
	invested := models.Val(b.TotalDebt()) + *b.TotalShareholderEquity - models.Val(b.CashAndCashEquivalents)
	if invested <= 0 {
		return nil
	}
	roic := *i.OperatingIncome * (1 - rate) / invested * 100
	if roic <= 15 {
		return nil
	}
	return &Flag{
		ID:       "high_return_on_capital",
		Strength: StrengthExceptional,
		Category: "returns",
		Title:    "Exceptional Return On Invested Capital",
		Description: fmt.Sprintf("After-tax return on invested capital of %.1f%%.",
			roic),
		Explanation: "The capital actually at work in the business compounds above 15% a year after tax, well above any reasonable cost of capital.",
		Formula:     "NOPAT / (Debt + Equity - Cash) > 15%",
		Value:       roic,
		Threshold:   "ROIC above 15%",
		Advice:      "Sustained ROIC above the cost of capital is where long-term value comes from.",
		Confidence:  confidence("operatingIncome", "incomeTaxExpense", "incomeBeforeTax", "shortTermDebt", "longTermDebt", "totalShareholderEquity", "cashAndCashEquivalents"),
	}
}

func checkConservativeAccounting(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	b := s.Balance.Latest()
	c := s.CashFlow.Latest()
	if i == nil || b == nil || c == nil {
		return nil
	}
	if !models.Has(i.NetIncome, c.OperatingCashFlow, b.TotalAssets) || *b.TotalAssets == 0 {
		return nil
	}
	accrualPct := math.Abs(*i.NetIncome-*c.OperatingCashFlow) / *b.TotalAssets * 100
	if accrualPct >= 2 {
		return nil
	}
	return &Flag{
		ID:       "conservative_accounting",
		Strength: StrengthGood,
		Category: "earnings_quality",
		Title:    "Clean, Cash-Backed Earnings",
		Description: fmt.Sprintf("Accruals amount to only %.1f%% of total assets.",
			accrualPct),
		Explanation: "Reported profit and actual cash are almost identical, leaving little room for accounting games.",
		Formula:     "|Net Income - OCF| / Total Assets < 2%",
		Value:       accrualPct,
		Threshold:   "accruals below 2% of assets",
		Advice:      "Earnings this clean can be taken close to face value.",
		Confidence:  confidence("netIncome", "operatingCashFlow", "totalAssets"),
	}
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
