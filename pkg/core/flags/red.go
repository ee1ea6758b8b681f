package flags

import (
	"fmt"
	"math"

	"finsight/pkg/models"
)

// RedRule is one independent warning-sign check.
type RedRule struct {
	ID       string
	Evaluate func(s *models.FinancialStatements) *Flag
}

// RedAnalyzer folds the warning-sign registry over the statements.
type RedAnalyzer struct {
	rules []RedRule
}

func NewRedAnalyzer() *RedAnalyzer {
	return &RedAnalyzer{rules: redRules()}
}

// Analyze runs every rule and returns the triggered flags sorted by severity,
// critical first. Rules with missing inputs contribute nothing.
func (a *RedAnalyzer) Analyze(s *models.FinancialStatements) []Flag {
	var out []Flag
	for _, r := range a.rules {
		if f := r.Evaluate(s); f != nil {
			out = append(out, *f)
		}
	}
	sortBySeverity(out)
	return out
}

func redRules() []RedRule {
	return []RedRule{
		{"insolvency_risk", checkInsolvency},
		{"liquidity_crisis", checkLiquidityCrisis},
		{"liquidity_warning", checkLiquidityWarning},
		{"cash_burn_with_leverage", checkCashBurnWithLeverage},
		{"unsustainable_debt_service", checkDebtService},
		{"weak_interest_coverage", checkInterestCoverage},
		{"negative_gross_margin", checkNegativeGrossMargin},
		{"gross_margin_compression", checkGrossMarginCompression},
		{"receivables_outpacing_revenue", checkReceivablesQuality},
		{"inventory_buildup", checkInventoryBuildup},
		{"poor_earnings_quality", checkEarningsQuality},
		{"high_accruals", checkAccruals},
		{"dilution_treadmill", checkDilution},
		{"margin_compression_trend", checkMarginCompressionTrend},
		{"unsustainable_dividend", checkDividendCoverage},
		{"rising_capital_intensity", checkCapitalIntensity},
	}
}

func checkInsolvency(s *models.FinancialStatements) *Flag {
	b := s.Balance.Latest()
	if b == nil || !models.Has(b.TotalLiabilities, b.TotalAssets) {
		return nil
	}
	if *b.TotalLiabilities <= *b.TotalAssets {
		return nil
	}
	deficit := *b.TotalLiabilities - *b.TotalAssets
	deficitPct := 0.0
	if *b.TotalAssets != 0 {
		deficitPct = deficit / *b.TotalAssets * 100
	}
	return &Flag{
		ID:       "insolvency_risk",
		Severity: SeverityCritical,
		Category: "solvency",
		Title:    "Liabilities Exceed Assets",
		Description: fmt.Sprintf("Total liabilities of %s exceed total assets of %s, an equity deficit of %s (%.1f%% of assets).",
			money(*b.TotalLiabilities), money(*b.TotalAssets), money(deficit), deficitPct),
		Explanation: "The company owes more than everything it owns is worth. If it had to settle up today, shareholders would be left with nothing.",
		Formula:     "Total Liabilities > Total Assets",
		Value:       deficitPct,
		Threshold:   "liabilities above assets",
		Advice:      "Treat this as a solvency emergency: understand how management plans to rebuild equity before considering the stock.",
		Confidence:  confidence("totalLiabilities", "totalAssets"),
	}
}

func checkLiquidityCrisis(s *models.FinancialStatements) *Flag {
	b := s.Balance.Latest()
	c := s.CashFlow.Latest()
	if b == nil || c == nil || !models.Has(b.CurrentAssets, b.CurrentLiabilities, c.OperatingCashFlow) {
		return nil
	}
	cr := currentRatio(b)
	if cr == nil || *cr >= 1 {
		return nil
	}
	gap := *b.CurrentLiabilities - *b.CurrentAssets
	if *c.OperatingCashFlow >= gap {
		// Operations refill the gap within a year; reported as a poor current
		// ratio by the ratio analyzer, not as a crisis.
		return nil
	}
	return &Flag{
		ID:       "liquidity_crisis",
		Severity: SeverityCritical,
		Category: "liquidity",
		Title:    "Liquidity Crisis",
		Description: fmt.Sprintf("Current ratio is %.2f and operating cash flow of %s cannot cover the %s working-capital shortfall.",
			*cr, money(*c.OperatingCashFlow), money(gap)),
		Explanation: "Bills coming due this year are bigger than the resources available to pay them, and the business is not generating enough cash to close the gap.",
		Formula:     "Current Ratio < 1 and OCF < (Current Liabilities - Current Assets)",
		Value:       *cr,
		Threshold:   "current ratio below 1 with uncovered shortfall",
		Advice:      "Check for upcoming debt maturities and whether the company can raise cash without heavy dilution.",
		Confidence:  confidence("currentAssets", "currentLiabilities", "operatingCashFlow"),
	}
}

func checkLiquidityWarning(s *models.FinancialStatements) *Flag {
	b := s.Balance.Latest()
	if b == nil {
		return nil
	}
	cr := currentRatio(b)
	if cr == nil || *cr < 1 || *cr >= 1.2 {
		return nil
	}
	return &Flag{
		ID:       "liquidity_warning",
		Severity: SeverityMedium,
		Category: "liquidity",
		Title:    "Thin Liquidity Buffer",
		Description: fmt.Sprintf("Current ratio of %.2f leaves little margin above short-term obligations.",
			*cr),
		Explanation: "The company can cover this year's bills, but only just. A bad quarter could force it to borrow.",
		Formula:     "1 <= Current Ratio < 1.2",
		Value:       *cr,
		Threshold:   "current ratio between 1.0 and 1.2",
		Advice:      "Watch the next few quarters for working-capital deterioration.",
		Confidence:  confidence("currentAssets", "currentLiabilities"),
	}
}

func checkCashBurnWithLeverage(s *models.FinancialStatements) *Flag {
	b := s.Balance.Latest()
	c := s.CashFlow.Latest()
	if b == nil || c == nil || c.OperatingCashFlow == nil {
		return nil
	}
	de := debtToEquity(b)
	if *c.OperatingCashFlow >= 0 || de == nil || *de <= 2 {
		return nil
	}
	return &Flag{
		ID:       "cash_burn_with_leverage",
		Severity: SeverityCritical,
		Category: "liquidity",
		Title:    "Burning Cash While Heavily Indebted",
		Description: fmt.Sprintf("Operating cash flow is %s while debt stands at %.1fx equity.",
			money(*c.OperatingCashFlow), *de),
		Explanation: "The business loses cash in day-to-day operations and is already loaded with debt, a combination that can spiral quickly.",
		Formula:     "OCF < 0 and Debt/Equity > 2",
		Value:       *de,
		Threshold:   "negative OCF with debt/equity above 2",
		Advice:      "Verify the cash runway and covenant headroom before anything else.",
		Confidence:  confidence("operatingCashFlow", "shortTermDebt", "longTermDebt", "totalShareholderEquity"),
	}
}

func checkDebtService(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	c := s.CashFlow.Latest()
	if i == nil || c == nil || !models.Has(c.OperatingCashFlow, i.InterestExpense, c.DebtRepayment) {
		return nil
	}
	service := math.Abs(*i.InterestExpense) + math.Abs(*c.DebtRepayment)
	if service == 0 {
		return nil
	}
	ratio := *c.OperatingCashFlow / service
	if ratio >= 1 {
		return nil
	}
	return &Flag{
		ID:       "unsustainable_debt_service",
		Severity: SeverityHigh,
		Category: "leverage",
		Title:    "Cash Flow Below Debt Service",
		Description: fmt.Sprintf("Operating cash flow of %s covers only %.0f%% of the %s owed in interest and principal.",
			money(*c.OperatingCashFlow), ratio*100, money(service)),
		Explanation: "The cash the business produces is not enough to pay this year's loan bills, so it must borrow more or sell assets to keep up.",
		Formula:     "OCF / (Interest + Principal Repayment) < 1",
		Value:       ratio,
		Threshold:   "coverage below 1.0x",
		Advice:      "Look at the debt maturity schedule for a refinancing wall.",
		Confidence:  confidence("operatingCashFlow", "interestExpense", "debtRepayment"),
	}
}

func checkInterestCoverage(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	if i == nil || !models.Has(i.OperatingIncome, i.InterestExpense) || *i.InterestExpense == 0 {
		return nil
	}
	coverage := *i.OperatingIncome / math.Abs(*i.InterestExpense)
	if coverage >= 2 {
		return nil
	}
	return &Flag{
		ID:       "weak_interest_coverage",
		Severity: SeverityMedium,
		Category: "leverage",
		Title:    "Weak Interest Coverage",
		Description: fmt.Sprintf("Operating income covers interest expense only %.1f times.",
			coverage),
		Explanation: "Profit barely covers the interest bill. A modest downturn could leave the company unable to pay lenders from earnings.",
		Formula:     "Operating Income / Interest Expense < 2",
		Value:       coverage,
		Threshold:   "coverage below 2.0x",
		Advice:      "Compare coverage against prior years to see whether the squeeze is new.",
		Confidence:  confidence("operatingIncome", "interestExpense"),
	}
}

func checkNegativeGrossMargin(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	if i == nil {
		return nil
	}
	gm := grossMarginPct(i)
	if gm == nil || *gm >= 0 {
		return nil
	}
	return &Flag{
		ID:       "negative_gross_margin",
		Severity: SeverityCritical,
		Category: "profitability",
		Title:    "Selling Below Cost",
		Description: fmt.Sprintf("Gross margin is %.1f%%: production costs exceed revenue.",
			*gm),
		Explanation: "The company loses money on every unit before paying a single overhead bill. No amount of volume fixes that.",
		Formula:     "Gross Profit / Revenue < 0",
		Value:       *gm,
		Threshold:   "gross margin below 0%",
		Advice:      "Understand whether pricing or input costs are the driver and whether either is fixable.",
		Confidence:  confidence("grossProfit", "revenue"),
	}
}

func checkGrossMarginCompression(s *models.FinancialStatements) *Flag {
	cur, prior := s.Income.Latest(), s.Income.Prior()
	if cur == nil || prior == nil {
		return nil
	}
	cm, pm := grossMarginPct(cur), grossMarginPct(prior)
	if cm == nil || pm == nil {
		return nil
	}
	decline := *pm - *cm
	if decline <= 5 {
		return nil
	}
	return &Flag{
		ID:       "gross_margin_compression",
		Severity: SeverityHigh,
		Category: "profitability",
		Title:    "Sharp Gross Margin Decline",
		Description: fmt.Sprintf("Gross margin fell %.1f points year over year, from %.1f%% to %.1f%%.",
			decline, *pm, *cm),
		Explanation: "The company keeps noticeably less of each sales dollar than a year ago, suggesting pricing pressure or rising costs.",
		Formula:     "Prior Gross Margin - Current Gross Margin > 5 pts",
		Value:       decline,
		Threshold:   "decline above 5 points",
		Advice:      "Read management's explanation for the compression; one-off or structural makes all the difference.",
		Confidence:  confidence("grossProfit", "revenue"),
	}
}

func checkReceivablesQuality(s *models.FinancialStatements) *Flag {
	ib, pb := s.Balance.Latest(), s.Balance.Prior()
	ii, pi := s.Income.Latest(), s.Income.Prior()
	if ib == nil || pb == nil || ii == nil || pi == nil {
		return nil
	}
	recGrowth := growthPct(ib.NetReceivables, pb.NetReceivables)
	revGrowth := growthPct(ii.Revenue, pi.Revenue)
	if recGrowth == nil || revGrowth == nil {
		return nil
	}
	gap := *recGrowth - *revGrowth
	if gap <= 10 {
		return nil
	}
	return &Flag{
		ID:       "receivables_outpacing_revenue",
		Severity: SeverityMedium,
		Category: "earnings_quality",
		Title:    "Receivables Growing Faster Than Sales",
		Description: fmt.Sprintf("Receivables grew %.1f%% against revenue growth of %.1f%%, a gap of %.1f points.",
			*recGrowth, *revGrowth, gap),
		Explanation: "Customers owe proportionally more than sales growth justifies. Companies sometimes book aggressive sales they struggle to collect.",
		Formula:     "Receivables Growth - Revenue Growth > 10 pts",
		Value:       gap,
		Threshold:   "gap above 10 points",
		Advice:      "Check days-sales-outstanding across several years and any change in payment terms.",
		Confidence:  confidence("netReceivables", "revenue"),
	}
}

func checkInventoryBuildup(s *models.FinancialStatements) *Flag {
	ib, pb := s.Balance.Latest(), s.Balance.Prior()
	ii, pi := s.Income.Latest(), s.Income.Prior()
	if ib == nil || pb == nil || ii == nil || pi == nil {
		return nil
	}
	invGrowth := growthPct(ib.Inventory, pb.Inventory)
	revGrowth := growthPct(ii.Revenue, pi.Revenue)
	if invGrowth == nil || revGrowth == nil {
		return nil
	}
	gap := *invGrowth - *revGrowth
	if gap <= 15 {
		return nil
	}
	return &Flag{
		ID:       "inventory_buildup",
		Severity: SeverityMedium,
		Category: "earnings_quality",
		Title:    "Inventory Piling Up",
		Description: fmt.Sprintf("Inventory grew %.1f%% while revenue grew %.1f%%, a gap of %.1f points.",
			*invGrowth, *revGrowth, gap),
		Explanation: "Stock is accumulating faster than it sells, which often precedes markdowns or write-offs.",
		Formula:     "Inventory Growth - Revenue Growth > 15 pts",
		Value:       gap,
		Threshold:   "gap above 15 points",
		Advice:      "Watch the next quarter's gross margin for discounting pressure.",
		Confidence:  confidence("inventory", "revenue"),
	}
}

func checkEarningsQuality(s *models.FinancialStatements) *Flag {
	ocf, ni, basis := earningsQualityInputs(s)
	if ocf == nil || ni == nil || *ni <= 0 {
		return nil
	}
	ratio := *ocf / *ni
	if ratio >= 0.8 {
		return nil
	}
	return &Flag{
		ID:       "poor_earnings_quality",
		Severity: SeverityHigh,
		Category: "earnings_quality",
		Title:    "Profits Not Backed By Cash",
		Description: fmt.Sprintf("Operating cash flow is only %.0f%% of reported net income (%s basis).",
			ratio*100, basis),
		Explanation: "Reported profit is not showing up as real cash in the bank, which can signal aggressive accounting.",
		Formula:     "OCF / Net Income < 0.8",
		Value:       ratio,
		Threshold:   "ratio below 0.8",
		Advice:      "Reconcile net income to operating cash flow in the filing and find where the cash goes.",
		Confidence:  confidence("operatingCashFlow", "netIncome"),
	}
}

func checkAccruals(s *models.FinancialStatements) *Flag {
	i := s.Income.Latest()
	c := s.CashFlow.Latest()
	if i == nil || c == nil || !models.Has(i.NetIncome, c.OperatingCashFlow, c.EndCashPosition) || *c.EndCashPosition == 0 {
		return nil
	}
	accrualPct := math.Abs((*i.NetIncome-*c.OperatingCashFlow) / *c.EndCashPosition) * 100
	if accrualPct <= 10 {
		return nil
	}
	return &Flag{
		ID:       "high_accruals",
		Severity: SeverityMedium,
		Category: "earnings_quality",
		Title:    "Large Accrual Component In Earnings",
		Description: fmt.Sprintf("The gap between net income and operating cash flow equals %.1f%% of the cash position.",
			accrualPct),
		Explanation: "A big slice of earnings exists only on paper as accounting adjustments, not cash.",
		Formula:     "|Net Income - OCF| / End Cash Position x 100 > 10",
		Value:       accrualPct,
		Threshold:   "above 10% of cash position",
		Advice:      "High accruals historically predict weaker future earnings; discount accordingly.",
		Confidence:  confidence("netIncome", "operatingCashFlow", "endCashPosition"),
	}
}

func checkDilution(s *models.FinancialStatements) *Flag {
	b0, b2 := s.Balance.Latest(), s.Balance.At(2)
	i0, i1 := s.Income.Latest(), s.Income.Prior()
	if b0 == nil || b2 == nil || i0 == nil || i1 == nil {
		return nil
	}
	if !models.Has(b0.SharesOutstanding, b2.SharesOutstanding, i0.EPSDiluted, i1.EPSDiluted) {
		return nil
	}
	shareGrowth := annualizedGrowth(*b2.SharesOutstanding, *b0.SharesOutstanding, 2)
	if shareGrowth == nil || *shareGrowth <= 0.05 {
		return nil
	}
	if *i0.EPSDiluted >= *i1.EPSDiluted {
		return nil
	}
	return &Flag{
		ID:       "dilution_treadmill",
		Severity: SeverityHigh,
		Category: "dilution",
		Title:    "Dilution Without Growth",
		Description: fmt.Sprintf("Share count grew %.1f%% per year over two years while diluted EPS fell from %.2f to %.2f.",
			*shareGrowth*100, *i1.EPSDiluted, *i0.EPSDiluted),
		Explanation: "The company keeps printing new shares but each share earns less, so existing owners' slice of the pie shrinks in both directions.",
		Formula:     "2y annualized share growth > 5% and EPS declining",
		Value:       *shareGrowth * 100,
		Threshold:   "share growth above 5%/yr with falling EPS",
		Advice:      "Check stock-compensation expense and whether issuance funds growth or just payroll.",
		Confidence:  confidence("sharesOutstanding", "epsDiluted"),
	}
}

func checkMarginCompressionTrend(s *models.FinancialStatements) *Flag {
	margins := chronologicalValues(s.Income, operatingMarginPct)
	if len(margins) < 4 {
		return nil
	}
	last := margins[len(margins)-4:]
	for i := 1; i < len(last); i++ {
		if last[i] >= last[i-1] {
			return nil
		}
	}
	total := last[0] - last[len(last)-1]
	if total <= 3 {
		return nil
	}
	return &Flag{
		ID:       "margin_compression_trend",
		Severity: SeverityMedium,
		Category: "profitability",
		Title:    "Multi-Year Margin Erosion",
		Description: fmt.Sprintf("Operating margin declined three consecutive years, %.1f points in total (%.1f%% to %.1f%%).",
			total, last[0], last[len(last)-1]),
		Explanation: "Profitability has been sliding for years, not quarters. This looks structural rather than cyclical.",
		Formula:     "Operating margin strictly declining 3 consecutive years, total decline > 3 pts",
		Value:       total,
		Threshold:   "3 straight declines totalling over 3 points",
		Advice:      "Look for a competitive explanation: new entrants, pricing power loss, or cost inflation.",
		Confidence:  confidence("operatingIncome", "revenue"),
	}
}

func checkDividendCoverage(s *models.FinancialStatements) *Flag {
	c := s.CashFlow.Latest()
	if c == nil || c.DividendsPaid == nil {
		return nil
	}
	dividends := math.Abs(*c.DividendsPaid)
	fcf := c.FCFOrComputed()
	if dividends == 0 || fcf == nil || dividends <= *fcf {
		return nil
	}
	payout := math.Inf(1)
	if *fcf > 0 {
		payout = dividends / *fcf * 100
	}
	desc := fmt.Sprintf("Dividends of %s exceed free cash flow of %s", money(dividends), money(*fcf))
	if !math.IsInf(payout, 1) {
		desc += fmt.Sprintf(" (payout ratio %.0f%% of FCF)", payout)
	}
	return &Flag{
		ID:          "unsustainable_dividend",
		Severity:    SeverityHigh,
		Category:    "shareholder_returns",
		Title:       "Dividend Not Covered By Cash",
		Description: desc + ".",
		Explanation: "The company pays shareholders more than it actually has left over, funding the difference with debt or reserves. That cannot last.",
		Formula:     "Dividends Paid > Free Cash Flow",
		Value:       dividends,
		Threshold:   "dividends above free cash flow",
		Advice:      "Assume the dividend could be cut and ask whether the stock still makes sense.",
		Confidence:  confidence("dividendsPaid", "freeCashFlow", "operatingCashFlow", "capitalExpenditures"),
	}
}

func checkCapitalIntensity(s *models.FinancialStatements) *Flag {
	c0, c1 := s.CashFlow.Latest(), s.CashFlow.Prior()
	i0, i1 := s.Income.Latest(), s.Income.Prior()
	if c0 == nil || c1 == nil || i0 == nil || i1 == nil {
		return nil
	}
	if !models.Has(c0.CapitalExpenditures, c1.CapitalExpenditures, i0.Revenue, i1.Revenue) {
		return nil
	}
	if *i0.Revenue == 0 || *i1.Revenue == 0 {
		return nil
	}
	cur := math.Abs(*c0.CapitalExpenditures) / *i0.Revenue * 100
	prior := math.Abs(*c1.CapitalExpenditures) / *i1.Revenue * 100
	rise := cur - prior
	revGrowth := growthPct(i0.Revenue, i1.Revenue)
	if rise <= 2 || revGrowth == nil || *revGrowth >= 10 {
		return nil
	}
	return &Flag{
		ID:       "rising_capital_intensity",
		Severity: SeverityMedium,
		Category: "capital_intensity",
		Title:    "Spending More To Grow Less",
		Description: fmt.Sprintf("CapEx rose from %.1f%% to %.1f%% of revenue while revenue grew only %.1f%%.",
			prior, cur, *revGrowth),
		Explanation: "The company is pouring more money into equipment and infrastructure without the sales growth to show for it.",
		Formula:     "CapEx/Revenue rose > 2 pts YoY with revenue growth < 10%",
		Value:       rise,
		Threshold:   "intensity rise above 2 points",
		Advice:      "Distinguish growth capex from maintenance capex in the capital plan.",
		Confidence:  confidence("capitalExpenditures", "revenue"),
	}
}

// money renders large statement values compactly for descriptions.
func money(v float64) string {
	av := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case av >= 1e12:
		return fmt.Sprintf("%s$%.2fT", sign, av/1e12)
	case av >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, av/1e9)
	case av >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, av/1e6)
	default:
		return fmt.Sprintf("%s$%.2f", sign, av)
	}
}
