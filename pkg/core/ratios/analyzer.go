package ratios

import (
	"fmt"
	"math"

	"finsight/pkg/models"
)

// DefaultTaxRate is the statutory fallback used for NOPAT when the effective
// tax rate cannot be determined from the statements. Configurable via the
// Analyzer, not a hardwired constant in the formula.
const DefaultTaxRate = 0.21

// Analyzer computes the full ratio suite for one company.
type Analyzer struct {
	taxRate float64
}

// NewAnalyzer builds a ratio analyzer. A non-positive defaultTaxRate falls
// back to the US statutory 21%.
func NewAnalyzer(defaultTaxRate float64) *Analyzer {
	if defaultTaxRate <= 0 || defaultTaxRate >= 1 {
		defaultTaxRate = DefaultTaxRate
	}
	return &Analyzer{taxRate: defaultTaxRate}
}

// Analyze returns the ratio list in category insertion order:
// liquidity, profitability, efficiency, leverage, cash flow.
func (a *Analyzer) Analyze(s *models.FinancialStatements) []FinancialRatio {
	var out []FinancialRatio

	li := s.Income.Latest()
	lb := s.Balance.Latest()
	pb := s.Balance.Prior()
	lc := s.CashFlow.Latest()
	if li == nil || lb == nil || lc == nil {
		return out
	}

	add := func(id, name, category, formula, desc string, value *float64, bm Benchmark, sentence func(v float64) string) {
		if value == nil {
			return
		}
		band := bm.Classify(*value)
		out = append(out, FinancialRatio{
			ID:       id,
			Name:     name,
			Category: category,
			Value:    value,
			Formula:  formula,
			Description: desc,
			Interpretation: Interpretation{
				Band:        band,
				Explanation: sentence(*value) + " " + bm.table(),
			},
		})
	}

	// --- Liquidity ---

	add("current_ratio", "Current Ratio", CategoryLiquidity,
		"Current Assets / Current Liabilities",
		"Ability to cover short-term obligations with short-term assets.",
		models.Div(lb.CurrentAssets, lb.CurrentLiabilities),
		Benchmark{Excellent: 2, Good: 1.5, Fair: 1},
		func(v float64) string {
			return fmt.Sprintf("The company has $%.2f of short-term assets for every $1 of bills due within a year.", v)
		})

	var quick *float64
	if models.Has(lb.CashAndCashEquivalents, lb.NetReceivables) {
		q := models.Val(lb.CashAndCashEquivalents) + models.Val(lb.NetReceivables)
		quick = models.Div(&q, lb.CurrentLiabilities)
	}
	add("quick_ratio", "Quick Ratio", CategoryLiquidity,
		"(Cash + Receivables) / Current Liabilities",
		"Liquidity excluding inventory, which may be slow to convert to cash.",
		quick,
		Benchmark{Excellent: 1.5, Good: 1, Fair: 0.8},
		func(v float64) string {
			return fmt.Sprintf("Counting only cash and money owed by customers, the company covers %.0f%% of its near-term bills.", v*100)
		})

	add("cash_ratio", "Cash Ratio", CategoryLiquidity,
		"Cash & Equivalents / Current Liabilities",
		"The most conservative liquidity measure: cash on hand versus bills due.",
		models.Div(lb.CashAndCashEquivalents, lb.CurrentLiabilities),
		Benchmark{Excellent: 1, Good: 0.5, Fair: 0.25},
		func(v float64) string {
			return fmt.Sprintf("Cash alone covers %.0f%% of obligations due within a year.", v*100)
		})

	var wcCoverage *float64
	if models.Has(lb.CurrentAssets, lb.CurrentLiabilities, lc.OperatingCashFlow) {
		wc := *lb.CurrentAssets - *lb.CurrentLiabilities
		if wc > 0 {
			wcCoverage = models.Div(lc.OperatingCashFlow, &wc)
		}
	}
	add("working_capital_coverage", "Working Capital Coverage", CategoryLiquidity,
		"Operating Cash Flow / (Current Assets - Current Liabilities)",
		"How many times a year operations refill the working-capital buffer.",
		wcCoverage,
		Benchmark{Excellent: 1, Good: 0.5, Fair: 0.25},
		func(v float64) string {
			return fmt.Sprintf("Operations regenerate the working-capital cushion %.1f times per year.", v)
		})

	// --- Profitability ---
	// Margins are expressed in percent. ROE and ROA use two-period average
	// denominators when a prior balance sheet exists.

	add("gross_margin", "Gross Margin", CategoryProfitability,
		"Gross Profit / Revenue x 100",
		"Share of each sales dollar left after direct production costs.",
		pct(models.Div(li.GrossProfit, li.Revenue)),
		Benchmark{Excellent: 40, Good: 30, Fair: 20},
		func(v float64) string {
			return fmt.Sprintf("For every $100 of sales, $%.0f is left after making the product.", v)
		})

	add("operating_margin", "Operating Margin", CategoryProfitability,
		"Operating Income / Revenue x 100",
		"Profitability of the core business before interest and taxes.",
		pct(models.Div(li.OperatingIncome, li.Revenue)),
		Benchmark{Excellent: 20, Good: 12, Fair: 6},
		func(v float64) string {
			return fmt.Sprintf("The core business keeps $%.1f of every $100 in sales as operating profit.", v)
		})

	add("net_margin", "Net Margin", CategoryProfitability,
		"Net Income / Revenue x 100",
		"Bottom-line profit per sales dollar after everything.",
		pct(models.Div(li.NetIncome, li.Revenue)),
		Benchmark{Excellent: 15, Good: 8, Fair: 4},
		func(v float64) string {
			return fmt.Sprintf("After all costs, taxes and interest, $%.1f of every $100 in sales becomes profit.", v)
		})

	avgEquity := averagePositive(lb.TotalShareholderEquity, equityOf(pb))
	add("return_on_equity", "Return on Equity", CategoryProfitability,
		"Net Income / Average Shareholder Equity x 100",
		"Profit generated per dollar shareholders have invested.",
		pct(models.Div(li.NetIncome, avgEquity)),
		Benchmark{Excellent: 20, Good: 15, Fair: 8},
		func(v float64) string {
			return fmt.Sprintf("Every $100 of shareholder money produced $%.1f of profit this year.", v)
		})

	avgAssets := averagePositive(lb.TotalAssets, assetsOf(pb))
	add("return_on_assets", "Return on Assets", CategoryProfitability,
		"Net Income / Average Total Assets x 100",
		"How productively the whole asset base generates profit.",
		pct(models.Div(li.NetIncome, avgAssets)),
		Benchmark{Excellent: 10, Good: 6, Fair: 3},
		func(v float64) string {
			return fmt.Sprintf("Each $100 of assets earned $%.1f of profit.", v)
		})

	add("return_on_invested_capital", "Return on Invested Capital", CategoryProfitability,
		"NOPAT / (Total Debt + Equity - Cash) x 100",
		"After-tax operating return on the capital actually deployed in the business.",
		pct(a.roic(li, lb)),
		Benchmark{Excellent: 15, Good: 10, Fair: 5},
		func(v float64) string {
			return fmt.Sprintf("The business earns %.1f%% after tax on the capital invested in it.", v)
		})

	// --- Efficiency ---

	add("asset_turnover", "Asset Turnover", CategoryEfficiency,
		"Revenue / Average Total Assets",
		"Sales generated per dollar of assets.",
		models.Div(li.Revenue, avgAssets),
		Benchmark{Excellent: 1.0, Good: 0.7, Fair: 0.4},
		func(v float64) string {
			return fmt.Sprintf("Every $1 of assets produces $%.2f of yearly sales.", v)
		})

	var invTurnover *float64
	if models.Has(li.Revenue, li.GrossProfit, lb.Inventory) {
		cogs := *li.Revenue - *li.GrossProfit
		avgInv := averagePositive(lb.Inventory, inventoryOf(pb))
		invTurnover = models.Div(&cogs, avgInv)
	}
	add("inventory_turnover", "Inventory Turnover", CategoryEfficiency,
		"Cost of Goods Sold / Average Inventory",
		"How many times a year the company sells through its inventory.",
		invTurnover,
		Benchmark{Excellent: 8, Good: 5, Fair: 3},
		func(v float64) string {
			days := 0.0
			if v != 0 {
				days = 365 / v
			}
			return fmt.Sprintf("Inventory turns over %.1f times a year, roughly every %.0f days.", v, days)
		})

	avgRec := averagePositive(lb.NetReceivables, receivablesOf(pb))
	add("receivables_turnover", "Receivables Turnover", CategoryEfficiency,
		"Revenue / Average Net Receivables",
		"How quickly customers pay their bills.",
		models.Div(li.Revenue, avgRec),
		Benchmark{Excellent: 10, Good: 7, Fair: 5},
		func(v float64) string {
			days := 0.0
			if v != 0 {
				days = 365 / v
			}
			return fmt.Sprintf("Customers pay about %.1f times a year, a collection cycle of roughly %.0f days.", v, days)
		})

	// --- Leverage --- (lower is better throughout)

	totalDebt := lb.TotalDebt()
	add("debt_to_equity", "Debt to Equity", CategoryLeverage,
		"Total Debt / Shareholder Equity",
		"Borrowed money relative to owner money.",
		models.Div(totalDebt, positive(lb.TotalShareholderEquity)),
		Benchmark{Excellent: 0.3, Good: 1.0, Fair: 2.0, LowerIsBetter: true},
		func(v float64) string {
			return fmt.Sprintf("The company carries $%.2f of debt for every $1 of shareholder equity.", v)
		})

	add("debt_to_assets", "Debt to Assets", CategoryLeverage,
		"Total Debt / Total Assets",
		"Share of the asset base financed by borrowing.",
		models.Div(totalDebt, lb.TotalAssets),
		Benchmark{Excellent: 0.2, Good: 0.4, Fair: 0.6, LowerIsBetter: true},
		func(v float64) string {
			return fmt.Sprintf("%.0f%% of everything the company owns was paid for with borrowed money.", v*100)
		})

	var coverage *float64
	if models.Has(li.OperatingIncome, li.InterestExpense) && *li.InterestExpense != 0 {
		ie := math.Abs(*li.InterestExpense)
		coverage = models.Div(li.OperatingIncome, &ie)
	}
	add("interest_coverage", "Interest Coverage", CategoryLeverage,
		"Operating Income / Interest Expense",
		"How many times operating profit covers the annual interest bill.",
		coverage,
		Benchmark{Excellent: 10, Good: 5, Fair: 2},
		func(v float64) string {
			return fmt.Sprintf("Operating profit covers the interest bill %.1f times over.", v)
		})

	add("equity_multiplier", "Equity Multiplier", CategoryLeverage,
		"Total Assets / Shareholder Equity",
		"Total leverage: how much of the asset base rests on each equity dollar.",
		models.Div(lb.TotalAssets, positive(lb.TotalShareholderEquity)),
		Benchmark{Excellent: 1.5, Good: 2.5, Fair: 4, LowerIsBetter: true},
		func(v float64) string {
			return fmt.Sprintf("Each $1 of equity supports $%.2f of assets.", v)
		})

	// --- Cash flow ---

	add("operating_cash_flow_ratio", "Operating Cash Flow Ratio", CategoryCashFlow,
		"Operating Cash Flow / Current Liabilities",
		"Whether a year of operating cash covers bills due within a year.",
		models.Div(lc.OperatingCashFlow, lb.CurrentLiabilities),
		Benchmark{Excellent: 1, Good: 0.5, Fair: 0.25},
		func(v float64) string {
			return fmt.Sprintf("One year of cash from operations pays %.0f%% of the bills due within a year.", v*100)
		})

	add("fcf_margin", "Free Cash Flow Margin", CategoryCashFlow,
		"Free Cash Flow / Revenue x 100",
		"Cash left after reinvestment, per sales dollar.",
		pct(models.Div(lc.FCFOrComputed(), li.Revenue)),
		Benchmark{Excellent: 15, Good: 10, Fair: 5},
		func(v float64) string {
			return fmt.Sprintf("$%.1f of every $100 in sales turns into spendable cash after reinvestment.", v)
		})

	var quality *float64
	if models.Has(lc.OperatingCashFlow, li.NetIncome) && *li.NetIncome > 0 {
		quality = models.Div(lc.OperatingCashFlow, li.NetIncome)
	}
	add("ocf_to_net_income", "Cash Conversion", CategoryCashFlow,
		"Operating Cash Flow / Net Income",
		"Earnings-quality check: reported profit should show up as cash.",
		quality,
		Benchmark{Excellent: 1.2, Good: 1.0, Fair: 0.8},
		func(v float64) string {
			return fmt.Sprintf("Each $1 of reported profit produced $%.2f of actual cash.", v)
		})

	return out
}

// roic computes NOPAT / invested capital. The effective tax rate comes from
// the statements when determinable (tax expense over positive pre-tax income,
// bounded to a sane range), otherwise the configured default applies. Missing
// debt and cash lines fall back to zero: invested capital degrades to equity.
func (a *Analyzer) roic(li, lb *models.Period) *float64 {
	if !models.Has(li.OperatingIncome, lb.TotalShareholderEquity) {
		return nil
	}
	rate := a.taxRate
	if models.Has(li.IncomeTaxExpense, li.IncomeBeforeTax) && *li.IncomeBeforeTax > 0 {
		eff := *li.IncomeTaxExpense / *li.IncomeBeforeTax
		if eff >= 0 && eff <= 0.6 {
			rate = eff
		}
	}
	nopat := *li.OperatingIncome * (1 - rate)
	invested := models.Val(lb.TotalDebt()) + *lb.TotalShareholderEquity - models.Val(lb.CashAndCashEquivalents)
	if invested <= 0 {
		return nil
	}
	v := nopat / invested
	return &v
}

func pct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}

// averagePositive returns the mean of current and prior when both are present,
// the current value when only it exists, and nil when the result would be
// non-positive (a negative-equity denominator makes the ratio meaningless).
func averagePositive(current, prior *float64) *float64 {
	if current == nil {
		return nil
	}
	v := *current
	if prior != nil {
		v = (v + *prior) / 2
	}
	if v <= 0 {
		return nil
	}
	return &v
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func equityOf(p *models.Period) *float64 {
	if p == nil {
		return nil
	}
	return p.TotalShareholderEquity
}

func assetsOf(p *models.Period) *float64 {
	if p == nil {
		return nil
	}
	return p.TotalAssets
}

func inventoryOf(p *models.Period) *float64 {
	if p == nil {
		return nil
	}
	return p.Inventory
}

func receivablesOf(p *models.Period) *float64 {
	if p == nil {
		return nil
	}
	return p.NetReceivables
}
