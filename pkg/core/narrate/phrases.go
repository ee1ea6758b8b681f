package narrate

import (
	"fmt"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/ratios"
	"finsight/pkg/core/trends"
)

// Phrase tables for the beginner strengths/concerns lists. Lookup order is
// flags, then ratios, then trends; every branch has a generic fallback so an
// unmapped id still reads as a sentence.

var greenPhrases = map[string]string{
	"superior_cash_generation":  "It collects more cash than it even reports as profit",
	"high_fcf_margin":           "It turns a big slice of every sale into spendable cash",
	"compound_growth_machine":   "Sales, profit and cash are all compounding at the same time",
	"capital_light_growth":      "It grows without pouring money into heavy equipment",
	"fortress_balance_sheet":    "It holds more cash than debt",
	"conservative_leverage":     "It barely relies on borrowed money",
	"strong_pricing_power":      "Customers keep paying premium prices year after year",
	"expanding_margins":         "It keeps more of each sales dollar than it used to",
	"aggressive_buybacks":       "It is steadily buying back its own shares",
	"sustainable_dividend":      "Its dividend is comfortably covered by cash",
	"dividend_growth_streak":    "It has raised its dividend year after year",
	"operating_leverage":        "Profit grows much faster than sales",
	"high_return_on_equity":     "Shareholder money earns an unusually high return",
	"high_return_on_assets":     "Its assets are unusually productive",
	"high_return_on_capital":    "The capital in the business compounds at a high rate",
	"conservative_accounting":   "Its reported profits are backed almost entirely by cash",
}

var redPhrases = map[string]string{
	"insolvency_risk":               "It owes more than everything it owns is worth",
	"liquidity_crisis":              "It may not be able to pay this year's bills",
	"liquidity_warning":             "It can cover this year's bills, but only just",
	"cash_burn_with_leverage":       "It is losing cash while already deep in debt",
	"unsustainable_debt_service":    "Its cash flow does not cover its loan payments",
	"weak_interest_coverage":        "Profit barely covers the interest bill",
	"negative_gross_margin":         "It loses money on every unit it sells",
	"gross_margin_compression":      "It keeps much less of each sale than a year ago",
	"receivables_outpacing_revenue": "Customers owe it more than its sales growth justifies",
	"inventory_buildup":             "Unsold stock is piling up",
	"poor_earnings_quality":         "Its reported profit is not turning into real cash",
	"high_accruals":                 "A big slice of its earnings exists only on paper",
	"dilution_treadmill":            "It keeps issuing shares while each share earns less",
	"margin_compression_trend":      "Its profitability has been sliding for years",
	"unsustainable_dividend":        "It pays out more in dividends than it can afford",
	"rising_capital_intensity":      "It spends ever more to achieve the same growth",
}

var ratioPhrases = map[string]string{
	"current_ratio":              "its short-term bill coverage",
	"quick_ratio":                "its quick access to cash",
	"cash_ratio":                 "its raw cash cushion",
	"working_capital_coverage":   "how fast operations refill its buffers",
	"gross_margin":               "the profit kept on each sale",
	"operating_margin":           "its core business profitability",
	"net_margin":                 "its bottom-line profitability",
	"return_on_equity":           "the return on shareholder money",
	"return_on_assets":           "the productivity of its assets",
	"return_on_invested_capital": "the return on capital at work",
	"asset_turnover":             "how hard its assets work",
	"inventory_turnover":         "how fast it sells through stock",
	"receivables_turnover":       "how quickly customers pay",
	"debt_to_equity":             "its reliance on debt",
	"debt_to_assets":             "how much of it is financed by borrowing",
	"interest_coverage":          "its ability to pay interest from profit",
	"equity_multiplier":          "its overall leverage",
	"operating_cash_flow_ratio":  "cash coverage of near-term bills",
	"fcf_margin":                 "cash left over after reinvestment",
	"ocf_to_net_income":          "how well profit converts to cash",
}

func greenPhrase(f flags.Flag) string {
	if p, ok := greenPhrases[f.ID]; ok {
		return p
	}
	return fmt.Sprintf("It shows a positive signal: %s", f.Title)
}

func redPhrase(f flags.Flag) string {
	if p, ok := redPhrases[f.ID]; ok {
		return p
	}
	return fmt.Sprintf("It shows a warning sign: %s", f.Title)
}

func ratioStrengthPhrase(r ratios.FinancialRatio) string {
	if p, ok := ratioPhrases[r.ID]; ok {
		return fmt.Sprintf("It scores excellent on %s", p)
	}
	return fmt.Sprintf("It scores excellent on %s", r.Name)
}

func ratioConcernPhrase(r ratios.FinancialRatio) string {
	if p, ok := ratioPhrases[r.ID]; ok {
		return fmt.Sprintf("It scores poorly on %s", p)
	}
	return fmt.Sprintf("It scores poorly on %s", r.Name)
}

func trendStrengthPhrase(t trends.TrendAnalysis) string {
	return fmt.Sprintf("%s has been moving the right way", t.Metric)
}

func trendConcernPhrase(t trends.TrendAnalysis) string {
	return fmt.Sprintf("%s has been moving the wrong way", t.Metric)
}
