package trends

import "fmt"

// inverseMetrics are trajectories where a rising value is a bad sign. The
// direction field stays literal (it describes the raw series); only the
// wording flips.
var inverseMetrics = map[string]bool{
	"Total Debt":         true,
	"Debt to Equity":     true,
	"Shares Outstanding": true,
}

// metricNouns gives each metric a plain-language subject for templating.
var metricNouns = map[string]string{
	"Revenue":             "sales",
	"Net Income":          "profit",
	"EPS (Diluted)":       "earnings per share",
	"Operating Cash Flow": "cash from day-to-day operations",
	"Free Cash Flow":      "leftover cash after reinvestment",
	"Gross Margin":        "the profit kept on each sale",
	"Operating Margin":    "core business profitability",
	"Net Margin":          "bottom-line profitability",
	"Total Debt":          "borrowing",
	"Debt to Equity":      "reliance on debt",
	"ROE":                 "the return earned on shareholder money",
	"Asset Turnover":      "how hard the assets work",
	"Shares Outstanding":  "the number of shares",
	"Dividends Paid":      "cash paid to shareholders",
}

func beginnerInsight(metric string, t TrendAnalysis) string {
	noun, ok := metricNouns[metric]
	if !ok {
		noun = metric // required fallback: never emit an empty insight
	}

	growth := ""
	if t.CAGR != nil {
		growth = fmt.Sprintf(" (about %.1f%% per year", *t.CAGR*100)
		if t.CAGRConfidence == "low" {
			growth += ", based on a short history"
		}
		growth += ")"
	}

	if inverseMetrics[metric] {
		switch t.Direction {
		case DirectionImproving:
			return fmt.Sprintf("%s has been rising%s, which adds risk over time.", capitalize(noun), growth)
		case DirectionDeteriorating:
			return fmt.Sprintf("%s has been coming down, which strengthens the company's position.", capitalize(noun))
		case DirectionVolatile:
			return fmt.Sprintf("%s has swung around a lot, making the risk picture hard to read.", capitalize(noun))
		default:
			return fmt.Sprintf("%s has held steady.", capitalize(noun))
		}
	}

	switch t.Direction {
	case DirectionImproving:
		return fmt.Sprintf("%s has been growing%s, a healthy sign.", capitalize(noun), growth)
	case DirectionDeteriorating:
		return fmt.Sprintf("%s has been shrinking, which deserves attention.", capitalize(noun))
	case DirectionVolatile:
		return fmt.Sprintf("%s has been erratic year to year, so recent results may not repeat.", capitalize(noun))
	default:
		return fmt.Sprintf("%s has been roughly flat%s.", capitalize(noun), growth)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	// Metric nouns are plain ASCII.
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
