// Package ratios computes banded liquidity, profitability, efficiency,
// leverage and cash-flow ratios from normalized statements. Every formula
// guards its denominator: a ratio that cannot be computed is omitted from the
// result, never emitted as NaN or zero.
package ratios

import "fmt"

type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// Benchmark is a fixed three-cut band table for one ratio. For the usual
// higher-is-better ratios the cuts are lower bounds; LowerIsBetter flips them
// into upper bounds (leverage ratios).
type Benchmark struct {
	Excellent     float64
	Good          float64
	Fair          float64
	LowerIsBetter bool
}

// Classify maps a value into its band. Total over all float64 inputs.
func (b Benchmark) Classify(v float64) Band {
	if b.LowerIsBetter {
		switch {
		case v <= b.Excellent:
			return BandExcellent
		case v <= b.Good:
			return BandGood
		case v <= b.Fair:
			return BandFair
		default:
			return BandPoor
		}
	}
	switch {
	case v >= b.Excellent:
		return BandExcellent
	case v >= b.Good:
		return BandGood
	case v >= b.Fair:
		return BandFair
	default:
		return BandPoor
	}
}

// table renders the band cuts for embedding in beginner explanations.
func (b Benchmark) table() string {
	op := "≥"
	if b.LowerIsBetter {
		op = "≤"
	}
	return fmt.Sprintf("Benchmarks: excellent %s %.4g, good %s %.4g, fair %s %.4g, otherwise poor.",
		op, b.Excellent, op, b.Good, op, b.Fair)
}

// Interpretation is the banded reading attached to each ratio.
type Interpretation struct {
	Band         Band   `json:"band"`
	Explanation  string `json:"explanation"`
	IndustryNote string `json:"industry_note,omitempty"`
}

// FinancialRatio is one computed ratio with its reading.
type FinancialRatio struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Value          *float64       `json:"value"`
	Formula        string         `json:"formula"`
	Description    string         `json:"description"`
	Interpretation Interpretation `json:"interpretation"`
}

// Categories in emission order.
const (
	CategoryLiquidity     = "liquidity"
	CategoryProfitability = "profitability"
	CategoryEfficiency    = "efficiency"
	CategoryLeverage      = "leverage"
	CategoryCashFlow      = "cash_flow"
)
