// Package health folds the four analyzer outputs into one weighted 0-100
// composite score with a letter grade and per-category breakdowns. Category
// adjustments are fixed additive constants keyed to ratio bands, flag
// presence and trend direction, so the score is reproducible and auditable.
package health

// Category names. Weights must always sum to exactly 100.
const (
	CategoryProfitability      = "profitability"
	CategoryGrowth             = "growth"
	CategoryFinancialStability = "financial_stability"
	CategoryEfficiency         = "efficiency"
	CategoryShareholderValue   = "shareholder_value"
)

// categoryWeights is the fixed weighting model, in emission order.
var categoryWeights = []struct {
	Name   string
	Weight int
}{
	{CategoryProfitability, 25},
	{CategoryGrowth, 20},
	{CategoryFinancialStability, 25},
	{CategoryEfficiency, 15},
	{CategoryShareholderValue, 15},
}

// WeightSum exposes the weight total for invariant checks.
func WeightSum() int {
	sum := 0
	for _, c := range categoryWeights {
		sum += c.Weight
	}
	return sum
}

// HealthScoreCategory is one weighted component with its audit trail.
type HealthScoreCategory struct {
	Name    string   `json:"name"`
	Weight  int      `json:"weight"`
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// HealthScore is the composite result.
type HealthScore struct {
	Overall        int                   `json:"overall"`
	Grade          string                `json:"grade"`
	Categories     []HealthScoreCategory `json:"categories"`
	Summary        string                `json:"summary"`
	Interpretation string                `json:"interpretation"`
	Strengths      []string              `json:"strengths"`
	Weaknesses     []string              `json:"weaknesses"`
	Insights       []string              `json:"insights"`
}

// Grade maps an overall score onto the fixed letter ladder. Total and
// non-overlapping over [0,100].
func Grade(overall int) string {
	switch {
	case overall >= 95:
		return "A+"
	case overall >= 90:
		return "A"
	case overall >= 85:
		return "A-"
	case overall >= 80:
		return "B+"
	case overall >= 75:
		return "B"
	case overall >= 70:
		return "B-"
	case overall >= 65:
		return "C+"
	case overall >= 60:
		return "C"
	case overall >= 55:
		return "C-"
	case overall >= 50:
		return "D"
	default:
		return "F"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
