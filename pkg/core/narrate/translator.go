package narrate

import (
	"fmt"
	"strings"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/health"
	"finsight/pkg/core/ratios"
	"finsight/pkg/core/trends"
)

// Translator maps (score, flags, ratios, trends) onto beginner language.
// Pure: same input, same summary.
type Translator struct{}

func NewTranslator() *Translator {
	return &Translator{}
}

// Translate builds the full beginner summary.
func (t *Translator) Translate(hs *health.HealthScore, in health.Input) *BeginnerSummary {
	return &BeginnerSummary{
		OneLiner:          oneLiner(hs.Overall),
		HealthDescription: healthDescription(hs, in),
		Strengths:         pickStrengths(in),
		Concerns:          pickConcerns(in),
		Rating:            rating(hs.Overall),
		Suitability:       suitability(hs, in),
	}
}

// oneLiner covers six fixed score bands, each with a simile.
func oneLiner(overall int) string {
	switch {
	case overall >= 90:
		return "Rock solid. Like a house built on bedrock, this company can weather almost anything."
	case overall >= 75:
		return "Healthy. Like a fit runner, it has the stamina to handle a tough stretch."
	case overall >= 60:
		return "Decent shape with nagging issues. Like a car that runs fine but is overdue for service."
	case overall >= 45:
		return "Under real strain. Like a household living paycheck to paycheck."
	case overall >= 30:
		return "In trouble. Like a ship taking on water faster than the pumps can clear it."
	default:
		return "Critical condition. Like a patient in intensive care, survival is the open question."
	}
}

// healthDescription concatenates templated clauses: tier, critical-issue
// count, exceptional-strength count, best and worst categories.
func healthDescription(hs *health.HealthScore, in health.Input) string {
	desc := hs.Interpretation

	critical := 0
	for _, f := range in.RedFlags {
		if f.Severity == flags.SeverityCritical {
			critical++
		}
	}
	switch critical {
	case 0:
	case 1:
		desc += " One critical warning sign needs attention before anything else."
	default:
		desc += fmt.Sprintf(" %d critical warning signs need attention before anything else.", critical)
	}

	exceptional := 0
	for _, f := range in.GreenFlags {
		if f.Strength == flags.StrengthExceptional {
			exceptional++
		}
	}
	switch exceptional {
	case 0:
	case 1:
		desc += " On the bright side, it shows one exceptional strength."
	default:
		desc += fmt.Sprintf(" On the bright side, it shows %d exceptional strengths.", exceptional)
	}

	if best, worst, ok := bestWorstCategory(hs); ok {
		desc += fmt.Sprintf(" %s is the strongest part of the picture; %s is the weakest.",
			categoryNoun(best), strings.ToLower(categoryNoun(worst)))
	}

	return desc
}

func bestWorstCategory(hs *health.HealthScore) (best, worst string, ok bool) {
	if len(hs.Categories) < 2 {
		return "", "", false
	}
	best, worst = hs.Categories[0].Name, hs.Categories[0].Name
	hi, lo := hs.Categories[0].Score, hs.Categories[0].Score
	for _, c := range hs.Categories[1:] {
		if c.Score > hi {
			hi, best = c.Score, c.Name
		}
		if c.Score < lo {
			lo, worst = c.Score, c.Name
		}
	}
	return best, worst, best != worst
}

func categoryNoun(name string) string {
	switch name {
	case health.CategoryProfitability:
		return "Profitability"
	case health.CategoryGrowth:
		return "Growth"
	case health.CategoryFinancialStability:
		return "Financial stability"
	case health.CategoryEfficiency:
		return "Efficiency"
	case health.CategoryShareholderValue:
		return "Shareholder returns"
	default:
		return name
	}
}

func pickStrengths(in health.Input) []string {
	var out []string
	for _, f := range in.GreenFlags {
		if len(out) < 3 {
			out = append(out, greenPhrase(f))
		}
	}
	for _, r := range in.Ratios {
		if r.Interpretation.Band == ratios.BandExcellent && len(out) < 3 {
			out = append(out, ratioStrengthPhrase(r))
		}
	}
	for _, tr := range in.Trends {
		if tr.Direction == trends.DirectionImproving && len(out) < 3 {
			out = append(out, trendStrengthPhrase(tr))
		}
	}
	return out
}

func pickConcerns(in health.Input) []string {
	var out []string
	for _, f := range in.RedFlags {
		if len(out) < 3 {
			out = append(out, redPhrase(f))
		}
	}
	for _, r := range in.Ratios {
		if r.Interpretation.Band == ratios.BandPoor && len(out) < 3 {
			out = append(out, ratioConcernPhrase(r))
		}
	}
	for _, tr := range in.Trends {
		if tr.Direction == trends.DirectionDeteriorating && len(out) < 3 {
			out = append(out, trendConcernPhrase(tr))
		}
	}
	return out
}

// rating is the four-tier at-a-glance verdict.
func rating(overall int) string {
	switch {
	case overall >= 75:
		return "\U0001F7E2 Strong"
	case overall >= 60:
		return "\U0001F7E1 Decent"
	case overall >= 45:
		return "\U0001F7E0 Caution"
	default:
		return "\U0001F534 High Risk"
	}
}

// suitability evaluates the four profiles. Each needs the score floor, at
// least one piece of supporting evidence, and no disqualifying red flag.
func suitability(hs *health.HealthScore, in health.Input) Suitability {
	red := map[string]bool{}
	for _, f := range in.RedFlags {
		red[f.ID] = true
	}
	green := map[string]bool{}
	for _, f := range in.GreenFlags {
		green[f.ID] = true
	}
	dir := map[string]trends.Direction{}
	for _, tr := range in.Trends {
		dir[tr.Metric] = tr.Direction
	}
	hasCritical := false
	for _, f := range in.RedFlags {
		if f.Severity == flags.SeverityCritical {
			hasCritical = true
		}
	}

	var s Suitability

	s.Conservative = hs.Overall >= 70 &&
		!hasCritical &&
		(green["fortress_balance_sheet"] || green["conservative_leverage"]) &&
		dir["Revenue"] != trends.DirectionDeteriorating

	s.Growth = hs.Overall >= 60 &&
		(green["compound_growth_machine"] || dir["Revenue"] == trends.DirectionImproving) &&
		!red["dilution_treadmill"]

	s.Value = hs.Overall >= 55 &&
		!hasCritical &&
		(green["high_fcf_margin"] || green["superior_cash_generation"] || green["high_return_on_capital"]) &&
		!red["poor_earnings_quality"]

	s.Income = hs.Overall >= 50 &&
		(green["sustainable_dividend"] || green["dividend_growth_streak"]) &&
		!red["unsustainable_dividend"]

	return s
}
