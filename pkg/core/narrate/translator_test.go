package narrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/health"
	"finsight/pkg/core/ratios"
	"finsight/pkg/core/trends"
)

func scoreOf(overall int) *health.HealthScore {
	return &health.HealthScore{
		Overall:        overall,
		Grade:          health.Grade(overall),
		Interpretation: "The company is in fine shape overall.",
	}
}

func TestRatingTiers(t *testing.T) {
	cases := []struct {
		overall int
		want    string
	}{
		{overall: 90, want: "\U0001F7E2 Strong"},
		{overall: 75, want: "\U0001F7E2 Strong"},
		{overall: 74, want: "\U0001F7E1 Decent"},
		{overall: 60, want: "\U0001F7E1 Decent"},
		{overall: 59, want: "\U0001F7E0 Caution"},
		{overall: 45, want: "\U0001F7E0 Caution"},
		{overall: 44, want: "\U0001F534 High Risk"},
		{overall: 0, want: "\U0001F534 High Risk"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rating(c.overall), "overall %d", c.overall)
	}
}

func TestOneLinerAlwaysSet(t *testing.T) {
	for overall := 0; overall <= 100; overall += 5 {
		assert.NotEmpty(t, oneLiner(overall), "overall %d", overall)
	}
}

func TestStrengthsPreferFlagsThenRatiosThenTrends(t *testing.T) {
	in := health.Input{
		GreenFlags: []flags.Flag{
			{ID: "fortress_balance_sheet", Strength: flags.StrengthStrong},
		},
		Ratios: []ratios.FinancialRatio{
			{ID: "return_on_equity", Name: "Return on Equity",
				Interpretation: ratios.Interpretation{Band: ratios.BandExcellent}},
			{ID: "current_ratio", Name: "Current Ratio",
				Interpretation: ratios.Interpretation{Band: ratios.BandGood}},
		},
		Trends: []trends.TrendAnalysis{
			{Metric: "Revenue", Direction: trends.DirectionImproving},
			{Metric: "Net Income", Direction: trends.DirectionStable},
		},
	}

	got := pickStrengths(in)
	require.Len(t, got, 3)
	assert.Equal(t, "It holds more cash than debt", got[0])
	assert.Equal(t, "It scores excellent on the return on shareholder money", got[1])
	assert.Equal(t, "Revenue has been moving the right way", got[2])
}

func TestStrengthsCapAtThree(t *testing.T) {
	in := health.Input{
		GreenFlags: []flags.Flag{
			{ID: "fortress_balance_sheet"},
			{ID: "conservative_leverage"},
			{ID: "sustainable_dividend"},
			{ID: "high_return_on_equity"},
		},
	}
	assert.Len(t, pickStrengths(in), 3)
}

func TestConcernsFallBackToGenericPhrase(t *testing.T) {
	in := health.Input{
		RedFlags: []flags.Flag{
			{ID: "some_future_rule", Title: "Some future rule"},
		},
	}
	got := pickConcerns(in)
	require.Len(t, got, 1)
	assert.Equal(t, "It shows a warning sign: Some future rule", got[0])
}

func TestHealthDescriptionCountsFlags(t *testing.T) {
	in := health.Input{
		RedFlags: []flags.Flag{
			{ID: "insolvency_risk", Severity: flags.SeverityCritical},
			{ID: "liquidity_crisis", Severity: flags.SeverityCritical},
			{ID: "liquidity_warning", Severity: flags.SeverityMedium},
		},
		GreenFlags: []flags.Flag{
			{ID: "high_fcf_margin", Strength: flags.StrengthExceptional},
		},
	}
	desc := healthDescription(scoreOf(40), in)
	assert.Contains(t, desc, "2 critical warning signs")
	assert.Contains(t, desc, "one exceptional strength")
}

func TestHealthDescriptionNamesBestAndWorstCategory(t *testing.T) {
	hs := scoreOf(60)
	hs.Categories = []health.HealthScoreCategory{
		{Name: health.CategoryProfitability, Score: 80},
		{Name: health.CategoryGrowth, Score: 40},
		{Name: health.CategoryFinancialStability, Score: 60},
	}

	desc := healthDescription(hs, health.Input{})
	assert.Contains(t, desc, "Profitability is the strongest part of the picture")
	assert.Contains(t, desc, "growth is the weakest")
}

func TestSuitabilityConservative(t *testing.T) {
	in := health.Input{
		GreenFlags: []flags.Flag{{ID: "fortress_balance_sheet"}},
		Trends: []trends.TrendAnalysis{
			{Metric: "Revenue", Direction: trends.DirectionStable},
		},
	}

	s := suitability(scoreOf(72), in)
	assert.True(t, s.Conservative)

	s = suitability(scoreOf(65), in)
	assert.False(t, s.Conservative, "score floor of 70 applies")

	in.RedFlags = []flags.Flag{{ID: "insolvency_risk", Severity: flags.SeverityCritical}}
	s = suitability(scoreOf(72), in)
	assert.False(t, s.Conservative, "critical red flags disqualify")
}

func TestSuitabilityGrowthBlockedByDilution(t *testing.T) {
	in := health.Input{
		GreenFlags: []flags.Flag{{ID: "compound_growth_machine"}},
	}
	assert.True(t, suitability(scoreOf(70), in).Growth)

	in.RedFlags = []flags.Flag{{ID: "dilution_treadmill", Severity: flags.SeverityHigh}}
	assert.False(t, suitability(scoreOf(70), in).Growth)
}

func TestSuitabilityIncomeNeedsDividendEvidence(t *testing.T) {
	in := health.Input{}
	assert.False(t, suitability(scoreOf(80), in).Income)

	in.GreenFlags = []flags.Flag{{ID: "dividend_growth_streak"}}
	assert.True(t, suitability(scoreOf(80), in).Income)

	in.RedFlags = []flags.Flag{{ID: "unsustainable_dividend", Severity: flags.SeverityHigh}}
	assert.False(t, suitability(scoreOf(80), in).Income)
}

func TestTranslateDeterministic(t *testing.T) {
	in := health.Input{
		GreenFlags: []flags.Flag{{ID: "sustainable_dividend", Strength: flags.StrengthGood}},
		RedFlags:   []flags.Flag{{ID: "liquidity_warning", Severity: flags.SeverityMedium}},
	}
	tr := NewTranslator()
	a := tr.Translate(scoreOf(68), in)
	b := tr.Translate(scoreOf(68), in)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.OneLiner)
	assert.NotEmpty(t, a.Rating)
}
