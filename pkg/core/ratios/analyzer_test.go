package ratios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/models"
)

func healthyStatements() *models.FinancialStatements {
	return &models.FinancialStatements{
		Symbol: "TEST",
		Income: models.StatementSeries{Annual: []models.Period{
			{
				FiscalYear:       2025,
				Revenue:          models.F(1000),
				GrossProfit:      models.F(450),
				OperatingIncome:  models.F(200),
				NetIncome:        models.F(150),
				InterestExpense:  models.F(-10),
				IncomeTaxExpense: models.F(40),
				IncomeBeforeTax:  models.F(190),
			},
			{FiscalYear: 2024, Revenue: models.F(900), NetIncome: models.F(120)},
		}},
		Balance: models.StatementSeries{Annual: []models.Period{
			{
				FiscalYear:             2025,
				TotalAssets:            models.F(1200),
				TotalLiabilities:       models.F(500),
				CurrentAssets:          models.F(500),
				CurrentLiabilities:     models.F(200),
				Inventory:              models.F(100),
				NetReceivables:         models.F(120),
				CashAndCashEquivalents: models.F(150),
				LongTermDebt:           models.F(200),
				TotalShareholderEquity: models.F(700),
			},
			{
				FiscalYear:             2024,
				TotalAssets:            models.F(1000),
				TotalShareholderEquity: models.F(500),
				Inventory:              models.F(100),
				NetReceivables:         models.F(80),
			},
		}},
		CashFlow: models.StatementSeries{Annual: []models.Period{
			{
				FiscalYear:          2025,
				OperatingCashFlow:   models.F(180),
				CapitalExpenditures: models.F(-40),
				FreeCashFlow:        models.F(140),
			},
		}},
	}
}

func find(t *testing.T, list []FinancialRatio, id string) FinancialRatio {
	t.Helper()
	for _, r := range list {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("ratio %q not emitted", id)
	return FinancialRatio{}
}

func TestAnalyzeBandsAndAverages(t *testing.T) {
	a := NewAnalyzer(0)
	out := a.Analyze(healthyStatements())
	require.NotEmpty(t, out)

	cr := find(t, out, "current_ratio")
	require.NotNil(t, cr.Value)
	assert.InDelta(t, 2.5, *cr.Value, 1e-9)
	assert.Equal(t, BandExcellent, cr.Interpretation.Band)
	assert.Contains(t, cr.Interpretation.Explanation, "Benchmarks")

	// ROE uses the two-period average equity: 150 / ((700+500)/2) = 25%.
	roe := find(t, out, "return_on_equity")
	assert.InDelta(t, 25.0, *roe.Value, 1e-9)
	assert.Equal(t, BandExcellent, roe.Interpretation.Band)

	// ROA averages assets: 150 / 1100 = 13.6%.
	roa := find(t, out, "return_on_assets")
	assert.InDelta(t, 150.0/1100*100, *roa.Value, 1e-9)

	// Effective tax rate is determinable (40/190), so ROIC must not use the
	// default: NOPAT = 200 * (1 - 40/190), invested = 200 + 700 - 150 = 750.
	roic := find(t, out, "return_on_invested_capital")
	wantNOPAT := 200 * (1 - 40.0/190.0)
	assert.InDelta(t, wantNOPAT/750*100, *roic.Value, 1e-9)

	de := find(t, out, "debt_to_equity")
	assert.InDelta(t, 200.0/700.0, *de.Value, 1e-9)
	assert.Equal(t, BandExcellent, de.Interpretation.Band)

	ic := find(t, out, "interest_coverage")
	assert.InDelta(t, 20.0, *ic.Value, 1e-9)
}

func TestWeakCurrentRatioStillReported(t *testing.T) {
	// A ratio below 1 is a finding, not a reason to omit the ratio.
	s := healthyStatements()
	s.Balance.Annual[0].CurrentAssets = models.F(50)
	s.Balance.Annual[0].CurrentLiabilities = models.F(60)
	cr := find(t, NewAnalyzer(0.21).Analyze(s), "current_ratio")
	require.NotNil(t, cr.Value)
	assert.InDelta(t, 50.0/60.0, *cr.Value, 1e-9)
	assert.Equal(t, BandPoor, cr.Interpretation.Band)
}

func TestAnalyzeSkipsOnMissingDenominator(t *testing.T) {
	s := healthyStatements()
	s.Balance.Annual[0].CurrentLiabilities = nil
	out := NewAnalyzer(0.21).Analyze(s)

	for _, r := range out {
		if r.ID == "current_ratio" || r.ID == "quick_ratio" || r.ID == "cash_ratio" ||
			r.ID == "operating_cash_flow_ratio" {
			t.Errorf("ratio %s must be skipped when current liabilities are missing", r.ID)
		}
	}
}

func TestAnalyzeSkipsZeroDenominator(t *testing.T) {
	s := healthyStatements()
	s.Income.Annual[0].InterestExpense = models.F(0)
	out := NewAnalyzer(0.21).Analyze(s)
	for _, r := range out {
		if r.ID == "interest_coverage" {
			t.Error("interest coverage must be skipped when interest expense is zero")
		}
	}
}

func TestCategoryInsertionOrder(t *testing.T) {
	rank := map[string]int{
		CategoryLiquidity:     0,
		CategoryProfitability: 1,
		CategoryEfficiency:    2,
		CategoryLeverage:      3,
		CategoryCashFlow:      4,
	}
	out := NewAnalyzer(0.21).Analyze(healthyStatements())
	last := -1
	for _, r := range out {
		cur, ok := rank[r.Category]
		if !ok {
			t.Fatalf("unknown category %q", r.Category)
		}
		if cur < last {
			t.Fatalf("categories out of order at %s", r.ID)
		}
		last = cur
	}
}

func TestROICFallsBackToConfiguredRate(t *testing.T) {
	s := healthyStatements()
	s.Income.Annual[0].IncomeBeforeTax = nil // effective rate undeterminable
	out := NewAnalyzer(0.30).Analyze(s)
	roic := find(t, out, "return_on_invested_capital")
	assert.InDelta(t, 200*(1-0.30)/750*100, *roic.Value, 1e-9)
}

func TestBenchmarkClassifyLowerIsBetter(t *testing.T) {
	bm := Benchmark{Excellent: 0.3, Good: 1, Fair: 2, LowerIsBetter: true}
	cases := []struct {
		v    float64
		want Band
	}{
		{0.1, BandExcellent}, {0.3, BandExcellent}, {0.9, BandGood},
		{1.5, BandFair}, {3, BandPoor},
	}
	for _, c := range cases {
		if got := bm.Classify(c.v); got != c.want {
			t.Errorf("Classify(%v) = %s, want %s", c.v, got, c.want)
		}
	}
}
