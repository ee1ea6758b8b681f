package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/models"
)

func findFlag(list []Flag, id string) *Flag {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func TestInsolvencyRisk(t *testing.T) {
	s := &models.FinancialStatements{
		Balance: models.StatementSeries{Annual: []models.Period{{
			FiscalYear:       2025,
			TotalLiabilities: models.F(120e9),
			TotalAssets:      models.F(100e9),
		}}},
	}
	out := NewRedAnalyzer().Analyze(s)
	f := findFlag(out, "insolvency_risk")
	require.NotNil(t, f, "insolvency flag must fire when liabilities exceed assets")
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.InDelta(t, 20.0, f.Value, 1e-9, "deficit is 20%% of assets")
	assert.Contains(t, f.Description, "$20.00B")
	assert.Equal(t, 100, f.Confidence.Score)
	assert.Equal(t, "SEC EDGAR", f.Confidence.Source)
	assert.ElementsMatch(t, []string{"totalLiabilities", "totalAssets"}, f.Confidence.FieldsUsed)
}

func TestInsolvencySkippedOnMissingField(t *testing.T) {
	s := &models.FinancialStatements{
		Balance: models.StatementSeries{Annual: []models.Period{{
			FiscalYear:       2025,
			TotalLiabilities: models.F(120e9),
			// total assets not reported: the rule must skip, not treat as 0
		}}},
	}
	out := NewRedAnalyzer().Analyze(s)
	assert.Nil(t, findFlag(out, "insolvency_risk"))
}

func TestLiquidityCrisisDependsOnOCFCoverage(t *testing.T) {
	base := func(ocf float64) *models.FinancialStatements {
		return &models.FinancialStatements{
			Balance: models.StatementSeries{Annual: []models.Period{{
				FiscalYear:         2025,
				CurrentAssets:      models.F(50),
				CurrentLiabilities: models.F(60),
			}}},
			CashFlow: models.StatementSeries{Annual: []models.Period{{
				FiscalYear:        2025,
				OperatingCashFlow: models.F(ocf),
			}}},
		}
	}

	// OCF 5 cannot close the $10 gap: crisis.
	out := NewRedAnalyzer().Analyze(base(5))
	f := findFlag(out, "liquidity_crisis")
	require.NotNil(t, f)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.InDelta(t, 50.0/60.0, f.Value, 1e-9)

	// OCF 15 covers the gap: no crisis flag.
	out = NewRedAnalyzer().Analyze(base(15))
	assert.Nil(t, findFlag(out, "liquidity_crisis"))
}

func TestUnsustainableDividend(t *testing.T) {
	s := &models.FinancialStatements{
		CashFlow: models.StatementSeries{Annual: []models.Period{{
			FiscalYear:    2025,
			DividendsPaid: models.F(-12),
			FreeCashFlow:  models.F(8),
		}}},
	}
	f := findFlag(NewRedAnalyzer().Analyze(s), "unsustainable_dividend")
	require.NotNil(t, f)
	assert.Equal(t, SeverityHigh, f.Severity)
	assert.Contains(t, f.Description, "150%", "payout ratio 12/8 must appear")
}

func TestCashBurnWithLeverage(t *testing.T) {
	s := &models.FinancialStatements{
		Balance: models.StatementSeries{Annual: []models.Period{{
			FiscalYear:             2025,
			LongTermDebt:           models.F(500),
			TotalShareholderEquity: models.F(200),
		}}},
		CashFlow: models.StatementSeries{Annual: []models.Period{{
			FiscalYear:        2025,
			OperatingCashFlow: models.F(-50),
		}}},
	}
	f := findFlag(NewRedAnalyzer().Analyze(s), "cash_burn_with_leverage")
	require.NotNil(t, f)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.InDelta(t, 2.5, f.Value, 1e-9)
}

func TestEarningsQualityPrefersTTM(t *testing.T) {
	// Annual looks fine (ratio 1.0) but the TTM window shows deterioration.
	s := &models.FinancialStatements{
		Income: models.StatementSeries{
			Annual: []models.Period{{FiscalYear: 2025, NetIncome: models.F(100)}},
			TTM:    &models.Period{NetIncome: models.F(100)},
		},
		CashFlow: models.StatementSeries{
			Annual: []models.Period{{FiscalYear: 2025, OperatingCashFlow: models.F(100)}},
			TTM:    &models.Period{OperatingCashFlow: models.F(50)},
		},
	}
	f := findFlag(NewRedAnalyzer().Analyze(s), "poor_earnings_quality")
	require.NotNil(t, f)
	assert.Contains(t, f.Description, "TTM")
	assert.InDelta(t, 0.5, f.Value, 1e-9)
}

func TestDilutionTreadmill(t *testing.T) {
	s := &models.FinancialStatements{
		Income: models.StatementSeries{Annual: []models.Period{
			{FiscalYear: 2025, EPSDiluted: models.F(1.10)},
			{FiscalYear: 2024, EPSDiluted: models.F(1.40)},
		}},
		Balance: models.StatementSeries{Annual: []models.Period{
			{FiscalYear: 2025, SharesOutstanding: models.F(121)},
			{FiscalYear: 2024, SharesOutstanding: models.F(110)},
			{FiscalYear: 2023, SharesOutstanding: models.F(100)},
		}},
	}
	f := findFlag(NewRedAnalyzer().Analyze(s), "dilution_treadmill")
	require.NotNil(t, f)
	// (121/100)^(1/2)-1 = 10% annualized
	assert.InDelta(t, 10.0, f.Value, 1e-6)
}

func TestMarginCompressionTrend(t *testing.T) {
	mkIncome := func(rev, oi float64, year int) models.Period {
		return models.Period{FiscalYear: year, Revenue: models.F(rev), OperatingIncome: models.F(oi)}
	}
	// Margins oldest->newest: 20%, 18%, 16.5%, 15% (three straight declines, 5 pts total).
	s := &models.FinancialStatements{
		Income: models.StatementSeries{Annual: []models.Period{
			mkIncome(1000, 150, 2025),
			mkIncome(1000, 165, 2024),
			mkIncome(1000, 180, 2023),
			mkIncome(1000, 200, 2022),
		}},
	}
	f := findFlag(NewRedAnalyzer().Analyze(s), "margin_compression_trend")
	require.NotNil(t, f)
	assert.InDelta(t, 5.0, f.Value, 1e-9)
}

func TestRedFlagsSortedBySeverity(t *testing.T) {
	// Statements engineered to trip a mix of severities.
	s := &models.FinancialStatements{
		Income: models.StatementSeries{Annual: []models.Period{
			{FiscalYear: 2025, Revenue: models.F(1000), GrossProfit: models.F(400),
				OperatingIncome: models.F(15), InterestExpense: models.F(-10), NetIncome: models.F(5)},
			{FiscalYear: 2024, Revenue: models.F(1000), GrossProfit: models.F(480)},
		}},
		Balance: models.StatementSeries{Annual: []models.Period{
			{FiscalYear: 2025, TotalLiabilities: models.F(1200), TotalAssets: models.F(1000),
				CurrentAssets: models.F(100), CurrentLiabilities: models.F(95)},
		}},
		CashFlow: models.StatementSeries{Annual: []models.Period{
			{FiscalYear: 2025, OperatingCashFlow: models.F(50)},
		}},
	}
	out := NewRedAnalyzer().Analyze(s)
	require.NotEmpty(t, out)
	last := -1
	for _, f := range out {
		r := severityRank(f.Severity)
		if r < last {
			t.Fatalf("flags out of severity order at %s", f.ID)
		}
		last = r
	}
	// Both a critical and a medium entry should be present in this fixture.
	assert.NotNil(t, findFlag(out, "insolvency_risk"))
	assert.NotNil(t, findFlag(out, "gross_margin_compression"))
	assert.NotNil(t, findFlag(out, "weak_interest_coverage"))
}

func TestEmptyStatementsTripNothing(t *testing.T) {
	out := NewRedAnalyzer().Analyze(&models.FinancialStatements{})
	assert.Empty(t, out)
}
