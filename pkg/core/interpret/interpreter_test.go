package interpret

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/core/flags"
	"finsight/pkg/models"
)

// growthCompany is a five-year picture of a well-run grower: compounding
// revenue and profit, net cash, high margins, shrinking share count.
func growthCompany() *models.FinancialStatements {
	years := []int{2021, 2022, 2023, 2024, 2025}
	revenue := []float64{100e9, 118e9, 139e9, 164e9, 194e9}
	netIncome := []float64{15e9, 18e9, 22e9, 27e9, 33e9}
	ocf := []float64{20e9, 24e9, 29e9, 35e9, 42e9}
	shares := []float64{1.05e9, 1.03e9, 1.01e9, 0.99e9, 0.97e9}

	var income, balance, cashFlow []models.Period
	for i := len(years) - 1; i >= 0; i-- {
		date := time.Date(years[i], 12, 31, 0, 0, 0, 0, time.UTC)
		income = append(income, models.Period{
			Date:             date,
			FiscalYear:       years[i],
			Revenue:          models.F(revenue[i]),
			GrossProfit:      models.F(revenue[i] * 0.45),
			OperatingIncome:  models.F(revenue[i] * 0.22),
			NetIncome:        models.F(netIncome[i]),
			EPSDiluted:       models.F(netIncome[i] / shares[i]),
			InterestExpense:  models.F(-0.5e9),
			IncomeTaxExpense: models.F(netIncome[i] * 0.25),
			IncomeBeforeTax:  models.F(netIncome[i] * 1.25),
		})
		balance = append(balance, models.Period{
			Date:                   date,
			FiscalYear:             years[i],
			TotalAssets:            models.F(revenue[i] * 1.1),
			TotalLiabilities:       models.F(revenue[i] * 0.4),
			CurrentAssets:          models.F(revenue[i] * 0.5),
			CurrentLiabilities:     models.F(revenue[i] * 0.2),
			Inventory:              models.F(revenue[i] * 0.05),
			NetReceivables:         models.F(revenue[i] * 0.1),
			CashAndCashEquivalents: models.F(revenue[i] * 0.25),
			LongTermDebt:           models.F(10e9),
			TotalShareholderEquity: models.F(revenue[i] * 0.7),
			SharesOutstanding:      models.F(shares[i]),
		})
		cashFlow = append(cashFlow, models.Period{
			Date:                date,
			FiscalYear:          years[i],
			OperatingCashFlow:   models.F(ocf[i]),
			CapitalExpenditures: models.F(-revenue[i] * 0.04),
			FreeCashFlow:        models.F(ocf[i] - revenue[i]*0.04),
			DividendsPaid:       models.F(-(2e9 + float64(i)*0.3e9)),
			EndCashPosition:     models.F(revenue[i] * 0.25),
		})
	}
	return &models.FinancialStatements{
		Symbol:   "GROW",
		Income:   models.StatementSeries{Annual: income},
		Balance:  models.StatementSeries{Annual: balance},
		CashFlow: models.StatementSeries{Annual: cashFlow},
	}
}

// distressedCompany owes more than it owns and cannot cover the year's bills.
func distressedCompany() *models.FinancialStatements {
	years := []int{2023, 2024, 2025}
	var income, balance, cashFlow []models.Period
	for i := len(years) - 1; i >= 0; i-- {
		date := time.Date(years[i], 12, 31, 0, 0, 0, 0, time.UTC)
		rev := 40e9 + float64(i)*5e9
		income = append(income, models.Period{
			Date:            date,
			FiscalYear:      years[i],
			Revenue:         models.F(rev),
			GrossProfit:     models.F(rev * 0.1),
			OperatingIncome: models.F(-2e9),
			NetIncome:       models.F(-4e9),
			InterestExpense: models.F(-3e9),
		})
		balance = append(balance, models.Period{
			Date:                   date,
			FiscalYear:             years[i],
			TotalAssets:            models.F(100e9),
			TotalLiabilities:       models.F(120e9),
			CurrentAssets:          models.F(20e9),
			CurrentLiabilities:     models.F(30e9),
			CashAndCashEquivalents: models.F(5e9),
			LongTermDebt:           models.F(80e9),
			TotalShareholderEquity: models.F(-20e9),
		})
		cashFlow = append(cashFlow, models.Period{
			Date:                date,
			FiscalYear:          years[i],
			OperatingCashFlow:   models.F(-1e9),
			CapitalExpenditures: models.F(-2e9),
			EndCashPosition:     models.F(5e9),
		})
	}
	return &models.FinancialStatements{
		Symbol:   "DEBT",
		Income:   models.StatementSeries{Annual: income},
		Balance:  models.StatementSeries{Annual: balance},
		CashFlow: models.StatementSeries{Annual: cashFlow},
	}
}

func testInterpreter() *Interpreter {
	return NewInterpreter(Options{}, zerolog.Nop())
}

func TestInterpretGrowthCompany(t *testing.T) {
	report, err := testInterpreter().Interpret(context.Background(), growthCompany())
	require.NoError(t, err)

	assert.Equal(t, "GROW", report.Symbol)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 5, report.DataQuality.AnnualIncomePeriods)

	require.NotNil(t, report.Health)
	assert.GreaterOrEqual(t, report.Health.Overall, 75,
		"a compounding net-cash business scores at least strong")
	assert.Empty(t, filterSeverity(report.RedFlags, flags.SeverityCritical))

	ids := flagIDs(report.GreenFlags)
	assert.Contains(t, ids, "compound_growth_machine")
	assert.Contains(t, ids, "fortress_balance_sheet")

	require.NotNil(t, report.Summary)
	assert.NotEmpty(t, report.Summary.OneLiner)
	assert.True(t, report.Summary.Suitability.Growth)

	assert.NotEmpty(t, report.Ratios)
	assert.NotEmpty(t, report.Trends)
	assert.LessOrEqual(t, len(report.Recommendations), 8)
}

func TestInterpretDistressedCompany(t *testing.T) {
	report, err := testInterpreter().Interpret(context.Background(), distressedCompany())
	require.NoError(t, err)

	ids := flagIDs(report.RedFlags)
	assert.Contains(t, ids, "insolvency_risk")
	assert.Contains(t, ids, "liquidity_crisis")

	assert.Less(t, report.Health.Overall, 50)
	assert.False(t, report.Summary.Suitability.Conservative)

	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, "high", string(report.Recommendations[0].Priority))
}

func TestInterpretHonorsRecommendationCap(t *testing.T) {
	interpreter := NewInterpreter(Options{MaxRecommendations: 2}, zerolog.Nop())
	report, err := interpreter.Interpret(context.Background(), distressedCompany())
	require.NoError(t, err)

	// The distressed fixture overflows the default cap; the configured one
	// must win.
	require.Len(t, report.Recommendations, 2)
	assert.Equal(t, "high", string(report.Recommendations[0].Priority))
}

func TestInterpretRejectsThinData(t *testing.T) {
	s := growthCompany()
	s.Income.Annual = s.Income.Annual[:1]

	report, err := testInterpreter().Interpret(context.Background(), s)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestInterpretHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := testInterpreter().Interpret(ctx, growthCompany())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterpretDeterministicModuloIdentity(t *testing.T) {
	i := testInterpreter()
	a, err := i.Interpret(context.Background(), growthCompany())
	require.NoError(t, err)
	b, err := i.Interpret(context.Background(), growthCompany())
	require.NoError(t, err)

	a.ID, b.ID = "", ""
	a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
}

func flagIDs(list []flags.Flag) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.ID)
	}
	return out
}

func filterSeverity(list []flags.Flag, severity flags.Severity) []flags.Flag {
	var out []flags.Flag
	for _, f := range list {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}
