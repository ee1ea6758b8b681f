package interpret

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/models"
)

func annualPeriods(years ...int) []models.Period {
	// Newest first, matching the wire order.
	out := make([]models.Period, 0, len(years))
	for i := len(years) - 1; i >= 0; i-- {
		out = append(out, models.Period{
			Date:       time.Date(years[i], 12, 31, 0, 0, 0, 0, time.UTC),
			FiscalYear: years[i],
			Revenue:    models.F(100e9),
			NetIncome:  models.F(10e9),
		})
	}
	return out
}

func validStatements(years ...int) *models.FinancialStatements {
	return &models.FinancialStatements{
		Symbol:   "TEST",
		Income:   models.StatementSeries{Annual: annualPeriods(years...)},
		Balance:  models.StatementSeries{Annual: annualPeriods(years...)},
		CashFlow: models.StatementSeries{Annual: annualPeriods(years...)},
	}
}

func TestValidateRejectsMissingStatementTypes(t *testing.T) {
	v := NewStatementValidator(2, 5)

	_, err := v.Validate(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	s := validStatements(2021, 2022, 2023)
	s.Income.Annual = nil
	_, err = v.Validate(s)
	assert.ErrorIs(t, err, ErrInsufficientData)

	s = validStatements(2021, 2022, 2023)
	s.Balance.Annual = nil
	_, err = v.Validate(s)
	assert.ErrorIs(t, err, ErrInsufficientData)

	s = validStatements(2021, 2022, 2023)
	s.CashFlow.Annual = nil
	_, err = v.Validate(s)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestValidateRejectsSinglePeriod(t *testing.T) {
	v := NewStatementValidator(2, 5)
	_, err := v.Validate(validStatements(2023))
	require.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "need at least 2")
}

func TestValidateRejectsMissingSymbol(t *testing.T) {
	v := NewStatementValidator(2, 5)
	s := validStatements(2021, 2022, 2023)
	s.Symbol = ""
	_, err := v.Validate(s)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestValidateWarnsOnShallowHistory(t *testing.T) {
	v := NewStatementValidator(2, 5)
	dq, err := v.Validate(validStatements(2021, 2022, 2023))
	require.NoError(t, err)

	assert.Equal(t, 3, dq.AnnualIncomePeriods)
	require.NotEmpty(t, dq.Warnings)
	assert.Contains(t, dq.Warnings[0], "only 3 annual periods")
}

func TestValidateWarnsOnMismatchedHistories(t *testing.T) {
	v := NewStatementValidator(2, 5)
	s := validStatements(2019, 2020, 2021, 2022, 2023)
	s.Balance.Annual = s.Balance.Annual[:3]

	dq, err := v.Validate(s)
	require.NoError(t, err)

	found := false
	for _, w := range dq.Warnings {
		if strings.Contains(w, "differ in length") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateFullHistoryNoShallowWarning(t *testing.T) {
	v := NewStatementValidator(2, 5)
	s := validStatements(2019, 2020, 2021, 2022, 2023)
	s.Income.TTM = &models.Period{Revenue: models.F(110e9)}

	dq, err := v.Validate(s)
	require.NoError(t, err)

	assert.Equal(t, 5, dq.AnnualIncomePeriods)
	assert.True(t, dq.HasTTM)
	assert.Equal(t, 2023, dq.FiscalYearEnd.Year())
	for _, w := range dq.Warnings {
		assert.NotContains(t, w, "annual periods available")
	}
}

func TestValidateCountsPopulatedFields(t *testing.T) {
	v := NewStatementValidator(2, 5)
	dq, err := v.Validate(validStatements(2022, 2023))
	require.NoError(t, err)

	// Revenue and NetIncome on each of the three latest periods.
	assert.Equal(t, 6, dq.PopulatedFields)
}
