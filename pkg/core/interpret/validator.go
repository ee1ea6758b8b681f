package interpret

import (
	"errors"
	"fmt"

	"finsight/pkg/models"
)

// ErrInsufficientData marks inputs the interpreter refuses to analyze.
// Callers can map it to a client error with errors.Is.
var ErrInsufficientData = errors.New("insufficient statement data")

const (
	// DefaultMinAnnualPeriods is the floor below which no meaningful
	// year-over-year comparison exists.
	DefaultMinAnnualPeriods = 2
	// DefaultPreferredAnnualPeriods is the history depth at which trend and
	// CAGR output stops carrying a shallow-history warning.
	DefaultPreferredAnnualPeriods = 5
)

// StatementValidator gatekeeps the pipeline. Validate either rejects the
// input outright or returns a DataQuality block describing its limits.
type StatementValidator struct {
	minAnnual       int
	preferredAnnual int
}

func NewStatementValidator(minAnnual, preferredAnnual int) *StatementValidator {
	if minAnnual < DefaultMinAnnualPeriods {
		minAnnual = DefaultMinAnnualPeriods
	}
	if preferredAnnual < minAnnual {
		preferredAnnual = DefaultPreferredAnnualPeriods
	}
	return &StatementValidator{minAnnual: minAnnual, preferredAnnual: preferredAnnual}
}

// Validate checks hard requirements first (any missing statement type, or too
// few annual income periods, aborts), then assembles the quality summary.
func (v *StatementValidator) Validate(s *models.FinancialStatements) (DataQuality, error) {
	var dq DataQuality
	if s == nil {
		return dq, fmt.Errorf("%w: no statements provided", ErrInsufficientData)
	}
	if s.Symbol == "" {
		return dq, fmt.Errorf("%w: missing symbol", ErrInsufficientData)
	}

	income := len(s.Income.Annual)
	balance := len(s.Balance.Annual)
	cashFlow := len(s.CashFlow.Annual)

	if income == 0 {
		return dq, fmt.Errorf("%w: no annual income statements", ErrInsufficientData)
	}
	if balance == 0 {
		return dq, fmt.Errorf("%w: no annual balance sheets", ErrInsufficientData)
	}
	if cashFlow == 0 {
		return dq, fmt.Errorf("%w: no annual cash flow statements", ErrInsufficientData)
	}
	if income < v.minAnnual {
		return dq, fmt.Errorf("%w: %d annual income periods, need at least %d",
			ErrInsufficientData, income, v.minAnnual)
	}

	dq = DataQuality{
		AnnualIncomePeriods:    income,
		AnnualBalancePeriods:   balance,
		AnnualCashFlowPeriods:  cashFlow,
		QuarterlyIncomePeriods: len(s.Income.Quarterly),
		HasTTM:                 s.Income.TTM != nil || s.CashFlow.TTM != nil,
		PopulatedFields:        populatedFields(s),
	}
	if latest := s.Income.Latest(); latest != nil {
		dq.FiscalYearEnd = latest.Date
	}

	if income < v.preferredAnnual {
		dq.Warnings = append(dq.Warnings, fmt.Sprintf(
			"only %d annual periods available; trend and growth analysis works best with %d or more",
			income, v.preferredAnnual))
	}
	if balance != income || cashFlow != income {
		dq.Warnings = append(dq.Warnings, fmt.Sprintf(
			"statement histories differ in length (income %d, balance %d, cash flow %d); multi-statement checks use the overlap",
			income, balance, cashFlow))
	}
	if !dq.HasTTM {
		dq.Warnings = append(dq.Warnings,
			"no trailing-twelve-month data; point-in-time checks use the latest fiscal year")
	}

	return dq, nil
}

func populatedFields(s *models.FinancialStatements) int {
	n := 0
	if p := s.Income.Latest(); p != nil {
		n += p.PopulatedFieldCount()
	}
	if p := s.Balance.Latest(); p != nil {
		n += p.PopulatedFieldCount()
	}
	if p := s.CashFlow.Latest(); p != nil {
		n += p.PopulatedFieldCount()
	}
	return n
}
