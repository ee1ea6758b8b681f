package interpret

import (
	"time"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/health"
	"finsight/pkg/core/narrate"
	"finsight/pkg/core/ratios"
	"finsight/pkg/core/trends"
)

// DataQuality records what the analysis had to work with. Warnings flag
// limits that reduce coverage without blocking the run.
type DataQuality struct {
	AnnualIncomePeriods    int       `json:"annual_income_periods"`
	AnnualBalancePeriods   int       `json:"annual_balance_periods"`
	AnnualCashFlowPeriods  int       `json:"annual_cash_flow_periods"`
	QuarterlyIncomePeriods int       `json:"quarterly_income_periods"`
	HasTTM                 bool      `json:"has_ttm"`
	PopulatedFields        int       `json:"populated_fields"`
	FiscalYearEnd          time.Time `json:"fiscal_year_end"`
	Warnings               []string  `json:"warnings,omitempty"`
}

// Report is the complete interpretation of one company's statements.
type Report struct {
	ID              string                   `json:"id"`
	Symbol          string                   `json:"symbol"`
	GeneratedAt     time.Time                `json:"generated_at"`
	DataQuality     DataQuality              `json:"data_quality"`
	Health          *health.HealthScore      `json:"health"`
	RedFlags        []flags.Flag             `json:"red_flags"`
	GreenFlags      []flags.Flag             `json:"green_flags"`
	Ratios          []ratios.FinancialRatio  `json:"ratios"`
	Trends          []trends.TrendAnalysis   `json:"trends"`
	Summary         *narrate.BeginnerSummary `json:"summary"`
	Recommendations []narrate.Recommendation `json:"recommendations"`
}
