// Package models defines the normalized financial statement contract consumed
// by the interpreter core. Statements arrive here already typed and scaled; the
// upstream normalizer (SEC EDGAR filings -> periods) owns provenance.
package models

import "time"

// FinancialStatements is the read-only input for a single company. The three
// series are parallel: annual slices are ordered newest-first, and TTM, when
// present, is a synthetic period summing the four most recent quarters.
type FinancialStatements struct {
	Symbol    string          `json:"symbol"`
	Income    StatementSeries `json:"income_statements"`
	Balance   StatementSeries `json:"balance_sheets"`
	CashFlow  StatementSeries `json:"cash_flow_statements"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StatementSeries holds the periods for one statement type.
type StatementSeries struct {
	Annual    []Period `json:"annual"`
	Quarterly []Period `json:"quarterly,omitempty"`
	TTM       *Period  `json:"ttm,omitempty"`
}

// Period is one reporting period for one statement type. Every numeric field
// is a pointer: nil means the line item was not reported, which is distinct
// from a reported zero. Analyzer rules must skip on nil rather than coerce.
type Period struct {
	Date          time.Time `json:"date"`
	FiscalYear    int       `json:"fiscal_year"`
	FiscalQuarter int       `json:"fiscal_quarter,omitempty"`

	// Income statement
	Revenue          *float64 `json:"revenue,omitempty"`
	GrossProfit      *float64 `json:"gross_profit,omitempty"`
	OperatingIncome  *float64 `json:"operating_income,omitempty"`
	NetIncome        *float64 `json:"net_income,omitempty"`
	EPSDiluted       *float64 `json:"eps_diluted,omitempty"`
	InterestExpense  *float64 `json:"interest_expense,omitempty"`
	IncomeTaxExpense *float64 `json:"income_tax_expense,omitempty"`
	IncomeBeforeTax  *float64 `json:"income_before_tax,omitempty"`

	// Balance sheet
	TotalAssets            *float64 `json:"total_assets,omitempty"`
	TotalLiabilities       *float64 `json:"total_liabilities,omitempty"`
	CurrentAssets          *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities     *float64 `json:"current_liabilities,omitempty"`
	Inventory              *float64 `json:"inventory,omitempty"`
	NetReceivables         *float64 `json:"net_receivables,omitempty"`
	CashAndCashEquivalents *float64 `json:"cash_and_cash_equivalents,omitempty"`
	ShortTermDebt          *float64 `json:"short_term_debt,omitempty"`
	LongTermDebt           *float64 `json:"long_term_debt,omitempty"`
	TotalShareholderEquity *float64 `json:"total_shareholder_equity,omitempty"`
	SharesOutstanding      *float64 `json:"shares_outstanding,omitempty"`

	// Cash flow statement
	OperatingCashFlow   *float64 `json:"operating_cash_flow,omitempty"`
	CapitalExpenditures *float64 `json:"capital_expenditures,omitempty"`
	FreeCashFlow        *float64 `json:"free_cash_flow,omitempty"`
	DividendsPaid       *float64 `json:"dividends_paid,omitempty"`
	StockRepurchased    *float64 `json:"stock_repurchased,omitempty"`
	DebtRepayment       *float64 `json:"debt_repayment,omitempty"`
	EndCashPosition     *float64 `json:"end_cash_position,omitempty"`
}

// TotalDebt sums short and long term debt. A side that was not reported is
// treated as zero when the other side is present; nil only when both are
// missing. This is the one documented null-as-zero fallback on the balance
// sheet (many filers report a single consolidated debt line).
func (p *Period) TotalDebt() *float64 {
	if p.ShortTermDebt == nil && p.LongTermDebt == nil {
		return nil
	}
	total := Val(p.ShortTermDebt) + Val(p.LongTermDebt)
	return &total
}

// FCFOrComputed returns free cash flow as reported, falling back to
// OCF - CapEx when the filer did not report FCF directly. CapEx is taken as an
// outflow regardless of sign convention.
func (p *Period) FCFOrComputed() *float64 {
	if p.FreeCashFlow != nil {
		return p.FreeCashFlow
	}
	if p.OperatingCashFlow == nil || p.CapitalExpenditures == nil {
		return nil
	}
	fcf := *p.OperatingCashFlow - abs(*p.CapitalExpenditures)
	return &fcf
}

// numericFields returns every optional line item, used for data-quality counts.
func (p *Period) numericFields() []*float64 {
	return []*float64{
		p.Revenue, p.GrossProfit, p.OperatingIncome, p.NetIncome,
		p.EPSDiluted, p.InterestExpense, p.IncomeTaxExpense, p.IncomeBeforeTax,
		p.TotalAssets, p.TotalLiabilities, p.CurrentAssets, p.CurrentLiabilities,
		p.Inventory, p.NetReceivables, p.CashAndCashEquivalents,
		p.ShortTermDebt, p.LongTermDebt, p.TotalShareholderEquity, p.SharesOutstanding,
		p.OperatingCashFlow, p.CapitalExpenditures, p.FreeCashFlow,
		p.DividendsPaid, p.StockRepurchased, p.DebtRepayment, p.EndCashPosition,
	}
}

// PopulatedFieldCount reports how many line items were actually present.
func (p *Period) PopulatedFieldCount() int {
	n := 0
	for _, f := range p.numericFields() {
		if f != nil {
			n++
		}
	}
	return n
}

// Latest returns the most recent annual period, or nil when the series is empty.
func (s StatementSeries) Latest() *Period {
	if len(s.Annual) == 0 {
		return nil
	}
	return &s.Annual[0]
}

// Prior returns the annual period immediately before the latest one.
func (s StatementSeries) Prior() *Period {
	if len(s.Annual) < 2 {
		return nil
	}
	return &s.Annual[1]
}

// At returns the n-th most recent annual period (0 = latest).
func (s StatementSeries) At(n int) *Period {
	if n < 0 || n >= len(s.Annual) {
		return nil
	}
	return &s.Annual[n]
}

// Chronological returns a copy of the annual periods ordered oldest to newest,
// the orientation time-series math wants.
func (s StatementSeries) Chronological() []Period {
	out := make([]Period, len(s.Annual))
	for i, p := range s.Annual {
		out[len(s.Annual)-1-i] = p
	}
	return out
}

// PreferTTM returns the TTM period when present, else the latest annual.
func (s StatementSeries) PreferTTM() *Period {
	if s.TTM != nil {
		return s.TTM
	}
	return s.Latest()
}
