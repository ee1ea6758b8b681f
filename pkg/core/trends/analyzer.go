package trends

import (
	"math"
	"sort"

	"finsight/pkg/models"
)

// Analyzer builds and classifies trend series from annual statements.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// yearRow joins the three statement types for one fiscal year.
type yearRow struct {
	income   *models.Period
	balance  *models.Period
	cashFlow *models.Period
}

type metricDef struct {
	name    string
	extract func(r yearRow) *float64
}

func trackedMetrics() []metricDef {
	income := func(f func(p *models.Period) *float64) func(yearRow) *float64 {
		return func(r yearRow) *float64 {
			if r.income == nil {
				return nil
			}
			return f(r.income)
		}
	}
	return []metricDef{
		{"Revenue", income(func(p *models.Period) *float64 { return p.Revenue })},
		{"Net Income", income(func(p *models.Period) *float64 { return p.NetIncome })},
		{"EPS (Diluted)", income(func(p *models.Period) *float64 { return p.EPSDiluted })},
		{"Operating Cash Flow", func(r yearRow) *float64 {
			if r.cashFlow == nil {
				return nil
			}
			return r.cashFlow.OperatingCashFlow
		}},
		{"Free Cash Flow", func(r yearRow) *float64 {
			if r.cashFlow == nil {
				return nil
			}
			return r.cashFlow.FCFOrComputed()
		}},
		{"Gross Margin", income(func(p *models.Period) *float64 {
			return marginPct(p.GrossProfit, p.Revenue)
		})},
		{"Operating Margin", income(func(p *models.Period) *float64 {
			return marginPct(p.OperatingIncome, p.Revenue)
		})},
		{"Net Margin", income(func(p *models.Period) *float64 {
			return marginPct(p.NetIncome, p.Revenue)
		})},
		{"Total Debt", func(r yearRow) *float64 {
			if r.balance == nil {
				return nil
			}
			return r.balance.TotalDebt()
		}},
		{"Debt to Equity", func(r yearRow) *float64 {
			if r.balance == nil || r.balance.TotalShareholderEquity == nil || *r.balance.TotalShareholderEquity <= 0 {
				return nil
			}
			return models.Div(r.balance.TotalDebt(), r.balance.TotalShareholderEquity)
		}},
		{"ROE", func(r yearRow) *float64 {
			if r.income == nil || r.balance == nil || r.balance.TotalShareholderEquity == nil || *r.balance.TotalShareholderEquity <= 0 {
				return nil
			}
			return marginPct(r.income.NetIncome, r.balance.TotalShareholderEquity)
		}},
		{"Asset Turnover", func(r yearRow) *float64 {
			if r.income == nil || r.balance == nil {
				return nil
			}
			return models.Div(r.income.Revenue, r.balance.TotalAssets)
		}},
		{"Shares Outstanding", func(r yearRow) *float64 {
			if r.balance == nil {
				return nil
			}
			return r.balance.SharesOutstanding
		}},
		{"Dividends Paid", func(r yearRow) *float64 {
			if r.cashFlow == nil || r.cashFlow.DividendsPaid == nil {
				return nil
			}
			v := math.Abs(*r.cashFlow.DividendsPaid)
			return &v
		}},
	}
}

// Analyze returns one classified trend per tracked metric with at least two
// usable annual observations.
func (a *Analyzer) Analyze(s *models.FinancialStatements) []TrendAnalysis {
	rows := joinByYear(s)
	var out []TrendAnalysis
	for _, m := range trackedMetrics() {
		var points []TrendPoint
		for _, r := range rows {
			if v := m.extract(r.row); v != nil {
				points = append(points, TrendPoint{FiscalYear: r.year, Value: *v})
			}
		}
		if len(points) < 2 {
			continue
		}
		out = append(out, classify(m.name, points))
	}
	return out
}

type yearEntry struct {
	year int
	row  yearRow
}

func joinByYear(s *models.FinancialStatements) []yearEntry {
	byYear := map[int]*yearRow{}
	get := func(y int) *yearRow {
		if byYear[y] == nil {
			byYear[y] = &yearRow{}
		}
		return byYear[y]
	}
	for _, p := range s.Income.Chronological() {
		pc := p
		get(p.FiscalYear).income = &pc
	}
	for _, p := range s.Balance.Chronological() {
		pc := p
		get(p.FiscalYear).balance = &pc
	}
	for _, p := range s.CashFlow.Chronological() {
		pc := p
		get(p.FiscalYear).cashFlow = &pc
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]yearEntry, 0, len(years))
	for _, y := range years {
		out = append(out, yearEntry{year: y, row: *byYear[y]})
	}
	return out
}

func classify(metric string, points []TrendPoint) TrendAnalysis {
	// Period-over-period changes in percent of the prior value.
	var changes []float64
	for i := 1; i < len(points); i++ {
		prior := points[i-1].Value
		if prior == 0 {
			continue
		}
		pct := (points[i].Value - prior) / math.Abs(prior) * 100
		points[i].PctChange = &pct
		changes = append(changes, pct)
	}

	vol := populationStdev(changes)
	dir := direction(points, changes, vol)

	t := TrendAnalysis{
		Metric:     metric,
		Points:     points,
		Direction:  dir,
		Volatility: vol,
		Indicator:  indicator(dir),
	}

	if cagr := computeCAGR(points); cagr != nil {
		t.CAGR = cagr
		if len(points) >= preferredPeriods {
			t.CAGRConfidence = "high"
		} else {
			t.CAGRConfidence = "low"
		}
	}

	t.Insight = beginnerInsight(metric, t)
	return t
}

func direction(points []TrendPoint, changes []float64, vol float64) Direction {
	if vol > volatileStdev {
		return DirectionVolatile
	}
	if len(changes) > 0 {
		up, down := 0, 0
		for _, c := range changes {
			if c > voteChangePct {
				up++
			}
			if c < -voteChangePct {
				down++
			}
		}
		share := float64(len(changes))
		if float64(up)/share >= voteShare {
			return DirectionImproving
		}
		if float64(down)/share >= voteShare {
			return DirectionDeteriorating
		}
	}
	// Endpoint fallback for mixed or small-change series.
	first, last := points[0].Value, points[len(points)-1].Value
	if first != 0 {
		total := (last - first) / math.Abs(first) * 100
		if total > endpointChangePct {
			return DirectionImproving
		}
		if total < -endpointChangePct {
			return DirectionDeteriorating
		}
	}
	return DirectionStable
}

// computeCAGR requires at least three periods and strictly positive endpoints;
// growth rates across a sign change are meaningless.
func computeCAGR(points []TrendPoint) *float64 {
	if len(points) < minCAGRPeriods {
		return nil
	}
	first, last := points[0].Value, points[len(points)-1].Value
	if first <= 0 || last <= 0 {
		return nil
	}
	years := float64(points[len(points)-1].FiscalYear - points[0].FiscalYear)
	if years <= 0 {
		years = float64(len(points) - 1)
	}
	v := math.Pow(last/first, 1/years) - 1
	return &v
}

func populationStdev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

func indicator(d Direction) string {
	switch d {
	case DirectionImproving:
		return "\U0001F4C8" // chart increasing
	case DirectionDeteriorating:
		return "\U0001F4C9" // chart decreasing
	case DirectionVolatile:
		return "\U0001F4CA" // bar chart
	default:
		return "➡️" // right arrow
	}
}

func marginPct(num, den *float64) *float64 {
	v := models.Div(num, den)
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}
