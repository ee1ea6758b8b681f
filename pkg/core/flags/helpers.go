package flags

import (
	"math"

	"finsight/pkg/models"
)

// Shared field plumbing for the rule registries. Everything here preserves the
// nil-means-missing contract of the models package.

func grossMarginPct(p *models.Period) *float64 {
	v := models.Div(p.GrossProfit, p.Revenue)
	if v == nil {
		return nil
	}
	m := *v * 100
	return &m
}

func operatingMarginPct(p *models.Period) *float64 {
	v := models.Div(p.OperatingIncome, p.Revenue)
	if v == nil {
		return nil
	}
	m := *v * 100
	return &m
}

func currentRatio(p *models.Period) *float64 {
	return models.Div(p.CurrentAssets, p.CurrentLiabilities)
}

func debtToEquity(p *models.Period) *float64 {
	if p.TotalShareholderEquity == nil || *p.TotalShareholderEquity <= 0 {
		return nil
	}
	return models.Div(p.TotalDebt(), p.TotalShareholderEquity)
}

// growthPct is the year-over-year change in percent, nil-safe.
func growthPct(current, prior *float64) *float64 {
	g := models.Growth(current, prior)
	if g == nil {
		return nil
	}
	v := *g * 100
	return &v
}

// annualizedGrowth returns (end/start)^(1/years) - 1 over positive endpoints.
func annualizedGrowth(start, end float64, years float64) *float64 {
	if start <= 0 || end <= 0 || years <= 0 {
		return nil
	}
	v := math.Pow(end/start, 1/years) - 1
	return &v
}

// seriesCAGR computes compound growth over a chronological value series,
// requiring at least three points and positive endpoints.
func seriesCAGR(values []float64) *float64 {
	if len(values) < 3 {
		return nil
	}
	return annualizedGrowth(values[0], values[len(values)-1], float64(len(values)-1))
}

// chronologicalValues extracts a metric oldest-to-newest, dropping missing
// periods but keeping order.
func chronologicalValues(s models.StatementSeries, extract func(*models.Period) *float64) []float64 {
	var out []float64
	for _, p := range s.Chronological() {
		pc := p
		if v := extract(&pc); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// earningsQualityInputs picks the periods for OCF/NI style checks, preferring
// TTM when both statements carry one.
func earningsQualityInputs(s *models.FinancialStatements) (ocf, ni *float64, basis string) {
	if s.CashFlow.TTM != nil && s.Income.TTM != nil {
		return s.CashFlow.TTM.OperatingCashFlow, s.Income.TTM.NetIncome, "TTM"
	}
	li := s.Income.Latest()
	lc := s.CashFlow.Latest()
	if li == nil || lc == nil {
		return nil, nil, ""
	}
	return lc.OperatingCashFlow, li.NetIncome, "annual"
}
