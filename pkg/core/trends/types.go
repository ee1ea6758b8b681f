// Package trends classifies multi-year trajectories for the key statement
// metrics: direction, compound growth, and volatility. Series are built
// oldest to newest; a metric with fewer than two usable periods is omitted.
package trends

type Direction string

const (
	DirectionImproving     Direction = "improving"
	DirectionStable        Direction = "stable"
	DirectionDeteriorating Direction = "deteriorating"
	DirectionVolatile      Direction = "volatile"
)

// TrendPoint is one annual observation. PctChange is relative to the prior
// point and nil for the first point or when the prior value was zero.
type TrendPoint struct {
	FiscalYear int      `json:"fiscal_year"`
	Value      float64  `json:"value"`
	PctChange  *float64 `json:"pct_change,omitempty"`
}

// TrendAnalysis is the classified trajectory of one metric.
type TrendAnalysis struct {
	Metric    string       `json:"metric"`
	Points    []TrendPoint `json:"points"`
	Direction Direction    `json:"direction"`
	// CAGR is present only with three or more periods and positive endpoints.
	CAGR *float64 `json:"cagr,omitempty"`
	// CAGRConfidence is "low" for 3-4 period series and "high" for 5+.
	// Short-history CAGR is statistically weak, so callers get a quality tag
	// instead of a silently identical number.
	CAGRConfidence string  `json:"cagr_confidence,omitempty"`
	Volatility     float64 `json:"volatility"`
	Insight        string  `json:"insight"`
	Indicator      string  `json:"indicator"`
}

// Classification thresholds.
const (
	volatileStdev     = 50.0 // pct-change stdev above which a series is volatile
	voteShare         = 0.70 // share of period changes needed for a directional vote
	voteChangePct     = 5.0  // a period change beyond +/-5% counts as a vote
	endpointChangePct = 10.0 // first-vs-last fallback threshold
	minCAGRPeriods    = 3
	preferredPeriods  = 5
)
