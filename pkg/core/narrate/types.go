// Package narrate turns the analyzer outputs into plain language: a beginner
// summary with investor-suitability flags, and a prioritized, capped list of
// recommendations. All text comes from fixed template tables with required
// fallbacks, so output is deterministic and a missing phrase can never produce
// an empty string.
package narrate

// Suitability holds four independent investor-profile booleans. Each requires
// a score floor, specific supporting evidence, and the absence of
// disqualifying warning signs.
type Suitability struct {
	Conservative bool `json:"conservative"`
	Growth       bool `json:"growth"`
	Value        bool `json:"value"`
	Income       bool `json:"income"`
}

// BeginnerSummary is the plain-language reading of a full analysis.
type BeginnerSummary struct {
	OneLiner          string      `json:"one_liner"`
	HealthDescription string      `json:"health_description"`
	Strengths         []string    `json:"strengths"`
	Concerns          []string    `json:"concerns"`
	Rating            string      `json:"rating"`
	Suitability       Suitability `json:"suitability"`
}

type RecommendationType string

const (
	TypeAction      RecommendationType = "action"
	TypeMonitor     RecommendationType = "monitor"
	TypeInvestigate RecommendationType = "investigate"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation is one prioritized follow-up for the reader.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Priority    Priority           `json:"priority"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Rationale   string             `json:"rationale"`
	Timeframe   string             `json:"timeframe"`
}

// MaxRecommendations is the default cap on generator output.
const MaxRecommendations = 8
