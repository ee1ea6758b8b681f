// Package flags runs the warning-sign and positive-signal rule registries.
// Each rule is an independent pure function of the statements: it either
// returns a fully-populated flag or nil when its trigger is not met or a
// required field is missing. The analyzers are folds over the registries, so
// adding a rule never touches an existing one.
package flags

import "sort"

// Severity ranks warning signs, worst first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Strength ranks positive signals, best first.
type Strength string

const (
	StrengthExceptional Strength = "exceptional"
	StrengthStrong      Strength = "strong"
	StrengthGood        Strength = "good"
)

func strengthRank(s Strength) int {
	switch s {
	case StrengthExceptional:
		return 0
	case StrengthStrong:
		return 1
	default:
		return 2
	}
}

// ConfidenceScore records provenance for a flag. Flags are derived
// deterministically from filed data with no estimation, so the score is always
// maximum; FieldsUsed lists the statement lines the rule consumed.
type ConfidenceScore struct {
	Score      int      `json:"score"`
	Level      string   `json:"level"`
	Source     string   `json:"source"`
	FieldsUsed []string `json:"fields_used"`
}

func confidence(fields ...string) ConfidenceScore {
	return ConfidenceScore{Score: 100, Level: "maximum", Source: "SEC EDGAR", FieldsUsed: fields}
}

// Flag is one triggered rule, red or green. Severity is set on warning signs,
// Strength on positive signals; never both.
type Flag struct {
	ID          string          `json:"id"`
	Severity    Severity        `json:"severity,omitempty"`
	Strength    Strength        `json:"strength,omitempty"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Explanation string          `json:"explanation"`
	Formula     string          `json:"formula"`
	Value       float64         `json:"value"`
	Threshold   string          `json:"threshold"`
	Advice      string          `json:"advice"`
	Confidence  ConfidenceScore `json:"confidence"`
}

func sortBySeverity(list []Flag) {
	sort.SliceStable(list, func(i, j int) bool {
		return severityRank(list[i].Severity) < severityRank(list[j].Severity)
	})
}

func sortByStrength(list []Flag) {
	sort.SliceStable(list, func(i, j int) bool {
		return strengthRank(list[i].Strength) < strengthRank(list[j].Strength)
	})
}
