package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/interpret"
	"finsight/pkg/core/ratios"
)

func renderReport(w io.Writer, r *interpret.Report) {
	fmt.Fprintf(w, "\n%s  %s\n", text.Bold.Sprint(r.Symbol), r.Summary.Rating)
	fmt.Fprintf(w, "Health: %d/100 (%s)\n", r.Health.Overall, r.Health.Grade)
	fmt.Fprintf(w, "%s\n\n", r.Summary.OneLiner)

	renderCategories(w, r)
	renderRatios(w, r)
	renderFlags(w, "Red Flags", r.RedFlags, redSeverityColor)
	renderFlags(w, "Green Flags", r.GreenFlags, greenStrengthColor)
	renderTrends(w, r)
	renderSummary(w, r)
	renderRecommendations(w, r)
	renderWarnings(w, r)
}

func renderCategories(w io.Writer, r *interpret.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Score Breakdown")
	tw.AppendHeader(table.Row{"Category", "Weight", "Score"})
	for _, c := range r.Health.Categories {
		tw.AppendRow(table.Row{prettyName(c.Name), fmt.Sprintf("%d%%", c.Weight), c.Score})
	}
	tw.AppendFooter(table.Row{"Overall", "", r.Health.Overall})
	tw.Render()
	fmt.Fprintln(w)
}

func renderRatios(w io.Writer, r *interpret.Report) {
	if len(r.Ratios) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Key Ratios")
	tw.AppendHeader(table.Row{"Category", "Ratio", "Value", "Band"})
	for _, ra := range r.Ratios {
		value := "-"
		if ra.Value != nil {
			value = fmt.Sprintf("%.2f", *ra.Value)
		}
		band := ra.Interpretation.Band
		tw.AppendRow(table.Row{prettyName(ra.Category), ra.Name, value, bandColor(band).Sprint(band)})
	}
	tw.Render()
	fmt.Fprintln(w)
}

func bandColor(b ratios.Band) text.Color {
	switch b {
	case ratios.BandExcellent:
		return text.FgHiGreen
	case ratios.BandGood:
		return text.FgGreen
	case ratios.BandFair:
		return text.FgYellow
	default:
		return text.FgRed
	}
}

func renderFlags(w io.Writer, title string, list []flags.Flag, color func(flags.Flag) text.Color) {
	if len(list) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"", "Finding", "Detail"})
	for _, f := range list {
		label := string(f.Severity)
		if label == "" {
			label = string(f.Strength)
		}
		tw.AppendRow(table.Row{color(f).Sprint(label), f.Title, wrap(f.Description, 70)})
	}
	tw.Render()
	fmt.Fprintln(w)
}

func renderTrends(w io.Writer, r *interpret.Report) {
	if len(r.Trends) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Multi-Year Trends")
	tw.AppendHeader(table.Row{"Metric", "Direction", "CAGR", ""})
	for _, t := range r.Trends {
		cagr := "-"
		if t.CAGR != nil {
			cagr = fmt.Sprintf("%.1f%%", *t.CAGR*100)
			if t.CAGRConfidence == "low" {
				cagr += " (short history)"
			}
		}
		tw.AppendRow(table.Row{t.Metric, string(t.Direction), cagr, t.Indicator})
	}
	tw.Render()
	fmt.Fprintln(w)
}

func renderSummary(w io.Writer, r *interpret.Report) {
	s := r.Summary
	fmt.Fprintln(w, text.Bold.Sprint("In Plain English"))
	fmt.Fprintf(w, "%s\n\n", s.HealthDescription)
	if len(s.Strengths) > 0 {
		fmt.Fprintln(w, "Strengths:")
		for _, line := range s.Strengths {
			fmt.Fprintf(w, "  + %s\n", line)
		}
	}
	if len(s.Concerns) > 0 {
		fmt.Fprintln(w, "Concerns:")
		for _, line := range s.Concerns {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	fmt.Fprintf(w, "\nSuitability: %s\n\n", suitabilityLine(r))
}

func renderRecommendations(w io.Writer, r *interpret.Report) {
	if len(r.Recommendations) == 0 {
		return
	}
	fmt.Fprintln(w, text.Bold.Sprint("What To Do Next"))
	for i, rec := range r.Recommendations {
		fmt.Fprintf(w, "%d. [%s/%s] %s\n", i+1, rec.Type, rec.Priority, rec.Title)
		fmt.Fprintf(w, "   %s\n", wrap(rec.Description, 76))
	}
	fmt.Fprintln(w)
}

func renderWarnings(w io.Writer, r *interpret.Report) {
	for _, warning := range r.DataQuality.Warnings {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("note:"), warning)
	}
}

func redSeverityColor(f flags.Flag) text.Color {
	switch f.Severity {
	case flags.SeverityCritical:
		return text.FgHiRed
	case flags.SeverityHigh:
		return text.FgRed
	default:
		return text.FgYellow
	}
}

func greenStrengthColor(f flags.Flag) text.Color {
	if f.Strength == flags.StrengthExceptional {
		return text.FgHiGreen
	}
	return text.FgGreen
}

func suitabilityLine(r *interpret.Report) string {
	var fits []string
	s := r.Summary.Suitability
	if s.Conservative {
		fits = append(fits, "conservative")
	}
	if s.Growth {
		fits = append(fits, "growth")
	}
	if s.Value {
		fits = append(fits, "value")
	}
	if s.Income {
		fits = append(fits, "income")
	}
	if len(fits) == 0 {
		return "no common investor profile"
	}
	return strings.Join(fits, ", ") + " investors"
}

func prettyName(category string) string {
	words := strings.Split(category, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	line := 0
	for i, word := range words {
		if i > 0 {
			if line+len(word)+1 > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
