package models

import (
	"testing"
	"time"
)

func TestTotalDebtFallback(t *testing.T) {
	// Only long term debt reported: short side treated as zero, not missing.
	p := Period{LongTermDebt: F(500)}
	if d := p.TotalDebt(); d == nil || *d != 500 {
		t.Errorf("expected total debt 500, got %v", d)
	}

	// Both sides missing: nil, never zero.
	empty := Period{}
	if d := empty.TotalDebt(); d != nil {
		t.Errorf("expected nil total debt, got %v", *d)
	}

	both := Period{ShortTermDebt: F(100), LongTermDebt: F(400)}
	if d := both.TotalDebt(); d == nil || *d != 500 {
		t.Errorf("expected total debt 500, got %v", d)
	}
}

func TestFCFOrComputed(t *testing.T) {
	reported := Period{FreeCashFlow: F(80), OperatingCashFlow: F(100), CapitalExpenditures: F(-30)}
	if v := reported.FCFOrComputed(); v == nil || *v != 80 {
		t.Errorf("expected reported FCF 80, got %v", v)
	}

	// CapEx often arrives negative (cash outflow convention); fallback must
	// subtract its magnitude either way: 100 - 30 = 70.
	computed := Period{OperatingCashFlow: F(100), CapitalExpenditures: F(-30)}
	if v := computed.FCFOrComputed(); v == nil || *v != 70 {
		t.Errorf("expected computed FCF 70, got %v", v)
	}

	positive := Period{OperatingCashFlow: F(100), CapitalExpenditures: F(30)}
	if v := positive.FCFOrComputed(); v == nil || *v != 70 {
		t.Errorf("expected computed FCF 70, got %v", v)
	}

	missing := Period{OperatingCashFlow: F(100)}
	if v := missing.FCFOrComputed(); v != nil {
		t.Errorf("expected nil FCF, got %v", *v)
	}
}

func TestDivGuards(t *testing.T) {
	if v := Div(F(10), F(0)); v != nil {
		t.Errorf("division by zero must return nil, got %v", *v)
	}
	if v := Div(F(10), nil); v != nil {
		t.Errorf("missing denominator must return nil, got %v", *v)
	}
	if v := Div(F(10), F(4)); v == nil || *v != 2.5 {
		t.Errorf("expected 2.5, got %v", v)
	}
}

func TestGrowthUsesAbsolutePrior(t *testing.T) {
	// From -100 to +50 is a 150% improvement relative to |prior|.
	g := Growth(F(50), F(-100))
	if g == nil || *g != 1.5 {
		t.Errorf("expected 1.5, got %v", g)
	}
	if g := Growth(F(50), F(0)); g != nil {
		t.Errorf("zero prior must return nil, got %v", *g)
	}
}

func TestChronologicalReversesNewestFirst(t *testing.T) {
	s := StatementSeries{Annual: []Period{
		{FiscalYear: 2025}, {FiscalYear: 2024}, {FiscalYear: 2023},
	}}
	got := s.Chronological()
	want := []int{2023, 2024, 2025}
	for i, y := range want {
		if got[i].FiscalYear != y {
			t.Fatalf("position %d: expected %d, got %d", i, y, got[i].FiscalYear)
		}
	}
	if s.Latest().FiscalYear != 2025 || s.Prior().FiscalYear != 2024 {
		t.Errorf("latest/prior accessors disagree with newest-first ordering")
	}
}

func TestPreferTTM(t *testing.T) {
	ttm := Period{Date: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), NetIncome: F(10)}
	s := StatementSeries{Annual: []Period{{FiscalYear: 2024}}, TTM: &ttm}
	if got := s.PreferTTM(); got == nil || got.NetIncome == nil {
		t.Fatal("expected TTM period")
	}
	noTTM := StatementSeries{Annual: []Period{{FiscalYear: 2024}}}
	if got := noTTM.PreferTTM(); got == nil || got.FiscalYear != 2024 {
		t.Fatal("expected latest annual fallback")
	}
}
