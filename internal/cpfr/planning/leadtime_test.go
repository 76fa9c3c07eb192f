package planning

import (
	"testing"
	"time"
)

func intPtr(v int) *int            { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestResolveLeadTimeNormal(t *testing.T) {
	today := date(2025, time.June, 2)

	if got := ResolveLeadTime(LeadTimeSelection{Mode: LeadTimeNormal, SKULeadTimeDays: intPtr(45)}, today); got != 45 {
		t.Errorf("normal with SKU lead 45 = %d, want 45", got)
	}
	if got := ResolveLeadTime(LeadTimeSelection{Mode: LeadTimeNormal}, today); got != DefaultLeadTimeDays {
		t.Errorf("normal without SKU lead = %d, want %d", got, DefaultLeadTimeDays)
	}
}

func TestResolveLeadTimeMPReady(t *testing.T) {
	today := date(2025, time.June, 2)

	sel := LeadTimeSelection{
		Mode:        LeadTimeMPReady,
		MPStartDate: timePtr(date(2025, time.July, 2)),
	}
	if got := ResolveLeadTime(sel, today); got != 30 {
		t.Errorf("mp_ready 30 days out = %d, want 30", got)
	}

	// MP date in the past is floored at 1, never 0 or negative
	sel.MPStartDate = timePtr(date(2025, time.May, 1))
	if got := ResolveLeadTime(sel, today); got != 1 {
		t.Errorf("mp_ready in the past = %d, want 1", got)
	}

	// Missing MP date falls back to the normal path
	sel = LeadTimeSelection{Mode: LeadTimeMPReady, SKULeadTimeDays: intPtr(20)}
	if got := ResolveLeadTime(sel, today); got != 20 {
		t.Errorf("mp_ready without MP date = %d, want SKU default 20", got)
	}
}

func TestResolveLeadTimeCustom(t *testing.T) {
	today := date(2025, time.June, 2)

	sel := LeadTimeSelection{Mode: LeadTimeCustom, CustomDate: timePtr(date(2025, time.June, 16))}
	if got := ResolveLeadTime(sel, today); got != 14 {
		t.Errorf("custom date 14 days out = %d, want 14", got)
	}

	sel = LeadTimeSelection{Mode: LeadTimeCustom, CustomDays: intPtr(10)}
	if got := ResolveLeadTime(sel, today); got != 10 {
		t.Errorf("custom raw day count = %d, want 10", got)
	}

	// Custom date has priority over the raw day count
	sel = LeadTimeSelection{
		Mode:       LeadTimeCustom,
		CustomDate: timePtr(date(2025, time.June, 9)),
		CustomDays: intPtr(99),
	}
	if got := ResolveLeadTime(sel, today); got != 7 {
		t.Errorf("custom date should win over day count: got %d, want 7", got)
	}

	sel = LeadTimeSelection{Mode: LeadTimeCustom, SKULeadTimeDays: intPtr(25)}
	if got := ResolveLeadTime(sel, today); got != 25 {
		t.Errorf("custom without params = %d, want SKU fallback 25", got)
	}

	sel = LeadTimeSelection{Mode: LeadTimeCustom}
	if got := ResolveLeadTime(sel, today); got != DefaultLeadTimeDays {
		t.Errorf("custom without anything = %d, want %d", got, DefaultLeadTimeDays)
	}
}

func TestResolveLeadTimeNeverBelowOne(t *testing.T) {
	today := date(2025, time.June, 2)
	sels := []LeadTimeSelection{
		{Mode: LeadTimeMPReady, MPStartDate: timePtr(date(2020, time.January, 1))},
		{Mode: LeadTimeCustom, CustomDate: timePtr(date(2020, time.January, 1))},
	}
	for i, sel := range sels {
		if got := ResolveLeadTime(sel, today); got < 1 {
			t.Errorf("case %d: lead time %d < 1", i, got)
		}
	}
}
