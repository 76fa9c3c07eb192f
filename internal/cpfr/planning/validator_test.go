package planning

import (
	"errors"
	"testing"
	"time"
)

func TestWeekFeasible(t *testing.T) {
	today := date(2025, time.September, 1) // Monday
	in := FeasibilityInput{
		ShippingMethod: ShippingAir14Days,
		LeadTime:       normalLead(30),
	}
	// earliest feasible = today + 44 days = 2025-10-15 (Wednesday, week 42)

	// Week 2025-W40 (Sep 29) is entirely before the earliest date
	ok, err := WeekFeasible("2025-W40", in, today)
	if err != nil {
		t.Fatalf("WeekFeasible failed: %v", err)
	}
	if ok {
		t.Error("2025-W40 should be too early")
	}

	// Week 2025-W42 contains days before Oct 15 → still too early
	ok, err = WeekFeasible("2025-W42", in, today)
	if err != nil {
		t.Fatalf("WeekFeasible failed: %v", err)
	}
	if ok {
		t.Error("2025-W42 spans days before the earliest feasible date")
	}

	// Week 2025-W43 starts Oct 20, its Sunday (Oct 19) is on/after Oct 15
	ok, err = WeekFeasible("2025-W43", in, today)
	if err != nil {
		t.Fatalf("WeekFeasible failed: %v", err)
	}
	if !ok {
		t.Error("2025-W43 should be feasible")
	}
}

// Zero-lag and indirect methods bypass the gate entirely: every future week is
// feasible regardless of lead time.
func TestWeekFeasibleZeroLagBypass(t *testing.T) {
	today := date(2025, time.September, 1)

	for _, method := range []string{ShippingZeroLagSameDay, ShippingZeroLagNextDay, ShippingIndirect} {
		in := FeasibilityInput{
			ShippingMethod: method,
			LeadTime:       normalLead(365),
		}
		for _, week := range []string{"2025-W36", "2025-W37", "2025-W40", "2026-W01"} {
			ok, err := WeekFeasible(week, in, today)
			if err != nil {
				t.Fatalf("WeekFeasible(%s, %s) failed: %v", week, method, err)
			}
			if !ok {
				t.Errorf("WeekFeasible(%s, %s) = false, want bypass", week, method)
			}
		}
	}
}

// Fractional transit (TRUCK_EXPRESS = 10.5 days) must not push the earliest
// bound to mid-day: a week whose Sunday falls on the same calendar day as the
// earliest feasible date still counts as feasible.
func TestWeekFeasibleFractionalTransit(t *testing.T) {
	today := date(2025, time.September, 16) // Tuesday
	in := FeasibilityInput{
		ShippingMethod: ShippingTruckExpress,
		LeadTime:       normalLead(30),
	}
	// 30 + 10.5 days, truncated to whole days → earliest = 2025-10-26 (Sunday)

	earliest, bypass, err := EarliestFeasibleDate(in, today)
	if err != nil || bypass {
		t.Fatalf("EarliestFeasibleDate: bypass=%v err=%v", bypass, err)
	}
	if got := earliest.Format("2006-01-02 15:04"); got != "2025-10-26 00:00" {
		t.Fatalf("earliest = %s, want 2025-10-26 00:00", got)
	}

	// 2025-W44's Sunday is exactly Oct 26 → feasible
	ok, err := WeekFeasible("2025-W44", in, today)
	if err != nil {
		t.Fatalf("WeekFeasible failed: %v", err)
	}
	if !ok {
		t.Error("2025-W44 should be feasible when its Sunday equals the earliest date")
	}

	// 2025-W43's Sunday (Oct 19) is a week before the earliest date
	ok, err = WeekFeasible("2025-W43", in, today)
	if err != nil {
		t.Fatalf("WeekFeasible failed: %v", err)
	}
	if ok {
		t.Error("2025-W43 should still be too early")
	}

	// The calendar picker applies the same day-granular bound
	weeks, err := PlanningWeeks(in, today)
	if err != nil {
		t.Fatalf("PlanningWeeks failed: %v", err)
	}
	feasibleByWeek := map[string]bool{}
	for _, w := range weeks {
		feasibleByWeek[w.ISOWeek] = w.Feasible
	}
	if !feasibleByWeek["2025-W44"] {
		t.Error("PlanningWeeks should mark 2025-W44 feasible")
	}
	if feasibleByWeek["2025-W43"] {
		t.Error("PlanningWeeks should mark 2025-W43 infeasible")
	}
}

func TestNextFeasibleWeek(t *testing.T) {
	today := date(2025, time.September, 1)
	in := FeasibilityInput{
		ShippingMethod: ShippingAir14Days,
		LeadTime:       normalLead(30),
	}

	got, err := NextFeasibleWeek("2025-W40", in, today)
	if err != nil {
		t.Fatalf("NextFeasibleWeek failed: %v", err)
	}
	if got != "2025-W43" {
		t.Errorf("NextFeasibleWeek = %s, want 2025-W43", got)
	}

	// Already-feasible candidate is returned as-is (normalized)
	got, err = NextFeasibleWeek("2025-W45", in, today)
	if err != nil {
		t.Fatalf("NextFeasibleWeek failed: %v", err)
	}
	if got != "2025-W45" {
		t.Errorf("NextFeasibleWeek = %s, want 2025-W45", got)
	}
}

func TestNextFeasibleWeekBounded(t *testing.T) {
	today := date(2025, time.September, 1)
	in := FeasibilityInput{
		ShippingMethod: ShippingSeaAsiaUSEast,
		LeadTime:       normalLead(365),
	}

	_, err := NextFeasibleWeek("2025-W36", in, today)
	if !errors.Is(err, ErrNoFeasibleWeekFound) {
		t.Errorf("expected ErrNoFeasibleWeekFound, got %v", err)
	}
}

func TestNextFeasibleWeekMalformedCandidate(t *testing.T) {
	today := date(2025, time.September, 1)
	in := FeasibilityInput{ShippingMethod: ShippingAir7Days, LeadTime: normalLead(30)}

	if _, err := NextFeasibleWeek("W-what", in, today); !errors.Is(err, ErrMalformedWeekLabel) {
		t.Errorf("expected ErrMalformedWeekLabel, got %v", err)
	}
}

func TestPlanningWeeks(t *testing.T) {
	today := date(2025, time.September, 1)

	// Short horizon: the default 12 weeks
	weeks, err := PlanningWeeks(FeasibilityInput{
		ShippingMethod: ShippingAir7Days,
		LeadTime:       normalLead(7),
	}, today)
	if err != nil {
		t.Fatalf("PlanningWeeks failed: %v", err)
	}
	if len(weeks) != 12 {
		t.Errorf("expected 12 weeks, got %d", len(weeks))
	}
	if weeks[0].StartDate.Weekday() != time.Monday {
		t.Errorf("weeks must start on Monday, got %s", weeks[0].StartDate.Weekday())
	}

	// Long horizon extends past the earliest feasible week by 6
	weeks, err = PlanningWeeks(FeasibilityInput{
		ShippingMethod: ShippingSeaAsiaUSEast, // 52 days
		LeadTime:       normalLead(60),
	}, today)
	if err != nil {
		t.Fatalf("PlanningWeeks failed: %v", err)
	}
	if len(weeks) <= 12 {
		t.Errorf("long horizon should extend beyond 12 weeks, got %d", len(weeks))
	}

	feasibleSeen := false
	for _, w := range weeks {
		if w.Feasible {
			feasibleSeen = true
			break
		}
	}
	if !feasibleSeen {
		t.Error("the extended horizon must contain at least one feasible week")
	}
}
