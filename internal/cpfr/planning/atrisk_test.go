package planning

import (
	"testing"
	"time"
)

func baseRisk() ForecastRisk {
	return ForecastRisk{
		DeliveryWeek:   "2025-W43", // Monday 2025-10-20
		ShippingMethod: ShippingAir14Days,
		LeadTimeDays:   30,
	}
}

func TestAtRiskDeliveredNeverAtRisk(t *testing.T) {
	today := date(2025, time.December, 1) // well past due

	f := baseRisk()
	f.Signals.Warehouse = SignalConfirmed
	atRisk, err := AtRisk(f, today)
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if atRisk {
		t.Error("warehouse-confirmed forecast must not be at risk, even past due")
	}

	f = baseRisk()
	f.Signals.Transit = SignalConfirmed
	atRisk, err = AtRisk(f, today)
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if atRisk {
		t.Error("transit-confirmed forecast must not be at risk")
	}
}

func TestAtRiskPastDue(t *testing.T) {
	today := date(2025, time.November, 3)

	atRisk, err := AtRisk(baseRisk(), today)
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if !atRisk {
		t.Error("past-due and not delivered must be at risk")
	}
}

func TestAtRiskLateMilestones(t *testing.T) {
	today := date(2025, time.June, 2) // plenty of time otherwise

	f := baseRisk()
	f.Signals.Factory = SignalConfirmed
	f.Signals.Transit = SignalSubmitted
	f.EstimatedWarehouseArrival = timePtr(date(2025, time.October, 27))
	atRisk, err := AtRisk(f, today)
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if !atRisk {
		t.Error("estimated warehouse arrival after the delivery date must flag risk")
	}

	f = baseRisk()
	f.Signals.Factory = SignalConfirmed
	f.Signals.Transit = SignalSubmitted
	f.ConfirmedDeliveryDate = timePtr(date(2025, time.November, 10))
	atRisk, err = AtRisk(f, today)
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if !atRisk {
		t.Error("confirmed delivery after the delivery date must flag risk")
	}
}

func TestAtRiskThreeTierEstimate(t *testing.T) {
	// Factory pending needs lead+transit+buffer = 30+14+5 = 49 days
	f := baseRisk()

	atRisk, err := AtRisk(f, date(2025, time.September, 20)) // 30 days left
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if !atRisk {
		t.Error("factory pending with 30 of 49 needed days must be at risk")
	}

	atRisk, err = AtRisk(f, date(2025, time.June, 2)) // 140 days left
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if atRisk {
		t.Error("factory pending with ample time must not be at risk")
	}

	// Factory confirmed but not shipped needs transit+7 = 21 days
	f.Signals.Factory = SignalConfirmed
	atRisk, err = AtRisk(f, date(2025, time.October, 5)) // 15 days left
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if !atRisk {
		t.Error("confirmed-not-shipped with 15 of 21 needed days must be at risk")
	}

	// In transit needs the transit days; 15 days left covers 14 but trips the
	// blanket <14-days rule boundary check at exactly 14
	f.Signals.Transit = SignalSubmitted
	atRisk, err = AtRisk(f, date(2025, time.October, 5)) // 15 days left
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if atRisk {
		t.Error("in transit with 15 days left for 14 transit days should not be at risk")
	}

	atRisk, err = AtRisk(f, date(2025, time.October, 7)) // 13 days left
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if !atRisk {
		t.Error("under 14 days remaining and not delivered must trip the blanket rule")
	}
}

func TestAtRiskZeroLagBypass(t *testing.T) {
	f := baseRisk()
	f.ShippingMethod = ShippingZeroLagNextDay

	atRisk, err := AtRisk(f, date(2025, time.October, 18))
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	if atRisk {
		t.Error("zero-lag shipping bypasses the transit estimate")
	}
}

func TestAtRiskMalformedWeek(t *testing.T) {
	f := baseRisk()
	f.DeliveryWeek = "not-a-week"
	if _, err := AtRisk(f, date(2025, time.June, 2)); err == nil {
		t.Error("expected parse error for malformed delivery week")
	}
}
