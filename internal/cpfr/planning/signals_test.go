package planning

import "testing"

func TestAggregateSignalsPriorityCascade(t *testing.T) {
	cases := []struct {
		name string
		set  SignalSet
		want OverallStatus
	}{
		{
			// Rejection takes precedence over an otherwise complete-looking state
			"rejected beats confirmed",
			SignalSet{Sales: SignalRejected, Factory: SignalConfirmed, Transit: SignalConfirmed},
			StatusRejected,
		},
		{
			"factory rejection",
			SignalSet{Sales: SignalSubmitted, Factory: SignalRejected, Transit: SignalSubmitted},
			StatusRejected,
		},
		{
			"all confirmed",
			SignalSet{Sales: SignalConfirmed, Factory: SignalConfirmed, Transit: SignalConfirmed},
			StatusConfirmed,
		},
		{
			"in process with submitted sales",
			SignalSet{Sales: SignalSubmitted, Factory: SignalReviewing, Transit: SignalSubmitted},
			StatusInProcess,
		},
		{
			"in process with draft sales",
			SignalSet{Sales: SignalDraft, Factory: SignalReviewing, Transit: SignalSubmitted},
			StatusInProcess,
		},
		{
			// Submitted but incomplete chain is visually as severe as rejected
			"submitted with unknown factory",
			SignalSet{Sales: SignalSubmitted, Factory: SignalUnknown, Transit: SignalSubmitted},
			StatusRejected,
		},
		{
			"submitted with unknown transit",
			SignalSet{Sales: SignalSubmitted, Factory: SignalReviewing, Transit: SignalUnknown},
			StatusRejected,
		},
		{
			"no activity",
			SignalSet{Sales: SignalUnknown, Factory: SignalUnknown, Transit: SignalUnknown},
			StatusNoActivity,
		},
		{
			"empty set normalizes to no activity",
			SignalSet{},
			StatusNoActivity,
		},
		{
			// Falls through all specific cases into the default bucket
			"fallback bucket",
			SignalSet{Sales: SignalDraft, Factory: SignalUnknown, Transit: SignalUnknown},
			StatusRejected,
		},
		{
			"partial confirmation falls back",
			SignalSet{Sales: SignalConfirmed, Factory: SignalConfirmed, Transit: SignalSubmitted},
			StatusRejected,
		},
	}

	for _, tc := range cases {
		if got := AggregateSignals(tc.set); got != tc.want {
			t.Errorf("%s: AggregateSignals(%+v) = %s, want %s", tc.name, tc.set, got, tc.want)
		}
	}
}

// The warehouse signal is tracked per forecast but deliberately excluded from
// the three-signal aggregation.
func TestAggregateSignalsIgnoresWarehouse(t *testing.T) {
	set := SignalSet{
		Sales:     SignalConfirmed,
		Factory:   SignalConfirmed,
		Transit:   SignalConfirmed,
		Warehouse: SignalRejected,
	}
	if got := AggregateSignals(set); got != StatusConfirmed {
		t.Errorf("warehouse signal must not affect aggregation: got %s", got)
	}
}

func TestOverallStatusColors(t *testing.T) {
	cases := map[OverallStatus]string{
		StatusRejected:   "red",
		StatusConfirmed:  "green",
		StatusInProcess:  "yellow",
		StatusNoActivity: "gray",
	}
	for status, want := range cases {
		if got := status.Color(); got != want {
			t.Errorf("%s.Color() = %s, want %s", status, got, want)
		}
	}
}
