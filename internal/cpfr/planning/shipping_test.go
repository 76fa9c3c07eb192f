package planning

import (
	"errors"
	"testing"
)

func TestResolveShippingCatalog(t *testing.T) {
	cases := []struct {
		code string
		want float64
	}{
		{ShippingIndirect, 0},
		{ShippingZeroLagSameDay, 0},
		{ShippingZeroLagNextDay, 1},
		{ShippingAir7Days, 7},
		{ShippingAir14Days, 14},
		{ShippingAirNLD, 14},
		{ShippingAirAUT, 14},
		{ShippingSeaWestExpedite, 35},
		{ShippingSeaAsiaUSWest, 45},
		{ShippingSeaAsiaNLD, 45},
		{ShippingSeaAsiaAUT, 45},
		{ShippingSeaAsiaUSEast, 52},
		{ShippingSeaStandard, 28},
		{ShippingTruckExpress, 10.5},
		{ShippingTruckStandard, 21},
		{ShippingRail, 28},
	}
	for _, tc := range cases {
		days, _, err := ResolveShipping(tc.code, 0)
		if err != nil {
			t.Errorf("ResolveShipping(%s) failed: %v", tc.code, err)
			continue
		}
		if days != tc.want {
			t.Errorf("ResolveShipping(%s) = %v, want %v", tc.code, days, tc.want)
		}
	}
}

func TestResolveShippingBypass(t *testing.T) {
	for _, code := range []string{ShippingZeroLagSameDay, ShippingZeroLagNextDay, ShippingZeroLagCustom, ShippingIndirect} {
		_, bypass, err := ResolveShipping(code, 0)
		if err != nil {
			t.Fatalf("ResolveShipping(%s) failed: %v", code, err)
		}
		if !bypass {
			t.Errorf("ResolveShipping(%s): expected bypass", code)
		}
	}

	_, bypass, err := ResolveShipping(ShippingAir7Days, 0)
	if err != nil {
		t.Fatalf("ResolveShipping failed: %v", err)
	}
	if bypass {
		t.Error("AIR_7_DAYS must not bypass delivery week validation")
	}
}

func TestResolveShippingCustom(t *testing.T) {
	days, bypass, err := ResolveShipping(ShippingCustom, 21)
	if err != nil {
		t.Fatalf("ResolveShipping(custom, 21) failed: %v", err)
	}
	if days != 21 || bypass {
		t.Errorf("ResolveShipping(custom, 21) = (%v, %v), want (21, false)", days, bypass)
	}

	for _, bad := range []float64{0, -3} {
		if _, _, err := ResolveShipping(ShippingCustom, bad); !errors.Is(err, ErrMissingCustomDuration) {
			t.Errorf("ResolveShipping(custom, %v): expected ErrMissingCustomDuration, got %v", bad, err)
		}
	}
}

func TestResolveShippingZeroLagCustomOverride(t *testing.T) {
	days, bypass, err := ResolveShipping(ShippingZeroLagCustom, 3)
	if err != nil {
		t.Fatalf("ResolveShipping failed: %v", err)
	}
	if days != 3 {
		t.Errorf("ZERO_LAG_CUSTOM with customDays=3: days = %v, want 3", days)
	}
	if !bypass {
		t.Error("ZERO_LAG_CUSTOM must keep its bypass flag even with a custom duration")
	}
}

func TestResolveShippingUnknownCode(t *testing.T) {
	if _, _, err := ResolveShipping("AIR_EXPRESS", 0); !errors.Is(err, ErrInvalidShippingMethod) {
		t.Errorf("expected ErrInvalidShippingMethod, got %v", err)
	}
}
