package condenser

import (
	"testing"

	"github.com/HerbHall/condensight/internal/testutil"
)

func TestSlope_linear_series_recovers_b(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b float64
		n    int
	}{
		{"rising", 0.00002, 0.000001, 10},
		{"falling", 0.5, -0.01, 24},
		{"two points", 1, 2, 2},
		{"long", 0, 0.0000001, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			values := make([]float64, tt.n)
			for i := range values {
				values[i] = tt.a + tt.b*float64(i)
			}
			got := Slope(values)
			if !approxEqual(got, tt.b, 1e-12) {
				t.Errorf("Slope = %g, want %g", got, tt.b)
			}
		})
	}
}

func TestSlope_degenerate(t *testing.T) {
	t.Parallel()

	if got := Slope(nil); got != 0 {
		t.Errorf("Slope(nil) = %g, want 0", got)
	}
	if got := Slope([]float64{42}); got != 0 {
		t.Errorf("Slope(single) = %g, want 0", got)
	}
	if got := Slope([]float64{3, 3, 3, 3}); !approxEqual(got, 0, 1e-15) {
		t.Errorf("Slope(constant) = %g, want 0", got)
	}
}

func TestTrendSlope_uses_trailing_window(t *testing.T) {
	t.Parallel()

	// 48 hourly points, Rfoul linear 0.000020 -> 0.000040.
	series := testutil.LinearSeries(testutil.BaseTime, 48, 0.00002, 0.00004)
	window := FilterWindow(series, Timeframe24h)
	if len(window) != 24 {
		t.Fatalf("filtered window has %d points, want 24", len(window))
	}

	got := TrendSlope(window, 24)
	want := (0.00004 - 0.00002) / 47 // per-step increment of the source series
	if !approxEqual(got, want, 1e-12) {
		t.Errorf("TrendSlope = %g, want %g", got, want)
	}
}

func TestTrendSlope_caps_at_max_points(t *testing.T) {
	t.Parallel()

	// Flat for 50 points, then steeply rising for the last 10.
	series := testutil.LinearSeries(testutil.BaseTime, 60, 0, 0)
	for i := 50; i < 60; i++ {
		series[i].RFoul = float64(i-50) * 0.001
	}

	capped := TrendSlope(series, 10)
	full := TrendSlope(series, 0)
	if approxEqual(capped, full, 1e-12) {
		t.Error("maxPoints cap had no effect on trailing-window slope")
	}
	if !approxEqual(capped, 0.001, 1e-12) {
		t.Errorf("capped slope = %g, want 0.001", capped)
	}
}
