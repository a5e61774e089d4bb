package condenser

import (
	"math"
	"math/rand"
	"testing"

	"github.com/HerbHall/condensight/internal/testutil"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestThermalEfficiency(t *testing.T) {
	t.Parallel()

	got := ThermalEfficiency(2300, 2500)
	if !approxEqual(got, 92.0, 1e-9) {
		t.Errorf("ThermalEfficiency(2300, 2500) = %g, want 92.0", got)
	}
}

func TestEnergyLossKW(t *testing.T) {
	t.Parallel()

	got := EnergyLossKW(2500, 2300, 44370, 14)
	if !approxEqual(got, 124236, 1e-6) {
		t.Errorf("EnergyLossKW = %g, want 124236", got)
	}
}

func TestCoalAndCO2(t *testing.T) {
	t.Parallel()

	coal := CoalTonsPerDay(1000, 24)
	want := 1000.0 * 24 * 0.36 / 1000
	if !approxEqual(coal, want, 1e-9) {
		t.Errorf("CoalTonsPerDay = %g, want %g", coal, want)
	}

	co2 := CO2KgPerDay(coal)
	if !approxEqual(co2, coal*2.86, 1e-9) {
		t.Errorf("CO2KgPerDay = %g, want %g", co2, coal*2.86)
	}
}

func TestCalculator_Breakdown(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	calc := NewCalculator(cfg)
	p := calc.Annotate(testutil.NewReading())

	b := calc.Breakdown(p)

	energy := p.EnergyLossKW * cfg.EnergyRate * cfg.OperatingHours
	if !approxEqual(b.EnergyCost, energy, 1e-6) {
		t.Errorf("EnergyCost = %g, want %g", b.EnergyCost, energy)
	}
	if !approxEqual(b.MaintenanceCost, energy*0.15, 1e-6) {
		t.Errorf("MaintenanceCost = %g, want %g", b.MaintenanceCost, energy*0.15)
	}
	if !approxEqual(b.EfficiencyLossCost, energy*0.08, 1e-6) {
		t.Errorf("EfficiencyLossCost = %g, want %g", b.EfficiencyLossCost, energy*0.08)
	}
	coalTons := calc.CoalTonsPerDay(p)
	if !approxEqual(b.EnvironmentalCost, coalTons*cfg.CoalPrice*0.02, 1e-6) {
		t.Errorf("EnvironmentalCost = %g", b.EnvironmentalCost)
	}
	sum := b.EnergyCost + b.MaintenanceCost + b.EfficiencyLossCost + b.EnvironmentalCost
	if !approxEqual(b.TotalCost, sum, 1e-6) {
		t.Errorf("TotalCost = %g, want sum %g", b.TotalCost, sum)
	}
}

func TestCalculator_Annotate_order_independent(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(DefaultConfig())
	series := testutil.LinearSeries(testutil.BaseTime, 20, 0.00002, 0.00004)

	// Per-record derived metrics must not depend on input ordering.
	want := make(map[int64]float64, len(series))
	for _, r := range series {
		want[r.Timestamp.Unix()] = calc.Annotate(r).EnergyLossKW
	}

	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(series), func(i, j int) { series[i], series[j] = series[j], series[i] })

	for _, r := range series {
		got := calc.Annotate(r).EnergyLossKW
		if got != want[r.Timestamp.Unix()] {
			t.Fatalf("EnergyLossKW changed under permutation: got %g, want %g", got, want[r.Timestamp.Unix()])
		}
	}
}

func TestCalculator_fouled_above_clean_not_clamped(t *testing.T) {
	t.Parallel()

	// UFoul above the clean baseline is unusual but must pass through
	// losslessly: it feeds alerting, it is not a rejection case.
	calc := NewCalculator(DefaultConfig())
	p := calc.Annotate(testutil.NewReading(testutil.WithUFoul(2600)))

	if !approxEqual(p.EfficiencyPercent, 104.0, 1e-9) {
		t.Errorf("EfficiencyPercent = %g, want 104.0 (no clamp at 100)", p.EfficiencyPercent)
	}
	wantLoss := (2500.0 - 2600.0) * 44370 * 14 / 1000
	if !approxEqual(p.EnergyLossKW, wantLoss, 1e-6) {
		t.Errorf("EnergyLossKW = %g, want negative %g (no clamp at 0)", p.EnergyLossKW, wantLoss)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero u_clean", func(c *Config) { c.UClean = 0 }, true},
		{"negative area", func(c *Config) { c.AreaM2 = -1 }, true},
		{"zero operating hours", func(c *Config) { c.OperatingHours = 0 }, true},
		{"trend window too small", func(c *Config) { c.TrendWindowPoints = 1 }, true},
		{"zero seasonal lookback", func(c *Config) { c.SeasonalLookback = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
