package condenser

import (
	"fmt"
	"time"
)

// Config holds the condenser module configuration. Plant parameters vary
// per deployment and must come from configuration, never constants.
type Config struct {
	// UClean is the clean-baseline heat transfer coefficient in W/m²K.
	UClean float64 `mapstructure:"u_clean"`

	// AreaM2 is the condenser heat-exchange surface area in m².
	AreaM2 float64 `mapstructure:"area_m2"`

	// EnergyRate is the cost of energy per kWh in the deployment currency.
	EnergyRate float64 `mapstructure:"energy_rate"`

	// OperatingHours is the number of operating hours per day.
	OperatingHours float64 `mapstructure:"operating_hours"`

	// CoalPrice is the coal unit price per ton.
	CoalPrice float64 `mapstructure:"coal_price"`

	// TrendWindowPoints caps the number of trailing points fed to the
	// trend regression.
	TrendWindowPoints int `mapstructure:"trend_window_points"`

	// SeasonalLookback is the averaging window used for the year-over-year
	// comparison.
	SeasonalLookback time.Duration `mapstructure:"seasonal_lookback"`

	// RetentionPeriod controls how long readings and alerts are kept.
	// Must cover at least one year plus the seasonal lookback, or the
	// year-over-year comparison never finds prior data.
	RetentionPeriod time.Duration `mapstructure:"retention_period"`

	// MaintenanceInterval is how often retention cleanup runs.
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval"`

	Thresholds Thresholds `mapstructure:"thresholds"`
}

// Thresholds are the alert cutoffs. Observed deployments use materially
// different values, so these are configuration inputs.
type Thresholds struct {
	CriticalFoulingResistance float64 `mapstructure:"critical_fouling_resistance"` // m²K/W
	MinEfficiencyPercent      float64 `mapstructure:"min_efficiency_percent"`      // 0-100
	MaxDailyCost              float64 `mapstructure:"max_daily_cost"`
	MaxDailyCO2Kg             float64 `mapstructure:"max_daily_co2_kg"`
}

// DefaultConfig returns the default condenser configuration.
func DefaultConfig() Config {
	return Config{
		UClean:              2500,
		AreaM2:              44370,
		EnergyRate:          0.5,
		OperatingHours:      24,
		CoalPrice:           850,
		TrendWindowPoints:   24,
		SeasonalLookback:    24 * time.Hour,
		RetentionPeriod:     9528 * time.Hour,
		MaintenanceInterval: time.Hour,
		Thresholds: Thresholds{
			CriticalFoulingResistance: 0.00026,
			MinEfficiencyPercent:      85,
			MaxDailyCost:              1500000,
			MaxDailyCO2Kg:             3500,
		},
	}
}

// Validate checks the configuration for values that would make the derived
// metrics ill-defined. These are fatal at startup, not per-reading errors.
func (c *Config) Validate() error {
	if c.UClean <= 0 {
		return fmt.Errorf("u_clean must be positive, got %g", c.UClean)
	}
	if c.AreaM2 <= 0 {
		return fmt.Errorf("area_m2 must be positive, got %g", c.AreaM2)
	}
	if c.OperatingHours <= 0 {
		return fmt.Errorf("operating_hours must be positive, got %g", c.OperatingHours)
	}
	if c.TrendWindowPoints < 2 {
		return fmt.Errorf("trend_window_points must be at least 2, got %d", c.TrendWindowPoints)
	}
	if c.SeasonalLookback <= 0 {
		return fmt.Errorf("seasonal_lookback must be positive, got %s", c.SeasonalLookback)
	}
	return nil
}
