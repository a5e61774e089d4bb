// Package thermal provides the public SDK types for the CondenSight
// analytics system. The presentation layer consumes these types verbatim:
// percentages are 0-100, fouling resistance is in m²K/W, costs are in the
// deployment's currency unit.
package thermal

import "time"

// Reading is a single timestamped condenser sensor sample. Readings are
// immutable values: the pipeline never mutates them and only returns
// freshly allocated derived structures.
type Reading struct {
	Timestamp            time.Time `json:"timestamp"`
	SaturationPressure   float64   `json:"saturation_pressure"`    // kPa
	SaturationTemp       float64   `json:"saturation_temperature"` // °C
	LMTD                 float64   `json:"lmtd"`                   // log mean temperature difference, K
	CoolingWaterInTemp   float64   `json:"cooling_water_in_temp"`  // °C
	CoolingWaterOutTemp  float64   `json:"cooling_water_out_temp"` // °C
	CoolingWaterMassFlow float64   `json:"cooling_water_mass_flow"` // kg/s
	SpecificHeatCapacity float64   `json:"specific_heat_capacity"` // kJ/kgK
	UFoul                float64   `json:"u_foul"`                 // fouled heat transfer coefficient, W/m²K
	UClean               float64   `json:"u_clean"`                // clean baseline coefficient, W/m²K
	RFoul                float64   `json:"r_foul"`                 // fouling resistance, m²K/W
}

// AnnotatedPoint is a Reading plus the derived fields computed by one
// pipeline run. Annotated points are transient: recomputed every run,
// never persisted by the core.
type AnnotatedPoint struct {
	Reading
	EfficiencyPercent          float64 `json:"efficiency_percent"`
	EnergyLossKW               float64 `json:"energy_loss_kw"`
	ActualFoulingResistance    float64 `json:"actual_fouling_resistance"`
	PredictedFoulingResistance float64 `json:"predicted_fouling_resistance"`
}

// CostBreakdown decomposes the daily financial impact of fouling for a
// single annotated point.
type CostBreakdown struct {
	EnergyCost         float64 `json:"energy_cost"`
	MaintenanceCost    float64 `json:"maintenance_cost"`
	EfficiencyLossCost float64 `json:"efficiency_loss_cost"`
	EnvironmentalCost  float64 `json:"environmental_cost"`
	TotalCost          float64 `json:"total_cost"`
}

// Alert categories, evaluated in this order.
const (
	CategoryFouling       = "fouling"
	CategoryPerformance   = "performance"
	CategoryCost          = "cost"
	CategoryEnvironmental = "environmental"
)

// Alert severities.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is a threshold violation raised against the latest annotated
// point. Alerts are generated fresh each evaluation and never
// deduplicated across runs; repetition suppression is a presentation
// concern.
type Alert struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// LatestSummary is the most recent annotated point with its full cost
// and emissions picture attached.
type LatestSummary struct {
	AnnotatedPoint
	Cost           CostBreakdown `json:"cost"`
	DailyCost      float64       `json:"daily_cost"`
	CoalTonsPerDay float64       `json:"coal_tons_per_day"`
	CO2KgPerDay    float64       `json:"co2_kg_per_day"`
}

// PipelineResult is the complete output of one pipeline run. An empty
// input batch yields an empty Series, a nil Latest, and no Alerts.
type PipelineResult struct {
	Series  []AnnotatedPoint `json:"series"`
	Latest  *LatestSummary   `json:"latest"`
	Alerts  []Alert          `json:"alerts"`
	Dropped int              `json:"dropped"` // malformed records rejected upstream
}

// ReadingBatch is the payload of a feed collection event: the readings
// that decoded cleanly plus a count of records dropped as malformed.
type ReadingBatch struct {
	Readings  []Reading `json:"readings"`
	Dropped   int       `json:"dropped"`
	FetchedAt time.Time `json:"fetched_at"`
}
