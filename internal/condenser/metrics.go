package condenser

import "github.com/HerbHall/condensight/pkg/thermal"

// Coal and emission conversion constants. These are physical conversion
// factors, not plant parameters, so they stay fixed.
const (
	coalKgPerKWh  = 0.36 // standard coal equivalent per kWh of lost heat
	co2KgPerCoalT = 2.86 // tonnes CO2 equivalent per ton of coal, in kg/ton terms
)

// ThermalEfficiency returns the fouled-to-clean coefficient ratio as a
// percentage (0-100).
func ThermalEfficiency(uFoul, uClean float64) float64 {
	return 100 * uFoul / uClean
}

// EnergyLossKW returns the heat transfer loss due to fouling in kW.
func EnergyLossKW(uClean, uFoul, areaM2, lmtd float64) float64 {
	return (uClean - uFoul) * areaM2 * lmtd / 1000
}

// DailyCost returns the daily energy cost of the given loss.
func DailyCost(energyLossKW, rate, hours float64) float64 {
	return energyLossKW * rate * hours
}

// CoalTonsPerDay returns the extra coal burned per day to cover the loss.
func CoalTonsPerDay(energyLossKW, hours float64) float64 {
	return energyLossKW * hours * coalKgPerKWh / 1000
}

// CO2KgPerDay returns the CO2 emissions in kg/day for the given coal burn.
func CO2KgPerDay(coalTons float64) float64 {
	return coalTons * co2KgPerCoalT
}

// Calculator computes derived metrics for readings using the deployment's
// plant parameters. All downstream consumers go through the Calculator so
// the cost model has a single source of truth.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a Calculator bound to the given plant parameters.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Annotate computes the per-point derived fields for a reading. The
// predicted fouling resistance is left for the pipeline to fill in.
func (c *Calculator) Annotate(r thermal.Reading) thermal.AnnotatedPoint {
	return thermal.AnnotatedPoint{
		Reading:                 r,
		EfficiencyPercent:       ThermalEfficiency(r.UFoul, c.cfg.UClean),
		EnergyLossKW:            EnergyLossKW(c.cfg.UClean, r.UFoul, c.cfg.AreaM2, r.LMTD),
		ActualFoulingResistance: r.RFoul,
	}
}

// DailyCost returns the daily energy cost for an annotated point.
func (c *Calculator) DailyCost(p thermal.AnnotatedPoint) float64 {
	return DailyCost(p.EnergyLossKW, c.cfg.EnergyRate, c.cfg.OperatingHours)
}

// CoalTonsPerDay returns the daily coal consumption for an annotated point.
func (c *Calculator) CoalTonsPerDay(p thermal.AnnotatedPoint) float64 {
	return CoalTonsPerDay(p.EnergyLossKW, c.cfg.OperatingHours)
}

// Breakdown decomposes the daily cost of an annotated point.
// Maintenance is 15% of the daily energy cost, efficiency loss 8%, and
// environmental cost is the coal burn priced at 2% of the coal unit price.
func (c *Calculator) Breakdown(p thermal.AnnotatedPoint) thermal.CostBreakdown {
	energy := c.DailyCost(p)
	coalTons := c.CoalTonsPerDay(p)

	b := thermal.CostBreakdown{
		EnergyCost:         energy,
		MaintenanceCost:    energy * 0.15,
		EfficiencyLossCost: energy * 0.08,
		EnvironmentalCost:  coalTons * c.cfg.CoalPrice * 0.02,
	}
	b.TotalCost = b.EnergyCost + b.MaintenanceCost + b.EfficiencyLossCost + b.EnvironmentalCost
	return b
}

// Summarize builds the full latest-point summary with cost and emissions.
func (c *Calculator) Summarize(p thermal.AnnotatedPoint) thermal.LatestSummary {
	coalTons := c.CoalTonsPerDay(p)
	return thermal.LatestSummary{
		AnnotatedPoint: p,
		Cost:           c.Breakdown(p),
		DailyCost:      c.DailyCost(p),
		CoalTonsPerDay: coalTons,
		CO2KgPerDay:    CO2KgPerDay(coalTons),
	}
}
