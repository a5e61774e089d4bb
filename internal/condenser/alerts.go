package condenser

import (
	"fmt"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// EvaluateAlerts checks the latest summary against the configured
// thresholds. Rules fire independently in a fixed order; every matching
// rule produces exactly one alert. No state is carried between
// evaluations, so repetition suppression is left to the presentation
// layer.
func EvaluateAlerts(latest thermal.LatestSummary, th Thresholds) []thermal.Alert {
	alerts := make([]thermal.Alert, 0, 4)

	if latest.ActualFoulingResistance > th.CriticalFoulingResistance {
		alerts = append(alerts, thermal.Alert{
			Category: thermal.CategoryFouling,
			Severity: thermal.SeverityCritical,
			Message: fmt.Sprintf("fouling resistance %.2f x10^-6 m²K/W exceeds critical threshold %.2f x10^-6",
				latest.ActualFoulingResistance*1e6, th.CriticalFoulingResistance*1e6),
		})
	}

	if latest.EfficiencyPercent < th.MinEfficiencyPercent {
		alerts = append(alerts, thermal.Alert{
			Category: thermal.CategoryPerformance,
			Severity: thermal.SeverityWarning,
			Message: fmt.Sprintf("thermal efficiency %.1f%% below floor %.1f%%",
				latest.EfficiencyPercent, th.MinEfficiencyPercent),
		})
	}

	if latest.DailyCost > th.MaxDailyCost {
		alerts = append(alerts, thermal.Alert{
			Category: thermal.CategoryCost,
			Severity: thermal.SeverityWarning,
			Message: fmt.Sprintf("daily fouling cost %.0f exceeds budget %.0f",
				latest.DailyCost, th.MaxDailyCost),
		})
	}

	if latest.CO2KgPerDay > th.MaxDailyCO2Kg {
		alerts = append(alerts, thermal.Alert{
			Category: thermal.CategoryEnvironmental,
			Severity: thermal.SeverityWarning,
			Message: fmt.Sprintf("CO2 emissions %.1f kg/day exceed limit %.1f kg/day",
				latest.CO2KgPerDay, th.MaxDailyCO2Kg),
		})
	}

	return alerts
}
