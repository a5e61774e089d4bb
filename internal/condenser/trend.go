package condenser

import (
	"math"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// Slope returns the ordinary-least-squares slope of values against their
// index. Index, not timestamp, is the independent variable: sampling is
// assumed roughly uniform. Returns 0 for n <= 1 and for degenerate index
// sequences instead of propagating NaN or Inf.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n <= 1 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	slope := (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}

// TrendSlope computes the fouling-resistance slope over the most recent
// min(maxPoints, N) readings of an already filtered, ascending window.
func TrendSlope(window []thermal.Reading, maxPoints int) float64 {
	start := 0
	if maxPoints > 0 && len(window) > maxPoints {
		start = len(window) - maxPoints
	}

	values := make([]float64, 0, len(window)-start)
	for _, r := range window[start:] {
		values = append(values, r.RFoul)
	}
	return Slope(values)
}
