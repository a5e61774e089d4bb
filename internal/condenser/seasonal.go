package condenser

import (
	"context"
	"time"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// Seasonal adjustment bounds and guards.
const (
	// minPriorYearMean is the floor below which the prior-year average is
	// treated as "no data" to avoid division instability.
	minPriorYearMean = 1e-7

	factorFloor = 0.8
	factorCeil  = 1.2
)

// SeasonalSource provides the mean fouling resistance over a historical
// window. Backed by an index lookup on the store so the year-over-year
// comparison does not require the full history in memory.
type SeasonalSource interface {
	MeanFoulingResistance(ctx context.Context, from, to time.Time) (mean float64, samples int, err error)
}

// SeasonalFactor computes the year-over-year adjustment factor from
// in-memory data. The lookback window ends at reference; the same window
// shifted back exactly one calendar year is averaged over the full
// unfiltered history. Returns exactly 1.0 when either window is empty or
// the prior-year mean is below the data-sparsity floor.
func SeasonalFactor(history []thermal.Reading, reference time.Time, lookback time.Duration) float64 {
	curFrom := reference.Add(-lookback)
	avgCurrent, nCur := meanRFoulBetween(history, curFrom, reference)

	priorTo := reference.AddDate(-1, 0, 0)
	priorFrom := priorTo.Add(-lookback)
	avgLastYear, nPrior := meanRFoulBetween(history, priorFrom, priorTo)

	return boundedFactor(avgCurrent, nCur, avgLastYear, nPrior)
}

// SeasonalFactorFromSource is SeasonalFactor with the prior-year mean
// resolved through a store lookup instead of an in-memory scan. The current
// window still comes from the in-memory filtered data. A lookup error is
// treated as "no prior data": factor 1.0.
func SeasonalFactorFromSource(ctx context.Context, src SeasonalSource, current []thermal.Reading, reference time.Time, lookback time.Duration) float64 {
	curFrom := reference.Add(-lookback)
	avgCurrent, nCur := meanRFoulBetween(current, curFrom, reference)

	priorTo := reference.AddDate(-1, 0, 0)
	priorFrom := priorTo.Add(-lookback)
	avgLastYear, nPrior, err := src.MeanFoulingResistance(ctx, priorFrom, priorTo)
	if err != nil {
		return 1.0
	}

	return boundedFactor(avgCurrent, nCur, avgLastYear, nPrior)
}

func boundedFactor(avgCurrent float64, nCur int, avgLastYear float64, nPrior int) float64 {
	if nCur == 0 || nPrior == 0 || avgLastYear < minPriorYearMean {
		return 1.0
	}

	factor := avgCurrent / avgLastYear
	if factor < factorFloor {
		return factorFloor
	}
	if factor > factorCeil {
		return factorCeil
	}
	return factor
}

// meanRFoulBetween averages fouling resistance over readings with
// from < timestamp <= to.
func meanRFoulBetween(readings []thermal.Reading, from, to time.Time) (float64, int) {
	var sum float64
	var n int
	for _, r := range readings {
		if r.Timestamp.After(from) && !r.Timestamp.After(to) {
			sum += r.RFoul
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}
