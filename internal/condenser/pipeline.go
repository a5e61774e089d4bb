package condenser

import (
	"context"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// Pipeline runs the full analytics pass: timeframe filter, trend fit,
// seasonal adjustment, per-point forecast, and alert evaluation. A
// Pipeline holds only immutable configuration, so one instance is safe
// for concurrent use with different input snapshots.
type Pipeline struct {
	cfg  Config
	calc *Calculator
}

// NewPipeline validates the plant parameters and returns a Pipeline.
// Configuration errors are fatal here rather than surfacing as Inf/NaN
// in per-reading metrics.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, calc: NewCalculator(cfg)}, nil
}

// Calculator exposes the pipeline's metric calculator so HTTP handlers
// and maintenance share the same cost model.
func (p *Pipeline) Calculator() *Calculator { return p.calc }

// Run executes one pipeline pass using the input itself as seasonal
// history. readings may arrive in any order and are never mutated;
// dropped is the count of malformed records rejected upstream, passed
// through for caller visibility.
func (p *Pipeline) Run(readings []thermal.Reading, tf Timeframe, dropped int) thermal.PipelineResult {
	window := FilterWindow(readings, tf)
	if len(window) == 0 {
		return thermal.PipelineResult{
			Series:  []thermal.AnnotatedPoint{},
			Alerts:  []thermal.Alert{},
			Dropped: dropped,
		}
	}

	reference := window[len(window)-1].Timestamp
	factorFn := func() float64 {
		return SeasonalFactor(readings, reference, p.cfg.SeasonalLookback)
	}
	return p.annotate(window, factorFn, dropped)
}

// RunWithSource is Run with the prior-year seasonal mean resolved through
// a store-backed lookup, for histories too large to hold in memory.
func (p *Pipeline) RunWithSource(ctx context.Context, src SeasonalSource, readings []thermal.Reading, tf Timeframe, dropped int) thermal.PipelineResult {
	window := FilterWindow(readings, tf)
	if len(window) == 0 {
		return thermal.PipelineResult{
			Series:  []thermal.AnnotatedPoint{},
			Alerts:  []thermal.Alert{},
			Dropped: dropped,
		}
	}

	reference := window[len(window)-1].Timestamp
	factorFn := func() float64 {
		return SeasonalFactorFromSource(ctx, src, window, reference, p.cfg.SeasonalLookback)
	}
	return p.annotate(window, factorFn, dropped)
}

// annotate produces the annotated series, latest summary, and alerts for
// an already filtered ascending window. factorFn is only invoked when the
// window is long enough for a trend, so degenerate single-point runs skip
// the seasonal lookup entirely.
func (p *Pipeline) annotate(window []thermal.Reading, factorFn func() float64, dropped int) thermal.PipelineResult {
	series := make([]thermal.AnnotatedPoint, len(window))

	if len(window) < 2 {
		// No trend to extrapolate: prediction degenerates to identity.
		pt := p.calc.Annotate(window[0])
		pt.PredictedFoulingResistance = pt.ActualFoulingResistance
		series[0] = pt
	} else {
		slope := TrendSlope(window, p.cfg.TrendWindowPoints)
		factor := factorFn()

		for i, r := range window {
			pt := p.calc.Annotate(r)

			base := window[i].RFoul
			if i > 0 {
				base = window[i-1].RFoul
			}
			predicted := (base + slope) * factor
			if predicted < 0 {
				predicted = 0
			}
			pt.PredictedFoulingResistance = predicted
			series[i] = pt
		}
	}

	latest := p.calc.Summarize(series[len(series)-1])
	alerts := EvaluateAlerts(latest, p.cfg.Thresholds)

	return thermal.PipelineResult{
		Series:  series,
		Latest:  &latest,
		Alerts:  alerts,
		Dropped: dropped,
	}
}
