// Package testutil provides shared test fixtures.
package testutil

import (
	"time"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// BaseTime is a fixed reference instant for deterministic fixtures.
var BaseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// ReadingOption customizes a fixture reading.
type ReadingOption func(*thermal.Reading)

// NewReading returns a plausible condenser reading with overrides applied.
func NewReading(opts ...ReadingOption) thermal.Reading {
	r := thermal.Reading{
		Timestamp:            BaseTime,
		SaturationPressure:   8.2,
		SaturationTemp:       41.5,
		LMTD:                 14,
		CoolingWaterInTemp:   22.0,
		CoolingWaterOutTemp:  31.5,
		CoolingWaterMassFlow: 52000,
		SpecificHeatCapacity: 4.186,
		UFoul:                2300,
		UClean:               2500,
		RFoul:                0.0000348, // 1/2300 - 1/2500
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithTimestamp sets the reading timestamp.
func WithTimestamp(ts time.Time) ReadingOption {
	return func(r *thermal.Reading) { r.Timestamp = ts }
}

// WithRFoul sets the fouling resistance.
func WithRFoul(v float64) ReadingOption {
	return func(r *thermal.Reading) { r.RFoul = v }
}

// WithUFoul sets the fouled heat transfer coefficient.
func WithUFoul(v float64) ReadingOption {
	return func(r *thermal.Reading) { r.UFoul = v }
}

// WithLMTD sets the log mean temperature difference.
func WithLMTD(v float64) ReadingOption {
	return func(r *thermal.Reading) { r.LMTD = v }
}

// LinearSeries generates n hourly readings ending at end, with fouling
// resistance rising linearly from first to last.
func LinearSeries(end time.Time, n int, first, last float64) []thermal.Reading {
	out := make([]thermal.Reading, n)
	for i := 0; i < n; i++ {
		frac := 0.0
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		out[i] = NewReading(
			WithTimestamp(end.Add(-time.Duration(n-1-i)*time.Hour)),
			WithRFoul(first+(last-first)*frac),
		)
	}
	return out
}
