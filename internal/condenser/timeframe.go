package condenser

import (
	"fmt"
	"sort"
	"time"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// Timeframe selects a trailing lookback window over a reading series.
type Timeframe string

// Supported timeframes.
const (
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"
)

// ParseTimeframe validates a timeframe selector string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case Timeframe24h, Timeframe7d, Timeframe30d:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q (want 24h, 7d, or 30d)", s)
}

// Duration returns the lookback window length.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case Timeframe7d:
		return 7 * 24 * time.Hour
	case Timeframe30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// FilterWindow returns the readings with timestamp strictly after
// latest−window, sorted ascending by timestamp. The reference time is the
// maximum timestamp in the dataset, not the wall clock, which keeps results
// deterministic against fixed fixtures. The input is never mutated.
func FilterWindow(readings []thermal.Reading, tf Timeframe) []thermal.Reading {
	if len(readings) == 0 {
		return nil
	}

	latest := readings[0].Timestamp
	for _, r := range readings[1:] {
		if r.Timestamp.After(latest) {
			latest = r.Timestamp
		}
	}
	cutoff := latest.Add(-tf.Duration())

	out := make([]thermal.Reading, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp.After(cutoff) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
