package condenser

import (
	"testing"
	"time"

	"github.com/HerbHall/condensight/internal/testutil"
	"github.com/HerbHall/condensight/pkg/thermal"
)

func TestParseTimeframe(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"24h", "7d", "30d"} {
		if _, err := ParseTimeframe(valid); err != nil {
			t.Errorf("ParseTimeframe(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "1h", "90d", "week"} {
		if _, err := ParseTimeframe(invalid); err == nil {
			t.Errorf("ParseTimeframe(%q) expected error", invalid)
		}
	}
}

func TestFilterWindow_empty(t *testing.T) {
	t.Parallel()

	if got := FilterWindow(nil, Timeframe24h); len(got) != 0 {
		t.Errorf("empty input should yield empty output, got %d points", len(got))
	}
}

func TestFilterWindow_single_element(t *testing.T) {
	t.Parallel()

	in := []thermal.Reading{testutil.NewReading()}
	got := FilterWindow(in, Timeframe24h)
	if len(got) != 1 {
		t.Fatalf("single in-window element should survive, got %d points", len(got))
	}
}

func TestFilterWindow_cutoff_is_strict(t *testing.T) {
	t.Parallel()

	end := testutil.BaseTime
	in := []thermal.Reading{
		testutil.NewReading(testutil.WithTimestamp(end.Add(-24 * time.Hour))), // exactly on cutoff: excluded
		testutil.NewReading(testutil.WithTimestamp(end.Add(-23 * time.Hour))),
		testutil.NewReading(testutil.WithTimestamp(end)),
	}

	got := FilterWindow(in, Timeframe24h)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2 (cutoff is exclusive)", len(got))
	}
	if !got[0].Timestamp.Equal(end.Add(-23 * time.Hour)) {
		t.Errorf("first surviving point = %v", got[0].Timestamp)
	}
}

func TestFilterWindow_reference_is_max_timestamp(t *testing.T) {
	t.Parallel()

	// Unsorted input; reference must be the max timestamp, not position.
	end := testutil.BaseTime
	in := []thermal.Reading{
		testutil.NewReading(testutil.WithTimestamp(end)),
		testutil.NewReading(testutil.WithTimestamp(end.Add(-50 * time.Hour))),
		testutil.NewReading(testutil.WithTimestamp(end.Add(-2 * time.Hour))),
	}

	got := FilterWindow(in, Timeframe24h)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	// Output sorted ascending.
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Error("output not sorted ascending by timestamp")
	}
}

func TestFilterWindow_containment(t *testing.T) {
	t.Parallel()

	// 45 days of hourly readings.
	series := testutil.LinearSeries(testutil.BaseTime, 45*24, 0.00001, 0.00005)

	w24 := FilterWindow(series, Timeframe24h)
	w7 := FilterWindow(series, Timeframe7d)
	w30 := FilterWindow(series, Timeframe30d)

	if len(w24) > len(w7) || len(w7) > len(w30) {
		t.Fatalf("window containment violated: |24h|=%d |7d|=%d |30d|=%d",
			len(w24), len(w7), len(w30))
	}

	in7 := make(map[int64]bool, len(w7))
	for _, r := range w7 {
		in7[r.Timestamp.Unix()] = true
	}
	for _, r := range w24 {
		if !in7[r.Timestamp.Unix()] {
			t.Fatalf("24h window contains point %v missing from 7d window", r.Timestamp)
		}
	}
}

func TestFilterWindow_does_not_mutate_input(t *testing.T) {
	t.Parallel()

	end := testutil.BaseTime
	in := []thermal.Reading{
		testutil.NewReading(testutil.WithTimestamp(end)),
		testutil.NewReading(testutil.WithTimestamp(end.Add(-1 * time.Hour))),
	}
	first := in[0].Timestamp

	FilterWindow(in, Timeframe24h)

	if !in[0].Timestamp.Equal(first) {
		t.Error("FilterWindow reordered the caller's slice")
	}
}
