package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_FetchReadings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("window"); got != "24h" {
			t.Errorf("window query = %q, want 24h", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"timestamp":"2025-06-15T10:00:00Z","lmtd":14,"u_foul":2300,"u_clean":2500,"r_foul":0.0000348},
			{"timestamp":"2025-06-15T11:00:00Z","lmtd":14.1,"u_foul":2295,"u_clean":2500,"r_foul":0.0000357,
			 "saturation_pressure":8.2,"cooling_water_in_temp":22.0}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	batch, err := c.FetchReadings(context.Background(), "24h")
	if err != nil {
		t.Fatalf("FetchReadings: %v", err)
	}

	if len(batch.Readings) != 2 {
		t.Fatalf("got %d readings, want 2", len(batch.Readings))
	}
	if batch.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", batch.Dropped)
	}
	if batch.Readings[0].UFoul != 2300 {
		t.Errorf("u_foul = %g", batch.Readings[0].UFoul)
	}
	if batch.Readings[1].SaturationPressure != 8.2 {
		t.Errorf("optional field not decoded: %g", batch.Readings[1].SaturationPressure)
	}
}

func TestClient_FetchReadings_drops_malformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Second record has no timestamp, third no u_foul.
		_, _ = w.Write([]byte(`[
			{"timestamp":"2025-06-15T10:00:00Z","lmtd":14,"u_foul":2300,"u_clean":2500,"r_foul":0.0000348},
			{"lmtd":14,"u_foul":2300,"u_clean":2500,"r_foul":0.0000348},
			{"timestamp":"2025-06-15T12:00:00Z","lmtd":14,"u_clean":2500,"r_foul":0.0000348}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	batch, err := c.FetchReadings(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchReadings: %v", err)
	}

	if len(batch.Readings) != 1 {
		t.Errorf("got %d readings, want 1 (partial-failure tolerance)", len(batch.Readings))
	}
	if batch.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", batch.Dropped)
	}
}

func TestClient_FetchReadings_http_error(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "historian down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.FetchReadings(context.Background(), "24h"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestClient_FetchReadings_invalid_json(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.FetchReadings(context.Background(), "24h"); err == nil {
		t.Error("expected error for non-array response")
	}
}

func TestClient_FetchReadings_context_cancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.FetchReadings(ctx, "24h"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
