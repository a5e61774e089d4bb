package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/HerbHall/condensight/internal/event"
	"github.com/HerbHall/condensight/pkg/plugin"
	"github.com/HerbHall/condensight/pkg/thermal"
	"go.uber.org/zap"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"disabled needs nothing", func(c *Config) { c.Enabled = false }, false},
		{"enabled needs url", func(c *Config) { c.URL = "" }, true},
		{"poll interval too short", func(c *Config) { c.PollInterval = 100 * time.Millisecond }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"valid", func(c *Config) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.URL = "http://historian.local/readings"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModule_publishes_batch_on_poll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"timestamp":"2025-06-15T10:00:00Z","lmtd":14,"u_foul":2300,"u_clean":2500,"r_foul":0.0000348}
		]`))
	}))
	defer srv.Close()

	bus := event.NewBus(zap.NewNop())

	var mu sync.Mutex
	var batches []thermal.ReadingBatch
	bus.Subscribe(TopicReadingsCollected, func(_ context.Context, e plugin.Event) {
		mu.Lock()
		defer mu.Unlock()
		if b, ok := e.Payload.(thermal.ReadingBatch); ok {
			batches = append(batches, b)
		}
	})

	m := New()
	m.logger = zap.NewNop()
	m.bus = bus
	m.cfg = DefaultConfig()
	m.cfg.URL = srv.URL
	m.client = NewClient(srv.URL, 5*time.Second)

	m.pollOnce(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}
	if len(batches[0].Readings) != 1 {
		t.Errorf("batch has %d readings, want 1", len(batches[0].Readings))
	}
}

func TestModule_poll_failure_is_logged_not_published(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	bus := event.NewBus(zap.NewNop())
	published := false
	bus.Subscribe(TopicReadingsCollected, func(context.Context, plugin.Event) {
		published = true
	})

	m := New()
	m.logger = zap.NewNop()
	m.bus = bus
	m.cfg = DefaultConfig()
	m.cfg.URL = srv.URL
	m.client = NewClient(srv.URL, 5*time.Second)

	m.pollOnce(context.Background())

	if published {
		t.Error("failed fetch must not publish a batch")
	}
	if m.lastErr == nil {
		t.Error("lastErr should record the failure")
	}

	h := m.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("health after failure = %q, want degraded", h.Status)
	}
}

func TestModule_stop_without_start(t *testing.T) {
	m := New()
	m.logger = zap.NewNop()
	m.cfg = DefaultConfig()
	m.cfg.URL = "http://historian.local/readings"

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop without Start: %v", err)
	}
	if ctx.Err() != nil {
		t.Error("Stop blocked until the context expired")
	}
}

func TestModule_disabled_start_stop(t *testing.T) {
	m := New()
	m.logger = zap.NewNop()
	m.cfg = DefaultConfig()
	m.cfg.Enabled = false

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	h := m.Health(context.Background())
	if h.Status != "healthy" {
		t.Errorf("disabled module health = %q, want healthy", h.Status)
	}
}
