// Package feed polls the plant historian for condenser readings and
// publishes each batch on the event bus for the analytics module.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HerbHall/condensight/pkg/plugin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// TopicReadingsCollected carries a thermal.ReadingBatch payload.
const TopicReadingsCollected = "feed.readings.collected"

var (
	fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Historian fetch attempts by outcome.",
		},
		[]string{"outcome"},
	)
	recordsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_records_dropped_total",
			Help: "Malformed historian records dropped.",
		},
	)
)

func init() {
	prometheus.MustRegister(fetchesTotal, recordsDropped)
}

// Module is the historian polling module.
type Module struct {
	cfg    Config
	logger *zap.Logger
	bus    plugin.EventBus
	client *Client

	mu        sync.Mutex
	lastFetch time.Time
	lastErr   error

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates the feed module.
func New() *Module {
	return &Module{done: make(chan struct{})}
}

// Info returns module metadata.
func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "feed",
		Version:     "1.0.0",
		Description: "Polls the plant historian for condenser readings",
		Required:    false,
		APIVersion:  plugin.APIVersionCurrent,
	}
}

// Init loads configuration and builds the historian client.
func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("feed config: %w", err)
		}
	}
	if err := m.cfg.Validate(); err != nil {
		return fmt.Errorf("feed config: %w", err)
	}

	if m.cfg.Enabled {
		m.client = NewClient(m.cfg.URL, m.cfg.Timeout)
	}
	return nil
}

// ValidateConfig re-checks the configuration after Init.
func (m *Module) ValidateConfig() error {
	return m.cfg.Validate()
}

// Start launches the polling loop.
func (m *Module) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		m.logger.Info("feed polling disabled")
		close(m.done)
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.pollLoop(runCtx)
	return nil
}

// Stop halts polling. A no-op when the poll loop was never launched.
func (m *Module) Stop(ctx context.Context) error {
	if m.cancel == nil {
		return nil
	}
	m.cancel()
	select {
	case <-m.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Health reports the outcome of the most recent fetch.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	if !m.cfg.Enabled {
		return plugin.HealthStatus{Status: "healthy", Message: "polling disabled"}
	}

	m.mu.Lock()
	lastErr, lastFetch := m.lastErr, m.lastFetch
	m.mu.Unlock()

	if lastErr != nil {
		return plugin.HealthStatus{
			Status:  "degraded",
			Message: lastErr.Error(),
		}
	}
	if lastFetch.IsZero() {
		return plugin.HealthStatus{Status: "degraded", Message: "no fetch yet"}
	}
	return plugin.HealthStatus{
		Status: "healthy",
		Details: map[string]string{
			"last_fetch": lastFetch.UTC().Format(time.RFC3339),
		},
	}
}

// pollLoop fetches immediately, then on every tick. A failed fetch is
// logged and skipped; the analytics module simply sees no new batch.
func (m *Module) pollLoop(ctx context.Context) {
	defer close(m.done)

	m.pollOnce(ctx)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

func (m *Module) pollOnce(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	batch, err := m.client.FetchReadings(fetchCtx, m.cfg.WindowHint)
	if err != nil {
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		fetchesTotal.WithLabelValues("error").Inc()
		m.logger.Warn("historian fetch failed", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.lastErr = nil
	m.lastFetch = time.Now()
	m.mu.Unlock()
	fetchesTotal.WithLabelValues("ok").Inc()
	recordsDropped.Add(float64(batch.Dropped))

	m.logger.Debug("historian fetch complete",
		zap.Int("readings", len(batch.Readings)),
		zap.Int("dropped", batch.Dropped),
	)

	if err := m.bus.Publish(ctx, plugin.Event{
		Topic:     TopicReadingsCollected,
		Source:    "feed",
		Timestamp: time.Now(),
		Payload:   batch,
	}); err != nil {
		m.logger.Error("publishing reading batch failed", zap.Error(err))
	}
}
