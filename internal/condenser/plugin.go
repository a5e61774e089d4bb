// Package condenser implements the fouling analytics module: timeframe
// filtering, OLS trend extrapolation, year-over-year seasonal adjustment,
// derived thermal and financial metrics, and threshold alerting.
package condenser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HerbHall/condensight/internal/feed"
	"github.com/HerbHall/condensight/pkg/plugin"
	"github.com/HerbHall/condensight/pkg/thermal"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	pipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condenser_pipeline_runs_total",
			Help: "Total pipeline runs by timeframe.",
		},
		[]string{"timeframe"},
	)
	alertsRaised = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condenser_alerts_raised_total",
			Help: "Total alerts raised by category.",
		},
		[]string{"category", "severity"},
	)
	readingsStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "condenser_readings_stored_total",
			Help: "Total readings persisted.",
		},
	)
)

func init() {
	prometheus.MustRegister(pipelineRuns, alertsRaised, readingsStored)
}

// Module is the condenser analytics module.
type Module struct {
	cfg      Config
	logger   *zap.Logger
	store    *Store
	bus      plugin.EventBus
	pipeline *Pipeline

	mu      sync.RWMutex
	lastRun time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates the condenser module.
func New() *Module {
	return &Module{done: make(chan struct{})}
}

// Info returns module metadata.
func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "condenser",
		Version:      "1.0.0",
		Description:  "Condenser fouling analytics: trends, forecasts, costs, alerts",
		Dependencies: []string{},
		Required:     true,
		APIVersion:   plugin.APIVersionCurrent,
	}
}

// Init loads configuration, runs migrations, and builds the pipeline.
func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("condenser config: %w", err)
		}
	}

	p, err := NewPipeline(m.cfg)
	if err != nil {
		return fmt.Errorf("condenser pipeline: %w", err)
	}
	m.pipeline = p

	store, err := NewStore(ctx, deps.Store)
	if err != nil {
		return err
	}
	m.store = store

	m.logger.Info("condenser module initialized",
		zap.Float64("u_clean", m.cfg.UClean),
		zap.Float64("area_m2", m.cfg.AreaM2),
		zap.Float64("critical_r_foul", m.cfg.Thresholds.CriticalFoulingResistance),
	)
	return nil
}

// ValidateConfig re-checks plant parameters after Init.
func (m *Module) ValidateConfig() error {
	return m.cfg.Validate()
}

// Subscriptions declares the feed events the module consumes.
func (m *Module) Subscriptions() []plugin.Subscription {
	return []plugin.Subscription{
		{Topic: feed.TopicReadingsCollected, Handler: m.handleReadings},
	}
}

// Start launches the retention maintenance loop.
func (m *Module) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.maintenanceLoop(runCtx)
	return nil
}

// Stop halts background work. A no-op when Start never ran, since the
// maintenance loop that closes done was never launched.
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

// Health reports whether a pipeline run has completed recently.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	m.mu.RLock()
	lastRun := m.lastRun
	m.mu.RUnlock()

	if lastRun.IsZero() {
		return plugin.HealthStatus{
			Status:  "degraded",
			Message: "no pipeline run yet",
		}
	}
	return plugin.HealthStatus{
		Status: "healthy",
		Details: map[string]string{
			"last_run": lastRun.UTC().Format(time.RFC3339),
		},
	}
}

// handleReadings ingests a feed batch: persist the readings, rerun the
// pipeline over stored history, persist the outcome, and publish events.
func (m *Module) handleReadings(ctx context.Context, event plugin.Event) {
	batch, ok := event.Payload.(thermal.ReadingBatch)
	if !ok {
		m.logger.Warn("unexpected payload on readings topic",
			zap.String("topic", event.Topic))
		return
	}

	inserted, err := m.store.InsertReadings(ctx, batch.Readings)
	if err != nil {
		m.logger.Error("persisting readings failed", zap.Error(err))
		return
	}
	readingsStored.Add(float64(inserted))
	if batch.Dropped > 0 {
		m.logger.Warn("feed dropped malformed records",
			zap.Int("dropped", batch.Dropped))
	}

	result, err := m.RunPipeline(ctx, Timeframe24h, batch.Dropped)
	if err != nil {
		m.logger.Error("pipeline run failed", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.lastRun = time.Now()
	m.mu.Unlock()

	if result.Latest != nil {
		now := time.Now()
		if err := m.store.UpsertLatest(ctx, now, *result.Latest); err != nil {
			m.logger.Error("persisting latest summary failed", zap.Error(err))
		}
		if err := m.store.InsertAlerts(ctx, now, result.Alerts); err != nil {
			m.logger.Error("persisting alerts failed", zap.Error(err))
		}
	}

	m.publishResults(ctx, Timeframe24h, result)
}

// RunPipeline loads stored history covering the widest supported window
// and runs one analytics pass for the given timeframe.
func (m *Module) RunPipeline(ctx context.Context, tf Timeframe, dropped int) (thermal.PipelineResult, error) {
	// Load slightly more than the widest window so the 30d filter always
	// has its full span available.
	since := time.Now().Add(-(Timeframe30d.Duration() + 24*time.Hour))
	readings, err := m.store.ListReadingsSince(ctx, since)
	if err != nil {
		return thermal.PipelineResult{}, fmt.Errorf("loading history: %w", err)
	}

	result := m.pipeline.RunWithSource(ctx, m.store, readings, tf, dropped)
	pipelineRuns.WithLabelValues(string(tf)).Inc()
	return result, nil
}

// publishResults emits the pipeline-completed event plus one event per alert.
func (m *Module) publishResults(ctx context.Context, tf Timeframe, result thermal.PipelineResult) {
	m.bus.PublishAsync(ctx, plugin.Event{
		Topic:     TopicPipelineCompleted,
		Source:    "condenser",
		Timestamp: time.Now(),
		Payload: PipelineCompletedPayload{
			Timeframe: string(tf),
			Points:    len(result.Series),
			Dropped:   result.Dropped,
			Latest:    result.Latest,
			Alerts:    result.Alerts,
		},
	})

	for _, a := range result.Alerts {
		alertsRaised.WithLabelValues(a.Category, a.Severity).Inc()
		m.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicAlertRaised,
			Source:    "condenser",
			Timestamp: time.Now(),
			Payload:   a,
		})
		m.logger.Warn("alert raised",
			zap.String("category", a.Category),
			zap.String("severity", a.Severity),
			zap.String("message", a.Message),
		)
	}
}
