package condenser

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// maintenanceLoop periodically deletes readings and alerts older than the
// retention period. Retention must exceed one year or the seasonal
// year-over-year comparison loses its prior-year data.
func (m *Module) maintenanceLoop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.MaintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runMaintenance(ctx)
		}
	}
}

func (m *Module) runMaintenance(ctx context.Context) {
	cutoff := time.Now().Add(-m.cfg.RetentionPeriod)

	readings, err := m.store.DeleteOldReadings(ctx, cutoff)
	if err != nil {
		m.logger.Error("reading retention cleanup failed", zap.Error(err))
	}
	alerts, err := m.store.DeleteOldAlerts(ctx, cutoff)
	if err != nil {
		m.logger.Error("alert retention cleanup failed", zap.Error(err))
	}

	if readings > 0 || alerts > 0 {
		m.logger.Info("retention cleanup",
			zap.Int64("readings_deleted", readings),
			zap.Int64("alerts_deleted", alerts),
			zap.Time("cutoff", cutoff),
		)
	}
}
