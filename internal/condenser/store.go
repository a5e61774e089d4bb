package condenser

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/condensight/pkg/plugin"
	"github.com/HerbHall/condensight/pkg/thermal"
	"github.com/google/uuid"
)

// ErrNoSummary is returned when no pipeline run has completed yet.
var ErrNoSummary = errors.New("no latest summary available")

// Store persists condenser readings, alerts, and the latest summary in
// the shared SQLite database.
type Store struct {
	db plugin.Store
}

// NewStore runs the module migrations and returns a Store.
func NewStore(ctx context.Context, db plugin.Store) (*Store, error) {
	if err := db.Migrate(ctx, "condenser", migrations); err != nil {
		return nil, fmt.Errorf("condenser migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// InsertReadings stores a batch of readings, skipping timestamps already
// present. Feeds re-deliver overlapping windows, so duplicates are normal.
func (s *Store) InsertReadings(ctx context.Context, readings []thermal.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	inserted := 0
	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO condenser_readings
				(ts, saturation_pressure, saturation_temperature, lmtd,
				 cooling_water_in_temp, cooling_water_out_temp,
				 cooling_water_mass_flow, specific_heat_capacity,
				 u_foul, u_clean, r_foul)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range readings {
			res, err := stmt.ExecContext(ctx,
				r.Timestamp.UTC(), r.SaturationPressure, r.SaturationTemp, r.LMTD,
				r.CoolingWaterInTemp, r.CoolingWaterOutTemp,
				r.CoolingWaterMassFlow, r.SpecificHeatCapacity,
				r.UFoul, r.UClean, r.RFoul)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert readings: %w", err)
	}
	return inserted, nil
}

// ListReadingsSince returns readings with ts > since, ascending.
func (s *Store) ListReadingsSince(ctx context.Context, since time.Time) ([]thermal.Reading, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT ts, saturation_pressure, saturation_temperature, lmtd,
		       cooling_water_in_temp, cooling_water_out_temp,
		       cooling_water_mass_flow, specific_heat_capacity,
		       u_foul, u_clean, r_foul
		FROM condenser_readings
		WHERE ts > ?
		ORDER BY ts ASC`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var out []thermal.Reading
	for rows.Next() {
		var r thermal.Reading
		if err := rows.Scan(&r.Timestamp, &r.SaturationPressure, &r.SaturationTemp, &r.LMTD,
			&r.CoolingWaterInTemp, &r.CoolingWaterOutTemp,
			&r.CoolingWaterMassFlow, &r.SpecificHeatCapacity,
			&r.UFoul, &r.UClean, &r.RFoul); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MeanFoulingResistance returns the mean r_foul over readings with
// from < ts <= to, plus the sample count. Implements the pipeline's
// SeasonalSource so the year-over-year lookup runs as an index scan
// instead of loading the full history.
func (s *Store) MeanFoulingResistance(ctx context.Context, from, to time.Time) (float64, int, error) {
	var mean sql.NullFloat64
	var n int
	err := s.db.DB().QueryRowContext(ctx, `
		SELECT AVG(r_foul), COUNT(*)
		FROM condenser_readings
		WHERE ts > ? AND ts <= ?`, from.UTC(), to.UTC()).Scan(&mean, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("mean fouling resistance: %w", err)
	}
	if !mean.Valid {
		return 0, 0, nil
	}
	return mean.Float64, n, nil
}

// InsertAlerts records raised alerts with a shared raised-at timestamp.
func (s *Store) InsertAlerts(ctx context.Context, raisedAt time.Time, alerts []thermal.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, a := range alerts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO condenser_alerts (id, raised_at, category, severity, message)
				VALUES (?, ?, ?, ?, ?)`,
				uuid.NewString(), raisedAt.UTC(), a.Category, a.Severity, a.Message)
			if err != nil {
				return fmt.Errorf("insert alert: %w", err)
			}
		}
		return nil
	})
}

// StoredAlert is an alert row with its persistence metadata.
type StoredAlert struct {
	ID       string        `json:"id"`
	RaisedAt time.Time     `json:"raised_at"`
	Alert    thermal.Alert `json:"alert"`
}

// ListAlerts returns the most recent alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context, limit int) ([]StoredAlert, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT id, raised_at, category, severity, message
		FROM condenser_alerts
		ORDER BY raised_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []StoredAlert
	for rows.Next() {
		var a StoredAlert
		if err := rows.Scan(&a.ID, &a.RaisedAt, &a.Alert.Category, &a.Alert.Severity, &a.Alert.Message); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertLatest stores the most recent pipeline summary.
func (s *Store) UpsertLatest(ctx context.Context, updatedAt time.Time, summary thermal.LatestSummary) error {
	blob, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = s.db.DB().ExecContext(ctx, `
		INSERT INTO condenser_latest (id, updated_at, summary)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, summary = excluded.summary`,
		updatedAt.UTC(), string(blob))
	if err != nil {
		return fmt.Errorf("upsert latest: %w", err)
	}
	return nil
}

// GetLatest returns the most recently stored pipeline summary.
func (s *Store) GetLatest(ctx context.Context) (thermal.LatestSummary, time.Time, error) {
	var updatedAt time.Time
	var blob string
	err := s.db.DB().QueryRowContext(ctx,
		`SELECT updated_at, summary FROM condenser_latest WHERE id = 1`).Scan(&updatedAt, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return thermal.LatestSummary{}, time.Time{}, ErrNoSummary
	}
	if err != nil {
		return thermal.LatestSummary{}, time.Time{}, fmt.Errorf("get latest: %w", err)
	}

	var summary thermal.LatestSummary
	if err := json.Unmarshal([]byte(blob), &summary); err != nil {
		return thermal.LatestSummary{}, time.Time{}, fmt.Errorf("unmarshal summary: %w", err)
	}
	return summary, updatedAt, nil
}

// DeleteOldReadings removes readings older than the cutoff.
func (s *Store) DeleteOldReadings(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.DB().ExecContext(ctx,
		`DELETE FROM condenser_readings WHERE ts < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete old readings: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOldAlerts removes alerts older than the cutoff.
func (s *Store) DeleteOldAlerts(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.DB().ExecContext(ctx,
		`DELETE FROM condenser_alerts WHERE raised_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete old alerts: %w", err)
	}
	return res.RowsAffected()
}
