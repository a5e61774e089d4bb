package condenser

import (
	"database/sql"

	"github.com/HerbHall/condensight/pkg/plugin"
)

// migrations defines the condenser module's schema, applied in order by
// the shared store.
var migrations = []plugin.Migration{
	{
		Version:     1,
		Description: "create readings table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE condenser_readings (
					ts DATETIME PRIMARY KEY,
					saturation_pressure REAL NOT NULL,
					saturation_temperature REAL NOT NULL,
					lmtd REAL NOT NULL,
					cooling_water_in_temp REAL NOT NULL,
					cooling_water_out_temp REAL NOT NULL,
					cooling_water_mass_flow REAL NOT NULL,
					specific_heat_capacity REAL NOT NULL,
					u_foul REAL NOT NULL,
					u_clean REAL NOT NULL,
					r_foul REAL NOT NULL
				);
				CREATE INDEX idx_condenser_readings_ts ON condenser_readings(ts);
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "create alerts table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE condenser_alerts (
					id TEXT PRIMARY KEY,
					raised_at DATETIME NOT NULL,
					category TEXT NOT NULL,
					severity TEXT NOT NULL,
					message TEXT NOT NULL
				);
				CREATE INDEX idx_condenser_alerts_raised_at ON condenser_alerts(raised_at);
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "create latest summary table",
		Up: func(tx *sql.Tx) error {
			// Single-row table holding the most recent summary as JSON.
			_, err := tx.Exec(`
				CREATE TABLE condenser_latest (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					updated_at DATETIME NOT NULL,
					summary TEXT NOT NULL
				);
			`)
			return err
		},
	},
}
