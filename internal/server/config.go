package server

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/condensight.db")

	// Module defaults
	v.SetDefault("modules.feed.enabled", true)
	v.SetDefault("modules.feed.poll_interval", "5m")
	v.SetDefault("modules.feed.timeout", "30s")
	v.SetDefault("modules.feed.window_hint", "24h")
	v.SetDefault("modules.condenser.u_clean", 2500.0)
	v.SetDefault("modules.condenser.area_m2", 44370.0)
	v.SetDefault("modules.condenser.energy_rate", 0.5)
	v.SetDefault("modules.condenser.operating_hours", 24.0)
	v.SetDefault("modules.condenser.coal_price", 850.0)
	v.SetDefault("modules.condenser.trend_window_points", 24)
	v.SetDefault("modules.condenser.seasonal_lookback", "24h")
	v.SetDefault("modules.condenser.retention_period", "9528h") // 13 months + margin
	v.SetDefault("modules.condenser.maintenance_interval", "1h")
	v.SetDefault("modules.condenser.thresholds.critical_fouling_resistance", 0.00026)
	v.SetDefault("modules.condenser.thresholds.min_efficiency_percent", 85.0)
	v.SetDefault("modules.condenser.thresholds.max_daily_cost", 1500000.0)
	v.SetDefault("modules.condenser.thresholds.max_daily_co2_kg", 3500.0)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("condensight")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/condensight")
	}

	// Environment variable support: CS_SERVER_PORT=9090
	v.SetEnvPrefix("CS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
