package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ghalamif/stationbridge/internal/adapters/weatherlink"
	"github.com/ghalamif/stationbridge/internal/adapters/wunderground"
	"github.com/ghalamif/stationbridge/internal/domain"
)

type Config struct {
	WeatherLink        WeatherLinkConfig  `mapstructure:"weatherlink"`
	Wunderground       WundergroundConfig `mapstructure:"wunderground"`
	UpdateIntervalMins int                `mapstructure:"update_interval_mins"`
	SensorMap          string             `mapstructure:"sensor_map"`
	HTTPTimeout        time.Duration      `mapstructure:"http_timeout"`
	Metrics            MetricsConfig      `mapstructure:"metrics"`
	Log                LogConfig          `mapstructure:"log"`
}

type WeatherLinkConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	StationID string `mapstructure:"station_id"`
	BaseURL   string `mapstructure:"base_url"`
}

type WundergroundConfig struct {
	ID        string `mapstructure:"id"`
	Key       string `mapstructure:"key"`
	UpdateURL string `mapstructure:"update_url"`
}

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

// Addr is the listen address for the metrics server.
func (m MetricsConfig) Addr() string {
	return ":" + strconv.Itoa(m.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Environment variables per config key. Where a key lists several names the
// first one set wins.
var envBindings = []struct {
	key  string
	envs []string
}{
	{"weatherlink.api_key", []string{"WEATHERLINK_API_KEY"}},
	{"weatherlink.api_secret", []string{"WEATHERLINK_API_SECRET", "WEATHERLINK_API_SECRECT"}},
	{"weatherlink.station_id", []string{"WEATHERLINK_STATION_ID"}},
	{"weatherlink.base_url", []string{"WEATHERLINK_BASE_URL"}},
	{"wunderground.id", []string{"WUNDERGROUND_ID"}},
	{"wunderground.key", []string{"WUNDERGROUND_KEY"}},
	{"wunderground.update_url", []string{"WUNDERGROUND_URL"}},
	{"update_interval_mins", []string{"UPDATE_INTERVAL_MINS"}},
	{"sensor_map", []string{"SENSOR_MAP"}},
	{"http_timeout", []string{"HTTP_TIMEOUT"}},
	{"metrics.port", []string{"PORT"}},
	{"log.level", []string{"LOG_LEVEL"}},
	{"log.format", []string{"LOG_FORMAT"}},
}

// Load reads the optional YAML file at path, overlays environment variables,
// applies defaults and validates. Every failure wraps domain.ErrConfiguration.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read config file: %v", domain.ErrConfiguration, err)
		}
	}
	for _, b := range envBindings {
		if err := v.BindEnv(append([]string{b.key}, b.envs...)...); err != nil {
			return nil, fmt.Errorf("%w: bind %s: %v", domain.ErrConfiguration, b.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", domain.ErrConfiguration, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.UpdateIntervalMins == 0 {
		c.UpdateIntervalMins = 5
	}
	if c.SensorMap == "" {
		c.SensorMap = "./sensor_map.json"
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 3030
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.WeatherLink.BaseURL == "" {
		c.WeatherLink.BaseURL = weatherlink.DefaultBaseURL
	}
	if c.Wunderground.UpdateURL == "" {
		c.Wunderground.UpdateURL = wunderground.DefaultUpdateURL
	}
}

// Validate reports every missing required input at once.
func (c *Config) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"WEATHERLINK_API_KEY", c.WeatherLink.APIKey},
		{"WEATHERLINK_API_SECRET", c.WeatherLink.APISecret},
		{"WEATHERLINK_STATION_ID", c.WeatherLink.StationID},
		{"WUNDERGROUND_ID", c.Wunderground.ID},
		{"WUNDERGROUND_KEY", c.Wunderground.Key},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: environment variable(s) %s required", domain.ErrConfiguration, strings.Join(missing, ", "))
	}

	if c.UpdateIntervalMins < 1 {
		return fmt.Errorf("%w: update_interval_mins must be >= 1, got %d", domain.ErrConfiguration, c.UpdateIntervalMins)
	}
	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("%w: metrics port %d out of range", domain.ErrConfiguration, c.Metrics.Port)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: http_timeout must not be negative", domain.ErrConfiguration)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log format %q must be json or text", domain.ErrConfiguration, c.Log.Format)
	}
	return nil
}

// UpdateInterval is the period between scheduled collection cycles.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMins) * time.Minute
}
