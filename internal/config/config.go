package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Param is one static query parameter sent on every listing request.
type Param struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Source struct {
		Name      string  `yaml:"name"` // tag written to the "source" column
		URL       string  `yaml:"url"`
		UserAgent string  `yaml:"user_agent"`
		Params    []Param `yaml:"params"`
	} `yaml:"source"`

	Extract struct {
		WindowHours           int     `yaml:"window_hours"`
		MaxInFlight           int     `yaml:"max_in_flight"`
		HostReqPerSec         float64 `yaml:"host_req_per_sec"`
		HostBurst             int     `yaml:"host_burst"`
		BackoffCeilingSeconds int     `yaml:"backoff_ceiling_seconds"`
	} `yaml:"extract"`

	Storage struct {
		Backend string `yaml:"backend"` // "clickhouse" or "sqlite"

		ClickHouse struct {
			Addr           string `yaml:"addr"`
			Database       string `yaml:"database"`
			Username       string `yaml:"username"`
			Password       string `yaml:"password"`
			KeyringAccount string `yaml:"keyring_account"` // preferred over inline password
		} `yaml:"clickhouse"`

		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Run struct {
		IntervalSeconds int `yaml:"interval_seconds"` // 0 = single run, then exit
	} `yaml:"run"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "."
	}
	if cfg.Source.Name == "" {
		cfg.Source.Name = "hh"
	}
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "jobstats-etl/1.0"
	}
	if cfg.Extract.WindowHours <= 0 {
		cfg.Extract.WindowHours = 1
	}
	if cfg.Extract.MaxInFlight <= 0 {
		cfg.Extract.MaxInFlight = 16
	}
	if cfg.Extract.HostReqPerSec <= 0 {
		cfg.Extract.HostReqPerSec = 8
	}
	if cfg.Extract.HostBurst <= 0 {
		cfg.Extract.HostBurst = 4
	}
	if cfg.Extract.BackoffCeilingSeconds <= 0 {
		cfg.Extract.BackoffCeilingSeconds = 10
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "clickhouse"
	}
	if cfg.Storage.ClickHouse.Addr == "" {
		cfg.Storage.ClickHouse.Addr = "127.0.0.1:9000"
	}
	if cfg.Storage.ClickHouse.Database == "" {
		cfg.Storage.ClickHouse.Database = "jobs"
	}
	if cfg.Storage.ClickHouse.Username == "" {
		cfg.Storage.ClickHouse.Username = "default"
	}
}

// Window returns the configured extraction window width.
func (c Config) Window() time.Duration {
	return time.Duration(c.Extract.WindowHours) * time.Hour
}

// BackoffCeiling returns the retry delay cap for the resilient client.
func (c Config) BackoffCeiling() time.Duration {
	return time.Duration(c.Extract.BackoffCeilingSeconds) * time.Second
}
