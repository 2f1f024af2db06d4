package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.Source.URL == "" {
		errs = append(errs, "source.url is required")
	} else if u, err := url.Parse(cfg.Source.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "source.url must be an absolute URL")
	}

	for i, p := range cfg.Source.Params {
		if p.Key == "" {
			errs = append(errs, fmt.Sprintf("source.params[%d].key cannot be empty", i))
		}
	}

	if cfg.Extract.WindowHours < 1 || cfg.Extract.WindowHours > 24 {
		errs = append(errs, "extract.window_hours must be 1..24")
	}
	if cfg.Extract.MaxInFlight < 1 {
		errs = append(errs, "extract.max_in_flight must be >= 1")
	}

	switch cfg.Storage.Backend {
	case "clickhouse":
		if cfg.Storage.ClickHouse.Addr == "" {
			errs = append(errs, "storage.clickhouse.addr is required")
		}
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path is required")
		}
	default:
		errs = append(errs, "storage.backend must be clickhouse or sqlite")
	}

	if cfg.Run.IntervalSeconds < 0 {
		errs = append(errs, "run.interval_seconds must be >= 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
