package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"jobstats-etl/internal/config"
	"jobstats-etl/internal/extract"
	"jobstats-etl/internal/fetch"
	"jobstats-etl/internal/pipeline"
	"jobstats-etl/internal/scheduler"
	"jobstats-etl/internal/secrets"
	"jobstats-etl/internal/state"
	"jobstats-etl/internal/store"
)

const stateFilename = "checkpoint.yml"

func main() {
	dataDir := os.Getenv("JOBSTATS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, closeLoader, err := openLoader(ctx, cfg)
	if err != nil {
		log.Fatalf("storage open failed: %v", err)
	}
	defer closeLoader()

	cp, err := state.Open(filepath.Join(dataDir, stateFilename), time.Now())
	if err != nil {
		log.Fatalf("checkpoint open failed: %v", err)
	}
	defer cp.Close()

	client := fetch.New(fetch.Options{
		UserAgent:      cfg.Source.UserAgent,
		BackoffCeiling: cfg.BackoffCeiling(),
		HostReqPerSec:  cfg.Extract.HostReqPerSec,
		HostBurst:      cfg.Extract.HostBurst,
	})

	params := make([]extract.Param, 0, len(cfg.Source.Params))
	for _, p := range cfg.Source.Params {
		params = append(params, extract.Param{Key: p.Key, Value: p.Value})
	}

	extractor, err := extract.New(extract.Config{
		URL:         cfg.Source.URL,
		Params:      params,
		MaxInFlight: cfg.Extract.MaxInFlight,
	}, client)
	if err != nil {
		log.Fatal(err)
	}

	p := pipeline.New(extractor, loader, cp, cfg.Window())

	if cfg.Run.IntervalSeconds <= 0 {
		if err := p.Run(ctx); err != nil {
			log.Fatalf("run failed: %v", err)
		}
		return
	}

	interval := time.Duration(cfg.Run.IntervalSeconds) * time.Second
	log.Printf("[etl] running every %s (source=%s, window=%s)", interval, cfg.Source.Name, cfg.Window())
	scheduler.Every(ctx, interval, "etl", p.Run)
}

func openLoader(ctx context.Context, cfg config.Config) (store.Loader, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := store.OpenSQLite(cfg.Storage.SQLitePath, cfg.Source.Name)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Init(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		password := cfg.Storage.ClickHouse.Password
		if acct := cfg.Storage.ClickHouse.KeyringAccount; acct != "" {
			pw, err := secrets.GetStoragePassword(acct)
			if err != nil {
				return nil, nil, err
			}
			password = pw
		}

		ch, err := store.OpenClickHouse(store.ClickHouseOptions{
			Addr:     cfg.Storage.ClickHouse.Addr,
			Database: cfg.Storage.ClickHouse.Database,
			Username: cfg.Storage.ClickHouse.Username,
			Password: password,
			Source:   cfg.Source.Name,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := ch.Init(ctx); err != nil {
			_ = ch.Close()
			return nil, nil, err
		}
		return ch, func() { _ = ch.Close() }, nil
	}
}
