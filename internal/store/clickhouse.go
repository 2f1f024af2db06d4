package store

import (
	"context"
	"fmt"
	"log"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"jobstats-etl/internal/domain"
)

// Schema matches the analytical table the dashboard service reads: rows
// ordered by creation time, partitioned by month, deduplicated by the
// post-insert OPTIMIZE pass.
const createTableStmt = `
CREATE TABLE IF NOT EXISTS %s.jobs (
	local_id             String,
	source               String,
	title                String,
	area                 String,
	salary_avg           Nullable(UInt64),
	salary_currency      Nullable(String),
	created              DateTime('UTC'),
	skills               Array(String),
	remote               UInt8,
	experience           UInt8,
	specialization_ids   Array(String),
	specialization_names Array(String)
) ENGINE = MergeTree
ORDER BY created
PARTITION BY toYYYYMM(created)`

type ClickHouse struct {
	conn   driver.Conn
	db     string
	source string
}

type ClickHouseOptions struct {
	Addr     string
	Database string
	Username string
	Password string
	Source   string // value for the source column, e.g. "hh"
}

func OpenClickHouse(opts ClickHouseOptions) (*ClickHouse, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}

	return &ClickHouse{conn: conn, db: opts.Database, source: opts.Source}, nil
}

// Init creates the database and table if they are missing. Safe to run on
// every start.
func (c *ClickHouse) Init(ctx context.Context) error {
	if err := c.conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", c.db)); err != nil {
		return fmt.Errorf("clickhouse create database: %w", err)
	}
	if err := c.conn.Exec(ctx, fmt.Sprintf(createTableStmt, c.db)); err != nil {
		return fmt.Errorf("clickhouse create table: %w", err)
	}
	return nil
}

// Load pivots the batch into columns, sends it as one bulk insert, then runs
// the deduplication maintenance pass so a re-run window collapses to a single
// copy of each row.
func (c *ClickHouse) Load(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	cols := BuildColumns(c.source, jobs)

	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.jobs", c.db))
	if err != nil {
		return fmt.Errorf("clickhouse prepare batch: %w", err)
	}

	for i, col := range []any{
		cols.LocalIDs,
		cols.Sources,
		cols.Titles,
		cols.Areas,
		cols.SalaryAvgs,
		cols.SalaryCurrencies,
		cols.Created,
		cols.Skills,
		cols.Remotes,
		cols.Experiences,
		cols.SpecializationIDs,
		cols.SpecializationNames,
	} {
		if err := batch.Column(i).Append(col); err != nil {
			return fmt.Errorf("clickhouse append column %d: %w", i, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("clickhouse insert: %w", err)
	}

	if err := c.Deduplicate(ctx); err != nil {
		return err
	}

	log.Printf("[store] clickhouse loaded rows=%d", len(jobs))
	return nil
}

// Deduplicate collapses byte-identical rows. Idempotent and safe to run
// repeatedly; this is the primary defense against double-insertion from
// re-run windows.
func (c *ClickHouse) Deduplicate(ctx context.Context) error {
	stmt := fmt.Sprintf("OPTIMIZE TABLE %s.jobs FINAL DEDUPLICATE", c.db)
	if err := c.conn.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("clickhouse deduplicate: %w", err)
	}
	return nil
}

func (c *ClickHouse) Close() error {
	return c.conn.Close()
}
