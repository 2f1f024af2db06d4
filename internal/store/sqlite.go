package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"jobstats-etl/internal/domain"
)

// SQLite is a local sink behind the same Loader contract, for dev runs and
// tests where a ClickHouse cluster is overkill. The (source, local_id)
// primary key plus INSERT OR REPLACE stands in for the column store's
// deduplication pass.
type SQLite struct {
	db     *sql.DB
	source string
}

func OpenSQLite(path, source string) (*SQLite, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, source: source}, nil
}

func (s *SQLite) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
  local_id             TEXT NOT NULL,
  source               TEXT NOT NULL,
  title                TEXT NOT NULL,
  area                 TEXT NOT NULL,
  salary_avg           INTEGER,
  salary_currency      TEXT,
  created              TEXT NOT NULL,
  skills               TEXT NOT NULL DEFAULT '[]',
  remote               INTEGER NOT NULL DEFAULT 0,
  experience           INTEGER NOT NULL DEFAULT 0,
  specialization_ids   TEXT NOT NULL DEFAULT '[]',
  specialization_names TEXT NOT NULL DEFAULT '[]',
  PRIMARY KEY (source, local_id)
);
CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created);`)
	if err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO jobs
  (local_id, source, title, area, salary_avg, salary_currency, created,
   skills, remote, experience, specialization_ids, specialization_names)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		var salaryAvg any
		var salaryCur any
		if job.Salary != nil {
			salaryAvg = int64(job.Salary.Average)
			salaryCur = job.Salary.Currency
		}

		skillsJSON, _ := json.Marshal(job.Skills)

		ids := make([]string, 0, len(job.Specializations))
		names := make([]string, 0, len(job.Specializations))
		for _, sp := range job.Specializations {
			ids = append(ids, sp.ID)
			names = append(names, sp.Name)
		}
		idsJSON, _ := json.Marshal(ids)
		namesJSON, _ := json.Marshal(names)

		remote := 0
		if job.Remote {
			remote = 1
		}

		if _, err := stmt.ExecContext(ctx,
			job.ID, s.source, job.Title, job.Area, salaryAvg, salaryCur,
			job.Created.UTC().Format(time.RFC3339), string(skillsJSON),
			remote, job.Experience, string(idsJSON), string(namesJSON),
		); err != nil {
			return fmt.Errorf("sqlite insert %s: %w", job.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}

	log.Printf("[store] sqlite loaded rows=%d", len(jobs))
	return nil
}

// CountByLocalID reports how many rows exist per local_id; used to verify
// that re-run windows stay collapsed.
func (s *SQLite) CountByLocalID(ctx context.Context, localID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE source = ? AND local_id = ?;`, s.source, localID).Scan(&n)
	return n, err
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
