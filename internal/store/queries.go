package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Read path for the dashboard service. These queries only consume the schema
// above; the HTTP surface that serves them lives elsewhere.

// SkillSalary is one (skill, currency, salary) observation, produced by
// unrolling the skills array of every row that carries a salary.
type SkillSalary struct {
	Skill    string
	Currency string
	Salary   uint64
}

// SkillSeries is the per-day occurrence count of one skill across the
// requested range, dates as YYYYMMDD.
type SkillSeries struct {
	Name        string   `json:"name"`
	Dates       []uint32 `json:"dates"`
	Occurrences []uint64 `json:"occurences"`
	Total       uint64   `json:"total_occurences"`
}

// SkillSalaries returns every skill/salary observation with a recognized
// currency, for quartile computation downstream.
func (c *ClickHouse) SkillSalaries(ctx context.Context) ([]SkillSalary, error) {
	query := fmt.Sprintf(`
SELECT arrayJoin(skills), salary_avg, salary_currency
FROM %s.jobs
WHERE salary_avg IS NOT NULL
  AND salary_currency IS NOT NULL
  AND notEmpty(skills)
  AND salary_currency IN ('RUR', 'KZT', 'EUR', 'USD')`, c.db)

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clickhouse skill salaries: %w", err)
	}
	defer rows.Close()

	var out []SkillSalary
	for rows.Next() {
		var (
			skill    string
			salary   *uint64
			currency *string
		)
		if err := rows.Scan(&skill, &salary, &currency); err != nil {
			return nil, fmt.Errorf("clickhouse skill salaries scan: %w", err)
		}
		if salary == nil || currency == nil {
			continue
		}
		out = append(out, SkillSalary{Skill: skill, Currency: *currency, Salary: *salary})
	}
	return out, rows.Err()
}

// SkillOccurrences aggregates per-day skill counts over [from, to] and
// returns one series per skill, busiest skills first. Every series spans the
// same date axis; days where a skill does not occur count as zero.
func (c *ClickHouse) SkillOccurrences(ctx context.Context, from, to time.Time) ([]SkillSeries, error) {
	query := fmt.Sprintf(`
SELECT toYYYYMMDD(created), flatten(groupArray(skills))
FROM %s.jobs
WHERE toYYYYMMDD(created) BETWEEN %s AND %s
GROUP BY toYYYYMMDD(created)
ORDER BY toYYYYMMDD(created) ASC`,
		c.db, from.UTC().Format("20060102"), to.UTC().Format("20060102"))

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clickhouse skill occurrences: %w", err)
	}
	defer rows.Close()

	var dates []uint32
	daySkills := make(map[uint32][]string)
	for rows.Next() {
		var (
			date   uint32
			skills []string
		)
		if err := rows.Scan(&date, &skills); err != nil {
			return nil, fmt.Errorf("clickhouse skill occurrences scan: %w", err)
		}
		dates = append(dates, date)
		daySkills[date] = skills
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildSkillSeries(dates, daySkills), nil
}

func buildSkillSeries(dates []uint32, daySkills map[uint32][]string) []SkillSeries {
	counts := make(map[string]map[uint32]uint64)
	for _, date := range dates {
		for _, skill := range daySkills[date] {
			if counts[skill] == nil {
				counts[skill] = make(map[uint32]uint64, len(dates))
			}
			counts[skill][date]++
		}
	}

	out := make([]SkillSeries, 0, len(counts))
	for name, perDay := range counts {
		s := SkillSeries{
			Name:        name,
			Dates:       dates,
			Occurrences: make([]uint64, len(dates)),
		}
		for i, date := range dates {
			s.Occurrences[i] = perDay[date]
			s.Total += perDay[date]
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
