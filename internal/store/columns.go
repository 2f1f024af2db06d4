package store

import (
	"time"

	"jobstats-etl/internal/domain"
)

// Columns is a window batch in column-oriented form, one slice per storage
// column, all of equal length.
type Columns struct {
	LocalIDs            []string
	Sources             []string
	Titles              []string
	Areas               []string
	SalaryAvgs          []*uint64
	SalaryCurrencies    []*string
	Created             []time.Time
	Skills              [][]string
	Remotes             []uint8
	Experiences         []uint8
	SpecializationIDs   [][]string
	SpecializationNames [][]string
}

// BuildColumns pivots a batch of canonical records into columnar form,
// tagging every row with the upstream source name.
func BuildColumns(source string, jobs []domain.Job) Columns {
	n := len(jobs)
	c := Columns{
		LocalIDs:            make([]string, 0, n),
		Sources:             make([]string, 0, n),
		Titles:              make([]string, 0, n),
		Areas:               make([]string, 0, n),
		SalaryAvgs:          make([]*uint64, 0, n),
		SalaryCurrencies:    make([]*string, 0, n),
		Created:             make([]time.Time, 0, n),
		Skills:              make([][]string, 0, n),
		Remotes:             make([]uint8, 0, n),
		Experiences:         make([]uint8, 0, n),
		SpecializationIDs:   make([][]string, 0, n),
		SpecializationNames: make([][]string, 0, n),
	}

	for _, job := range jobs {
		c.LocalIDs = append(c.LocalIDs, job.ID)
		c.Sources = append(c.Sources, source)
		c.Titles = append(c.Titles, job.Title)
		c.Areas = append(c.Areas, job.Area)

		if job.Salary != nil {
			avg := job.Salary.Average
			cur := job.Salary.Currency
			c.SalaryAvgs = append(c.SalaryAvgs, &avg)
			c.SalaryCurrencies = append(c.SalaryCurrencies, &cur)
		} else {
			c.SalaryAvgs = append(c.SalaryAvgs, nil)
			c.SalaryCurrencies = append(c.SalaryCurrencies, nil)
		}

		c.Created = append(c.Created, job.Created.UTC())
		c.Skills = append(c.Skills, job.Skills)

		var remote uint8
		if job.Remote {
			remote = 1
		}
		c.Remotes = append(c.Remotes, remote)
		c.Experiences = append(c.Experiences, job.Experience)

		ids := make([]string, 0, len(job.Specializations))
		names := make([]string, 0, len(job.Specializations))
		for _, s := range job.Specializations {
			ids = append(ids, s.ID)
			names = append(names, s.Name)
		}
		c.SpecializationIDs = append(c.SpecializationIDs, ids)
		c.SpecializationNames = append(c.SpecializationNames, names)
	}

	return c
}
