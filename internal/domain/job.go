package domain

import "time"

// Salary is the averaged form of the upstream {from, to} range.
type Salary struct {
	Average  uint64
	Currency string
}

type Specialization struct {
	ID   string
	Name string
}

// Job is the canonical, storage-ready form of one upstream posting.
// Skills is always sorted and deduplicated by the time a Job leaves the
// normalizer; Created is always UTC.
type Job struct {
	ID              string
	Title           string
	Salary          *Salary // nil when the posting carries no salary
	Area            string
	Remote          bool
	Created         time.Time
	Specializations []Specialization
	Skills          []string
	Experience      uint8 // years bucket: 0, 1, 3 or 6
}
