package normalize

// Raw mirrors the upstream detail-record JSON. Every nested field is a
// pointer because the upstream omits or nulls them freely; the normalizer
// turns each gap into a documented default rather than an error.
type Raw struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Salary          *RawSalary          `json:"salary"`
	Area            *RawArea            `json:"area"`
	Schedule        *RawSchedule        `json:"schedule"`
	PublishedAt     string              `json:"published_at"`
	Specializations []RawSpecialization `json:"specializations"`
	KeySkills       []RawSkill          `json:"key_skills"`
	Experience      *RawExperience      `json:"experience"`
}

type RawSalary struct {
	From     *uint64 `json:"from"`
	To       *uint64 `json:"to"`
	Currency string  `json:"currency"`
}

type RawArea struct {
	Name string `json:"name"`
}

type RawSchedule struct {
	ID string `json:"id"`
}

type RawSpecialization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RawSkill struct {
	Name string `json:"name"`
}

type RawExperience struct {
	ID string `json:"id"`
}
