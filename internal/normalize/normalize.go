// Package normalize maps one raw upstream record into one canonical job
// record. Every function here is pure and total: malformed sub-fields degrade
// to defaults, they never abort the pipeline.
package normalize

import (
	"errors"
	"sort"
	"strings"
	"time"

	"jobstats-etl/internal/domain"
)

var (
	ErrNoID      = errors.New("record has no id")
	ErrBadCreate = errors.New("record has unparseable published_at")
)

// upstream sends "+0300" style offsets, which is not quite RFC 3339
const publishedAtLayout = "2006-01-02T15:04:05-0700"

// Job converts a raw upstream record into its canonical form. It fails only
// on a missing id or an unparseable creation date; such records cannot be
// stored or windowed and are skipped by the extractor.
func Job(raw Raw) (domain.Job, error) {
	if raw.ID == "" {
		return domain.Job{}, ErrNoID
	}

	created, err := parseCreated(raw.PublishedAt)
	if err != nil {
		return domain.Job{}, err
	}

	title := strings.ToLower(strings.TrimSpace(raw.Name))

	area := ""
	if raw.Area != nil {
		area = strings.ToLower(strings.TrimSpace(raw.Area.Name))
	}

	specs := make([]domain.Specialization, 0, len(raw.Specializations))
	for _, s := range raw.Specializations {
		specs = append(specs, domain.Specialization{
			ID:   s.ID,
			Name: strings.ToLower(s.Name),
		})
	}

	return domain.Job{
		ID:              raw.ID,
		Title:           title,
		Salary:          Salary(raw.Salary),
		Area:            area,
		Remote:          Remote(raw.Schedule),
		Created:         created,
		Specializations: specs,
		Skills:          Skills(raw.KeySkills, title),
		Experience:      Experience(raw.Experience),
	}, nil
}

func parseCreated(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(publishedAtLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrBadCreate
}

// Salary returns the midpoint of the upstream range, or whichever bound is
// present when the other is missing, or nil when the posting has no salary.
func Salary(raw *RawSalary) *domain.Salary {
	if raw == nil {
		return nil
	}
	switch {
	case raw.From != nil && raw.To != nil:
		return &domain.Salary{Average: (*raw.From + *raw.To) / 2, Currency: raw.Currency}
	case raw.From != nil:
		return &domain.Salary{Average: *raw.From, Currency: raw.Currency}
	case raw.To != nil:
		return &domain.Salary{Average: *raw.To, Currency: raw.Currency}
	default:
		return nil
	}
}

// Remote reports whether the upstream schedule is the known remote tag.
func Remote(raw *RawSchedule) bool {
	return raw != nil && raw.ID == "remote"
}

// Experience maps the upstream experience tag onto a years bucket. Unknown
// and absent tags both land in the zero bucket.
func Experience(raw *RawExperience) uint8 {
	if raw == nil {
		return 0
	}
	switch raw.ID {
	case "between1And3":
		return 1
	case "between3And6":
		return 3
	case "moreThan6":
		return 6
	default:
		return 0
	}
}

// Skills canonicalizes the upstream skill list, folds in any seniority/role
// tokens implied by the title, and returns the result sorted and deduplicated.
func Skills(raw []RawSkill, title string) []string {
	set := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		c := CanonicalSkill(s.Name)
		if c != "" {
			set[c] = struct{}{}
		}
	}

	for _, tok := range strings.Fields(title) {
		c := CanonicalSkill(tok)
		if _, ok := roleVocabulary[c]; ok {
			set[c] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
