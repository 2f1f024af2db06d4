package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobstats-etl/internal/domain"
)

func u64(v uint64) *uint64 { return &v }

func TestSalaryAveraging(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawSalary
		want *domain.Salary
	}{
		{"both bounds", &RawSalary{From: u64(100), To: u64(200), Currency: "USD"}, &domain.Salary{Average: 150, Currency: "USD"}},
		{"from only", &RawSalary{From: u64(100), Currency: "USD"}, &domain.Salary{Average: 100, Currency: "USD"}},
		{"to only", &RawSalary{To: u64(200), Currency: "EUR"}, &domain.Salary{Average: 200, Currency: "EUR"}},
		{"neither bound", &RawSalary{Currency: "USD"}, nil},
		{"absent", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Salary(tt.raw))
		})
	}
}

func TestExperienceBuckets(t *testing.T) {
	tests := []struct {
		id   string
		want uint8
	}{
		{"between1And3", 1},
		{"between3And6", 3},
		{"moreThan6", 6},
		{"noExperience", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Experience(&RawExperience{ID: tt.id}), "id=%q", tt.id)
	}
	assert.Equal(t, uint8(0), Experience(nil))
}

func TestRemoteFlag(t *testing.T) {
	assert.True(t, Remote(&RawSchedule{ID: "remote"}))
	assert.False(t, Remote(&RawSchedule{ID: "fullDay"}))
	assert.False(t, Remote(&RawSchedule{}))
	assert.False(t, Remote(nil))
}

func TestCanonicalSkillRules(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Java", "java"},
		{"java 8", "java"},
		{"JavaScript", "javascript"},
		{"js", "javascript"},
		{"Node.js", "javascript"},
		{"1C", "1c"},
		{"1с", "1c"}, // cyrillic
		{"PHP7", "php"},
		{"CSS3", "css"},
		{"HTML5", "html"},
		{"REST API", "rest"},
		{"Golang", "golang"},
		{"SAP ERP", "sap"},
		{"React Native", "react native"},
		{"ReactJS", "javascript"}, // js rule runs before the react rule
		{"React", "react"},
		{"Webpack", "webpack"},
		{"Frontend", "front"},
		{"Backend", "back"},
		{"Fullstack", "full"},
		{"Team Lead", "lead"},
		{"Junior", "junior"},
		{"Middle", "middle"},
		{"Senior", "senior"},
		{"старший разработчик", "senior"},
		{"младший", "junior"},
		{"ведущий", "lead"},
		{"postgresql", "postgresql"}, // untouched
		{"  Docker  ", "docker"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalSkill(tt.in), "in=%q", tt.in)
	}
}

func TestCanonicalSkillIdempotent(t *testing.T) {
	inputs := []string{
		"Java", "JavaScript", "js", "1C", "1с", "PHP", "CSS", "HTML", "REST",
		"Golang", "SAP", "React Native", "React", "Webpack", "Frontend",
		"Backend", "Fullstack", "Lead", "Junior", "Middle", "Senior",
		"старший", "младший", "ведущий", "postgresql", "docker", "kubernetes",
		"node.js", "C++", "linux", "",
	}

	for _, in := range inputs {
		once := CanonicalSkill(in)
		twice := CanonicalSkill(once)
		assert.Equal(t, once, twice, "chain not idempotent for %q", in)
	}
}

func TestSkillsSortedAndDeduplicated(t *testing.T) {
	raw := []RawSkill{
		{Name: "PHP"},
		{Name: "php7"},
		{Name: "Webpack"},
		{Name: "CSS"},
		{Name: "webpack 5"},
	}

	got := Skills(raw, "")
	assert.Equal(t, []string{"css", "php", "webpack"}, got)
}

func TestSkillsTitleImplied(t *testing.T) {
	got := Skills([]RawSkill{{Name: "PHP"}}, "senior backend developer")
	assert.Equal(t, []string{"back", "php", "senior"}, got)

	// title tokens outside the role vocabulary are not added
	got = Skills(nil, "postgresql administrator")
	assert.Empty(t, got)
}

func TestJobNormalization(t *testing.T) {
	raw := Raw{
		ID:          "42",
		Name:        "Senior Backend Developer",
		Salary:      &RawSalary{From: u64(1000), To: u64(2000), Currency: "USD"},
		Area:        &RawArea{Name: "Moscow"},
		Schedule:    &RawSchedule{ID: "remote"},
		PublishedAt: "2024-01-01T00:30:00Z",
		Specializations: []RawSpecialization{
			{ID: "1", Name: "Backend"},
		},
		KeySkills:  []RawSkill{{Name: "PHP"}},
		Experience: &RawExperience{ID: "moreThan6"},
	}

	job, err := Job(raw)
	require.NoError(t, err)

	assert.Equal(t, "42", job.ID)
	assert.Equal(t, "senior backend developer", job.Title)
	require.NotNil(t, job.Salary)
	assert.Equal(t, uint64(1500), job.Salary.Average)
	assert.Equal(t, "USD", job.Salary.Currency)
	assert.Equal(t, "moscow", job.Area)
	assert.True(t, job.Remote)
	assert.Equal(t, uint8(6), job.Experience)
	assert.Equal(t, []string{"back", "php", "senior"}, job.Skills)
	assert.Equal(t, []domain.Specialization{{ID: "1", Name: "backend"}}, job.Specializations)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC), job.Created)
}

func TestJobDegradesMissingFields(t *testing.T) {
	job, err := Job(Raw{ID: "7", PublishedAt: "2024-03-05T10:00:00+0300"})
	require.NoError(t, err)

	assert.Nil(t, job.Salary)
	assert.Empty(t, job.Area)
	assert.False(t, job.Remote)
	assert.Equal(t, uint8(0), job.Experience)
	assert.Empty(t, job.Skills)
	// hh-style offset without colon is accepted and converted to UTC
	assert.Equal(t, time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC), job.Created)
}

func TestJobRejectsUnusable(t *testing.T) {
	_, err := Job(Raw{PublishedAt: "2024-01-01T00:00:00Z"})
	assert.ErrorIs(t, err, ErrNoID)

	_, err = Job(Raw{ID: "1", PublishedAt: "yesterday"})
	assert.ErrorIs(t, err, ErrBadCreate)
}
