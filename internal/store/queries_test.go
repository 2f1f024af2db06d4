package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSkillSeries(t *testing.T) {
	dates := []uint32{20240101, 20240102, 20240103}
	daySkills := map[uint32][]string{
		20240101: {"php", "php", "golang"},
		20240102: {"golang"},
		20240103: {"php", "golang", "golang"},
	}

	series := buildSkillSeries(dates, daySkills)
	require.Len(t, series, 2)

	// busiest first
	assert.Equal(t, "golang", series[0].Name)
	assert.Equal(t, uint64(4), series[0].Total)
	assert.Equal(t, dates, series[0].Dates)
	assert.Equal(t, []uint64{1, 1, 2}, series[0].Occurrences)

	assert.Equal(t, "php", series[1].Name)
	assert.Equal(t, uint64(3), series[1].Total)
	assert.Equal(t, []uint64{2, 0, 1}, series[1].Occurrences)
}

func TestBuildSkillSeriesEmpty(t *testing.T) {
	assert.Empty(t, buildSkillSeries(nil, nil))
}
