package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func TestBuildDistanceTable(t *testing.T) {
	cities := []*domain.City{
		{ID: 3, Name: "Wroclaw"},
		{ID: 7, Name: "Opole"},
		{ID: 9, Name: "Brzeg"},
	}
	distances := []domain.Distance{
		{StartCityID: 3, EndCityID: 7, Kilometres: 100, DurationSeconds: 5400},
		{StartCityID: 7, EndCityID: 3, Kilometres: 101, DurationSeconds: 5500},
		{StartCityID: 3, EndCityID: 9, Kilometres: 48.6, DurationSeconds: 2700},
		{StartCityID: 3, EndCityID: 42, Kilometres: 1},
	}

	table := BuildDistanceTable(cities, distances)
	require.NoError(t, table.Validate())

	assert.Equal(t, []string{"Wroclaw", "Opole", "Brzeg"}, table.Starts)
	assert.Equal(t, table.Starts, table.Ends)
	assert.Equal(t, [][]float64{{0, 100, 48.6}, {101, 0, 0}, {0, 0, 0}}, table.Kilometres)
	assert.Equal(t, [][]int{{0, 5400, 2700}, {5500, 0, 0}, {0, 0, 0}}, table.Durations)
}

func TestBuildDistanceTableEmpty(t *testing.T) {
	table := BuildDistanceTable(nil, nil)
	assert.Empty(t, table.Starts)
	assert.Error(t, table.Validate())
}
