package seed

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestBuiltinTable(t *testing.T) {
	table := BuiltinTable()

	require.Equal(t, []string{"Wroclaw"}, table.Starts)
	require.Len(t, table.Ends, 22)
	assert.Equal(t, "Wroclaw", table.Ends[0])
	assert.Equal(t, "Olsztyn", table.Ends[21])
	assert.Equal(t, 0.0, table.Kilometres[0][0])
	assert.Equal(t, 542.0, table.Kilometres[0][1])
	assert.Equal(t, 48.6, table.Kilometres[0][8])
	assert.Equal(t, 2700, table.Duration(0, 8))
}

func TestLoadCSV(t *testing.T) {
	input := `start,end,kilometres,duration_seconds
A,B,100,3600
B,A,101,
C,A,5,600

`
	table, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, table.Starts)
	assert.Equal(t, []string{"A", "B", "C"}, table.Ends)
	assert.Equal(t, [][]float64{{0, 100, 0}, {101, 0, 0}, {5, 0, 0}}, table.Kilometres)
	assert.Equal(t, [][]int{{0, 3600, 0}, {0, 0, 0}, {600, 0, 0}}, table.Durations)
}

func TestLoadCSVWithoutDurations(t *testing.T) {
	table, err := LoadCSV(strings.NewReader("end,start,kilometres\nX,Y,12.5\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Y"}, table.Starts)
	assert.Equal(t, []string{"Y", "X"}, table.Ends)
	assert.Nil(t, table.Durations)
	assert.Equal(t, 12.5, table.Kilometres[0][1])
}

func TestLoadCSVErrors(t *testing.T) {
	inputs := []string{
		"",
		"start,end\nA,B\n",
		"start,end,kilometres\nA,B,abc\n",
		"start,end,kilometres\nA,,1\n",
		"start,end,kilometres\nA,B,1\nA,B,2\n",
		"start,end,kilometres,duration_seconds\nA,B,1,x\n",
		"start,end,kilometres\n",
	}

	for _, input := range inputs {
		_, err := LoadCSV(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"start", "end", "kilometres", "duration_seconds"},
		{"Wroclaw", "Brzeg", 48.6, 2700},
		{"Wroclaw", "Opole", 100, 5400},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	table, err := LoadXLSX(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Wroclaw"}, table.Starts)
	assert.Equal(t, []string{"Wroclaw", "Brzeg", "Opole"}, table.Ends)
	assert.Equal(t, [][]float64{{0, 48.6, 100}}, table.Kilometres)
	assert.Equal(t, [][]int{{0, 2700, 5400}}, table.Durations)
}

type memoryStore struct {
	cities    map[string]*domain.City
	nextID    int64
	distances []domain.Distance
	pricing   *domain.Pricing
}

func newMemoryStore() *memoryStore {
	return &memoryStore{cities: map[string]*domain.City{}}
}

func (m *memoryStore) GetCityBySlug(slug string) (*domain.City, error) {
	city, ok := m.cities[slug]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return city, nil
}

func (m *memoryStore) CreateCity(city *domain.City) error {
	m.nextID++
	city.ID = m.nextID
	m.cities[city.Slug] = city
	return nil
}

func (m *memoryStore) UpsertDistances(distances []domain.Distance) error {
	m.distances = append(m.distances, distances...)
	return nil
}

func (m *memoryStore) SavePricing(p *domain.Pricing) error {
	m.pricing = p
	return nil
}

func TestSeedTable(t *testing.T) {
	store := newMemoryStore()
	store.cities["brzeg"] = &domain.City{ID: 100, Name: "Brzeg", Slug: "brzeg"}
	store.nextID = 100

	n, err := SeedTable(store, BuiltinTable())
	require.NoError(t, err)

	assert.Equal(t, 21, n)
	assert.Len(t, store.cities, 22)

	wroclaw := store.cities["wroclaw"]
	require.NotNil(t, wroclaw)
	for _, d := range store.distances {
		assert.Equal(t, wroclaw.ID, d.StartCityID)
		assert.NotEqual(t, d.StartCityID, d.EndCityID)
	}
	assert.Contains(t, store.distances, domain.Distance{StartCityID: wroclaw.ID, EndCityID: 100, Kilometres: 48.6, DurationSeconds: 2700})
}

func TestSeedPricing(t *testing.T) {
	store := newMemoryStore()

	require.NoError(t, SeedPricing(store, domain.Pricing{PerKilometre: 0.8358, PerDay: 45, OneNightReduction: 30, PerMeal: 11.25}))
	assert.Equal(t, 45.0, store.pricing.PerDay)

	assert.Error(t, SeedPricing(store, domain.Pricing{PerDay: -1}))
}
