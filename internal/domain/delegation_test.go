package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPricing = Pricing{PerKilometre: 1.0, PerDay: 50, OneNightReduction: 20, PerMeal: 10}

func TestDelegationCost(t *testing.T) {
	trip := &Trip{Kilometres: 100, DurationSeconds: 7200, StartIndex: 0, EndIndex: 1}
	d := Delegation{Trip: trip, Days: 2, MealsReduction: 3}

	assert.Equal(t, 250.0, d.Cost(testPricing))
}

func TestNewDelegationClampsDays(t *testing.T) {
	long := &Trip{Kilometres: 300, DurationSeconds: 3 * 3600}

	assert.Equal(t, 1, NewDelegation(long, 0, 0, 4).Days)
	assert.Equal(t, 5, NewDelegation(long, 9, 0, 4).Days)
	assert.Equal(t, 3, NewDelegation(long, 3, 0, 4).Days)
}

func TestNewDelegationShortTripIsOneDay(t *testing.T) {
	short := &Trip{Kilometres: 50, DurationSeconds: 7199}

	for days := 1; days <= 5; days++ {
		d := NewDelegation(short, days, 20, 20)
		assert.Equal(t, 1, d.Days)
		assert.Equal(t, 4, d.MealsReduction)
		assert.True(t, d.Valid(20))
	}
}

func TestTripWithoutDurationIsShort(t *testing.T) {
	trip := &Trip{Kilometres: 500}

	assert.True(t, trip.IsShort())
	assert.Equal(t, 1, NewDelegation(trip, 4, 0, 4).Days)
}

func TestMealsCeiling(t *testing.T) {
	assert.Equal(t, 4, MealsCeiling(1, 10))
	assert.Equal(t, 3, MealsCeiling(2, 3))
	assert.Equal(t, 0, MealsCeiling(5, 0))
	assert.Equal(t, 0, MealsCeiling(2, -1))
}

func TestWithDaysReclampsMeals(t *testing.T) {
	trip := &Trip{Kilometres: 300, DurationSeconds: 4 * 3600}
	d := NewDelegation(trip, 5, 12, 20)
	require.Equal(t, 12, d.MealsReduction)

	shorter := d.WithDays(2, 20)
	assert.Equal(t, 2, shorter.Days)
	assert.Equal(t, 8, shorter.MealsReduction)
	// 原值不受影响
	assert.Equal(t, 5, d.Days)
	assert.Equal(t, 12, d.MealsReduction)
}

func TestWithTripReappliesShortTripRule(t *testing.T) {
	long := &Trip{Kilometres: 300, DurationSeconds: 4 * 3600}
	short := &Trip{Kilometres: 40, DurationSeconds: 1800}

	d := NewDelegation(long, 4, 10, 20).WithTrip(short, 20)
	assert.Equal(t, 1, d.Days)
	assert.Equal(t, 4, d.MealsReduction)
}

func TestTripKeyIsDirectional(t *testing.T) {
	a := &Trip{StartIndex: 0, EndIndex: 1}
	b := &Trip{StartIndex: 1, EndIndex: 0}
	c := &Trip{StartIndex: 0, EndIndex: 1, Kilometres: 12}

	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), c.Key())
}

func TestDistanceTableValidate(t *testing.T) {
	table := &DistanceTable{
		Starts:     []string{"A"},
		Ends:       []string{"A", "B"},
		Kilometres: [][]float64{{0, 10}},
	}
	require.NoError(t, table.Validate())
	assert.Equal(t, 0, table.Duration(0, 1))

	table.Durations = [][]int{{0}}
	assert.Error(t, table.Validate())

	table.Durations = [][]int{{0, -1}}
	assert.Error(t, table.Validate())

	table.Kilometres = [][]float64{{0, 10}, {10, 0}}
	table.Durations = nil
	assert.Error(t, table.Validate())
}
