package optimizer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

var testPricing = domain.Pricing{PerKilometre: 1.0, PerDay: 50, OneNightReduction: 20, PerMeal: 10}

// 单一出发城市，B、C 为短途（不足 2 小时）
func singleOriginTable() *domain.DistanceTable {
	return &domain.DistanceTable{
		Starts:     []string{"A"},
		Ends:       []string{"A", "B", "C", "D", "E", "F"},
		Kilometres: [][]float64{{0, 40, 120, 200, 310, 450}},
		Durations:  [][]int{{0, 2400, 5400, 9000, 12600, 18000}},
	}
}

func twoCityTable() *domain.DistanceTable {
	return &domain.DistanceTable{
		Starts:     []string{"A", "B"},
		Ends:       []string{"A", "B"},
		Kilometres: [][]float64{{0, 100}, {100, 0}},
		Durations:  [][]int{{0, 7200}, {7200, 0}},
	}
}

func newTestOptimizer(t *testing.T, table *domain.DistanceTable, params Parameters, seed int64) *Optimizer {
	t.Helper()

	catalog, err := NewCatalog(table)
	require.NoError(t, err)

	o, err := New(params, catalog, testPricing, NewRand(seed))
	require.NoError(t, err)

	return o
}

func requireValid(t *testing.T, s Solution, maxMeals, maxDelegations int) {
	t.Helper()

	require.LessOrEqual(t, len(s), maxDelegations)
	for _, d := range s {
		require.True(t, d.Valid(maxMeals), "days: %d, meals: %d", d.Days, d.MealsReduction)
	}
}

func TestMaxDelegations(t *testing.T) {
	cases := map[float64]int{
		79:    1,
		500:   1,
		500.5: 2,
		1000:  2,
		1500:  3,
		2000:  4,
		2500:  5,
		2501:  6,
		99999: 6,
	}
	for target, want := range cases {
		assert.Equal(t, want, MaxDelegations(target), "target %v", target)
	}
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	catalog, err := NewCatalog(singleOriginTable())
	require.NoError(t, err)

	invalid := []Parameters{
		{TargetCost: 0},
		{TargetCost: math.NaN()},
		{TargetCost: 100, Epsilon: -1},
		{TargetCost: 100, MaxMeals: -1},
		{TargetCost: 100, TimeBudget: -time.Second},
		{TargetCost: 100, MaxGenerations: -1},
	}
	for _, p := range invalid {
		_, err := New(p, catalog, testPricing, NewRand(1))
		assert.Error(t, err, "%+v", p)
	}

	_, err = New(Parameters{TargetCost: 100}, catalog, testPricing, nil)
	assert.Error(t, err)

	_, err = New(Parameters{TargetCost: 100}, nil, testPricing, NewRand(1))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNewRejectsInvalidPricing(t *testing.T) {
	catalog, err := NewCatalog(singleOriginTable())
	require.NoError(t, err)

	invalid := []domain.Pricing{
		{PerKilometre: 1, PerDay: math.Inf(1), OneNightReduction: 20, PerMeal: 10},
		{PerKilometre: math.NaN(), PerDay: 50, OneNightReduction: 20, PerMeal: 10},
		{PerKilometre: 1, PerDay: 50, OneNightReduction: math.Inf(-1), PerMeal: 10},
		{PerKilometre: 1, PerDay: 50, OneNightReduction: 20, PerMeal: -1},
	}
	for _, p := range invalid {
		_, err := New(Parameters{TargetCost: 1500, TimeBudget: 10 * time.Millisecond, MaxMeals: 4}, catalog, p, NewRand(1))
		assert.Error(t, err, "%+v", p)
	}

	_, err = Solve(context.Background(), singleOriginTable(), invalid[0], Parameters{TargetCost: 1500, MaxMeals: 4}, 1)
	assert.Error(t, err)
}

func TestBreedWithoutBestKeepsPopulationNonEmpty(t *testing.T) {
	o := newTestOptimizer(t, singleOriginTable(), Parameters{TargetCost: 1500, MaxMeals: 4}, 3)

	fitnesses := make([]float64, len(o.population))
	for i, s := range o.population {
		fitnesses[i] = o.fitness(s)
	}

	next := o.breed(fitnesses, nil)
	require.Len(t, next, PopulationSize)
	for _, s := range next {
		assert.NotEmpty(t, s)
	}
}

func TestInitialPopulation(t *testing.T) {
	params := Parameters{TargetCost: 1800, MaxMeals: 6}
	o := newTestOptimizer(t, singleOriginTable(), params, 7)

	pop := o.Population()
	require.Len(t, pop, PopulationSize)

	for i, s := range pop {
		require.NotEmpty(t, s)
		requireValid(t, s, params.MaxMeals, o.MaxDelegations())
		if i%2 == 1 {
			// 确定性解每段各取一条行程
			assert.Len(t, s, o.MaxDelegations())
		}
	}
}

func TestDeterministicSolutionFollowsBuckets(t *testing.T) {
	o := newTestOptimizer(t, singleOriginTable(), Parameters{TargetCost: 1000, MaxMeals: 4}, 3)
	require.Equal(t, 2, o.MaxDelegations())

	for range 50 {
		s := o.deterministicSolution()
		require.Len(t, s, 2)
		// 5 条行程分为 [B C] 与 [D E F] 两段
		assert.Contains(t, []string{"B", "C"}, s[0].Trip.EndName)
		assert.Contains(t, []string{"D", "E", "F"}, s[1].Trip.EndName)
	}
}

func TestRandomSolutionUsesDistinctTrips(t *testing.T) {
	o := newTestOptimizer(t, singleOriginTable(), Parameters{TargetCost: 5000, MaxMeals: 4}, 11)

	for range 100 {
		s := o.randomSolution()
		require.NotEmpty(t, s)
		requireValid(t, s, 4, o.MaxDelegations())

		seen := map[domain.TripKey]bool{}
		for _, d := range s {
			require.False(t, seen[d.Trip.Key()])
			seen[d.Trip.Key()] = true
		}
	}
}

func TestTrivialInstance(t *testing.T) {
	params := Parameters{TargetCost: 50, TimeBudget: time.Second, MaxMeals: 3}
	o := newTestOptimizer(t, singleOriginTable(), params, 5)

	pop := o.Population()
	require.Len(t, pop, 1)
	require.Len(t, pop[0], 1)

	d := pop[0][0]
	assert.Equal(t, "B", d.Trip.EndName)
	assert.Equal(t, 1, d.Days)
	assert.Equal(t, 3, d.MealsReduction)

	res := o.Run(context.Background())
	assert.Equal(t, StatusTrivial, res.Status)
	assert.Equal(t, 0, res.Generations)
	require.Len(t, res.Best, 1)
	assert.Equal(t, d, res.Best[0])
	assert.Equal(t, d.Cost(testPricing), res.TotalCost)
}

func TestTrivialInstanceClampsMeals(t *testing.T) {
	o := newTestOptimizer(t, singleOriginTable(), Parameters{TargetCost: 10, MaxMeals: 9}, 5)

	d := o.Population()[0][0]
	assert.Equal(t, 4, d.MealsReduction)
}

func TestRunWithInfiniteEpsilonStopsImmediately(t *testing.T) {
	params := Parameters{TargetCost: 2000, TimeBudget: 20 * time.Millisecond, Epsilon: math.Inf(1), MaxMeals: 4}
	o := newTestOptimizer(t, singleOriginTable(), params, 9)

	res := o.Run(context.Background())
	assert.Equal(t, StatusConverged, res.Status)
	assert.Equal(t, 0, res.Generations)
	require.NotEmpty(t, res.Best)
	requireValid(t, res.Best, params.MaxMeals, o.MaxDelegations())
}

func TestRunTimesOut(t *testing.T) {
	params := Parameters{TargetCost: 2222.22, TimeBudget: 30 * time.Millisecond, Epsilon: 0, MaxMeals: 4}
	o := newTestOptimizer(t, singleOriginTable(), params, 13)

	res := o.Run(context.Background())
	assert.Equal(t, StatusTimedOut, res.Status)
	assert.GreaterOrEqual(t, res.Elapsed, params.TimeBudget)
	assert.Less(t, res.Elapsed, params.TimeBudget+time.Second)
	require.NotEmpty(t, res.Best)
	requireValid(t, res.Best, params.MaxMeals, o.MaxDelegations())
	assert.GreaterOrEqual(t, res.Fitness, 0.0)
	assert.Equal(t, Fitness(res.Best, params.TargetCost, testPricing), res.Fitness)
}

func TestRunWithZeroTimeBudgetReturnsBest(t *testing.T) {
	params := Parameters{TargetCost: 1500, MaxMeals: 4}
	o := newTestOptimizer(t, singleOriginTable(), params, 17)

	res := o.Run(context.Background())
	assert.Equal(t, StatusTimedOut, res.Status)
	assert.Equal(t, 0, res.Generations)
	assert.NotEmpty(t, res.Best)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	params := Parameters{TargetCost: 1500, TimeBudget: time.Hour, MaxMeals: 4}
	o := newTestOptimizer(t, singleOriginTable(), params, 19)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := o.Run(ctx)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.NotEmpty(t, res.Best)
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	params := Parameters{TargetCost: 300, TimeBudget: 50 * time.Millisecond, Epsilon: 0.01, MaxMeals: 4}

	first := newTestOptimizer(t, twoCityTable(), params, 42).Run(context.Background())
	second := newTestOptimizer(t, twoCityTable(), params, 42).Run(context.Background())

	assert.Equal(t, StatusConverged, first.Status)
	assert.Equal(t, first.Best, second.Best)
	assert.Equal(t, first.Generations, second.Generations)
	assert.InDelta(t, 300, first.TotalCost, 0.01)

	require.Len(t, first.Best, 1)
	assert.Equal(t, 3, first.Best[0].Days)
	assert.Equal(t, 3, first.Best[0].MealsReduction)
}

func TestRunIsDeterministicForGenerationCap(t *testing.T) {
	params := Parameters{TargetCost: 1777, TimeBudget: time.Hour, MaxMeals: 6, MaxGenerations: 200}

	first := newTestOptimizer(t, singleOriginTable(), params, 1234).Run(context.Background())
	second := newTestOptimizer(t, singleOriginTable(), params, 1234).Run(context.Background())

	assert.Equal(t, StatusTimedOut, first.Status)
	assert.Equal(t, 200, first.Generations)
	assert.Equal(t, first.Best, second.Best)
	assert.Equal(t, first.Fitness, second.Fitness)
	requireValid(t, first.Best, params.MaxMeals, MaxDelegations(params.TargetCost))
}

func TestSolve(t *testing.T) {
	params := Parameters{TargetCost: 300, TimeBudget: 50 * time.Millisecond, Epsilon: 0.01, MaxMeals: 4}

	res, err := Solve(context.Background(), twoCityTable(), testPricing, params, 42)
	require.NoError(t, err)
	assert.Equal(t, StatusConverged, res.Status)

	empty := &domain.DistanceTable{Starts: []string{"A"}, Ends: []string{"A"}, Kilometres: [][]float64{{0}}}
	_, err = Solve(context.Background(), empty, testPricing, params, 42)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Solve(context.Background(), twoCityTable(), testPricing, Parameters{}, 42)
	assert.Error(t, err)
}
