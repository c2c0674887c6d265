package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/optimizer"
	"github.com/xuri/excelize/v2"
)

var testPricing = domain.Pricing{PerKilometre: 1.0, PerDay: 50, OneNightReduction: 20, PerMeal: 10}

func sampleRows() []domain.RunDelegation {
	trips := []*domain.Trip{
		{Kilometres: 100, DurationSeconds: 7500, StartName: "Wroclaw", EndName: "Opole"},
		{Kilometres: 48.6, StartName: "Wroclaw", EndName: "Brzeg"},
	}
	return Rows([]domain.Delegation{
		{Trip: trips[0], Days: 2, MealsReduction: 3},
		{Trip: trips[1], Days: 1, MealsReduction: 0},
	}, testPricing)
}

func TestRows(t *testing.T) {
	rows := sampleRows()
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, 250.0, rows[0].Cost)
	assert.Equal(t, 2, rows[1].Position)
	assert.InDelta(t, 127.2, rows[1].Cost, 1e-9)
	assert.InDelta(t, 377.2, Total(rows), 1e-9)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleRows()))

	want := "cost: 250.00; start: Wroclaw; end: Opole; km: 100; travel time: 2 h 5 min; days: 2; meals: 3\n" +
		"cost: 127.20; start: Wroclaw; end: Brzeg; km: 48.6; days: 1; meals: 0\n" +
		"TOTAL: 377.20\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, nil))
	assert.Equal(t, "TOTAL: 0.00\n", buf.String())
}

func sampleRun() *domain.OptimizationRun {
	fitness := 12.5
	return &domain.OptimizationRun{
		ID:           "run-1",
		TargetCost:   390,
		TimeBudgetMS: 1000,
		Epsilon:      0.01,
		MaxMeals:     4,
		Outcome:      "timed_out",
		BestFitness:  &fitness,
		Generations:  321,
		Delegations:  sampleRows(),
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRun()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DelegationsSheet, RunSheet}, f.GetSheetList())

	rows, err := f.GetRows(DelegationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Start", rows[0][1])
	assert.Equal(t, "Opole", rows[1][2])
	assert.Equal(t, "125", rows[1][4])
	assert.Equal(t, "Brzeg", rows[2][2])
	assert.Equal(t, "TOTAL", rows[3][6])

	params, err := f.GetRows(RunSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "run-1"}, params[0])
	assert.Equal(t, []string{"Fitness", "12.5"}, params[len(params)-1])
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveXLSX(path, sampleRun()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DelegationsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestApplyResult(t *testing.T) {
	trip := &domain.Trip{Kilometres: 100, DurationSeconds: 7500, StartName: "Wroclaw", EndName: "Opole"}
	res := &optimizer.Result{
		Best:        optimizer.Solution{{Trip: trip, Days: 2, MealsReduction: 3}},
		Fitness:     0,
		TotalCost:   250,
		Status:      optimizer.StatusConverged,
		Generations: 7,
		Elapsed:     1500 * time.Millisecond,
	}

	run := &domain.OptimizationRun{ID: "run-2", Status: domain.RunStatusRunning}
	ApplyResult(run, res, testPricing)

	assert.Equal(t, domain.RunStatusDone, run.Status)
	assert.Equal(t, "converged", run.Outcome)
	require.NotNil(t, run.BestFitness)
	assert.Zero(t, *run.BestFitness)
	require.NotNil(t, run.TotalCost)
	assert.Equal(t, 250.0, *run.TotalCost)
	assert.Equal(t, 7, run.Generations)
	assert.Equal(t, int64(1500), run.ElapsedMS)
	require.Len(t, run.Delegations, 1)
	assert.Equal(t, 250.0, run.Delegations[0].Cost)
}
