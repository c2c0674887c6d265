package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func newRun(createdAt time.Time) *domain.OptimizationRun {
	fitness, total := 0.5, 999.5
	return &domain.OptimizationRun{
		ID:           uuid.New().String(),
		TargetCost:   1000,
		TimeBudgetMS: 200,
		Epsilon:      0.01,
		MaxMeals:     4,
		Seed:         7,
		Outcome:      "timed_out",
		BestFitness:  &fitness,
		TotalCost:    &total,
		Generations:  1500,
		ElapsedMS:    201,
		CreatedAt:    createdAt,
		Delegations: []domain.RunDelegation{
			{Position: 1, StartName: "Wroclaw", EndName: "Lodz", Kilometres: 224, DurationSeconds: 9600, Days: 3, MealsReduction: 2, Cost: 600},
			{Position: 2, StartName: "Wroclaw", EndName: "Brzeg", Kilometres: 48.6, Days: 1, MealsReduction: 0, Cost: 399.5},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := newRun(time.UnixMilli(1_700_000_000_000))
	require.NoError(t, s.Record(ctx, run))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.TargetCost, got.TargetCost)
	assert.Equal(t, run.Outcome, got.Outcome)
	require.NotNil(t, got.BestFitness)
	assert.Equal(t, 0.5, *got.BestFitness)
	assert.Equal(t, run.Delegations, got.Delegations)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestGetMissingRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := newRun(time.Now())
	require.NoError(t, s.Record(ctx, run))
	assert.Error(t, s.Record(ctx, run))
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.UnixMilli(1_700_000_000_000)
	older := newRun(base)
	newer := newRun(base.Add(time.Minute))
	noResult := newRun(base.Add(2 * time.Minute))
	noResult.BestFitness = nil
	noResult.TotalCost = nil
	noResult.Delegations = nil

	for _, r := range []*domain.OptimizationRun{older, newer, noResult} {
		require.NoError(t, s.Record(ctx, r))
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, noResult.ID, runs[0].ID)
	assert.Nil(t, runs[0].BestFitness)
	assert.Equal(t, newer.ID, runs[1].ID)
	assert.Empty(t, runs[1].Delegations)
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// 同时持有多个连接，迫使连接池创建新连接
	conns := make([]*sql.Conn, 0, 3)
	for range 3 {
		conn, err := s.db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	t.Cleanup(func() {
		for _, conn := range conns {
			conn.Close()
		}
	})

	for _, conn := range conns {
		var foreignKeys int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
		assert.Equal(t, 1, foreignKeys)

		var journalMode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))
		assert.Equal(t, "wal", journalMode)
	}
}
