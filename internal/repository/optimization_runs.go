package repository

import (
	"database/sql"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func (r *Repository) CreateOptimizationRun(run *domain.OptimizationRun) error {
	query := `
		INSERT INTO optimization_runs (id, target_cost, time_budget_ms, epsilon, max_meals, seed, notify_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{run.ID, run.TargetCost, run.TimeBudgetMS, run.Epsilon, run.MaxMeals, run.Seed, run.NotifyEmail, run.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&run.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateOptimizationRunStatus(id string, status domain.RunStatus, errMsg string) error {
	query := `
		UPDATE optimization_runs
		SET status = $1, error_message = $2,
			finished_at = CASE WHEN $1 IN ('done', 'failed') THEN NOW() ELSE finished_at END
		WHERE id = $3
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, status, errMsg, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// SaveOptimizationResult 在一个事务中保存结果与出差明细，并将状态置为 done
func (r *Repository) SaveOptimizationResult(run *domain.OptimizationRun) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE optimization_runs
		SET status = $1, outcome = $2, best_fitness = $3, total_cost = $4, generations = $5, elapsed_ms = $6, finished_at = NOW()
		WHERE id = $7
		RETURNING finished_at
	`
	args := []any{domain.RunStatusDone, run.Outcome, run.BestFitness, run.TotalCost, run.Generations, run.ElapsedMS, run.ID}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&run.FinishedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM optimization_run_delegations WHERE run_id = $1`, run.ID); err != nil {
		return err
	}

	query = `
		INSERT INTO optimization_run_delegations (run_id, position, start_name, end_name, kilometres, duration_seconds, days, meals_reduction, cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, d := range run.Delegations {
		args := []any{run.ID, d.Position, d.StartName, d.EndName, d.Kilometres, d.DurationSeconds, d.Days, d.MealsReduction, d.Cost}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	run.Status = domain.RunStatusDone
	return nil
}

const runColumns = `id, target_cost, time_budget_ms, epsilon, max_meals, seed, notify_email, status, outcome,
	best_fitness, total_cost, generations, elapsed_ms, error_message, created_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOptimizationRun(row rowScanner) (*domain.OptimizationRun, error) {
	run := &domain.OptimizationRun{}
	dst := []any{
		&run.ID, &run.TargetCost, &run.TimeBudgetMS, &run.Epsilon, &run.MaxMeals, &run.Seed, &run.NotifyEmail, &run.Status, &run.Outcome,
		&run.BestFitness, &run.TotalCost, &run.Generations, &run.ElapsedMS, &run.ErrorMessage, &run.CreatedAt, &run.FinishedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *Repository) GetOptimizationRun(id string) (*domain.OptimizationRun, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	run, err := scanOptimizationRun(r.dbpool.QueryRowContext(ctx, `SELECT `+runColumns+` FROM optimization_runs WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	query := `
		SELECT position, start_name, end_name, kilometres, duration_seconds, days, meals_reduction, cost
		FROM optimization_run_delegations WHERE run_id = $1 ORDER BY position
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Delegations = []domain.RunDelegation{}
	for rows.Next() {
		var d domain.RunDelegation
		dst := []any{&d.Position, &d.StartName, &d.EndName, &d.Kilometres, &d.DurationSeconds, &d.Days, &d.MealsReduction, &d.Cost}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		run.Delegations = append(run.Delegations, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return run, nil
}

// GetAllOptimizationRuns 按创建时间倒序返回所有任务，不包含出差明细
func (r *Repository) GetAllOptimizationRuns() ([]*domain.OptimizationRun, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, `SELECT `+runColumns+` FROM optimization_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*domain.OptimizationRun{}
	for rows.Next() {
		run, err := scanOptimizationRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
