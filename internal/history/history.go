package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"

	_ "modernc.org/sqlite"
)

// Store: 命令行工具使用的本地运行记录，保存在 SQLite 文件中
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("无法创建目录: %w", err)
	}

	// pragma 写在 DSN 中，连接池里的每个连接都会执行
	dsn := "file:" + path + "?" + strings.Join([]string{
		"_pragma=foreign_keys(1)",
		"_pragma=journal_mode(WAL)",
		"_pragma=busy_timeout(5000)",
	}, "&")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("无法打开数据库: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法初始化表结构: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		target_cost REAL NOT NULL,
		time_budget_ms INTEGER NOT NULL,
		epsilon REAL NOT NULL,
		max_meals INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		best_fitness REAL,
		total_cost REAL,
		generations INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_delegations (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_name TEXT NOT NULL,
		end_name TEXT NOT NULL,
		kilometres REAL NOT NULL,
		duration_seconds INTEGER NOT NULL,
		days INTEGER NOT NULL,
		meals_reduction INTEGER NOT NULL,
		cost REAL NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record 保存一次运行及其结果
func (s *Store) Record(ctx context.Context, run *domain.OptimizationRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (id, target_cost, time_budget_ms, epsilon, max_meals, seed, outcome, best_fitness, total_cost, generations, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []any{run.ID, run.TargetCost, run.TimeBudgetMS, run.Epsilon, run.MaxMeals, run.Seed, run.Outcome, run.BestFitness, run.TotalCost, run.Generations, run.ElapsedMS, run.CreatedAt.UnixMilli()}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	query = `
		INSERT INTO run_delegations (run_id, position, start_name, end_name, kilometres, duration_seconds, days, meals_reduction, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, d := range run.Delegations {
		args := []any{run.ID, d.Position, d.StartName, d.EndName, d.Kilometres, d.DurationSeconds, d.Days, d.MealsReduction, d.Cost}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List 按时间倒序返回最近的运行记录，不包含出差明细
func (s *Store) List(ctx context.Context, limit int) ([]*domain.OptimizationRun, error) {
	query := `
		SELECT id, target_cost, time_budget_ms, epsilon, max_meals, seed, outcome, best_fitness, total_cost, generations, elapsed_ms, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*domain.OptimizationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*domain.OptimizationRun, error) {
	query := `
		SELECT id, target_cost, time_budget_ms, epsilon, max_meals, seed, outcome, best_fitness, total_cost, generations, elapsed_ms, created_at
		FROM runs WHERE id = ?
	`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	query = `
		SELECT position, start_name, end_name, kilometres, duration_seconds, days, meals_reduction, cost
		FROM run_delegations WHERE run_id = ? ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.RunDelegation
		dst := []any{&d.Position, &d.StartName, &d.EndName, &d.Kilometres, &d.DurationSeconds, &d.Days, &d.MealsReduction, &d.Cost}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		run.Delegations = append(run.Delegations, d)
	}

	return run, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.OptimizationRun, error) {
	run := &domain.OptimizationRun{Status: domain.RunStatusDone}

	var fitness, total sql.NullFloat64
	var createdAt int64
	dst := []any{&run.ID, &run.TargetCost, &run.TimeBudgetMS, &run.Epsilon, &run.MaxMeals, &run.Seed, &run.Outcome, &fitness, &total, &run.Generations, &run.ElapsedMS, &createdAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if fitness.Valid {
		run.BestFitness = &fitness.Float64
	}
	if total.Valid {
		run.TotalCost = &total.Float64
	}
	run.CreatedAt = time.UnixMilli(createdAt)

	return run, nil
}
