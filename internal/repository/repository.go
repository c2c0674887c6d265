package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) transactionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

// InitSchema 创建所需的表，可以重复执行
func (r *Repository) InitSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cities (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL CONSTRAINT cities_name_key UNIQUE,
			slug TEXT NOT NULL CONSTRAINT cities_slug_key UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS distances (
			start_city_id BIGINT NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
			end_city_id BIGINT NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
			kilometres DOUBLE PRECISION NOT NULL CHECK (kilometres > 0),
			duration_seconds INTEGER NOT NULL DEFAULT 0 CHECK (duration_seconds >= 0),
			PRIMARY KEY (start_city_id, end_city_id),
			CONSTRAINT distances_not_self CHECK (start_city_id <> end_city_id)
		);

		CREATE TABLE IF NOT EXISTS pricing (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			per_kilometre DOUBLE PRECISION NOT NULL,
			per_day DOUBLE PRECISION NOT NULL,
			one_night_reduction DOUBLE PRECISION NOT NULL,
			per_meal DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS optimization_runs (
			id UUID PRIMARY KEY,
			target_cost DOUBLE PRECISION NOT NULL,
			time_budget_ms BIGINT NOT NULL,
			epsilon DOUBLE PRECISION NOT NULL,
			max_meals INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			notify_email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			outcome TEXT NOT NULL DEFAULT '',
			best_fitness DOUBLE PRECISION,
			total_cost DOUBLE PRECISION,
			generations INTEGER NOT NULL DEFAULT 0,
			elapsed_ms BIGINT NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS optimization_run_delegations (
			run_id UUID NOT NULL REFERENCES optimization_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			start_name TEXT NOT NULL,
			end_name TEXT NOT NULL,
			kilometres DOUBLE PRECISION NOT NULL,
			duration_seconds INTEGER NOT NULL,
			days INTEGER NOT NULL,
			meals_reduction INTEGER NOT NULL,
			cost DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, position)
		);
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, schema)
	return err
}
