package repository

import (
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func (r *Repository) GetPricing() (*domain.Pricing, error) {
	query := `
		SELECT per_kilometre, per_day, one_night_reduction, per_meal, updated_at, version
		FROM pricing WHERE id = 1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	p := &domain.Pricing{}
	dst := []any{&p.PerKilometre, &p.PerDay, &p.OneNightReduction, &p.PerMeal, &p.UpdatedAt, &p.Version}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	return p, nil
}

// SavePricing 写入价格表，表中始终只有一行
func (r *Repository) SavePricing(p *domain.Pricing) error {
	query := `
		INSERT INTO pricing (id, per_kilometre, per_day, one_night_reduction, per_meal)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			per_kilometre = EXCLUDED.per_kilometre,
			per_day = EXCLUDED.per_day,
			one_night_reduction = EXCLUDED.one_night_reduction,
			per_meal = EXCLUDED.per_meal,
			updated_at = NOW(),
			version = pricing.version + 1
		RETURNING updated_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{p.PerKilometre, p.PerDay, p.OneNightReduction, p.PerMeal}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt, &p.Version); err != nil {
		return err
	}

	return nil
}
