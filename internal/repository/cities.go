package repository

import (
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func (r *Repository) CreateCity(city *domain.City) error {
	query := `
		INSERT INTO cities (name, slug)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	dst := []any{&city.ID, &city.CreatedAt, &city.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, city.Name, city.Slug).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCityBySlug(slug string) (*domain.City, error) {
	query := `
		SELECT id, name, created_at, version
		FROM cities WHERE slug = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	city := &domain.City{
		Slug: slug,
	}

	dst := []any{&city.ID, &city.Name, &city.CreatedAt, &city.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, slug).Scan(dst...); err != nil {
		return nil, err
	}

	return city, nil
}

// GetAllCities 按 id 顺序返回所有城市，距离矩阵的下标与该顺序一致
func (r *Repository) GetAllCities() ([]*domain.City, error) {
	query := `
		SELECT id, name, slug, created_at, version FROM cities ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := []*domain.City{}
	for rows.Next() {
		city := &domain.City{}
		dst := []any{&city.ID, &city.Name, &city.Slug, &city.CreatedAt, &city.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cities, nil
}

func (r *Repository) DeleteCity(id int64) error {
	query := `
		DELETE FROM cities WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}
