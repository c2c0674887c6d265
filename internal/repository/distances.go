package repository

import (
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

// UpsertDistances 在一个事务中写入一批距离，已存在的 (起点, 终点) 会被覆盖
func (r *Repository) UpsertDistances(distances []domain.Distance) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO distances (start_city_id, end_city_id, kilometres, duration_seconds)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (start_city_id, end_city_id)
		DO UPDATE SET kilometres = EXCLUDED.kilometres, duration_seconds = EXCLUDED.duration_seconds
	`
	for _, d := range distances {
		if _, err := tx.ExecContext(ctx, query, d.StartCityID, d.EndCityID, d.Kilometres, d.DurationSeconds); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAllDistances() ([]domain.Distance, error) {
	query := `
		SELECT start_city_id, end_city_id, kilometres, duration_seconds
		FROM distances ORDER BY start_city_id, end_city_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	distances := []domain.Distance{}
	for rows.Next() {
		var d domain.Distance
		if err := rows.Scan(&d.StartCityID, &d.EndCityID, &d.Kilometres, &d.DurationSeconds); err != nil {
			return nil, err
		}
		distances = append(distances, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return distances, nil
}

// GetDistanceTable 返回以所有城市为行和列的方阵，没有记录的城市对距离为 0
func (r *Repository) GetDistanceTable() (*domain.DistanceTable, error) {
	cities, err := r.GetAllCities()
	if err != nil {
		return nil, err
	}

	distances, err := r.GetAllDistances()
	if err != nil {
		return nil, err
	}

	return BuildDistanceTable(cities, distances), nil
}

func BuildDistanceTable(cities []*domain.City, distances []domain.Distance) *domain.DistanceTable {
	n := len(cities)
	index := make(map[int64]int, n)
	names := make([]string, n)
	for i, c := range cities {
		index[c.ID] = i
		names[i] = c.Name
	}

	table := &domain.DistanceTable{
		Starts:     names,
		Ends:       names,
		Kilometres: make([][]float64, n),
		Durations:  make([][]int, n),
	}
	for i := range n {
		table.Kilometres[i] = make([]float64, n)
		table.Durations[i] = make([]int, n)
	}

	for _, d := range distances {
		i, ok := index[d.StartCityID]
		if !ok {
			continue
		}
		j, ok := index[d.EndCityID]
		if !ok {
			continue
		}
		table.Kilometres[i][j] = d.Kilometres
		table.Durations[i][j] = d.DurationSeconds
	}

	return table
}
