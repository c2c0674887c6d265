package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/utils"
)

// CityStore 是 SeedTable 用到的 repository 方法
type CityStore interface {
	GetCityBySlug(slug string) (*domain.City, error)
	CreateCity(city *domain.City) error
	UpsertDistances(distances []domain.Distance) error
}

var _ CityStore = (*repository.Repository)(nil)

// SeedTable 将距离表中的城市与距离写入数据库，已存在的城市按 slug 复用
// 返回写入的距离条数
func SeedTable(store CityStore, table *domain.DistanceTable) (int, error) {
	if err := table.Validate(); err != nil {
		return 0, err
	}

	ids := make(map[string]int64)
	ensure := func(name string) error {
		if _, ok := ids[name]; ok {
			return nil
		}

		slug := utils.Slugify(name)
		if slug == "" {
			return fmt.Errorf("无法为城市 %q 生成 slug", name)
		}

		city, err := store.GetCityBySlug(slug)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}

			// 城市不存在，需要新建
			city = &domain.City{Name: name, Slug: slug}
			if err := store.CreateCity(city); err != nil {
				return fmt.Errorf("插入城市 %s 失败: %w", name, err)
			}
			slog.Info("插入城市", "name", name, "slug", slug)
		}

		ids[name] = city.ID
		return nil
	}

	for _, name := range append(append([]string{}, table.Starts...), table.Ends...) {
		if err := ensure(name); err != nil {
			return 0, err
		}
	}

	distances := make([]domain.Distance, 0)
	for i, start := range table.Starts {
		for j, end := range table.Ends {
			km := table.Kilometres[i][j]
			if km <= 0 || ids[start] == ids[end] {
				continue
			}
			distances = append(distances, domain.Distance{
				StartCityID:     ids[start],
				EndCityID:       ids[end],
				Kilometres:      km,
				DurationSeconds: table.Duration(i, j),
			})
		}
	}

	if err := utils.ValidateDistances(distances); err != nil {
		return 0, err
	}

	if err := store.UpsertDistances(distances); err != nil {
		return 0, fmt.Errorf("写入距离失败: %w", err)
	}

	return len(distances), nil
}

type PricingStore interface {
	SavePricing(p *domain.Pricing) error
}

func SeedPricing(store PricingStore, p domain.Pricing) error {
	if err := utils.ValidatePricing(&p); err != nil {
		return err
	}
	return store.SavePricing(&p)
}
