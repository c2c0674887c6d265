package optimizer

import (
	"math"
	"slices"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

// Catalog: 所有可选行程，按距离升序排列，构建后只读
type Catalog struct {
	trips []*domain.Trip
}

// NewCatalog 为距离矩阵中每一对 i != j 的城市生成一条行程
// 距离不是有限正数的格子视为两地不连通，直接跳过
func NewCatalog(table *domain.DistanceTable) (*Catalog, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	trips := make([]*domain.Trip, 0, len(table.Starts)*len(table.Ends))
	for i := range table.Starts {
		for j := range table.Ends {
			if i == j {
				continue
			}
			km := table.Kilometres[i][j]
			if km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
				continue
			}
			trips = append(trips, &domain.Trip{
				Kilometres:      km,
				DurationSeconds: table.Duration(i, j),
				StartIndex:      i,
				EndIndex:        j,
				StartName:       table.Starts[i],
				EndName:         table.Ends[j],
			})
		}
	}

	if len(trips) == 0 {
		return nil, ErrEmptyCatalog
	}

	slices.SortStableFunc(trips, compareTrips)

	return &Catalog{trips: trips}, nil
}

func compareTrips(a, b *domain.Trip) int {
	switch {
	case a.Kilometres < b.Kilometres:
		return -1
	case a.Kilometres > b.Kilometres:
		return 1
	default:
		return 0
	}
}

func (c *Catalog) Len() int {
	return len(c.trips)
}

// Trips 返回按距离升序排列的行程副本
func (c *Catalog) Trips() []*domain.Trip {
	return slices.Clone(c.trips)
}

func (c *Catalog) At(i int) *domain.Trip {
	return c.trips[i]
}

func (c *Catalog) Cheapest() *domain.Trip {
	return c.At(0)
}

// Unused 返回解中尚未使用的行程，保持距离升序
func (c *Catalog) Unused(s Solution) []*domain.Trip {
	used := make(map[domain.TripKey]struct{}, len(s))
	for _, d := range s {
		used[d.Trip.Key()] = struct{}{}
	}

	pool := make([]*domain.Trip, 0, len(c.trips))
	for _, t := range c.trips {
		if _, ok := used[t.Key()]; !ok {
			pool = append(pool, t)
		}
	}
	return pool
}

// Bucket 将行程目录均分为 n 段，返回第 k 段；段为空时退化为离它最近的一条行程
func (c *Catalog) Bucket(k, n int) []*domain.Trip {
	size := len(c.trips)
	lo := k * size / n
	hi := (k + 1) * size / n
	if lo >= hi {
		return []*domain.Trip{c.At(min(lo, size-1))}
	}
	return c.trips[lo:hi]
}
