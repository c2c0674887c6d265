package optimizer

import (
	"context"
	"fmt"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

// Solve 根据距离表构建行程目录并完成一次优化
func Solve(ctx context.Context, table *domain.DistanceTable, pricing domain.Pricing, params Parameters, seed int64) (*Result, error) {
	catalog, err := NewCatalog(table)
	if err != nil {
		return nil, fmt.Errorf("无法构建行程目录: %w", err)
	}

	o, err := New(params, catalog, pricing, NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("无法创建优化器: %w", err)
	}

	return o.Run(ctx), nil
}
