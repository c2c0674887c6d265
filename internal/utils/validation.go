package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func ValidateDistances(distances []domain.Distance) error {
	seen := make(map[[2]int64]struct{}, len(distances))

	for i, d := range distances {
		if d.StartCityID == d.EndCityID {
			return fmt.Errorf("第 %d 条距离的起点与终点相同", i+1)
		}
		if !isFinite(d.Kilometres) || d.Kilometres <= 0 {
			return fmt.Errorf("第 %d 条距离的公里数必须为正数", i+1)
		}
		if d.DurationSeconds < 0 {
			return fmt.Errorf("第 %d 条距离的行程时长不能为负数", i+1)
		}

		key := [2]int64{d.StartCityID, d.EndCityID}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("第 %d 条距离与之前的记录重复", i+1)
		}
		seen[key] = struct{}{}
	}

	return nil
}

func ValidatePricing(p *domain.Pricing) error {
	values := []float64{p.PerKilometre, p.PerDay, p.OneNightReduction, p.PerMeal}
	for _, v := range values {
		if !isFinite(v) || v < 0 {
			return errors.New("价格必须为非负数")
		}
	}
	return nil
}
