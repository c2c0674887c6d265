package optimizer

import (
	"math"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

/**
 * 计算解的适应度
 * fitness = |Σ cost - targetCost| + DuplicatePenalty * repeats
 * 其中 repeats 为重复出现的行程次数，同一行程每多出现一次就多计一次惩罚
 * 适应度越低越好，0 表示费用完全吻合且没有重复行程
 */
func (o *Optimizer) fitness(s Solution) float64 {
	return Fitness(s, o.params.TargetCost, o.pricing)
}

func Fitness(s Solution, targetCost float64, pricing domain.Pricing) float64 {
	seen := make(map[domain.TripKey]struct{}, len(s))
	repeats := 0
	for _, d := range s {
		key := d.Trip.Key()
		if _, ok := seen[key]; ok {
			repeats++
			continue
		}
		seen[key] = struct{}{}
	}

	return math.Abs(s.TotalCost(pricing)-targetCost) + DuplicatePenalty*float64(repeats)
}

// 锦标赛选择：随机抽取若干个体，返回适应度最低者的下标
func (o *Optimizer) tournament(fitnesses []float64) int {
	best := o.rng.Intn(len(fitnesses))
	for i := 1; i < TournamentContestants; i++ {
		candidate := o.rng.Intn(len(fitnesses))
		if fitnesses[candidate] < fitnesses[best] {
			best = candidate
		}
	}
	return best
}

func pickWeighted[T any](o *Optimizer, table []weighted[T]) T {
	total := 0
	for _, w := range table {
		total += w.weight
	}

	n := o.rng.Intn(total)
	for _, w := range table {
		if n < w.weight {
			return w.op
		}
		n -= w.weight
	}

	// 理论上不会运行到这个地方
	return table[len(table)-1].op
}

// 随机天数 2-5，短途行程由 NewDelegation 修正为 1
func (o *Optimizer) randomDays() int {
	return o.rng.Intn(domain.MaxDays-1) + 2
}

func (o *Optimizer) randomMeals(days int) int {
	return o.rng.Intn(domain.MealsCeiling(days, o.params.MaxMeals) + 1)
}

func (o *Optimizer) randomDelegation(trip *domain.Trip) domain.Delegation {
	d := domain.NewDelegation(trip, o.randomDays(), 0, o.params.MaxMeals)
	return d.WithMeals(o.randomMeals(d.Days), o.params.MaxMeals)
}
