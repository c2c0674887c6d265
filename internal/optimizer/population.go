package optimizer

import "github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"

// initPopulation 生成初始种群
// 目标费用过低时只返回一个由最便宜行程构成的平凡解
func (o *Optimizer) initPopulation() []Solution {
	if o.params.TargetCost < TrivialTargetCost {
		return []Solution{o.trivialSolution()}
	}

	pop := make([]Solution, 0, PopulationSize)
	for i := 0; i < PopulationSize/2; i++ {
		pop = append(pop, o.randomSolution())
		pop = append(pop, o.deterministicSolution())
	}
	return pop
}

func (o *Optimizer) trivialSolution() Solution {
	return Solution{domain.NewDelegation(o.catalog.Cheapest(), 1, o.params.MaxMeals, o.params.MaxMeals)}
}

// randomSolution 不断随机追加未使用的行程，直到出现以下任一情况:
//  1. 适应度开始变差（最后追加的出差仍然保留）
//  2. 适应度已经不高于 GrowthFitnessFloor
//  3. 出差次数达到上限
//  4. 没有可用的行程
func (o *Optimizer) randomSolution() Solution {
	pool := o.catalog.Trips()
	s := make(Solution, 0, o.maxDelegations)
	previous := o.fitness(s)

	for len(s) < o.maxDelegations && len(pool) > 0 {
		i := o.rng.Intn(len(pool))
		trip := pool[i]
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		s = append(s, o.randomDelegation(trip))

		current := o.fitness(s)
		if current > previous || current <= GrowthFitnessFloor {
			break
		}
		previous = current
	}

	return s
}

// deterministicSolution 把按距离排序的行程目录分成 maxDelegations 段（短途、中途、长途...），每段各取一条
func (o *Optimizer) deterministicSolution() Solution {
	s := make(Solution, 0, o.maxDelegations)
	for k := 0; k < o.maxDelegations; k++ {
		bucket := o.catalog.Bucket(k, o.maxDelegations)
		s = append(s, o.randomDelegation(bucket[o.rng.Intn(len(bucket))]))
	}
	return s
}
