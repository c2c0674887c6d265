package optimizer

import "github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"

// mutate 对一个解应用一种变异，返回新的解；无法变异时原样返回
func (o *Optimizer) mutate(op mutationOp, s Solution) Solution {
	switch op {
	case mergeMutation:
		return o.merge(s)
	case splitMutation:
		return o.split(s)
	case daysMutation:
		if len(s) == 0 {
			return s
		}
		i := o.rng.Intn(len(s))
		c := s.Clone()
		c[i] = s[i].WithDays(o.randomDays(), o.params.MaxMeals)
		return c
	case mealsMutation:
		if len(s) == 0 {
			return s
		}
		i := o.rng.Intn(len(s))
		c := s.Clone()
		c[i] = s[i].WithMeals(o.randomMeals(s[i].Days), o.params.MaxMeals)
		return c
	}
	return s
}

// merge 用一次新的出差替换距离最短的两次出差
// 新行程取未使用行程中距离大于最短者两倍的最近一条，没有则取最远的一条，全部已被使用时沿用次短者的行程
func (o *Optimizer) merge(s Solution) Solution {
	if len(s) < 2 {
		return s
	}

	first, second := shortestTwo(s)
	shortest, runnerUp := s[first], s[second]

	trip := runnerUp.Trip
	pool := o.catalog.Unused(s)
	if len(pool) > 0 {
		trip = pool[len(pool)-1]
		threshold := 2 * shortest.Trip.Kilometres
		for _, t := range pool {
			if t.Kilometres > threshold {
				trip = t
				break
			}
		}
	}

	merged := domain.NewDelegation(trip, shortest.Days, runnerUp.MealsReduction, o.params.MaxMeals)

	out := make(Solution, 0, len(s)-1)
	for i, d := range s {
		if i != first && i != second {
			out = append(out, d)
		}
	}
	return append(out, merged)
}

// split 用两次新的出差替换距离最长的一次出差
// 新行程取未使用行程中距离小于最长者一半的最远两条，不足时依次退化为最近的两条
func (o *Optimizer) split(s Solution) Solution {
	if len(s) == 0 || len(s) >= o.maxDelegations {
		return s
	}

	pool := o.catalog.Unused(s)
	if len(pool) < 2 {
		return s
	}

	longestIdx := longest(s)
	target := s[longestIdx]
	half := target.Trip.Kilometres / 2

	// pool 按距离升序，n 为小于一半距离的行程数量
	n := 0
	for n < len(pool) && pool[n].Kilometres < half {
		n++
	}

	trip1, trip2 := pool[0], pool[1]
	if n >= 1 {
		trip1 = pool[n-1]
	}
	if n >= 2 {
		trip2 = pool[n-2]
	}

	out := make(Solution, 0, len(s)+1)
	for i, d := range s {
		if i != longestIdx {
			out = append(out, d)
		}
	}
	return append(out,
		target.WithTrip(trip1, o.params.MaxMeals),
		target.WithTrip(trip2, o.params.MaxMeals),
	)
}

// shortestTwo 返回距离最短的两次出差的下标，要求 len(s) >= 2
func shortestTwo(s Solution) (int, int) {
	first, second := 0, 1
	if s[second].Trip.Kilometres < s[first].Trip.Kilometres {
		first, second = second, first
	}
	for i := 2; i < len(s); i++ {
		km := s[i].Trip.Kilometres
		switch {
		case km < s[first].Trip.Kilometres:
			first, second = i, first
		case km < s[second].Trip.Kilometres:
			second = i
		}
	}
	return first, second
}

func longest(s Solution) int {
	idx := 0
	for i := 1; i < len(s); i++ {
		if s[i].Trip.Kilometres > s[idx].Trip.Kilometres {
			idx = i
		}
	}
	return idx
}
