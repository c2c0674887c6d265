package optimizer

// crossover 在两个父本的同一位置上交换出差或其属性，返回两个新的子代
// 交换位置在较短父本的长度内随机选取，父本本身不会被修改
func (o *Optimizer) crossover(op crossoverOp, p1, p2 Solution) (Solution, Solution) {
	c1, c2 := p1.Clone(), p2.Clone()

	n := min(len(p1), len(p2))
	if n == 0 {
		return c1, c2
	}
	i := o.rng.Intn(n)
	maxMeals := o.params.MaxMeals

	switch op {
	case delegationCrossover:
		c1[i], c2[i] = p2[i], p1[i]
	case daysCrossover:
		// 天数交换后重新检查短途规则，并按新的天数修正扣餐数
		c1[i] = p1[i].WithDays(p2[i].Days, maxMeals)
		c2[i] = p2[i].WithDays(p1[i].Days, maxMeals)
	case mealsCrossover:
		// 扣餐数按接收方的上限修正
		c1[i] = p1[i].WithMeals(p2[i].MealsReduction, maxMeals)
		c2[i] = p2[i].WithMeals(p1[i].MealsReduction, maxMeals)
	}

	return c1, c2
}
