package optimizer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

const (
	PopulationSize        = 20
	TournamentContestants = 5
	TrivialTargetCost     = 80.0    // 目标费用低于该值时不进入迭代
	DuplicatePenalty      = 10000.0 // 每次重复使用同一行程的惩罚
	GrowthFitnessFloor    = 200.0   // 随机解的适应度降到该值以下时停止追加
	MutationProbability   = 0.2
	MaxMutationEvents     = 6
)

var ErrEmptyCatalog = errors.New("没有可用的行程")

// Solution: 一个候选解，即若干次出差
type Solution []domain.Delegation

func (s Solution) Clone() Solution {
	if s == nil {
		return nil
	}
	c := make(Solution, len(s))
	copy(c, s)
	return c
}

func (s Solution) TotalCost(p domain.Pricing) float64 {
	total := 0.0
	for _, d := range s {
		total += d.Cost(p)
	}
	return total
}

// 遗传算法参数
type Parameters struct {
	TargetCost     float64       // 目标总费用
	TimeBudget     time.Duration // 时间预算
	Epsilon        float64       // 收敛阈值，适应度低于该值即停止
	MaxMeals       int           // 每次出差允许扣减的最大餐数
	MaxGenerations int           // 最大迭代次数，0 表示不限制
}

func (p *Parameters) Validate() error {
	if math.IsNaN(p.TargetCost) || math.IsInf(p.TargetCost, 0) || p.TargetCost <= 0 {
		return fmt.Errorf("目标费用必须为正数: %v", p.TargetCost)
	}
	if p.TimeBudget < 0 {
		return fmt.Errorf("时间预算不能为负数: %v", p.TimeBudget)
	}
	if math.IsNaN(p.Epsilon) || p.Epsilon < 0 {
		return fmt.Errorf("收敛阈值不能为负数: %v", p.Epsilon)
	}
	if p.MaxMeals < 0 {
		return fmt.Errorf("最大扣餐数不能为负数: %d", p.MaxMeals)
	}
	if p.MaxGenerations < 0 {
		return fmt.Errorf("最大迭代次数不能为负数: %d", p.MaxGenerations)
	}
	return nil
}

// MaxDelegations 根据目标费用确定一个解中最多包含多少次出差
func MaxDelegations(targetCost float64) int {
	switch {
	case targetCost <= 500:
		return 1
	case targetCost <= 1000:
		return 2
	case targetCost <= 1500:
		return 3
	case targetCost <= 2000:
		return 4
	case targetCost <= 2500:
		return 5
	default:
		return 6
	}
}

type Status string

const (
	StatusConverged Status = "converged"
	StatusTimedOut  Status = "timed_out"
	StatusTrivial   Status = "trivial"
	StatusCancelled Status = "cancelled"
)

type Result struct {
	Best        Solution
	Fitness     float64
	TotalCost   float64
	Status      Status
	Generations int
	Elapsed     time.Duration
}

type crossoverOp int

const (
	delegationCrossover crossoverOp = iota
	daysCrossover
	mealsCrossover
)

type mutationOp int

const (
	mergeMutation mutationOp = iota
	daysMutation
	mealsMutation
	splitMutation
)

type weighted[T any] struct {
	op     T
	weight int
}

var crossoverWeights = []weighted[crossoverOp]{
	{delegationCrossover, 50},
	{daysCrossover, 25},
	{mealsCrossover, 25},
}

var mutationWeights = []weighted[mutationOp]{
	{mergeMutation, 15},
	{daysMutation, 35},
	{mealsMutation, 35},
	{splitMutation, 15},
}
