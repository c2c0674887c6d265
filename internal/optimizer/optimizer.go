package optimizer

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/utils"
)

type Optimizer struct {
	params         Parameters
	catalog        *Catalog
	pricing        domain.Pricing
	rng            *rand.Rand // 不能在多个 goroutine 之间共享
	maxDelegations int
	population     []Solution
}

func New(params Parameters, catalog *Catalog, pricing domain.Pricing, rng *rand.Rand) (*Optimizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidatePricing(&pricing); err != nil {
		return nil, err
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if rng == nil {
		return nil, errors.New("随机数生成器未初始化")
	}

	o := &Optimizer{
		params:         params,
		catalog:        catalog,
		pricing:        pricing,
		rng:            rng,
		maxDelegations: MaxDelegations(params.TargetCost),
	}
	o.population = o.initPopulation()

	return o, nil
}

// Population 返回当前种群的副本
func (o *Optimizer) Population() []Solution {
	pop := make([]Solution, len(o.population))
	for i, s := range o.population {
		pop[i] = s.Clone()
	}
	return pop
}

func (o *Optimizer) MaxDelegations() int {
	return o.maxDelegations
}

// Run 迭代直到收敛、超时或 ctx 被取消，总是返回找到的最优解
func (o *Optimizer) Run(ctx context.Context) *Result {
	start := time.Now()

	if o.params.TargetCost < TrivialTargetCost {
		best := o.population[0].Clone()
		return o.finish(&Result{
			Best:    best,
			Fitness: o.fitness(best),
			Status:  StatusTrivial,
		}, start)
	}

	// 最优解保存在种群之外，避免在繁殖过程中丢失
	var best Solution
	bestFitness := math.Inf(1)
	fitnesses := make([]float64, len(o.population))

	generation := 0
	var status Status
	for {
		for i, s := range o.population {
			fitnesses[i] = o.fitness(s)
			if fitnesses[i] < bestFitness {
				bestFitness = fitnesses[i]
				best = s.Clone()
			}
		}

		if bestFitness < o.params.Epsilon {
			status = StatusConverged
			break
		}
		if ctx.Err() != nil {
			status = StatusCancelled
			break
		}
		if time.Since(start) >= o.params.TimeBudget {
			status = StatusTimedOut
			break
		}
		if o.params.MaxGenerations > 0 && generation >= o.params.MaxGenerations {
			status = StatusTimedOut
			break
		}

		o.population = o.breed(fitnesses, best)
		generation++
	}

	return o.finish(&Result{
		Best:        best,
		Fitness:     bestFitness,
		Status:      status,
		Generations: generation,
	}, start)
}

func (o *Optimizer) finish(res *Result, start time.Time) *Result {
	res.TotalCost = res.Best.TotalCost(o.pricing)
	res.Elapsed = time.Since(start)

	slog.Debug("优化结束",
		"status", res.Status,
		"fitness", res.Fitness,
		"totalCost", res.TotalCost,
		"delegations", len(res.Best),
		"generations", res.Generations,
		"elapsed", res.Elapsed,
	)

	return res
}

// breed 生成下一代种群
// 前 PopulationSize-2 个位置由锦标赛选择和交叉产生，最后两个位置分别放入最优解和一个新的随机解
func (o *Optimizer) breed(fitnesses []float64, best Solution) []Solution {
	next := make([]Solution, 0, PopulationSize)

	for len(next) < PopulationSize-2 {
		p1 := o.population[o.tournament(fitnesses)]
		p2 := o.population[o.tournament(fitnesses)]

		c1, c2 := o.crossover(pickWeighted(o, crossoverWeights), p1, p2)
		next = append(next, c1)
		if len(next) < PopulationSize-2 {
			next = append(next, c2)
		}
	}

	elite := best.Clone()
	if elite == nil {
		elite = o.randomSolution()
	}
	next = append(next, elite, o.randomSolution())

	// 一定概率进行若干次变异，每次随机挑选一个个体
	if o.rng.Float64() < MutationProbability {
		events := o.rng.Intn(MaxMutationEvents + 1)
		for range events {
			i := o.rng.Intn(len(next))
			next[i] = o.mutate(pickWeighted(o, mutationWeights), next[i])
		}
	}

	return next
}
