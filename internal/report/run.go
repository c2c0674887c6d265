package report

import (
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/optimizer"
)

// ApplyResult 把优化结果写入任务记录，状态置为 done
func ApplyResult(run *domain.OptimizationRun, res *optimizer.Result, pricing domain.Pricing) {
	fitness := res.Fitness
	total := res.TotalCost

	run.Status = domain.RunStatusDone
	run.Outcome = string(res.Status)
	run.BestFitness = &fitness
	run.TotalCost = &total
	run.Generations = res.Generations
	run.ElapsedMS = res.Elapsed.Milliseconds()
	run.Delegations = Rows(res.Best, pricing)
}
