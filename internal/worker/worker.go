package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/report"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/repository"
)

type Store interface {
	GetOptimizationRun(id string) (*domain.OptimizationRun, error)
	UpdateOptimizationRunStatus(id string, status domain.RunStatus, errMsg string) error
	SaveOptimizationResult(run *domain.OptimizationRun) error
	GetDistanceTable() (*domain.DistanceTable, error)
	GetPricing() (*domain.Pricing, error)
}

var _ Store = (*repository.Repository)(nil)

type StatusCache interface {
	Set(ctx context.Context, runID string, status domain.RunStatus) error
}

type Notifier interface {
	Notify(ctx context.Context, run *domain.OptimizationRun) error
}

type Worker struct {
	store    Store
	status   StatusCache
	notifier Notifier
	defaults config.Optimizer
}

// New 的 notifier 可以为 nil，此时不发送邮件
func New(store Store, status StatusCache, notifier Notifier, defaults config.Optimizer) *Worker {
	return &Worker{
		store:    store,
		status:   status,
		notifier: notifier,
		defaults: defaults,
	}
}

// Process 执行一个优化任务
// 返回的错误表示任务不存在或已被标记为失败，消息不应重新入队
func (w *Worker) Process(ctx context.Context, msg domain.OptimizationMessage) error {
	run, err := w.store.GetOptimizationRun(msg.RunID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("任务 %s 不存在", msg.RunID)
		}
		return w.fail(ctx, &domain.OptimizationRun{ID: msg.RunID}, err)
	}

	if run.Status == domain.RunStatusDone || run.Status == domain.RunStatusFailed {
		slog.Info("任务已结束，跳过", "id", run.ID, "status", run.Status)
		return nil
	}

	w.setStatus(ctx, run.ID, domain.RunStatusRunning)
	if err := w.store.UpdateOptimizationRunStatus(run.ID, domain.RunStatusRunning, ""); err != nil {
		return w.fail(ctx, run, err)
	}

	table, err := w.store.GetDistanceTable()
	if err != nil {
		return w.fail(ctx, run, err)
	}

	pricing, err := w.store.GetPricing()
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return w.fail(ctx, run, err)
		}
		// 数据库中没有价格表时使用配置中的默认值
		defaults := w.defaults.PricingTable()
		pricing = &defaults
	}

	params := optimizer.Parameters{
		TargetCost:     run.TargetCost,
		TimeBudget:     time.Duration(run.TimeBudgetMS) * time.Millisecond,
		Epsilon:        run.Epsilon,
		MaxMeals:       run.MaxMeals,
		MaxGenerations: w.defaults.MaxGenerations,
	}

	res, err := optimizer.Solve(ctx, table, *pricing, params, run.Seed)
	if err != nil {
		return w.fail(ctx, run, err)
	}

	report.ApplyResult(run, res, *pricing)
	if err := w.store.SaveOptimizationResult(run); err != nil {
		return w.fail(ctx, run, err)
	}
	w.setStatus(ctx, run.ID, domain.RunStatusDone)

	slog.Info("任务已完成", "id", run.ID, "outcome", run.Outcome, "fitness", res.Fitness, "generations", res.Generations)

	if run.NotifyEmail != "" && w.notifier != nil {
		if err := w.notifier.Notify(ctx, run); err != nil {
			// 结果已经保存，邮件失败只记录日志
			slog.Error("邮件发送失败", "id", run.ID, "email", run.NotifyEmail, "error", err)
		}
	}

	return nil
}

func (w *Worker) setStatus(ctx context.Context, id string, status domain.RunStatus) {
	if err := w.status.Set(ctx, id, status); err != nil {
		slog.Warn("无法缓存任务状态", "id", id, "status", status, "error", err)
	}
}

func (w *Worker) fail(ctx context.Context, run *domain.OptimizationRun, cause error) error {
	w.setStatus(ctx, run.ID, domain.RunStatusFailed)
	if err := w.store.UpdateOptimizationRunStatus(run.ID, domain.RunStatusFailed, cause.Error()); err != nil {
		slog.Error("无法更新任务状态", "id", run.ID, "error", err)
	}
	run.Status = domain.RunStatusFailed
	run.ErrorMessage = cause.Error()
	return fmt.Errorf("任务 %s 失败: %w", run.ID, cause)
}
