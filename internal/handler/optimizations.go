package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/jobs"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) CreateOptimization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetCost   float64  `json:"targetCost" validate:"required,gt=0"`
		TimeBudgetMS *int64   `json:"timeBudgetMS" validate:"omitempty,min=0,max=600000"`
		Epsilon      *float64 `json:"epsilon" validate:"omitempty,min=0"`
		MaxMeals     *int     `json:"maxMeals" validate:"omitempty,min=0"`
		Seed         int64    `json:"seed"`
		NotifyEmail  string   `json:"notifyEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 没有指定的参数使用配置中的默认值
	run := &domain.OptimizationRun{
		ID:           uuid.New().String(),
		TargetCost:   req.TargetCost,
		TimeBudgetMS: h.config.Optimizer.TimeBudgetDuration().Milliseconds(),
		Epsilon:      h.config.Optimizer.Epsilon,
		MaxMeals:     h.config.Optimizer.MaxMeals,
		Seed:         req.Seed,
		NotifyEmail:  req.NotifyEmail,
		Status:       domain.RunStatusQueued,
	}
	if req.TimeBudgetMS != nil {
		run.TimeBudgetMS = *req.TimeBudgetMS
	}
	if req.Epsilon != nil {
		run.Epsilon = *req.Epsilon
	}
	if req.MaxMeals != nil {
		run.MaxMeals = *req.MaxMeals
	}

	if err := h.repository.CreateOptimizationRun(run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	// 必须在投递之前写入状态，否则可能覆盖 worker 写入的 running
	if err := h.status.Set(ctx, run.ID, domain.RunStatusQueued); err != nil {
		slog.Warn("无法缓存任务状态", "id", run.ID, "error", err)
	}

	// 投递到任务队列中
	if err := h.publisher.Publish(ctx, domain.OptimizationMessage{RunID: run.ID}); err != nil {
		if updateErr := h.repository.UpdateOptimizationRunStatus(run.ID, domain.RunStatusFailed, "投递任务失败"); updateErr != nil {
			slog.Error("无法更新任务状态", "id", run.ID, "error", updateErr)
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "任务已提交", run)
}

func (h *Handler) GetAllOptimizations(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repository.GetAllOptimizationRuns()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任务列表成功", runs)
}

func (h *Handler) GetOptimization(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(OptimizationRunCtx).(*domain.OptimizationRun)

	// 未结束的任务以 redis 中的状态为准，worker 会先更新 redis
	if run.Status == domain.RunStatusQueued || run.Status == domain.RunStatusRunning {
		status, err := h.status.Get(r.Context(), run.ID)
		switch {
		case err == nil:
			run.Status = status
		case errors.Is(err, jobs.ErrStatusNotFound):
		default:
			slog.Warn("无法读取任务状态", "id", run.ID, "error", err)
		}
	}

	h.successResponse(w, r, "获取任务成功", run)
}

func (h *Handler) GetOptimizationReport(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(OptimizationRunCtx).(*domain.OptimizationRun)

	if run.Status != domain.RunStatusDone {
		h.errorResponse(w, r, "任务尚未完成")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="optimization-%s.xlsx"`, run.ID))

	if err := report.WriteXLSX(w, run); err != nil {
		h.logInternalServerError(r, err)
	}
}
