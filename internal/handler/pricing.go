package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	pricing, err := h.repository.GetPricing()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 数据库中还没有价格表，返回配置中的默认值
			defaults := h.config.Optimizer.PricingTable()
			h.successResponse(w, r, "获取价格表成功", &defaults)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取价格表成功", pricing)
}

func (h *Handler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PerKilometre      *float64 `json:"perKilometre" validate:"required,min=0"`
		PerDay            *float64 `json:"perDay" validate:"required,min=0"`
		OneNightReduction *float64 `json:"oneNightReduction" validate:"required,min=0"`
		PerMeal           *float64 `json:"perMeal" validate:"required,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	pricing := &domain.Pricing{
		PerKilometre:      *req.PerKilometre,
		PerDay:            *req.PerDay,
		OneNightReduction: *req.OneNightReduction,
		PerMeal:           *req.PerMeal,
	}

	if err := h.repository.SavePricing(pricing); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新价格表成功", pricing)
}
