package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/utils"
)

func (h *Handler) GetAllCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.repository.GetAllCities()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取城市列表成功", cities)
}

func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		h.badRequest(w, r, errors.New("城市名中至少需要包含一个字母或数字"))
		return
	}

	city := &domain.City{
		Name: req.Name,
		Slug: slug,
	}

	if err := h.repository.CreateCity(city); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "cities_name_key":
				h.badRequest(w, r, errors.New("城市已存在"))
			case "cities_slug_key":
				h.badRequest(w, r, errors.New("已存在同名拼写的城市"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建城市成功", city)
}

func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	city := r.Context().Value(CityCtx).(*domain.City)

	h.successResponse(w, r, "获取城市成功", city)
}

// DeleteCity 会级联删除与该城市相关的距离
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	city := r.Context().Value(CityCtx).(*domain.City)

	if err := h.repository.DeleteCity(city.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除城市成功", nil)
}
