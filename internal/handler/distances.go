package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/seed"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/utils"
)

const maxUploadSize = 10 << 20

func (h *Handler) GetDistanceTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.repository.GetDistanceTable()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取距离表成功", table)
}

func (h *Handler) UpdateDistances(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Distances []struct {
			StartCityID     int64   `json:"startCityID" validate:"required"`
			EndCityID       int64   `json:"endCityID" validate:"required,nefield=StartCityID"`
			Kilometres      float64 `json:"kilometres" validate:"required,gt=0"`
			DurationSeconds int     `json:"durationSeconds" validate:"min=0"`
		} `json:"distances" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	distances := make([]domain.Distance, 0, len(req.Distances))
	for _, d := range req.Distances {
		distances = append(distances, domain.Distance{
			StartCityID:     d.StartCityID,
			EndCityID:       d.EndCityID,
			Kilometres:      d.Kilometres,
			DurationSeconds: d.DurationSeconds,
		})
	}

	if err := utils.ValidateDistances(distances); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpsertDistances(distances); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "distances_start_city_id_fkey", "distances_end_city_id_fkey":
				h.badRequest(w, r, errors.New("城市不存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新距离成功", nil)
}

// ImportDistanceTable 接收 CSV 或 XLSX 文件，自动创建缺失的城市
func (h *Handler) ImportDistanceTable(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, r, errors.New("请上传距离表文件"))
		return
	}
	defer file.Close()

	var table *domain.DistanceTable
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		table, err = seed.LoadCSV(file)
	case ".xlsx":
		table, err = seed.LoadXLSX(file)
	default:
		h.badRequest(w, r, errors.New("只支持 csv 与 xlsx 文件"))
		return
	}
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	n, err := seed.SeedTable(h.repository, table)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "导入距离表成功", map[string]int{"distances": n})
}
