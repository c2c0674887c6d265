package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/jobs"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	validate          *validator.Validate
	config            *config.Config
	repository        *repository.Repository
	translator        ut.Translator
	publisher         jobs.Publisher
	status            *jobs.StatusStore
	adminPasswordHash []byte

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, publisher jobs.Publisher, status *jobs.StatusStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 管理员密码来自环境变量，启动时哈希一次
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:          validate,
		config:            cfg,
		repository:        repo,
		translator:        trans,
		publisher:         publisher,
		status:            status,
		adminPasswordHash: hash,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/cities", func(r chi.Router) {
			r.Post("/", h.CreateCity)
			r.Get("/", h.GetAllCities)
			r.Route("/{slug}", func(r chi.Router) {
				r.Use(h.city)
				r.Get("/", h.GetCity)
				r.Delete("/", h.DeleteCity)
			})
		})

		r.Route("/distances", func(r chi.Router) {
			r.Get("/", h.GetDistanceTable)
			r.Put("/", h.UpdateDistances)
			r.Post("/import", h.ImportDistanceTable)
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", h.GetPricing)
			r.Put("/", h.UpdatePricing)
		})

		r.Route("/optimizations", func(r chi.Router) {
			r.Post("/", h.CreateOptimization)
			r.Get("/", h.GetAllOptimizations)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.optimizationRun)
				r.Get("/", h.GetOptimization)
				r.Get("/report", h.GetOptimizationReport)
			})
		})
	})
}
