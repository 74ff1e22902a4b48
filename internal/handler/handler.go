package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	hrOrAdmin := []domain.Role{domain.RoleHR, domain.RoleAdmin}
	adminOnly := []domain.Role{domain.RoleAdmin}

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(h.auth).Get("/me", h.GetMe)
	})

	// 用户管理，只有查看单个用户对所有登录用户开放
	h.Mux.Route("/users", func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.RequiredRole(adminOnly)).Post("/", h.CreateUser)
		r.With(h.RequiredRole(adminOnly)).Get("/", h.GetAllUsers)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.userInfo)
			r.Get("/", h.GetUserInfo)
			r.With(h.RequiredRole(adminOnly)).Put("/", h.UpdateUser)
			r.With(h.RequiredRole(adminOnly)).Delete("/", h.DeleteUser)
		})
	})

	h.Mux.Route("/jobs", func(r chi.Router) {
		// 已发布的职位对外公开
		r.Get("/published", h.GetPublishedJobs)
		r.Get("/published/{id}", h.GetPublishedJob)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Use(h.RequiredRole(hrOrAdmin))
			r.Post("/", h.CreateJob)
			r.Get("/", h.GetAllJobs)
			r.Get("/stats", h.GetJobStats)
			r.With(h.RequiredRole(adminOnly)).Get("/admin/dashboard", h.GetAdminDashboard)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.jobInfo)
				r.Get("/", h.GetJob)
				r.Put("/", h.UpdateJob)
				r.Delete("/", h.DeleteJob)
				r.Patch("/publish", h.PublishJob)
			})
		})
	})

	h.Mux.Route("/applications", func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.RequiredRole([]domain.Role{domain.RoleApplicant})).Post("/apply/{jobID}", h.ApplyForJob)
		r.Get("/my-applications", h.GetMyApplications)
		r.With(h.RequiredRole(hrOrAdmin)).Get("/", h.GetAllApplications)
		r.With(h.RequiredRole(hrOrAdmin)).Get("/stats", h.GetApplicationStats)
		r.With(h.RequiredRole(hrOrAdmin)).Get("/job/{jobID}", h.GetApplicationsByJob)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.applicationInfo)
			r.Get("/", h.GetApplication)
			r.With(h.RequiredRole(hrOrAdmin)).Get("/download", h.DownloadResume)
			r.With(h.RequiredRole(hrOrAdmin)).Patch("/status", h.UpdateApplicationStatus)
			r.Delete("/withdraw", h.WithdrawApplication)
			r.With(h.RequiredRole(adminOnly)).Delete("/", h.DeleteApplication)
		})
	})
}
