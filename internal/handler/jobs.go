package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"
)

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title          string                  `json:"title" validate:"required"`
		Description    string                  `json:"description" validate:"required"`
		RequiredSkills []string                `json:"requiredSkills" validate:"required,min=1"`
		Experience     *domain.ExperienceRange `json:"experience"`
		Location       string                  `json:"location"`
		Salary         *int64                  `json:"salary"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Experience != nil && req.Experience.Min > req.Experience.Max {
		h.failResponse(w, r, domain.ErrValidation, "工作年限下限不能大于上限")
		return
	}

	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	// 新职位一律从草稿开始，发布是显式的状态变更
	job := &domain.Job{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: utils.NormalizeSkills(req.RequiredSkills),
		Location:       req.Location,
		Salary:         req.Salary,
		Status:         domain.JobStatusDraft,
		CreatedBy:      principal.ID,
	}
	if req.Experience != nil {
		job.Experience = *req.Experience
	}

	if err := h.repository.CreateJob(job); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "职位创建成功", job)
}

// jobFilterFromQuery 解析列表接口共用的查询参数
func (h *Handler) jobFilterFromQuery(r *http.Request) (repository.JobFilter, error) {
	filter := repository.JobFilter{
		Location: r.URL.Query().Get("location"),
		Skills:   utils.SplitSkillsParam(r.URL.Query().Get("skills")),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		switch domain.JobStatus(status) {
		case domain.JobStatusDraft, domain.JobStatusPublished, domain.JobStatusClosed:
			filter.Status = domain.JobStatus(status)
		default:
			return filter, errors.New("无效的职位状态")
		}
	}

	if exp := r.URL.Query().Get("experience"); exp != "" {
		v, err := strconv.ParseInt(exp, 10, 32)
		if err != nil || v < 0 {
			return filter, errors.New("无效的工作年限")
		}
		value := int32(v)
		filter.Experience = &value
	}

	filter.Page, filter.Limit = h.parsePagination(r)
	return filter, nil
}

// GetAllJobs 按身份收敛可见范围：HR 只能看到自己创建的职位，管理员不受限制
func (h *Handler) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	filter, err := h.jobFilterFromQuery(r)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, err.Error())
		return
	}
	filter.Scope = repository.JobScope(principal)

	jobs, total, err := h.repository.GetJobs(filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位列表成功", PageData{
		Items:      jobs,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	})
}

// GetPublishedJobs 是面向外部的公开接口，未登录也可访问，只返回已发布的职位
func (h *Handler) GetPublishedJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := h.jobFilterFromQuery(r)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, err.Error())
		return
	}
	filter.Scope = repository.JobScope(nil)
	filter.Status = ""

	jobs, total, err := h.repository.GetJobs(filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	// 公开接口不暴露创建者邮箱
	for _, job := range jobs {
		if job.Creator != nil {
			job.Creator.Email = ""
		}
	}

	h.successResponse(w, r, "获取职位列表成功", PageData{
		Items:      jobs,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	})
}

func (h *Handler) GetPublishedJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, "无效的职位 ID")
		return
	}

	job, err := h.repository.GetJobByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrNotFound, "职位不存在")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	// 未发布的职位对外等同于不存在
	if job.Status != domain.JobStatusPublished {
		h.failResponse(w, r, domain.ErrNotFound, "职位不存在")
		return
	}
	if job.Creator != nil {
		job.Creator.Email = ""
	}

	h.successResponse(w, r, "获取职位成功", job)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtxKey).(*domain.Job)
	h.successResponse(w, r, "获取职位成功", job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req domain.JobPatch

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Experience != nil && req.Experience.Min > req.Experience.Max {
		h.failResponse(w, r, domain.ErrValidation, "工作年限下限不能大于上限")
		return
	}

	job := r.Context().Value(JobCtxKey).(*domain.Job)
	req.Apply(job, utils.NormalizeSkills)

	if err := h.repository.UpdateJob(job); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrConflict, "职位已被其他人修改，请重试")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新职位成功", job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtxKey).(*domain.Job)

	deleted, err := h.repository.DeleteJob(job.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !deleted {
		h.failResponse(w, r, domain.ErrNotFound, "职位不存在")
		return
	}

	h.successResponse(w, r, "删除职位成功", nil)
}

// PublishJob 变更职位的发布状态（草稿、发布、关闭）
func (h *Handler) PublishJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=draft published closed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	job := r.Context().Value(JobCtxKey).(*domain.Job)
	job.Status = domain.JobStatus(req.Status)

	if err := h.repository.UpdateJob(job); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrConflict, "职位已被其他人修改，请重试")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新职位状态成功", job)
}

func (h *Handler) GetJobStats(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	stats, err := h.repository.GetJobStats(principal)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位统计成功", stats)
}

const dashboardCacheKey = "admin_dashboard"

// GetAdminDashboard 返回管理员总览。统计口径较重，结果在 redis 中短暂缓存，
// 缓存故障只记录日志，不影响接口可用性
func (h *Handler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cached, err := h.redisClient.Get(ctx, dashboardCacheKey).Result()
	if err == nil {
		var dashboard domain.Dashboard
		if err := json.Unmarshal([]byte(cached), &dashboard); err == nil {
			h.successResponse(w, r, "获取管理员总览成功", &dashboard)
			return
		}
		slog.Error("管理员总览缓存损坏", "error", err)
	} else if !errors.Is(err, redis.Nil) {
		slog.Error("读取管理员总览缓存失败", "error", err)
	}

	dashboard, err := h.repository.GetDashboard()
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	if data, err := json.Marshal(dashboard); err == nil {
		expiration := time.Duration(h.config.Dashboard.CacheExpiration) * time.Second
		if err := h.redisClient.Set(context.Background(), dashboardCacheKey, data, expiration).Err(); err != nil {
			slog.Error("写入管理员总览缓存失败", "error", err)
		}
	}

	h.successResponse(w, r, "获取管理员总览成功", dashboard)
}
