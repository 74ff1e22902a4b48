package handler

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
)

// 允许上传的简历格式
var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ApplyForJob 申请人投递职位。简历以 multipart 上传，
// 同一职位重复投递由 unique_job_applicant 约束拒绝
func (h *Handler) ApplyForJob(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	jobID, err := strconv.ParseInt(chi.URLParam(r, "jobID"), 10, 64)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, "无效的职位 ID")
		return
	}

	job, err := h.repository.GetJobByID(jobID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrNotFound, "职位不存在")
		default:
			h.storeError(w, r, err)
		}
		return
	}
	// 申请人看不到未发布的职位，投递这类职位等同于职位不存在
	if job.Status != domain.JobStatusPublished {
		h.failResponse(w, r, domain.ErrNotFound, "职位不存在")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Resume.MaxSize)
	if err := r.ParseMultipartForm(h.config.Resume.MaxSize); err != nil {
		h.failResponse(w, r, domain.ErrValidation, fmt.Sprintf("简历文件不能超过 %d 字节", h.config.Resume.MaxSize))
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, "请上传简历文件")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedResumeTypes[contentType] {
		h.failResponse(w, r, domain.ErrValidation, "简历仅支持 PDF 或 Word 格式")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// PDF 简历校验文件结构，损坏的文件直接拒绝
	if contentType == "application/pdf" {
		if err := api.Validate(bytes.NewReader(data), nil); err != nil {
			h.failResponse(w, r, domain.ErrValidation, "PDF 文件已损坏或格式不正确")
			return
		}
	}

	var resumeScore int32
	if v := r.FormValue("resumeScore"); v != "" {
		score, err := strconv.ParseInt(v, 10, 32)
		if err != nil || score < 0 || score > 100 {
			h.failResponse(w, r, domain.ErrValidation, "简历评分必须是 0 到 100 之间的整数")
			return
		}
		resumeScore = int32(score)
	}

	app := &domain.Application{
		JobID:       job.ID,
		ApplicantID: principal.ID,
		ResumeScore: resumeScore,
		Status:      domain.ApplicationStatusPending,
		Resume: domain.Resume{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		},
	}

	if err := h.repository.CreateApplication(app); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "unique_job_applicant":
			h.failResponse(w, r, domain.ErrConflict, "请勿重复申请该职位")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "申请提交成功", app)
}

func (h *Handler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	page, limit := h.parsePagination(r)

	apps, total, err := h.repository.GetApplications(repository.ApplicationFilter{
		Scope: repository.ApplicationScope(&domain.Principal{ID: principal.ID, Role: domain.RoleApplicant}),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的申请列表成功", PageData{
		Items:      apps,
		Pagination: domain.NewPagination(total, page, limit),
	})
}

// applicationFilterFromQuery 解析列表接口共用的查询参数
func (h *Handler) applicationFilterFromQuery(r *http.Request, principal *domain.Principal) (repository.ApplicationFilter, error) {
	filter := repository.ApplicationFilter{
		Scope: repository.ApplicationScope(principal),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if !domain.ApplicationStatus(status).IsValid() {
			return filter, errors.New("无效的申请状态")
		}
		filter.Status = domain.ApplicationStatus(status)
	}

	filter.Page, filter.Limit = h.parsePagination(r)
	return filter, nil
}

// GetAllApplications 按身份收敛可见范围：HR 只能看到自己职位下的申请
func (h *Handler) GetAllApplications(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	filter, err := h.applicationFilterFromQuery(r, principal)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, err.Error())
		return
	}

	apps, total, err := h.repository.GetApplications(filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请列表成功", PageData{
		Items:      apps,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	})
}

func (h *Handler) GetApplicationsByJob(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	jobID, err := strconv.ParseInt(chi.URLParam(r, "jobID"), 10, 64)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, "无效的职位 ID")
		return
	}

	filter, err := h.applicationFilterFromQuery(r, principal)
	if err != nil {
		h.failResponse(w, r, domain.ErrValidation, err.Error())
		return
	}
	filter.JobID = jobID

	apps, total, err := h.repository.GetApplications(filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位申请列表成功", PageData{
		Items:      apps,
		Pagination: domain.NewPagination(total, filter.Page, filter.Limit),
	})
}

func (h *Handler) GetApplicationStats(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	stats, err := h.repository.GetApplicationStats(principal)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请统计成功", stats)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)
	h.successResponse(w, r, "获取申请成功", app)
}

// DownloadResume 下载申请附带的简历原件
func (h *Handler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)

	resume, err := h.repository.GetResume(app.ID, repository.ApplicationScope(principal))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrNotFound, "申请不存在")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", resume.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resume.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(resume.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(resume.Data)
}

// UpdateApplicationStatus 推进申请的处理状态，只允许状态机中定义的转移
func (h *Handler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	target := domain.ApplicationStatus(req.Status)
	if !target.IsValid() || target == domain.ApplicationStatusWithdrawn {
		h.failResponse(w, r, domain.ErrValidation, "无效的申请状态")
		return
	}

	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)

	if !app.Status.CanTransitionTo(target) {
		h.failResponse(w, r, domain.ErrInvalidTransition,
			fmt.Sprintf("申请当前处于 %s 状态，不能变更为 %s", app.Status, target))
		return
	}

	app.Status = target

	if err := h.repository.UpdateApplicationStatus(app); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrConflict, "申请已被其他人修改，请重试")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新申请状态成功", app)
}

// WithdrawApplication 申请人撤回自己的申请
func (h *Handler) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)

	if app.ApplicantID != principal.ID {
		h.failResponse(w, r, domain.ErrForbidden, "只能撤回自己的申请")
		return
	}

	if !app.Status.CanWithdraw() {
		h.failResponse(w, r, domain.ErrInvalidTransition,
			fmt.Sprintf("申请当前处于 %s 状态，无法撤回", app.Status))
		return
	}

	app.Status = domain.ApplicationStatusWithdrawn

	if err := h.repository.UpdateApplicationStatus(app); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrConflict, "申请已被其他人修改，请重试")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "撤回申请成功", app)
}

func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtxKey).(*domain.Application)

	deleted, err := h.repository.DeleteApplication(app.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !deleted {
		h.failResponse(w, r, domain.ErrNotFound, "申请不存在")
		return
	}

	h.successResponse(w, r, "删除申请成功", nil)
}
