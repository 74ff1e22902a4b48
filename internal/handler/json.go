package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// PageData 是所有列表接口统一的响应数据
type PageData struct {
	Items      any               `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrUnauthenticated:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict, domain.ErrInvalidTransition:
		return http.StatusConflict
	case domain.ErrDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// failResponse 把业务错误映射到稳定的机器可读 code 和对应的 HTTP 状态码
func (h *Handler) failResponse(w http.ResponseWriter, r *http.Request, kind domain.ErrorKind, msg string) {
	h.writeJSON(w, r, statusForKind(kind), Response{
		Success: false,
		Code:    string(kind),
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.failResponse(w, r, domain.ErrValidation, err.Error())
		return
	}

	h.failResponse(w, r, domain.ErrValidation, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Code:    string(domain.ErrDependency),
		Message: "服务器内部错误",
		Data:    nil,
	})
}

// storeError 处理未被上层分类的存储层错误：
// 超时归为依赖故障，其余记录日志后按内部错误返回，不向客户端泄露细节
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		h.failResponse(w, r, domain.ErrDependency, "存储服务超时，请稍后重试")
		return
	}
	h.internalServerError(w, r, err)
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// parsePagination 解析 page 和 limit 查询参数，page 从 1 开始，
// limit 超过上限时收敛到上限
func (h *Handler) parsePagination(r *http.Request) (int, int) {
	page := 1
	limit := h.config.Pagination.DefaultLimit

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > h.config.Pagination.MaxLimit {
		limit = h.config.Pagination.MaxLimit
	}

	return page, limit
}
