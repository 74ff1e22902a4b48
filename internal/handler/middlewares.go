package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// auth 从 Authorization 头中解析 Bearer 令牌，验证通过后
// 把主体信息附在 context 中
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			h.failResponse(w, r, domain.ErrUnauthenticated, "用户未登录")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &AuthClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				h.failResponse(w, r, domain.ErrUnauthenticated, "令牌已过期")
			default:
				h.failResponse(w, r, domain.ErrUnauthenticated, "无效的令牌")
			}
			return
		}

		sub, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			h.failResponse(w, r, domain.ErrUnauthenticated, "无效的令牌")
			return
		}

		// 令牌有效不代表用户还存在，这里以数据库中的角色为准
		user, err := h.repository.GetUserByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.failResponse(w, r, domain.ErrUnauthenticated, "用户不存在")
			default:
				h.storeError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalCtxKey, user.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)
			if !slices.Contains(roles, principal.Role) {
				h.failResponse(w, r, domain.ErrForbidden, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) userInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDParam := chi.URLParam(r, "id")
		userID, err := strconv.ParseInt(userIDParam, 10, 64)
		if err != nil {
			h.failResponse(w, r, domain.ErrValidation, "用户ID无效")
			return
		}

		user, err := h.repository.GetUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.failResponse(w, r, domain.ErrNotFound, "用户不存在")
			default:
				h.storeError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserInfoCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jobInfo 加载职位并做归属裁剪：HR 访问别人的职位与职位不存在不可区分，
// 避免泄露职位是否存在
func (h *Handler) jobInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobIDParam := chi.URLParam(r, "id")
		jobID, err := strconv.ParseInt(jobIDParam, 10, 64)
		if err != nil {
			h.failResponse(w, r, domain.ErrValidation, "职位ID无效")
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

		principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)
		if principal.Role == domain.RoleHR && job.CreatedBy != principal.ID {
			h.failResponse(w, r, domain.ErrNotFound, "职位不存在")
			return
		}

		ctx := context.WithValue(r.Context(), JobCtxKey, job)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// applicationInfo 按主体的可见范围加载申请，范围之外与不存在不可区分
func (h *Handler) applicationInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appIDParam := chi.URLParam(r, "id")
		appID, err := strconv.ParseInt(appIDParam, 10, 64)
		if err != nil {
			h.failResponse(w, r, domain.ErrValidation, "申请ID无效")
			return
		}

		principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

		app, err := h.repository.GetApplicationByID(appID, repository.ApplicationScope(principal))
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.failResponse(w, r, domain.ErrNotFound, "申请不存在")
			default:
				h.storeError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ApplicationCtxKey, app)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
