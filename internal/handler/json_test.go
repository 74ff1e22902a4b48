package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrDependency, http.StatusServiceUnavailable},
		{domain.ErrorKind("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			require.Equal(t, tt.want, statusForKind(tt.kind))
		})
	}
}

func TestParsePagination(t *testing.T) {
	cfg := &config.Config{}
	cfg.Pagination.DefaultLimit = 10
	cfg.Pagination.MaxLimit = 100
	h := &Handler{config: cfg}

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"没有参数时使用默认值", "", 1, 10},
		{"正常参数", "page=3&limit=20", 3, 20},
		{"limit 收敛到上限", "page=1&limit=1000", 1, 100},
		{"非法页码回落到第一页", "page=-1&limit=abc", 1, 10},
		{"零值同样非法", "page=0&limit=0", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			page, limit := h.parsePagination(r)
			require.Equal(t, tt.wantPage, page)
			require.Equal(t, tt.wantLimit, limit)
		})
	}
}
