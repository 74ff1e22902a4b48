package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		limit     int
		wantPages int64
	}{
		{"整除", 20, 1, 10, 2},
		{"有余数时向上取整", 21, 1, 10, 3},
		{"总数为零时没有页", 0, 1, 10, 0},
		{"总数小于每页数量", 3, 1, 10, 1},
		{"页码超出范围不影响总页数", 21, 99, 10, 3},
		{"limit 非法时页数为零", 5, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			require.Equal(t, tt.total, p.Total)
			require.Equal(t, tt.page, p.Page)
			require.Equal(t, tt.limit, p.Limit)
			require.Equal(t, tt.wantPages, p.Pages)
		})
	}
}
