package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/pipeline"
)

func compileScope(t *testing.T, from string, scope pipeline.Cond) (string, []any) {
	t.Helper()
	return pipeline.New(from).Match(scope).CountSQL()
}

func TestJobScope(t *testing.T) {
	tests := []struct {
		name      string
		principal *domain.Principal
		wantSQL   string
		wantArgs  []any
	}{
		{
			name:      "未登录只能看到已发布的职位",
			principal: nil,
			wantSQL:   "SELECT COUNT(*) FROM jobs WHERE jobs.status = $1",
			wantArgs:  []any{"published"},
		},
		{
			name:      "申请人只能看到已发布的职位",
			principal: &domain.Principal{ID: 3, Role: domain.RoleApplicant},
			wantSQL:   "SELECT COUNT(*) FROM jobs WHERE jobs.status = $1",
			wantArgs:  []any{"published"},
		},
		{
			name:      "HR 只能看到自己创建的职位",
			principal: &domain.Principal{ID: 7, Role: domain.RoleHR},
			wantSQL:   "SELECT COUNT(*) FROM jobs WHERE jobs.created_by = $1",
			wantArgs:  []any{int64(7)},
		},
		{
			name:      "管理员没有限制",
			principal: &domain.Principal{ID: 1, Role: domain.RoleAdmin},
			wantSQL:   "SELECT COUNT(*) FROM jobs",
			wantArgs:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := compileScope(t, "jobs", JobScope(tt.principal))
			require.Equal(t, tt.wantSQL, sql)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestApplicationScope(t *testing.T) {
	tests := []struct {
		name      string
		principal *domain.Principal
		wantSQL   string
		wantArgs  []any
	}{
		{
			name:      "申请人只能看到自己的申请",
			principal: &domain.Principal{ID: 5, Role: domain.RoleApplicant},
			wantSQL:   "SELECT COUNT(*) FROM applications WHERE applications.applicant_id = $1",
			wantArgs:  []any{int64(5)},
		},
		{
			name:      "HR 的可见申请通过子查询限定在自己的职位上",
			principal: &domain.Principal{ID: 7, Role: domain.RoleHR},
			wantSQL:   "SELECT COUNT(*) FROM applications WHERE applications.job_id IN (SELECT id FROM jobs WHERE created_by = $1)",
			wantArgs:  []any{int64(7)},
		},
		{
			name:      "管理员没有限制",
			principal: &domain.Principal{ID: 1, Role: domain.RoleAdmin},
			wantSQL:   "SELECT COUNT(*) FROM applications",
			wantArgs:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := compileScope(t, "applications", ApplicationScope(tt.principal))
			require.Equal(t, tt.wantSQL, sql)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}
