package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineSQL(t *testing.T) {
	tests := []struct {
		name     string
		pipeline *Pipeline
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "无任何阶段时查询整张表",
			pipeline: New("jobs"),
			wantSQL:  "SELECT * FROM jobs",
			wantArgs: nil,
		},
		{
			name: "过滤加投影",
			pipeline: New("jobs").
				Match(Eq("jobs.status", "published")).
				Project("jobs.id", "jobs.title"),
			wantSQL:  "SELECT jobs.id, jobs.title FROM jobs WHERE jobs.status = $1",
			wantArgs: []any{"published"},
		},
		{
			name: "多个条件按 AND 连接且参数顺序编号",
			pipeline: New("jobs").
				Match(Eq("jobs.status", "published"), Eq("jobs.created_by", int64(7))),
			wantSQL:  "SELECT * FROM jobs WHERE jobs.status = $1 AND jobs.created_by = $2",
			wantArgs: []any{"published", int64(7)},
		},
		{
			name: "nil 条件被忽略",
			pipeline: New("jobs").
				Match(nil, Eq("jobs.status", "published"), nil),
			wantSQL:  "SELECT * FROM jobs WHERE jobs.status = $1",
			wantArgs: []any{"published"},
		},
		{
			name: "左连接在 WHERE 之前",
			pipeline: New("jobs").
				LeftJoin("users", "users.id = jobs.created_by").
				Match(Eq("jobs.id", int64(1))).
				Project("jobs.id", "users.name"),
			wantSQL:  "SELECT jobs.id, users.name FROM jobs LEFT JOIN users ON users.id = jobs.created_by WHERE jobs.id = $1",
			wantArgs: []any{int64(1)},
		},
		{
			name: "展开数组列后分组排序",
			pipeline: New("jobs").
				Unnest("jobs.required_skills", "skill").
				Match(Eq("jobs.status", "published")).
				Group("skill").
				Sort("COUNT(*) DESC", "skill ASC").
				Limit(10).
				Project("skill", "COUNT(*) AS count"),
			wantSQL: "SELECT skill, COUNT(*) AS count FROM jobs" +
				" CROSS JOIN LATERAL unnest(jobs.required_skills) AS u_skill(skill)" +
				" WHERE jobs.status = $1 GROUP BY skill ORDER BY COUNT(*) DESC, skill ASC LIMIT 10",
			wantArgs: []any{"published"},
		},
		{
			name: "分页编译为 LIMIT 和 OFFSET",
			pipeline: New("applications").
				Sort("applications.applied_at DESC").
				Skip(20).
				Limit(10),
			wantSQL:  "SELECT * FROM applications ORDER BY applications.applied_at DESC LIMIT 10 OFFSET 20",
			wantArgs: nil,
		},
		{
			name: "第一页不输出 OFFSET",
			pipeline: New("applications").
				Skip(0).
				Limit(10),
			wantSQL:  "SELECT * FROM applications LIMIT 10",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.pipeline.SQL()
			require.Equal(t, tt.wantSQL, sql)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

// 阶段的语义与调用顺序无关，编译结果只取决于阶段内容
func TestPipelineSQLStageOrderIndependent(t *testing.T) {
	a := New("jobs").
		Match(Eq("jobs.status", "published")).
		Sort("jobs.created_at DESC").
		Limit(5).
		Project("jobs.id")

	b := New("jobs").
		Project("jobs.id").
		Limit(5).
		Sort("jobs.created_at DESC").
		Match(Eq("jobs.status", "published"))

	aSQL, aArgs := a.SQL()
	bSQL, bArgs := b.SQL()
	require.Equal(t, aSQL, bSQL)
	require.Equal(t, aArgs, bArgs)
}

func TestPipelineCountSQL(t *testing.T) {
	p := New("applications").
		LeftJoin("jobs", "jobs.id = applications.job_id").
		Match(Eq("applications.status", "pending")).
		Group("applications.status").
		Sort("applications.applied_at DESC").
		Skip(20).
		Limit(10).
		Project("applications.id")

	sql, args := p.CountSQL()
	require.Equal(t,
		"SELECT COUNT(*) FROM applications LEFT JOIN jobs ON jobs.id = applications.job_id WHERE applications.status = $1",
		sql)
	require.Equal(t, []any{"pending"}, args)
}

func TestConds(t *testing.T) {
	tests := []struct {
		name     string
		cond     Cond
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Eq",
			cond:     Eq("jobs.id", int64(3)),
			wantSQL:  "jobs.id = $1",
			wantArgs: []any{int64(3)},
		},
		{
			name:     "Gte",
			cond:     Gte("applications.applied_at", "2026-01-01"),
			wantSQL:  "applications.applied_at >= $1",
			wantArgs: []any{"2026-01-01"},
		},
		{
			name:     "Lte",
			cond:     Lte("jobs.experience_min", int32(3)),
			wantSQL:  "jobs.experience_min <= $1",
			wantArgs: []any{int32(3)},
		},
		{
			name:     "In",
			cond:     In("jobs.status", []string{"draft", "published"}),
			wantSQL:  "jobs.status = ANY($1)",
			wantArgs: []any{[]string{"draft", "published"}},
		},
		{
			name:     "Contains",
			cond:     Contains("jobs.location", "广州"),
			wantSQL:  "jobs.location ILIKE '%' || $1 || '%'",
			wantArgs: []any{"广州"},
		},
		{
			name:     "Overlap",
			cond:     Overlap("jobs.required_skills", []string{"go", "redis"}),
			wantSQL:  "jobs.required_skills && $1",
			wantArgs: []any{[]string{"go", "redis"}},
		},
		{
			name:     "Raw 子查询按顺序替换占位符",
			cond:     Raw("applications.job_id IN (SELECT id FROM jobs WHERE created_by = ?)", int64(9)),
			wantSQL:  "applications.job_id IN (SELECT id FROM jobs WHERE created_by = $1)",
			wantArgs: []any{int64(9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := &Args{}
			require.Equal(t, tt.wantSQL, tt.cond.compile(args))
			require.Equal(t, tt.wantArgs, args.vals)
		})
	}
}
