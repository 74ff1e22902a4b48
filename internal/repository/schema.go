package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

var tableStatements = []string{
	`
		CREATE TABLE IF NOT EXISTS users (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			email text NOT NULL,
			password_hash text NOT NULL,
			phone text NOT NULL DEFAULT '',
			role text NOT NULL,
			created_by bigint,
			created_at timestamptz NOT NULL DEFAULT now(),
			version integer NOT NULL DEFAULT 1,
			CONSTRAINT users_email_key UNIQUE (email)
		)
	`,
	`
		CREATE TABLE IF NOT EXISTS jobs (
			id bigserial PRIMARY KEY,
			title text NOT NULL,
			description text NOT NULL,
			required_skills text[] NOT NULL DEFAULT '{}',
			experience_min integer NOT NULL DEFAULT 0,
			experience_max integer NOT NULL DEFAULT 0,
			location text NOT NULL DEFAULT '',
			salary bigint,
			status text NOT NULL DEFAULT 'draft',
			created_by bigint NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			version integer NOT NULL DEFAULT 1
		)
	`,
	`
		CREATE TABLE IF NOT EXISTS applications (
			id bigserial PRIMARY KEY,
			job_id bigint NOT NULL,
			applicant_id bigint NOT NULL,
			resume_score integer NOT NULL DEFAULT 0,
			status text NOT NULL DEFAULT 'pending',
			resume_filename text NOT NULL,
			resume_content_type text NOT NULL,
			resume_data bytea NOT NULL,
			applied_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			version integer NOT NULL DEFAULT 1,
			CONSTRAINT unique_job_applicant UNIQUE (job_id, applicant_id)
		)
	`,
}

// indexDefinitions 中的定义必须写成 pg_indexes.indexdef 输出的规范形式，
// 否则每次启动都会触发一次无意义的重建
var indexDefinitions = map[string]string{
	"jobs_status_idx":                "CREATE INDEX jobs_status_idx ON public.jobs USING btree (status)",
	"jobs_location_idx":              "CREATE INDEX jobs_location_idx ON public.jobs USING btree (location)",
	"jobs_required_skills_idx":       "CREATE INDEX jobs_required_skills_idx ON public.jobs USING gin (required_skills)",
	"jobs_created_at_idx":            "CREATE INDEX jobs_created_at_idx ON public.jobs USING btree (created_at DESC)",
	"jobs_created_by_idx":            "CREATE INDEX jobs_created_by_idx ON public.jobs USING btree (created_by)",
	"applications_applicant_id_idx":  "CREATE INDEX applications_applicant_id_idx ON public.applications USING btree (applicant_id)",
	"applications_job_id_idx":        "CREATE INDEX applications_job_id_idx ON public.applications USING btree (job_id)",
	"applications_status_idx":        "CREATE INDEX applications_status_idx ON public.applications USING btree (status)",
	"applications_resume_score_idx":  "CREATE INDEX applications_resume_score_idx ON public.applications USING btree (resume_score DESC)",
	"applications_applied_at_idx":    "CREATE INDEX applications_applied_at_idx ON public.applications USING btree (applied_at DESC)",
}

// EnsureSchema 在服务开始接受流量之前执行一次：建表，然后逐个调和索引。
// 两个唯一约束（users_email_key 和 unique_job_applicant）随建表语句创建，
// 它们是邮箱唯一和一人一职位一申请这两条不变式的唯一保障
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range tableStatements {
		if _, err := r.dbpool.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for name, definition := range indexDefinitions {
		if err := r.ensureIndex(ctx, name, definition); err != nil {
			return err
		}
	}

	return nil
}

// ensureIndex 是幂等的：索引不存在则创建；已存在但定义不一致则删掉重建。
// 重建失败只记录日志不阻塞启动，因为旧索引已删除，影响的只是查询性能
func (r *Repository) ensureIndex(ctx context.Context, name string, definition string) error {
	queryCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var existing string
	err := r.dbpool.QueryRowContext(queryCtx,
		`SELECT indexdef FROM pg_indexes WHERE schemaname = 'public' AND indexname = $1`, name,
	).Scan(&existing)

	switch {
	case err == sql.ErrNoRows:
		if _, err := r.dbpool.ExecContext(queryCtx, definition); err != nil {
			return fmt.Errorf("创建索引 %s 失败: %w", name, err)
		}
		return nil
	case err != nil:
		return err
	}

	if existing == definition {
		return nil
	}

	// 定义不一致，删掉重建
	if _, err := r.dbpool.ExecContext(queryCtx, fmt.Sprintf("DROP INDEX IF EXISTS %s", name)); err != nil {
		return fmt.Errorf("删除索引 %s 失败: %w", name, err)
	}
	if _, err := r.dbpool.ExecContext(queryCtx, definition); err != nil {
		slog.Error("重建索引失败", "index", name, "error", err)
	}

	return nil
}
