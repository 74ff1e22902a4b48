package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/pipeline"
)

type ApplicationFilter struct {
	Scope  pipeline.Cond
	JobID  int64
	Status domain.ApplicationStatus
	Page   int
	Limit  int
}

// applicationColumns 左连接申请人和职位用于展示，
// 对应记录被删除时联表字段为空。简历内容不在列表投影中
var applicationColumns = []string{
	"applications.id", "applications.job_id", "applications.applicant_id",
	"applications.resume_score", "applications.status",
	"applications.resume_filename", "applications.resume_content_type",
	"applications.applied_at", "applications.updated_at", "applications.version",
	"users.name", "jobs.title",
}

func scanApplication(scanner interface{ Scan(...any) error }) (*domain.Application, error) {
	app := &domain.Application{}
	var applicantName, jobTitle sql.NullString

	dst := []any{
		&app.ID, &app.JobID, &app.ApplicantID,
		&app.ResumeScore, &app.Status,
		&app.Resume.Filename, &app.Resume.ContentType,
		&app.AppliedAt, &app.UpdatedAt, &app.Version,
		&applicantName, &jobTitle,
	}
	if err := scanner.Scan(dst...); err != nil {
		return nil, err
	}

	app.ApplicantName = applicantName.String
	app.JobTitle = jobTitle.String

	return app, nil
}

// CreateApplication 直接插入并依赖 unique_job_applicant 约束拒绝重复申请，
// 不做先查后插，并发的两次申请恰好一次成功一次违反约束
func (r *Repository) CreateApplication(app *domain.Application) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO applications (job_id, applicant_id, resume_score, status, resume_filename, resume_content_type, resume_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, applied_at, updated_at, version
	`

	args := []any{
		app.JobID, app.ApplicantID, app.ResumeScore, app.Status,
		app.Resume.Filename, app.Resume.ContentType, app.Resume.Data,
	}
	dst := []any{&app.ID, &app.AppliedAt, &app.UpdatedAt, &app.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetApplicationByID 带上可见范围查询，范围之外的申请与不存在不可区分
func (r *Repository) GetApplicationByID(id int64, scope pipeline.Cond) (*domain.Application, error) {
	p := pipeline.New("applications").
		LeftJoin("users", "users.id = applications.applicant_id").
		LeftJoin("jobs", "jobs.id = applications.job_id").
		Match(pipeline.Eq("applications.id", id), scope).
		Project(applicationColumns...)

	query, args := p.SQL()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanApplication(r.dbpool.QueryRowContext(ctx, query, args...))
}

func (r *Repository) GetApplications(filter ApplicationFilter) ([]*domain.Application, int64, error) {
	p := pipeline.New("applications").
		LeftJoin("users", "users.id = applications.applicant_id").
		LeftJoin("jobs", "jobs.id = applications.job_id").
		Match(filter.Scope)

	if filter.JobID != 0 {
		p.Match(pipeline.Eq("applications.job_id", filter.JobID))
	}
	if filter.Status != "" {
		p.Match(pipeline.Eq("applications.status", string(filter.Status)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	countQuery, countArgs := p.CountSQL()

	var total int64
	if err := r.dbpool.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p.Sort("applications.applied_at DESC", "applications.id ASC").
		Skip(int64(filter.Page-1) * int64(filter.Limit)).
		Limit(int64(filter.Limit)).
		Project(applicationColumns...)

	query, args := p.SQL()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// UpdateApplicationStatus 带版本号更新，并发的两次状态变更只有一次会生效，
// 另一次拿到 sql.ErrNoRows
func (r *Repository) UpdateApplicationStatus(app *domain.Application) error {
	query := `
		UPDATE applications
		SET
			status = $1,
			updated_at = now(),
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, app.Status, app.ID, app.Version).Scan(&app.UpdatedAt, &app.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteApplication(id int64) (bool, error) {
	query := `
		DELETE FROM applications WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// GetResume 读取简历内容用于下载，带可见范围
func (r *Repository) GetResume(id int64, scope pipeline.Cond) (*domain.Resume, error) {
	p := pipeline.New("applications").
		Match(pipeline.Eq("applications.id", id), scope).
		Project("applications.resume_filename", "applications.resume_content_type", "applications.resume_data")

	query, args := p.SQL()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	resume := &domain.Resume{}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&resume.Filename, &resume.ContentType, &resume.Data); err != nil {
		return nil, err
	}

	return resume, nil
}
