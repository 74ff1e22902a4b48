package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/pipeline"
)

// JobFilter 是调用方附加的过滤条件，Scope 由 JobScope 给出，
// 其余字段与过滤条件之间为 AND 关系
type JobFilter struct {
	Scope      pipeline.Cond
	Status     domain.JobStatus
	Location   string
	Skills     []string
	Experience *int32 // 申请人的工作年限，过滤出 experience_min <= 该值的职位
	Page       int
	Limit      int
}

// jobColumns 是职位列表和详情共用的投影，左连接创建者，
// 创建者被删除时相应字段为空。password_hash 永远不会出现在投影中
var jobColumns = []string{
	"jobs.id", "jobs.title", "jobs.description",
	"array_to_string(jobs.required_skills, ',')",
	"jobs.experience_min", "jobs.experience_max",
	"jobs.location", "jobs.salary", "jobs.status", "jobs.created_by",
	"jobs.created_at", "jobs.updated_at", "jobs.version",
	"users.id", "users.name", "users.email", "users.role",
}

func scanJob(scanner interface{ Scan(...any) error }) (*domain.Job, error) {
	job := &domain.Job{}
	var skills string
	var creatorID sql.NullInt64
	var creatorName, creatorEmail, creatorRole sql.NullString

	dst := []any{
		&job.ID, &job.Title, &job.Description, &skills,
		&job.Experience.Min, &job.Experience.Max,
		&job.Location, &job.Salary, &job.Status, &job.CreatedBy,
		&job.CreatedAt, &job.UpdatedAt, &job.Version,
		&creatorID, &creatorName, &creatorEmail, &creatorRole,
	}
	if err := scanner.Scan(dst...); err != nil {
		return nil, err
	}

	if skills == "" {
		job.RequiredSkills = []string{}
	} else {
		job.RequiredSkills = strings.Split(skills, ",")
	}

	if creatorID.Valid {
		job.Creator = &domain.User{
			ID:    creatorID.Int64,
			Name:  creatorName.String,
			Email: creatorEmail.String,
			Role:  domain.Role(creatorRole.String),
		}
	}

	return job, nil
}

func (r *Repository) CreateJob(job *domain.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO jobs (title, description, required_skills, experience_min, experience_max, location, salary, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{
		job.Title, job.Description, job.RequiredSkills,
		job.Experience.Min, job.Experience.Max,
		job.Location, job.Salary, job.Status, job.CreatedBy,
	}
	dst := []any{&job.ID, &job.CreatedAt, &job.UpdatedAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetJobByID(id int64) (*domain.Job, error) {
	p := pipeline.New("jobs").
		LeftJoin("users", "users.id = jobs.created_by").
		Match(pipeline.Eq("jobs.id", id)).
		Project(jobColumns...)

	query, args := p.SQL()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanJob(r.dbpool.QueryRowContext(ctx, query, args...))
}

// GetJobs 按可见范围和过滤条件分页查询职位，按创建时间倒序，
// 同一时间按 id 升序保证顺序稳定
func (r *Repository) GetJobs(filter JobFilter) ([]*domain.Job, int64, error) {
	p := pipeline.New("jobs").
		LeftJoin("users", "users.id = jobs.created_by").
		Match(filter.Scope)

	if filter.Status != "" {
		p.Match(pipeline.Eq("jobs.status", string(filter.Status)))
	}
	if filter.Location != "" {
		p.Match(pipeline.Contains("jobs.location", filter.Location))
	}
	if len(filter.Skills) > 0 {
		p.Match(pipeline.Overlap("jobs.required_skills", filter.Skills))
	}
	if filter.Experience != nil {
		p.Match(pipeline.Lte("jobs.experience_min", *filter.Experience))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	countQuery, countArgs := p.CountSQL()

	var total int64
	if err := r.dbpool.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p.Sort("jobs.created_at DESC", "jobs.id ASC").
		Skip(int64(filter.Page-1) * int64(filter.Limit)).
		Limit(int64(filter.Limit)).
		Project(jobColumns...)

	query, args := p.SQL()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *Repository) UpdateJob(job *domain.Job) error {
	query := `
		UPDATE jobs
		SET
			title = $1,
			description = $2,
			required_skills = $3,
			experience_min = $4,
			experience_max = $5,
			location = $6,
			salary = $7,
			status = $8,
			updated_at = now(),
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		job.Title, job.Description, job.RequiredSkills,
		job.Experience.Min, job.Experience.Max,
		job.Location, job.Salary, job.Status,
		job.ID, job.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.UpdatedAt, &job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteJob(id int64) (bool, error) {
	query := `
		DELETE FROM jobs WHERE id = $1
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
