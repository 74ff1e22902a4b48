package domain

import "time"

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
)

type ExperienceRange struct {
	Min int32 `json:"min"`
	Max int32 `json:"max"`
}

type Job struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	RequiredSkills []string        `json:"requiredSkills"`
	Experience     ExperienceRange `json:"experience"`
	Location       string          `json:"location"`
	Salary         *int64          `json:"salary"`
	Status         JobStatus       `json:"status"`
	CreatedBy      int64           `json:"createdBy"`
	Creator        *User           `json:"creator,omitempty"` // 列表接口联表带出，创建者被删除时为空
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Version        int32           `json:"-"`
}

// JobPatch 是更新职位时的补丁。只有显式列出的字段可以被修改，
// id、createdBy 和 createdAt 永远不会被覆盖
type JobPatch struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	RequiredSkills []string         `json:"requiredSkills"`
	Experience     *ExperienceRange `json:"experience"`
	Location       *string          `json:"location"`
	Salary         *int64           `json:"salary"`
}

func (p *JobPatch) Apply(job *Job, normalizeSkills func([]string) []string) {
	if p.Title != nil {
		job.Title = *p.Title
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.RequiredSkills != nil {
		job.RequiredSkills = normalizeSkills(p.RequiredSkills)
	}
	if p.Experience != nil {
		job.Experience = *p.Experience
	}
	if p.Location != nil {
		job.Location = *p.Location
	}
	if p.Salary != nil {
		job.Salary = p.Salary
	}
}
