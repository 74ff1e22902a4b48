package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/pipeline"
)

func (r *Repository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// countByGroup 执行 match → group → count 形式的管道，返回各组的数量和总数
func (r *Repository) countByGroup(from string, groupCol string, conds ...pipeline.Cond) (map[string]int64, int64, error) {
	p := pipeline.New(from).
		Match(conds...).
		Group(groupCol).
		Project(groupCol, "COUNT(*)")

	query, args := p.SQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	var total int64
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, 0, err
		}
		counts[key] = count
		total += count
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return counts, total, nil
}

func (r *Repository) countWhere(from string, conds ...pipeline.Cond) (int64, error) {
	p := pipeline.New(from).Match(conds...)
	query, args := p.CountSQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	var count int64
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// avgResumeScore 对空集返回 0 而不是报错，四舍五入到整数
func (r *Repository) avgResumeScore(scope pipeline.Cond) (int64, error) {
	p := pipeline.New("applications").
		Match(scope).
		Project("COALESCE(ROUND(AVG(applications.resume_score)), 0)")

	query, args := p.SQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	var avg int64
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}

	return avg, nil
}

// topSkills 展开技能数组后分组计数，按数量倒序取前 limit 个，
// 数量相同的按技能名升序保证结果稳定
func (r *Repository) topSkills(scope pipeline.Cond, limit int64) ([]domain.SkillCount, error) {
	p := pipeline.New("jobs").
		Match(scope).
		Unnest("jobs.required_skills", "skill").
		Group("skill").
		Sort("COUNT(*) DESC", "skill ASC").
		Limit(limit).
		Project("skill", "COUNT(*)")

	query, args := p.SQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]domain.SkillCount, 0)
	for rows.Next() {
		var sc domain.SkillCount
		if err := rows.Scan(&sc.Skill, &sc.Count); err != nil {
			return nil, err
		}
		skills = append(skills, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}

// topJobsByApplications 按申请数对职位排名。内连接职位表，
// 职位已被删除的申请不参与排名
func (r *Repository) topJobsByApplications(scope pipeline.Cond, limit int64) ([]domain.JobApplicationCount, error) {
	p := pipeline.New("applications").
		Join("jobs", "jobs.id = applications.job_id").
		Match(scope).
		Group("jobs.id", "jobs.title", "jobs.status").
		Sort("COUNT(*) DESC", "jobs.id ASC").
		Limit(limit).
		Project("jobs.id", "jobs.title", "jobs.status", "COUNT(*)")

	query, args := p.SQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]domain.JobApplicationCount, 0)
	for rows.Next() {
		var jc domain.JobApplicationCount
		if err := rows.Scan(&jc.JobID, &jc.Title, &jc.Status, &jc.ApplicationsCount); err != nil {
			return nil, err
		}
		jobs = append(jobs, jc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

// topHRs 按发布职位数对 HR 排名，内连接用户表，已删除的用户不参与排名
func (r *Repository) topHRs(limit int64) ([]domain.HRJobCount, error) {
	p := pipeline.New("jobs").
		Join("users", "users.id = jobs.created_by").
		Group("users.id", "users.name", "users.email").
		Sort("COUNT(*) DESC", "users.id ASC").
		Limit(limit).
		Project("users.name", "users.email", "COUNT(*)")

	query, args := p.SQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hrs := make([]domain.HRJobCount, 0)
	for rows.Next() {
		var hc domain.HRJobCount
		if err := rows.Scan(&hc.Name, &hc.Email, &hc.JobsPosted); err != nil {
			return nil, err
		}
		hrs = append(hrs, hc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hrs, nil
}

// recentApplications 最近的申请，最新的在前，申请人或职位已被删除的不展示
func (r *Repository) recentApplications(limit int64) ([]domain.RecentApplication, error) {
	p := pipeline.New("applications").
		Join("users", "users.id = applications.applicant_id").
		Join("jobs", "jobs.id = applications.job_id").
		Sort("applications.applied_at DESC", "applications.id DESC").
		Limit(limit).
		Project("users.name", "jobs.title", "applications.status", "applications.applied_at")

	query, args := p.SQL()

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]domain.RecentApplication, 0)
	for rows.Next() {
		var ra domain.RecentApplication
		if err := rows.Scan(&ra.ApplicantName, &ra.JobTitle, &ra.Status, &ra.AppliedAt); err != nil {
			return nil, err
		}
		apps = append(apps, ra)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// GetJobStats 是 HR/管理员的职位统计报表，范围由主体的角色决定
func (r *Repository) GetJobStats(p *domain.Principal) (*domain.JobStats, error) {
	jobScope := JobScope(p)
	appScope := ApplicationScope(p)

	statusCounts, totalJobs, err := r.countByGroup("jobs", "jobs.status", jobScope)
	if err != nil {
		return nil, err
	}

	totalApplications, err := r.countWhere("applications", appScope)
	if err != nil {
		return nil, err
	}

	topSkills, err := r.topSkills(jobScope, 10)
	if err != nil {
		return nil, err
	}

	topJobs, err := r.topJobsByApplications(appScope, 5)
	if err != nil {
		return nil, err
	}

	return &domain.JobStats{
		TotalJobs:             totalJobs,
		PublishedJobs:         statusCounts[string(domain.JobStatusPublished)],
		DraftJobs:             statusCounts[string(domain.JobStatusDraft)],
		ClosedJobs:            statusCounts[string(domain.JobStatusClosed)],
		TotalApplications:     totalApplications,
		TopSkills:             topSkills,
		TopJobsByApplications: topJobs,
	}, nil
}

// GetApplicationStats 按状态统计主体可见的申请
func (r *Repository) GetApplicationStats(p *domain.Principal) (*domain.ApplicationStats, error) {
	scope := ApplicationScope(p)

	statusCounts, total, err := r.countByGroup("applications", "applications.status", scope)
	if err != nil {
		return nil, err
	}

	avg, err := r.avgResumeScore(scope)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[domain.ApplicationStatus]int64)
	for status, count := range statusCounts {
		byStatus[domain.ApplicationStatus(status)] = count
	}

	return &domain.ApplicationStats{
		Total:          total,
		ByStatus:       byStatus,
		AvgResumeScore: avg,
	}, nil
}

// GetDashboard 是管理员看板。各个组件并行计算后再汇总，
// 组件之间不要求读到同一时刻的快照，这是有意的弱一致性取舍。
// 时间窗口全部取闭下界（>=）
func (r *Repository) GetDashboard() (*domain.Dashboard, error) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	dashboard := &domain.Dashboard{}

	var wg sync.WaitGroup
	errCh := make(chan error, 16)

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errCh <- err
			}
		}()
	}

	run(func() error {
		counts, total, err := r.countByGroup("jobs", "jobs.status")
		if err != nil {
			return err
		}
		dashboard.Stats.TotalJobs = total
		dashboard.Stats.PublishedJobs = counts[string(domain.JobStatusPublished)]
		dashboard.Stats.DraftJobs = counts[string(domain.JobStatusDraft)]
		dashboard.Stats.ClosedJobs = counts[string(domain.JobStatusClosed)]
		return nil
	})

	run(func() error {
		counts, total, err := r.countByGroup("applications", "applications.status")
		if err != nil {
			return err
		}
		dashboard.Stats.TotalApplications = total
		dashboard.Stats.PendingApplications = counts[string(domain.ApplicationStatusPending)]
		dashboard.Stats.ReviewedApplications = counts[string(domain.ApplicationStatusReviewed)]
		dashboard.Stats.ShortlistedApplications = counts[string(domain.ApplicationStatusShortlisted)]
		dashboard.Stats.RejectedApplications = counts[string(domain.ApplicationStatusRejected)]
		dashboard.Stats.SelectedApplications = counts[string(domain.ApplicationStatusSelected)]
		dashboard.QuickStats.InterviewsScheduled = counts[string(domain.ApplicationStatusInterviewScheduled)]
		return nil
	})

	run(func() error {
		counts, _, err := r.countByGroup("users", "users.role")
		if err != nil {
			return err
		}
		dashboard.Stats.TotalHRs = counts[string(domain.RoleHR)]
		dashboard.Stats.TotalApplicants = counts[string(domain.RoleApplicant)]
		return nil
	})

	run(func() error {
		avg, err := r.avgResumeScore(nil)
		if err != nil {
			return err
		}
		dashboard.Stats.AvgResumeScore = avg
		return nil
	})

	run(func() error {
		count, err := r.countWhere("jobs", pipeline.Gte("jobs.created_at", firstOfMonth))
		if err != nil {
			return err
		}
		dashboard.QuickStats.JobsThisMonth = count
		return nil
	})

	run(func() error {
		count, err := r.countWhere("applications", pipeline.Gte("applications.applied_at", weekAgo))
		if err != nil {
			return err
		}
		dashboard.QuickStats.ApplicationsThisWeek = count
		return nil
	})

	run(func() error {
		count, err := r.countWhere("applications",
			pipeline.Eq("applications.status", string(domain.ApplicationStatusShortlisted)),
			pipeline.Gte("applications.updated_at", startOfToday),
		)
		if err != nil {
			return err
		}
		dashboard.QuickStats.ShortlistedToday = count
		return nil
	})

	run(func() error {
		topJobs, err := r.topJobsByApplications(nil, 5)
		if err != nil {
			return err
		}
		dashboard.TopJobs = topJobs
		return nil
	})

	run(func() error {
		topSkills, err := r.topSkills(pipeline.Eq("jobs.status", string(domain.JobStatusPublished)), 10)
		if err != nil {
			return err
		}
		dashboard.TopSkills = topSkills
		return nil
	})

	run(func() error {
		topHRs, err := r.topHRs(5)
		if err != nil {
			return err
		}
		dashboard.TopHRs = topHRs
		return nil
	})

	run(func() error {
		recent, err := r.recentApplications(10)
		if err != nil {
			return err
		}
		dashboard.RecentActivities = recent
		return nil
	})

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}

	return dashboard, nil
}
