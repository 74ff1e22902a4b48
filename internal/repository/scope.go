package repository

import (
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/pipeline"
)

// JobScope 求出主体在 jobs 集合上的可见范围：
// HR 只能看到自己创建的职位，管理员没有限制，
// 未登录（principal 为 nil）只能看到已发布的职位。
// 返回 nil 表示不加任何限制
func JobScope(p *domain.Principal) pipeline.Cond {
	if p == nil {
		return pipeline.Eq("jobs.status", string(domain.JobStatusPublished))
	}

	switch p.Role {
	case domain.RoleHR:
		return pipeline.Eq("jobs.created_by", p.ID)
	case domain.RoleAdmin:
		return nil
	default:
		return pipeline.Eq("jobs.status", string(domain.JobStatusPublished))
	}
}

// ApplicationScope 求出主体在 applications 集合上的可见范围：
// 申请人只能看到自己的申请，HR 只能看到落在自己职位上的申请，
// 管理员没有限制。HR 的可见职位集合通过子查询在一条语句内求出，
// 避免先查后用之间的竞态
func ApplicationScope(p *domain.Principal) pipeline.Cond {
	switch p.Role {
	case domain.RoleApplicant:
		return pipeline.Eq("applications.applicant_id", p.ID)
	case domain.RoleHR:
		return pipeline.Raw("applications.job_id IN (SELECT id FROM jobs WHERE created_by = ?)", p.ID)
	default:
		return nil
	}
}
