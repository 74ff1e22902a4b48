package seed

import (
	"log/slog"
	"math/rand"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// demoHRs 是演示数据中的 HR 账号，邮箱固定方便登录调试
var demoHRs = []struct {
	Name  string
	Email string
}{
	{Name: "招聘负责人-平台", Email: "hr.platform@example.com"},
	{Name: "招聘负责人-数据", Email: "hr.data@example.com"},
}

// demoStatuses 让演示数据覆盖所有申请状态
var demoStatuses = []domain.ApplicationStatus{
	domain.ApplicationStatusPending,
	domain.ApplicationStatusReviewed,
	domain.ApplicationStatusShortlisted,
	domain.ApplicationStatusInterviewScheduled,
	domain.ApplicationStatusSelected,
	domain.ApplicationStatusRejected,
	domain.ApplicationStatusWithdrawn,
}

// SeedDemoData 插入一份覆盖完整业务流程的演示数据：
// 两个 HR、若干已发布职位、一批申请人以及各个状态的申请
func SeedDemoData(cfg *config.Config, r *repository.Repository) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("生成密码哈希失败", "error", err)
		return
	}

	// 插入 HR 账号
	hrs := make([]*domain.User, 0, len(demoHRs))
	for _, h := range demoHRs {
		hr := &domain.User{
			Name:         h.Name,
			Email:        h.Email,
			PasswordHash: string(passwordHash),
			Role:         domain.RoleHR,
		}
		if err := r.CreateUser(hr); err != nil {
			slog.Error("插入 HR 失败", "email", h.Email, "error", err)
			continue
		}
		hrs = append(hrs, hr)
	}
	if len(hrs) == 0 {
		slog.Error("没有可用的 HR，终止演示数据插入")
		return
	}

	// 每个 HR 创建若干职位，大部分处于已发布状态
	jobs := make([]*domain.Job, 0)
	for _, hr := range hrs {
		for i := 0; i < 4; i++ {
			job := utils.GenerateRandomJob(hr.ID)
			if i > 0 {
				job.Status = domain.JobStatusPublished
			}
			if err := r.CreateJob(job); err != nil {
				slog.Error("插入职位失败", "error", err)
				continue
			}
			jobs = append(jobs, job)
		}
	}

	// 插入申请人
	applicants := make([]*domain.User, 0, 10)
	for i := 0; i < 10; i++ {
		applicant, err := utils.GenerateRandomApplicant(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
		if err != nil {
			slog.Error("生成申请人失败", "error", err)
			continue
		}
		if err := r.CreateUser(applicant); err != nil {
			slog.Error("插入申请人失败", "error", err)
			continue
		}
		applicants = append(applicants, applicant)
	}

	// 每个申请人投递若干已发布职位，申请状态覆盖全部取值
	published := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Status == domain.JobStatusPublished {
			published = append(published, job)
		}
	}
	if len(published) == 0 {
		slog.Error("没有已发布的职位，跳过申请插入")
		return
	}

	cnt := 0
	for _, applicant := range applicants {
		perm := rand.Perm(len(published))
		n := rand.Intn(3) + 1
		if n > len(published) {
			n = len(published)
		}
		for _, idx := range perm[:n] {
			app := utils.GenerateRandomApplication(published[idx].ID, applicant.ID)
			app.Status = demoStatuses[rand.Intn(len(demoStatuses))]
			if err := r.CreateApplication(app); err != nil {
				slog.Error("插入申请失败", "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("演示数据插入完成",
		"hrs", len(hrs), "jobs", len(jobs), "applicants", len(applicants), "applications", cnt)
}
