package domain

import "time"

type SkillCount struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}

type JobApplicationCount struct {
	JobID             int64     `json:"jobId,omitempty"`
	Title             string    `json:"title"`
	Status            JobStatus `json:"status,omitempty"`
	ApplicationsCount int64     `json:"applicationsCount"`
}

type HRJobCount struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	JobsPosted int64  `json:"jobsPosted"`
}

type RecentApplication struct {
	ApplicantName string            `json:"applicantName"`
	JobTitle      string            `json:"jobTitle"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"appliedAt"`
}

// JobStats 是 HR/管理员的职位统计报表，HR 只能看到自己创建的职位
type JobStats struct {
	TotalJobs             int64                 `json:"totalJobs"`
	PublishedJobs         int64                 `json:"publishedJobs"`
	DraftJobs             int64                 `json:"draftJobs"`
	ClosedJobs            int64                 `json:"closedJobs"`
	TotalApplications     int64                 `json:"totalApplications"`
	TopSkills             []SkillCount          `json:"topSkills"`
	TopJobsByApplications []JobApplicationCount `json:"topJobsByApplications"`
}

// ApplicationStats 是按状态统计的申请报表
type ApplicationStats struct {
	Total          int64                       `json:"total"`
	ByStatus       map[ApplicationStatus]int64 `json:"byStatus"`
	AvgResumeScore int64                       `json:"avgResumeScore"`
}

type DashboardStats struct {
	TotalJobs               int64 `json:"totalJobs"`
	PublishedJobs           int64 `json:"publishedJobs"`
	DraftJobs               int64 `json:"draftJobs"`
	ClosedJobs              int64 `json:"closedJobs"`
	TotalApplications       int64 `json:"totalApplications"`
	PendingApplications     int64 `json:"pendingApplications"`
	ReviewedApplications    int64 `json:"reviewedApplications"`
	ShortlistedApplications int64 `json:"shortlistedApplications"`
	RejectedApplications    int64 `json:"rejectedApplications"`
	SelectedApplications    int64 `json:"selectedApplications"`
	TotalHRs                int64 `json:"totalHRs"`
	TotalApplicants         int64 `json:"totalApplicants"`
	AvgResumeScore          int64 `json:"avgResumeScore"`
}

type DashboardQuickStats struct {
	JobsThisMonth        int64 `json:"jobsThisMonth"`
	ApplicationsThisWeek int64 `json:"applicationsThisWeek"`
	ShortlistedToday     int64 `json:"shortlistedToday"`
	InterviewsScheduled  int64 `json:"interviewsScheduled"`
}

// Dashboard 是管理员的全平台看板
type Dashboard struct {
	Stats            DashboardStats        `json:"stats"`
	QuickStats       DashboardQuickStats   `json:"quickStats"`
	TopJobs          []JobApplicationCount `json:"topJobs"`
	TopSkills        []SkillCount          `json:"topSkills"`
	TopHRs           []HRJobCount          `json:"topHRs"`
	RecentActivities []RecentApplication   `json:"recentActivities"`
}
