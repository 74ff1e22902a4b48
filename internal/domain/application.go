package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending            ApplicationStatus = "pending"
	ApplicationStatusReviewed           ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted        ApplicationStatus = "shortlisted"
	ApplicationStatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationStatusSelected           ApplicationStatus = "selected"
	ApplicationStatusRejected           ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn          ApplicationStatus = "withdrawn"
)

// applicationTransitions 是 HR/管理员可以触发的状态转移表。
// withdrawn 不在表中，撤回只能由申请人本人通过 withdraw 操作触发
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:            {ApplicationStatusReviewed, ApplicationStatusRejected},
	ApplicationStatusReviewed:           {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted:        {ApplicationStatusInterviewScheduled, ApplicationStatusRejected},
	ApplicationStatusInterviewScheduled: {ApplicationStatusSelected, ApplicationStatusRejected},
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusInterviewScheduled, ApplicationStatusSelected,
		ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusSelected || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// CanTransitionTo 判断 (当前状态, 目标状态) 是否是转移表中的合法边
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, next := range applicationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CanWithdraw 判断申请人是否还能撤回。进入面试及之后的状态不允许撤回
func (s ApplicationStatus) CanWithdraw() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted:
		return true
	}
	return false
}

// Resume 是附加在申请上的简历文件
type Resume struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

type Application struct {
	ID            int64             `json:"id"`
	JobID         int64             `json:"jobId"`
	ApplicantID   int64             `json:"applicantId"`
	ResumeScore   int32             `json:"resumeScore"`
	Status        ApplicationStatus `json:"status"`
	Resume        Resume            `json:"resume"`
	ApplicantName string            `json:"applicantName,omitempty"` // 联表带出
	JobTitle      string            `json:"jobTitle,omitempty"`      // 联表带出
	AppliedAt     time.Time         `json:"appliedAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Version       int32             `json:"-"`
}
