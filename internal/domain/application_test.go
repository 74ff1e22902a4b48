package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   ApplicationStatus
		target ApplicationStatus
		want   bool
	}{
		{"待处理可以进入已审阅", ApplicationStatusPending, ApplicationStatusReviewed, true},
		{"待处理可以直接拒绝", ApplicationStatusPending, ApplicationStatusRejected, true},
		{"待处理不能跳过审阅直接入围", ApplicationStatusPending, ApplicationStatusShortlisted, false},
		{"已审阅可以入围", ApplicationStatusReviewed, ApplicationStatusShortlisted, true},
		{"已审阅不能回退到待处理", ApplicationStatusReviewed, ApplicationStatusPending, false},
		{"入围可以安排面试", ApplicationStatusShortlisted, ApplicationStatusInterviewScheduled, true},
		{"入围不能直接录用", ApplicationStatusShortlisted, ApplicationStatusSelected, false},
		{"已安排面试可以录用", ApplicationStatusInterviewScheduled, ApplicationStatusSelected, true},
		{"已安排面试可以拒绝", ApplicationStatusInterviewScheduled, ApplicationStatusRejected, true},
		{"已录用是终态", ApplicationStatusSelected, ApplicationStatusRejected, false},
		{"已拒绝是终态", ApplicationStatusRejected, ApplicationStatusReviewed, false},
		{"已撤回是终态", ApplicationStatusWithdrawn, ApplicationStatusReviewed, false},
		{"任何状态都不能转移到已撤回", ApplicationStatusPending, ApplicationStatusWithdrawn, false},
		{"状态不能原地转移", ApplicationStatusReviewed, ApplicationStatusReviewed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.from.CanTransitionTo(tt.target))
		})
	}
}

// 转移表中的任何一条边都不能以 withdrawn 为目标，撤回只属于申请人
func TestApplicationTransitionsNeverTargetWithdrawn(t *testing.T) {
	for from, targets := range applicationTransitions {
		for _, target := range targets {
			require.NotEqual(t, ApplicationStatusWithdrawn, target,
				"从 %s 出发的转移不应指向 withdrawn", from)
		}
	}
}

// 终态不能出现在转移表的出发状态中
func TestTerminalStatusesHaveNoOutgoingTransitions(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationStatusSelected,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	} {
		require.True(t, s.IsTerminal())
		require.Empty(t, applicationTransitions[s])
	}
}

func TestApplicationStatusCanWithdraw(t *testing.T) {
	tests := []struct {
		status ApplicationStatus
		want   bool
	}{
		{ApplicationStatusPending, true},
		{ApplicationStatusReviewed, true},
		{ApplicationStatusShortlisted, true},
		{ApplicationStatusInterviewScheduled, false},
		{ApplicationStatusSelected, false},
		{ApplicationStatusRejected, false},
		{ApplicationStatusWithdrawn, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			require.Equal(t, tt.want, tt.status.CanWithdraw())
		})
	}
}

func TestApplicationStatusIsValid(t *testing.T) {
	require.True(t, ApplicationStatusPending.IsValid())
	require.True(t, ApplicationStatusWithdrawn.IsValid())
	require.False(t, ApplicationStatus("").IsValid())
	require.False(t, ApplicationStatus("approved").IsValid())
}
