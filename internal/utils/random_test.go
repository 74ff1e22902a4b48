package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateEmailFromChineseName(t *testing.T) {
	email := GenerateEmailFromChineseName("张伟", "example.com")

	require.True(t, strings.HasSuffix(email, "@example.com"))
	require.True(t, strings.HasPrefix(email, "zhangwei"))
}

func TestGenerateRandomPassword(t *testing.T) {
	password := GenerateRandomPassword(12)
	require.Len(t, password, 12)

	// 两次生成的结果几乎不可能相同
	require.NotEqual(t, password, GenerateRandomPassword(12))
}

func TestGenerateRandomApplicant(t *testing.T) {
	applicant, err := GenerateRandomApplicant("seed-password", "example.com")
	require.NoError(t, err)

	require.NotEmpty(t, applicant.Name)
	require.True(t, strings.HasSuffix(applicant.Email, "@example.com"))
	require.Equal(t, domain.RoleApplicant, applicant.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(applicant.PasswordHash), []byte("seed-password")))
}

func TestGenerateRandomSkills(t *testing.T) {
	skills := GenerateRandomSkills()
	require.NotEmpty(t, skills)

	seen := make(map[string]bool)
	for _, s := range skills {
		require.False(t, seen[s], "技能 %s 重复出现", s)
		seen[s] = true
	}
}

func TestGenerateRandomJob(t *testing.T) {
	job := GenerateRandomJob(7)

	require.Equal(t, int64(7), job.CreatedBy)
	require.NotEmpty(t, job.Title)
	require.NotEmpty(t, job.RequiredSkills)
	require.LessOrEqual(t, job.Experience.Min, job.Experience.Max)
	require.NotNil(t, job.Salary)
}

func TestGenerateRandomApplication(t *testing.T) {
	app := GenerateRandomApplication(3, 5)

	require.Equal(t, int64(3), app.JobID)
	require.Equal(t, int64(5), app.ApplicantID)
	require.Equal(t, domain.ApplicationStatusPending, app.Status)
	require.GreaterOrEqual(t, app.ResumeScore, int32(0))
	require.LessOrEqual(t, app.ResumeScore, int32(100))
	require.Equal(t, "application/pdf", app.Resume.ContentType)
	require.NotEmpty(t, app.Resume.Data)
}
