package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func identitySkills(skills []string) []string { return skills }

func TestJobPatchApply(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	base := func() *Job {
		salary := int64(20000)
		return &Job{
			ID:             42,
			Title:          "后端开发工程师",
			Description:    "负责服务端开发",
			RequiredSkills: []string{"go", "postgresql"},
			Experience:     ExperienceRange{Min: 1, Max: 3},
			Location:       "广州",
			Salary:         &salary,
			Status:         JobStatusPublished,
			CreatedBy:      7,
			CreatedAt:      createdAt,
		}
	}

	t.Run("空补丁不改变任何字段", func(t *testing.T) {
		job := base()
		want := *job

		(&JobPatch{}).Apply(job, identitySkills)
		require.Equal(t, &want, job)
	})

	t.Run("只更新补丁中出现的字段", func(t *testing.T) {
		job := base()
		title := "资深后端开发工程师"
		location := "远程"

		(&JobPatch{Title: &title, Location: &location}).Apply(job, identitySkills)

		require.Equal(t, "资深后端开发工程师", job.Title)
		require.Equal(t, "远程", job.Location)
		require.Equal(t, "负责服务端开发", job.Description)
		require.Equal(t, []string{"go", "postgresql"}, job.RequiredSkills)
	})

	t.Run("技能列表经过规范化函数", func(t *testing.T) {
		job := base()
		called := false

		patch := &JobPatch{RequiredSkills: []string{"Go", " Redis "}}
		patch.Apply(job, func(skills []string) []string {
			called = true
			return []string{"go", "redis"}
		})

		require.True(t, called)
		require.Equal(t, []string{"go", "redis"}, job.RequiredSkills)
	})

	t.Run("身份字段不会被补丁覆盖", func(t *testing.T) {
		job := base()
		title := "新标题"

		(&JobPatch{Title: &title}).Apply(job, identitySkills)

		require.Equal(t, int64(42), job.ID)
		require.Equal(t, int64(7), job.CreatedBy)
		require.Equal(t, createdAt, job.CreatedAt)
		require.Equal(t, JobStatusPublished, job.Status)
	})
}
