package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"统一小写", "Alice@Example.COM", "alice@example.com"},
		{"去掉首尾空白", "  bob@example.com \n", "bob@example.com"},
		{"已规范化的值原样返回", "carol@example.com", "carol@example.com"},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "统一小写并去重，保持首次出现的顺序",
			input: []string{"Go", "Redis", "go", "PostgreSQL"},
			want:  []string{"go", "redis", "postgresql"},
		},
		{
			name:  "去掉空白项",
			input: []string{" go ", "", "  ", "docker"},
			want:  []string{"go", "docker"},
		},
		{
			name:  "空列表返回空列表",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeSkills(tt.input))
		})
	}
}

func TestSplitSkillsParam(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"逗号分隔并规范化", "Go, Redis ,docker", []string{"go", "redis", "docker"}},
		{"空参数返回 nil", "", nil},
		{"只有分隔符时返回空列表", ",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SplitSkillsParam(tt.input))
		})
	}
}
