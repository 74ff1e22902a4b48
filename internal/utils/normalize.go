package utils

import "strings"

// NormalizeEmail 邮箱统一小写并去掉首尾空白后再入库，唯一索引建立在规范化后的值上
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeSkills 技能列表统一小写、去掉首尾空白并去除空项和重复项，
// 保持首次出现的顺序
func NormalizeSkills(skills []string) []string {
	normalized := make([]string, 0, len(skills))
	seen := make(map[string]bool)

	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		normalized = append(normalized, s)
	}

	return normalized
}

// SplitSkillsParam 解析查询参数中逗号分隔的技能列表
func SplitSkillsParam(param string) []string {
	if param == "" {
		return nil
	}
	return NormalizeSkills(strings.Split(param, ","))
}
