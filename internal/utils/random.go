package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmailFromChineseName 把中文姓名转成拼音加随机数字作为邮箱的本地部分
func GenerateEmailFromChineseName(chineseName string, emailDomain string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := ""

	for _, py := range pinyinArray {
		local += py
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomain
}

// GenerateRandomApplicant 生成一个随机的申请人账号，用于数据填充
func GenerateRandomApplicant(password string, emailDomain string) (*domain.User, error) {
	name := GenerateRandomChineseName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Name:         name,
		Email:        GenerateEmailFromChineseName(name, emailDomain),
		PasswordHash: string(passwordHash),
		Role:         domain.RoleApplicant,
	}, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var skillPool = []string{
	"go", "python", "java", "typescript", "react", "vue", "node.js",
	"postgresql", "mysql", "redis", "docker", "kubernetes", "linux",
	"git", "graphql", "rest", "kafka", "rabbitmq", "aws", "terraform",
}

var jobTitles = []string{
	"后端开发工程师", "前端开发工程师", "全栈工程师", "测试开发工程师",
	"运维工程师", "数据工程师", "算法工程师", "平台开发工程师",
}

var locations = []string{
	"广州", "深圳", "北京", "上海", "杭州", "成都", "远程",
}

// GenerateRandomSkills 从技能池中随机取一个无重复的子集
func GenerateRandomSkills() []string {
	n := rand.Intn(5) + 2
	perm := rand.Perm(len(skillPool))

	skills := make([]string, 0, n)
	for _, idx := range perm[:n] {
		skills = append(skills, skillPool[idx])
	}
	return skills
}

var jobStatuses = []domain.JobStatus{
	domain.JobStatusDraft,
	domain.JobStatusPublished,
	domain.JobStatusClosed,
}

// GenerateRandomJob 生成一个随机职位，createdBy 由调用方指定
func GenerateRandomJob(createdBy int64) *domain.Job {
	min := int32(rand.Intn(5))
	salary := int64((rand.Intn(30) + 10) * 1000)

	return &domain.Job{
		Title:          jobTitles[rand.Intn(len(jobTitles))],
		Description:    "职位描述 " + GenerateRandomPassword(16),
		RequiredSkills: GenerateRandomSkills(),
		Experience:     domain.ExperienceRange{Min: min, Max: min + int32(rand.Intn(5)+1)},
		Location:       locations[rand.Intn(len(locations))],
		Salary:         &salary,
		Status:         jobStatuses[rand.Intn(len(jobStatuses))],
		CreatedBy:      createdBy,
	}
}

// GenerateRandomApplication 生成一份随机申请，简历内容是占位字节
func GenerateRandomApplication(jobID int64, applicantID int64) *domain.Application {
	return &domain.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		ResumeScore: int32(rand.Intn(101)),
		Status:      domain.ApplicationStatusPending,
		Resume: domain.Resume{
			Filename:    fmt.Sprintf("resume_%d_%d.pdf", jobID, applicantID),
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4\n%%seed resume placeholder\n"),
		},
	}
}
