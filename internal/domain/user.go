package domain

import (
	"time"
)

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleApplicant, RoleHR, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	CreatedBy    *int64    `json:"createdBy,omitempty"` // 由哪个管理员创建，自助注册的申请人为空
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// Principal 是通过认证后附加在请求上下文中的身份信息
type Principal struct {
	ID    int64
	Role  Role
	Name  string
	Email string
}

func (u *User) Principal() *Principal {
	return &Principal{
		ID:    u.ID,
		Role:  u.Role,
		Name:  u.Name,
		Email: u.Email,
	}
}
