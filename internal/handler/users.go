package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser 由管理员创建 HR 或管理员账号，初始密码随机生成后通过邮件下发
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone"`
		Role  string `json:"role" validate:"required,oneof=hr admin"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	principal := r.Context().Value(PrincipalCtxKey).(*domain.Principal)

	// 插入用户到数据库中
	user := &domain.User{
		Name:         req.Name,
		Email:        utils.NormalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		Phone:        req.Phone,
		Role:         domain.Role(req.Role),
		CreatedBy:    &principal.ID,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.failResponse(w, r, domain.ErrConflict, "该邮箱已被注册")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: "create_user",
		To:   user.Email,
		Data: domain.CreateUserMailData{
			Name:     user.Name,
			Email:    user.Email,
			Role:     string(user.Role),
			Password: password,
		},
	}

	// 对邮件进行序列化
	emailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将邮件发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        emailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 成功响应
	h.successResponse(w, r, "用户创建成功", user)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && !domain.Role(role).IsValid() {
		h.failResponse(w, r, domain.ErrValidation, "无效的用户角色")
		return
	}

	page, limit := h.parsePagination(r)

	users, total, err := h.repository.GetAllUsers(domain.Role(role), page, limit)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户列表成功", PageData{
		Items:      users,
		Pagination: domain.NewPagination(total, page, limit),
	})
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtxKey).(*domain.User)
	h.successResponse(w, r, "获取用户信息成功", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email" validate:"omitempty,email"`
		Phone *string `json:"phone"`
		Role  *string `json:"role" validate:"omitempty,oneof=applicant hr admin"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user := r.Context().Value(UserInfoCtxKey).(*domain.User)

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}

	if err := h.repository.UpdateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.failResponse(w, r, domain.ErrConflict, "该邮箱已被注册")
		case errors.Is(err, sql.ErrNoRows):
			h.failResponse(w, r, domain.ErrConflict, "更新用户信息失败，请重试")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新用户信息成功", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtxKey).(*domain.User)

	deleted, err := h.repository.DeleteUser(user.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !deleted {
		h.failResponse(w, r, domain.ErrNotFound, "用户不存在")
		return
	}

	h.successResponse(w, r, "删除用户成功", nil)
}
