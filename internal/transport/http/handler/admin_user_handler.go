package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-backend/internal/domain"
	"resume-backend/internal/service"
	resp "resume-backend/internal/transport/http/response"
)

// AdminUserHandler 管理端用户维护，挂在 AuthJWT + RequireAdmin 之后
type AdminUserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewAdminUserHandler(svc *service.UserService, l *zap.Logger) *AdminUserHandler {
	return &AdminUserHandler{svc: svc, log: l}
}

type listQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

// List GET /admin/users
func (h *AdminUserHandler) List(c *gin.Context) {
	var q listQ
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	users, total, err := h.svc.List(q.Offset, q.Limit)
	if err != nil {
		h.fail(c, "list users failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"users": users, "total": total})
}

type adminCreateIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Plan     string `json:"plan"`
}

// Create POST /admin/users
func (h *AdminUserHandler) Create(c *gin.Context) {
	var in adminCreateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		resp.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.svc.AdminCreate(service.AdminUserInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Role:     in.Role,
		Plan:     in.Plan,
	})
	if err != nil {
		h.writeUserErr(c, "create user failed", err)
		return
	}
	resp.OK(c, http.StatusCreated, gin.H{"user": u})
}

type adminPatchIn struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"fullName"`
	Role     *string `json:"role"`
	Plan     *string `json:"plan"`
}

// Update PATCH /admin/users/:id
func (h *AdminUserHandler) Update(c *gin.Context) {
	var in adminPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p := service.AdminPatch{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Role:     in.Role,
		Plan:     in.Plan,
	}
	if p.Empty() {
		resp.Fail(c, http.StatusBadRequest, "no fields to update")
		return
	}

	u, err := h.svc.AdminUpdate(c.Param("id"), p)
	if err != nil {
		h.writeUserErr(c, "update user failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"user": u})
}

// Delete DELETE /admin/users/:id — 软删，简历等关联数据不级联
func (h *AdminUserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(id); err != nil {
		h.writeUserErr(c, "delete user failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"id": id})
}

func (h *AdminUserHandler) writeUserErr(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		resp.Fail(c, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrEmailTaken):
		resp.Fail(c, http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrInvalidRole):
		resp.Fail(c, http.StatusBadRequest, "invalid role")
	default:
		h.fail(c, msg, err)
	}
}

func (h *AdminUserHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.String("rid", c.GetString("rid")), zap.Error(err))
	resp.Fail(c, http.StatusInternalServerError, "internal error")
}
