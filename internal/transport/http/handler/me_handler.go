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

type MeHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewMeHandler(svc *service.UserService, l *zap.Logger) *MeHandler {
	return &MeHandler{svc: svc, log: l}
}

// Get GET /me — 令牌有效但账号已删 → 401
func (h *MeHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.GetString("userId"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			resp.Fail(c, http.StatusUnauthorized, "user not found")
			return
		}
		h.fail(c, "get self failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"user": u})
}

type meIn struct {
	FullName *string `json:"fullName"`
}

// Patch PATCH /me — 只允许改显示名
func (h *MeHandler) Patch(c *gin.Context) {
	var in meIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.FullName == nil || strings.TrimSpace(*in.FullName) == "" {
		resp.Fail(c, http.StatusBadRequest, "no fields to update")
		return
	}

	u, err := h.svc.UpdateProfile(c.GetString("userId"), *in.FullName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			resp.Fail(c, http.StatusUnauthorized, "user not found")
			return
		}
		h.fail(c, "update self failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"user": u})
}

func (h *MeHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.String("rid", c.GetString("rid")), zap.Error(err))
	resp.Fail(c, http.StatusInternalServerError, "internal error")
}
