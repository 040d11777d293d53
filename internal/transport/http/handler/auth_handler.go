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

type AuthHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewAuthHandler(svc *service.UserService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: l}
}

type registerIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		resp.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, tok, err := h.svc.Register(service.RegisterInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			resp.Fail(c, http.StatusConflict, "email already registered")
			return
		}
		h.fail(c, "register failed", err)
		return
	}
	resp.OK(c, http.StatusCreated, gin.H{"token": tok, "user": u})
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		resp.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, tok, err := h.svc.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			resp.Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.fail(c, "login failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"token": tok, "user": u})
}

// fail 意外错误：细节进日志，对外只给笼统消息
func (h *AuthHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.String("rid", c.GetString("rid")), zap.Error(err))
	resp.Fail(c, http.StatusInternalServerError, "internal error")
}
