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

type NavigationHandler struct {
	svc *service.NavigationService
	log *zap.Logger
}

func NewNavigationHandler(svc *service.NavigationService, l *zap.Logger) *NavigationHandler {
	return &NavigationHandler{svc: svc, log: l}
}

// Public GET /navigation — 前台菜单，只出可见项，走缓存
func (h *NavigationHandler) Public(c *gin.Context) {
	items, err := h.svc.Visible(c.Request.Context())
	if err != nil {
		h.fail(c, "load navigation failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"items": items})
}

// List GET /admin/navigation — 管理端含隐藏项
func (h *NavigationHandler) List(c *gin.Context) {
	items, err := h.svc.All()
	if err != nil {
		h.fail(c, "list navigation failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"items": items})
}

type navCreateIn struct {
	Label     string `json:"label"`
	URL       string `json:"url"`
	SortOrder int    `json:"sortOrder"`
	Visible   *bool  `json:"visible"`
}

// Create POST /admin/navigation
func (h *NavigationHandler) Create(c *gin.Context) {
	var in navCreateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Label) == "" || strings.TrimSpace(in.URL) == "" {
		resp.Fail(c, http.StatusBadRequest, "label and url are required")
		return
	}

	n, err := h.svc.Create(c.Request.Context(), service.NavItemInput{
		Label:     in.Label,
		URL:       in.URL,
		SortOrder: in.SortOrder,
		Visible:   in.Visible,
	})
	if err != nil {
		h.fail(c, "create nav item failed", err)
		return
	}
	resp.OK(c, http.StatusCreated, gin.H{"item": n})
}

type navPatchIn struct {
	Label     *string `json:"label"`
	URL       *string `json:"url"`
	SortOrder *int    `json:"sortOrder"`
	Visible   *bool   `json:"visible"`
}

// Update PATCH /admin/navigation/:id
func (h *NavigationHandler) Update(c *gin.Context) {
	var in navPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p := service.NavItemPatch{
		Label:     in.Label,
		URL:       in.URL,
		SortOrder: in.SortOrder,
		Visible:   in.Visible,
	}
	if p.Empty() {
		resp.Fail(c, http.StatusBadRequest, "no fields to update")
		return
	}

	n, err := h.svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		if errors.Is(err, domain.ErrNavItemNotFound) {
			resp.Fail(c, http.StatusNotFound, "nav item not found")
			return
		}
		h.fail(c, "update nav item failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"item": n})
}

// Delete DELETE /admin/navigation/:id
func (h *NavigationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNavItemNotFound) {
			resp.Fail(c, http.StatusNotFound, "nav item not found")
			return
		}
		h.fail(c, "delete nav item failed", err)
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"id": id})
}

func (h *NavigationHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.String("rid", c.GetString("rid")), zap.Error(err))
	resp.Fail(c, http.StatusInternalServerError, "internal error")
}
