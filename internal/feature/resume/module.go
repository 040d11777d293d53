package resume

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	httpez "resume-backend/internal/transport/http/ez"
	"resume-backend/pkg/utils"
)

// Module 简历 CRUD，挂到鉴权分组（/resumes）
type Module struct{ DB *gorm.DB }

func (m Module) Priority() int { return 10 }

func (m Module) MountAPI(authed *gin.RouterGroup) {
	validate := func(_ *gin.Context, r *ResumeModel) error {
		if strings.TrimSpace(r.Title) == "" {
			return httpez.BadRequest("title is required")
		}
		if r.Content != "" && !json.Valid([]byte(r.Content)) {
			return httpez.BadRequest("content must be valid JSON")
		}
		return nil
	}

	httpez.Crud(httpez.CrudConfig[ResumeModel]{
		DB:    m.DB,
		Group: authed,
		Path:  "/resumes",
		New:   func() *ResumeModel { return &ResumeModel{} },
		Hooks: httpez.CrudHooks[ResumeModel]{
			BeforeCreate: validate,
			BeforeUpdate: validate,
		},
	})

	// 复制一份草稿；复制件与原件同主，非本人的原件按 404 处理
	httpez.RegisterAction(httpez.New(authed), m.DB, httpez.Action[struct{}, *ResumeModel]{
		Method: http.MethodPost,
		Path:   "/resumes/:id/duplicate",
		Binder: httpez.BindNone,
		Key:    "item",
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*ResumeModel, error) {
			uid := c.GetString("userId")
			if uid == "" {
				return nil, httpez.Unauthorized("unauthorized")
			}
			var src ResumeModel
			err := tx.Where(&ResumeModel{ID: c.Param("id"), OwnerID: uid}).First(&src).Error
			if err != nil {
				return nil, httpez.NotFound("not found")
			}
			cp := src
			cp.ID = utils.NewID()
			cp.Title = src.Title + " (copy)"
			cp.CreatedAt = time.Time{}
			cp.UpdatedAt = time.Time{}
			if err := tx.Create(&cp).Error; err != nil {
				return nil, httpez.Internal("duplicate failed", err)
			}
			return &cp, nil
		},
	})
}
