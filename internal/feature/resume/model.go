package resume

import (
	"time"

	"gorm.io/gorm"
)

// ResumeModel 简历文档，按 OwnerID 行级隔离。
// Content 存 JSON 文本，结构由前端自定，后端只校验可解析。
type ResumeModel struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID string `gorm:"index;size:36;not null" json:"ownerId"`
	Title   string `gorm:"size:128;not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ResumeModel) TableName() string { return "resumes" }
