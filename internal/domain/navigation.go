package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNavItemNotFound = errors.New("nav item not found")

// NavItem 站点导航项，由管理端维护、前台只读
type NavItem struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Label     string         `gorm:"size:64;not null" json:"label"`
	URL       string         `gorm:"size:255;not null" json:"url"`
	SortOrder int            `gorm:"not null;default:0" json:"sortOrder"`
	Visible   bool           `gorm:"not null;default:true" json:"visible"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (NavItem) TableName() string { return "nav_items" }

type NavItemRepository interface {
	Create(n *NavItem) error
	FindByID(id string) (*NavItem, error)
	ListVisible() ([]NavItem, error)
	ListAll() ([]NavItem, error)
	Update(n *NavItem) error
	SoftDelete(id string) error
}
