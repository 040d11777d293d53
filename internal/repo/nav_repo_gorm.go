package repo

import (
	"errors"

	"gorm.io/gorm"

	"resume-backend/internal/domain"
)

type NavItemRepo struct{ db *gorm.DB }

func NewNavItemRepo(db *gorm.DB) *NavItemRepo { return &NavItemRepo{db: db} }

func (r *NavItemRepo) Create(n *domain.NavItem) error { return r.db.Create(n).Error }

func (r *NavItemRepo) FindByID(id string) (*domain.NavItem, error) {
	var n domain.NavItem
	err := r.db.First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNavItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NavItemRepo) ListVisible() ([]domain.NavItem, error) {
	var items []domain.NavItem
	err := r.db.Where("visible = ?", true).Order("sort_order asc, created_at asc").Find(&items).Error
	return items, err
}

func (r *NavItemRepo) ListAll() ([]domain.NavItem, error) {
	var items []domain.NavItem
	err := r.db.Order("sort_order asc, created_at asc").Find(&items).Error
	return items, err
}

func (r *NavItemRepo) Update(n *domain.NavItem) error { return r.db.Save(n).Error }

func (r *NavItemRepo) SoftDelete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.NavItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNavItemNotFound
	}
	return nil
}
