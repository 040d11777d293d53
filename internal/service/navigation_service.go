package service

import (
	"context"
	"time"

	"resume-backend/internal/core/cache"
	"resume-backend/internal/domain"
	"resume-backend/pkg/utils"
)

const navCacheKey = "nav:visible"

// NavigationService 前台读走 Redis 读穿缓存，管理端写后主动失效。
// cache 为 nil 时（测试、未配 Redis）直接回源。
type NavigationService struct {
	items domain.NavItemRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewNavigationService(items domain.NavItemRepository, c *cache.Cache) *NavigationService {
	return &NavigationService{items: items, cache: c, ttl: 5 * time.Minute}
}

func (s *NavigationService) Visible(ctx context.Context) ([]domain.NavItem, error) {
	if s.cache == nil {
		return s.items.ListVisible()
	}
	return cache.GetOrLoadJSON(s.cache, ctx, navCacheKey, s.ttl,
		func(context.Context) ([]domain.NavItem, error) {
			return s.items.ListVisible()
		})
}

func (s *NavigationService) All() ([]domain.NavItem, error) {
	return s.items.ListAll()
}

type NavItemInput struct {
	Label     string
	URL       string
	SortOrder int
	Visible   *bool
}

func (s *NavigationService) Create(ctx context.Context, in NavItemInput) (*domain.NavItem, error) {
	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}
	n := &domain.NavItem{
		ID:        utils.NewID(),
		Label:     in.Label,
		URL:       in.URL,
		SortOrder: in.SortOrder,
		Visible:   visible,
	}
	if err := s.items.Create(n); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return n, nil
}

// NavItemPatch nil 字段不动
type NavItemPatch struct {
	Label     *string
	URL       *string
	SortOrder *int
	Visible   *bool
}

func (p NavItemPatch) Empty() bool {
	return p.Label == nil && p.URL == nil && p.SortOrder == nil && p.Visible == nil
}

func (s *NavigationService) Update(ctx context.Context, id string, p NavItemPatch) (*domain.NavItem, error) {
	n, err := s.items.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.URL != nil {
		n.URL = *p.URL
	}
	if p.SortOrder != nil {
		n.SortOrder = *p.SortOrder
	}
	if p.Visible != nil {
		n.Visible = *p.Visible
	}
	if err := s.items.Update(n); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *NavigationService) Delete(ctx context.Context, id string) error {
	if err := s.items.SoftDelete(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *NavigationService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, navCacheKey)
	}
}
