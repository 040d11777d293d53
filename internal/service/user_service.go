package service

import (
	"strings"

	"resume-backend/internal/core/auth"
	"resume-backend/internal/domain"
	"resume-backend/pkg/utils"
)

// UserService 注册/登录/资料维护 + 管理端用户维护。
// 密码哈希绝不出此层：对外返回的 domain.User 上 PasswordHash 带 json:"-"。
type UserService struct {
	users  domain.UserRepository
	jwter  *auth.JWTer
	policy auth.Policy
}

func NewUserService(users domain.UserRepository, jwter *auth.JWTer, policy auth.Policy) *UserService {
	return &UserService{users: users, jwter: jwter, policy: policy}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// Register 引导管理员邮箱注册时无视请求角色，直接 super_admin。
// 邮箱冲突返回 domain.ErrEmailTaken（含并发下唯一索引兜底）。
func (s *UserService) Register(in RegisterInput) (*domain.User, string, error) {
	email := domain.NormalizeEmail(in.Email)

	role := domain.RoleUser
	if s.policy.IsBootstrapAdmin(email) {
		role = domain.RoleSuperAdmin
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         role,
		Plan:         domain.DefaultPlan,
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", err
	}

	tok, err := s.jwter.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login 查无此人和密码错误同样返回 ErrInvalidCredentials，不泄露账号是否存在。
func (s *UserService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}
	tok, err := s.jwter.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *UserService) Get(id string) (*domain.User, error) {
	return s.users.FindByID(id)
}

// UpdateProfile 普通用户只能改显示名
func (s *UserService) UpdateProfile(id, fullName string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	u.FullName = strings.TrimSpace(fullName)
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(offset, limit int) ([]domain.User, int64, error) {
	return s.users.List(offset, limit)
}

type AdminUserInput struct {
	Email    string
	Password string
	FullName string
	Role     string
	Plan     string
}

func (s *UserService) AdminCreate(in AdminUserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	if s.policy.IsBootstrapAdmin(email) {
		role = domain.RoleSuperAdmin
	}
	plan := in.Plan
	if plan == "" {
		plan = domain.DefaultPlan
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         role,
		Plan:         plan,
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// AdminPatch 可选字段；nil 表示不动
type AdminPatch struct {
	Email    *string
	Password *string
	FullName *string
	Role     *string
	Plan     *string
}

func (p AdminPatch) Empty() bool {
	return p.Email == nil && p.Password == nil && p.FullName == nil && p.Role == nil && p.Plan == nil
}

func (s *UserService) AdminUpdate(id string, p AdminPatch) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Email != nil {
		u.Email = domain.NormalizeEmail(*p.Email)
	}
	if p.FullName != nil {
		u.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Role != nil {
		if !domain.ValidRole(*p.Role) {
			return nil, domain.ErrInvalidRole
		}
		u.Role = *p.Role
	}
	if p.Plan != nil {
		u.Plan = *p.Plan
	}
	if p.Password != nil {
		hash, err := utils.HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(id string) error {
	return s.users.SoftDelete(id)
}
