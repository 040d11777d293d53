package auth

import (
	"strings"

	"resume-backend/internal/domain"
)

// Policy 管理员判定的纯决策逻辑。
// BootstrapAdminEmail 是无条件的管理员兜底（角色数据损坏时防止锁死），
// 集中在这里以便单独下线，不影响令牌校验链路。
type Policy struct {
	BootstrapAdminEmail string
}

func NewPolicy(bootstrapEmail string) Policy {
	return Policy{BootstrapAdminEmail: domain.NormalizeEmail(bootstrapEmail)}
}

func (p Policy) IsAdmin(u *domain.User) bool {
	if u == nil {
		return false
	}
	switch u.EffectiveRole() {
	case domain.RoleAdmin, domain.RoleSuperAdmin:
		return true
	}
	return p.IsBootstrapAdmin(u.Email)
}

// IsBootstrapAdmin 注册时命中该邮箱直接授予 super_admin
func (p Policy) IsBootstrapAdmin(email string) bool {
	return p.BootstrapAdminEmail != "" &&
		strings.EqualFold(strings.TrimSpace(email), p.BootstrapAdminEmail)
}
