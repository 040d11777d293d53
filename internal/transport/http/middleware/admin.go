package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-backend/internal/core/auth"
	"resume-backend/internal/domain"
	resp "resume-backend/internal/transport/http/response"
)

// CurrentUserKey RequireAdmin 通过后挂在 context 上的完整用户记录
const CurrentUserKey = "currentUser"

// RequireAdmin 必须挂在 AuthJWT 之后：回源查完整用户记录再做角色判定。
// 令牌有效但账号已删 → 401 "user not found"（与守卫层笼统 401 区分）；
// 角色不够 → 403。通过后下游拿到的是当前角色/套餐，而非签发时的快照。
func RequireAdmin(users domain.UserRepository, policy auth.Policy, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("userId")
		if uid == "" {
			resp.AbortFail(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := users.FindByID(uid)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				resp.AbortFail(c, http.StatusUnauthorized, "user not found")
				return
			}
			l.Error("admin guard lookup failed",
				zap.String("rid", c.GetString("rid")),
				zap.Error(err),
			)
			resp.AbortFail(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !policy.IsAdmin(u) {
			resp.AbortFail(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Set(CurrentUserKey, u)
		c.Next()
	}
}

// CurrentUser 取 RequireAdmin 挂载的完整记录
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
