package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-backend/internal/core/auth"
	resp "resume-backend/internal/transport/http/response"
)

const bearerPrefix = "Bearer "

// AuthJWT 只信令牌本身，不查库：签发后被删除的账号在这一层仍视为已认证，
// 账号存在性/角色在 RequireAdmin 再查。
// 前缀不是字面量 "Bearer " 的（含 Basic 等其它 scheme）与缺头同等对待。
// 对客户端只回笼统 unauthorized，具体原因进日志。
func AuthJWT(j *auth.JWTer, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, bearerPrefix) {
			resp.AbortFail(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, bearerPrefix))
		if err != nil {
			l.Warn("token rejected",
				zap.String("rid", c.GetString("rid")),
				zap.Error(err),
			)
			resp.AbortFail(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
