package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"resume-backend/internal/core/auth"
	"resume-backend/internal/domain"
	"resume-backend/internal/transport/http/handler"
	mdw "resume-backend/internal/transport/http/middleware"
)

// AdminDeps 管理端依赖；Users 供 RequireAdmin 回源查账号
type AdminDeps struct {
	Log    *zap.Logger
	JWTer  *auth.JWTer
	Policy auth.Policy
	Users  domain.UserRepository
	User   *handler.AdminUserHandler
	Nav    *handler.NavigationHandler
}

func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics("admin"),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 两级守卫：令牌 → 账号存在 + 角色
	admin := r.Group("/admin")
	admin.Use(mdw.AuthJWT(d.JWTer, d.Log), mdw.RequireAdmin(d.Users, d.Policy, d.Log))

	admin.GET("/users", d.User.List)
	admin.POST("/users", d.User.Create)
	admin.PATCH("/users/:id", d.User.Update)
	admin.DELETE("/users/:id", d.User.Delete)

	admin.GET("/navigation", d.Nav.List)
	admin.POST("/navigation", d.Nav.Create)
	admin.PATCH("/navigation/:id", d.Nav.Update)
	admin.DELETE("/navigation/:id", d.Nav.Delete)

	// 已注册的管理端模块
	MountAllAdmin(admin)

	return r
}
