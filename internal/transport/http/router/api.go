package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"resume-backend/internal/core/auth"
	"resume-backend/internal/transport/http/handler"
	mdw "resume-backend/internal/transport/http/middleware"
)

// APIDeps 前台 API 依赖
type APIDeps struct {
	Log   *zap.Logger
	JWTer *auth.JWTer
	Auth  *handler.AuthHandler
	Me    *handler.MeHandler
	Nav   *handler.NavigationHandler
}

func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(200), 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics("api"),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公共入口
	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)
	r.GET("/navigation", d.Nav.Public)

	// 鉴权分组：守卫只验令牌，不查库
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer, d.Log))
	authed.GET("/me", d.Me.Get)
	authed.PATCH("/me", d.Me.Patch)

	// 已注册的功能模块（简历等）
	MountAllAPI(authed)

	return r
}
