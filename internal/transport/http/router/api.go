package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-account-api/internal/core/auth"
	"user-account-api/internal/core/cache"
	"user-account-api/internal/domain"
	"user-account-api/internal/transport/http/handler"
	mdw "user-account-api/internal/transport/http/middleware"
)

// NewAPIEngine 组装全部路由；仓储和缓存从外面注入，路由层不持有全局状态
func NewAPIEngine(l *zap.Logger, users domain.UserRepository, jwter *auth.JWTer, ch *cache.Cache) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	uh := handler.NewUserHandler(users, jwter, ch, l)
	ah := handler.NewAdminHandler(users, ch, l)

	guard := mdw.AuthAccount(jwter, users)

	// 用户端
	u := r.Group("/users")
	{
		u.POST("", uh.Register)
		u.POST("/token", uh.Login)
		u.POST("/refresh-token", uh.Refresh)

		authed := u.Group("")
		authed.Use(guard)
		authed.PUT("/me", uh.UpdateMe)
		authed.DELETE("", uh.DeleteMe)
	}

	// 管理端（统一要求 admin 角色）
	a := r.Group("/admins")
	a.Use(guard, mdw.RequireAdmin())
	{
		a.GET("", ah.ListActive)
		a.GET("/deleted", ah.ListDeleted)
		a.PUT("/:id", ah.UpdateByID)
		a.DELETE("/:id", ah.DeleteByID)
	}

	return r
}
