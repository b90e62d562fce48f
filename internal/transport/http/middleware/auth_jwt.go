package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-account-api/internal/core/auth"
	"user-account-api/internal/domain"
	resp "user-account-api/internal/transport/http/response"
)

// 当前账号在 context 里的 key
const KeyAccount = "account"

// AuthAccount 访问守卫：Bearer token → 校验 → 按 sub(email) 查活跃账号。
// token 无效/过期、账号不存在或已被软删，一律 401 + WWW-Authenticate
func AuthAccount(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortBearer(c, "Not authenticated")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortBearer(c, "Could not validate credentials")
			return
		}
		u, err := users.FindActiveByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			resp.AbortBearer(c, "Could not validate credentials")
			return
		}
		c.Set(KeyAccount, u)
		c.Next()
	}
}

// RequireAdmin 在 AuthAccount 之后挂，角色判断集中在这里
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentAccount(c)
		if u == nil {
			resp.AbortBearer(c, "Not authenticated")
			return
		}
		if !u.Role.IsAdmin() {
			resp.AbortDetail(c, http.StatusForbidden, "Admin privileges required")
			return
		}
		c.Next()
	}
}

// CurrentAccount 取守卫放进去的账号，没走守卫返回 nil
func CurrentAccount(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyAccount)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
