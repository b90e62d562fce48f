package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AccessLog(l *zap.Logger) gin.HandlerFunc {
	// 敏感字段统一打码，登录表单和 refresh 接口都会带这些 key
	sensitiveKeys := map[string]struct{}{
		"password": {}, "verf_password": {}, "token": {}, "authorization": {},
		"secret": {}, "access_token": {}, "refresh_token": {},
	}

	mask := func(kv map[string][]string) map[string][]string {
		out := map[string][]string{}
		for k, v := range kv {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = []string{"****"}
			} else {
				out[k] = v
			}
		}
		return out
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		l.Info("HTTP",
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Any("query", mask(c.Request.URL.Query())),
			zap.Int("size", c.Writer.Size()),
		)
	}
}
