package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-account-api/internal/domain"
)

// 成功消息统一 {"message": ...}，错误统一 {"detail": ...}
// 状态码走真实 HTTP 语义，不包 code/msg/data 信封

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func Detail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func AbortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// AbortBearer 凭据类 401，带 WWW-Authenticate 头
func AbortBearer(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// FromError 领域错误 → 状态码 的唯一映射点
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		Detail(c, http.StatusConflict, domain.ErrEmailTaken.Error())
	case errors.Is(err, domain.ErrNotFound):
		Detail(c, http.StatusNotFound, domain.ErrNotFound.Error())
	default:
		// 存储层故障不区分瞬时/永久，一律 500
		Detail(c, http.StatusInternalServerError, "internal server error")
	}
}
