package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/core/cache"
	"user-account-api/internal/domain"
	mdw "user-account-api/internal/transport/http/middleware"
	resp "user-account-api/internal/transport/http/response"
	"user-account-api/pkg/utils"
)

const listCacheTTL = 30 * time.Second

type AdminHandler struct {
	users domain.UserRepository
	cache *cache.Cache
	log   *zap.Logger
}

func NewAdminHandler(users domain.UserRepository, ch *cache.Cache, l *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, cache: ch, log: l}
}

// ListActive GET /admins
func (h *AdminHandler) ListActive(c *gin.Context) {
	list, err := cache.GetOrLoadJSON(h.cache, c.Request.Context(), CacheKeyActiveUsers, listCacheTTL,
		h.users.ListActive)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListDeleted GET /admins/deleted
func (h *AdminHandler) ListDeleted(c *gin.Context) {
	list, err := cache.GetOrLoadJSON(h.cache, c.Request.Context(), CacheKeyDeletedUsers, listCacheTTL,
		h.users.ListDeleted)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// 管理端只允许改姓名，邮箱/密码/角色不动
type adminUpdateIn struct {
	FirstName  *string `json:"first_name"  binding:"omitempty,max=50"`
	LastName   *string `json:"last_name"   binding:"omitempty,max=50"`
	MiddleName *string `json:"middle_name" binding:"omitempty,max=50"`
}

// UpdateByID PUT /admins/:id
func (h *AdminHandler) UpdateByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var in adminUpdateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, err.Error())
		return
	}

	// 软删账号也能改，所以这里按 id 查而不是按活跃状态
	if _, err := h.users.FindByID(c.Request.Context(), id); err != nil {
		resp.FromError(c, err)
		return
	}

	fields := map[string]any{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.MiddleName != nil {
		fields["middle_name"] = *in.MiddleName
	}
	if err := h.users.UpdateFields(c.Request.Context(), id, fields); err != nil {
		resp.FromError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), CacheKeyActiveUsers, CacheKeyDeletedUsers)
	resp.Message(c, "changes saved")
}

// DeleteByID DELETE /admins/:id：强制下线，先复核管理员自己的密码
func (h *AdminHandler) DeleteByID(c *gin.Context) {
	admin := mdw.CurrentAccount(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var in passwordIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !utils.CheckPassword(in.Password, admin.PasswordHash) {
		resp.Detail(c, http.StatusForbidden, "invalid password")
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !u.IsActive) {
		// 已软删的账号不能再删一次
		resp.Detail(c, http.StatusNotFound, "account is deleted or does not exist")
		return
	}
	if err != nil {
		resp.FromError(c, err)
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), id); err != nil {
		resp.FromError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), CacheKeyActiveUsers, CacheKeyDeletedUsers)
	h.log.Info("user deactivated by admin",
		zap.Int64("id", id), zap.Int64("admin_id", admin.ID))
	resp.Message(c, "account deleted")
}
