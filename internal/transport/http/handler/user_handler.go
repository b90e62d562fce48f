package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-api/internal/core/auth"
	"user-account-api/internal/core/cache"
	"user-account-api/internal/domain"
	mdw "user-account-api/internal/transport/http/middleware"
	resp "user-account-api/internal/transport/http/response"
	"user-account-api/pkg/utils"
)

// 管理端列表的缓存 key，所有写路径都要一起失效
const (
	CacheKeyActiveUsers  = "users:active"
	CacheKeyDeletedUsers = "users:deleted"
)

type UserHandler struct {
	users domain.UserRepository
	jwter *auth.JWTer
	cache *cache.Cache
	log   *zap.Logger
}

func NewUserHandler(users domain.UserRepository, jwter *auth.JWTer, ch *cache.Cache, l *zap.Logger) *UserHandler {
	return &UserHandler{users: users, jwter: jwter, cache: ch, log: l}
}

type createUserIn struct {
	FirstName    string      `json:"first_name"    binding:"required,max=50"`
	LastName     string      `json:"last_name"     binding:"required,max=50"`
	MiddleName   string      `json:"middle_name"   binding:"required,max=50"`
	Email        string      `json:"email"         binding:"required,email,max=250"`
	Password     string      `json:"password"      binding:"required,min=4"`
	VerfPassword string      `json:"verf_password" binding:"required,min=4"`
	Role         domain.Role `json:"role"          binding:"omitempty,oneof=user admin"`
}

// Register POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var in createUserIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, err.Error())
		return
	}

	// 查重只看活跃账号：软删账号的邮箱允许重新注册
	if _, err := h.users.FindActiveByEmail(c.Request.Context(), in.Email); err == nil {
		resp.Detail(c, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		resp.FromError(c, err)
		return
	}

	if in.Password != in.VerfPassword {
		resp.Detail(c, http.StatusUnauthorized, "passwords do not match")
		return
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	u := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		MiddleName:   in.MiddleName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		// 并发注册同邮箱：唯一索引兜底，第二个请求拿 409
		resp.FromError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), CacheKeyActiveUsers)
	h.log.Info("user registered", zap.Int64("id", u.ID))
	c.JSON(http.StatusCreated, u)
}

// Login POST /users/token（OAuth2 风格表单：username + password）
func (h *UserHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	u, err := h.users.FindActiveByEmail(c.Request.Context(), email)
	if err != nil || !utils.CheckPassword(password, u.PasswordHash) {
		// 查无此人和密码错误给同一个响应，软删账号表现得像不存在
		resp.AbortBearer(c, "incorrect email or password")
		return
	}

	access, err := h.jwter.IssueAccess(u)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	refresh, err := h.jwter.IssueRefresh(u)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

type refreshIn struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// Refresh POST /users/refresh-token：refresh token 换新 access token。
// 换发前要确认 sub 对应的账号还存在且活跃
func (h *UserHandler) Refresh(c *gin.Context) {
	var in refreshIn
	_ = c.ShouldBindJSON(&in)
	if in.RefreshToken == "" {
		in.RefreshToken = c.Query("refresh_token")
	}

	claims, err := h.jwter.Parse(in.RefreshToken)
	if err != nil {
		resp.AbortBearer(c, "could not validate refresh token")
		return
	}
	u, err := h.users.FindActiveByEmail(c.Request.Context(), claims.Subject)
	if err != nil {
		resp.AbortBearer(c, "could not validate refresh token")
		return
	}

	access, err := h.jwter.IssueAccess(u)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": access,
		"token_type":   "bearer",
	})
}

type updateSelfIn struct {
	FirstName  *string `json:"first_name"  binding:"omitempty,max=50"`
	LastName   *string `json:"last_name"   binding:"omitempty,max=50"`
	MiddleName *string `json:"middle_name" binding:"omitempty,max=50"`
	Email      *string `json:"email"       binding:"omitempty,email,max=250"`
	Password   *string `json:"password"    binding:"omitempty,min=4"`
}

// UpdateMe PUT /users/me：只更新传了的字段，密码重新哈希
func (h *UserHandler) UpdateMe(c *gin.Context) {
	u := mdw.CurrentAccount(c)

	var in updateSelfIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, err.Error())
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
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			resp.FromError(c, err)
			return
		}
		fields["password_hash"] = hash
	}

	if err := h.users.UpdateFields(c.Request.Context(), u.ID, fields); err != nil {
		resp.FromError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), CacheKeyActiveUsers)
	resp.Message(c, "your account has been updated")
}

type passwordIn struct {
	Password string `json:"password" binding:"required,min=4"`
}

// DeleteMe DELETE /users：自助软删，先复核密码
func (h *UserHandler) DeleteMe(c *gin.Context) {
	u := mdw.CurrentAccount(c)

	var in passwordIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		resp.Detail(c, http.StatusForbidden, "invalid password")
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), u.ID); err != nil {
		resp.FromError(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), CacheKeyActiveUsers, CacheKeyDeletedUsers)
	h.log.Info("user deactivated self", zap.Int64("id", u.ID))
	resp.Message(c, "account deleted")
}
