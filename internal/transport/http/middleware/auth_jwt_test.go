package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-account-api/internal/core/auth"
	"user-account-api/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

// 只按 email 查的桩仓储，够 guard 用
type stubRepo struct {
	users map[string]*domain.User
}

func (s *stubRepo) FindActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.users[email]; ok && u.IsActive {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Create(context.Context, *domain.User) error            { return nil }
func (s *stubRepo) FindByID(context.Context, int64) (*domain.User, error) { return nil, domain.ErrNotFound }
func (s *stubRepo) ListActive(context.Context) ([]domain.User, error)     { return nil, nil }
func (s *stubRepo) ListDeleted(context.Context) ([]domain.User, error)    { return nil, nil }
func (s *stubRepo) UpdateFields(context.Context, int64, map[string]any) error {
	return nil
}
func (s *stubRepo) Deactivate(context.Context, int64) error { return nil }

func guardSetup(t *testing.T) (*gin.Engine, *auth.JWTer, *stubRepo) {
	t.Helper()
	j := &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
	repo := &stubRepo{users: map[string]*domain.User{
		"u@x.com": {ID: 1, Email: "u@x.com", Role: domain.RoleUser, IsActive: true},
		"a@x.com": {ID: 2, Email: "a@x.com", Role: domain.RoleAdmin, IsActive: true},
		"d@x.com": {ID: 3, Email: "d@x.com", Role: domain.RoleUser, IsActive: false},
	}}

	r := gin.New()
	authed := r.Group("", AuthAccount(j, repo))
	authed.GET("/me", func(c *gin.Context) {
		u := CurrentAccount(c)
		require.NotNil(t, u)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	admin := r.Group("/admin", AuthAccount(j, repo), RequireAdmin())
	admin.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	return r, j, repo
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAccount_MissingHeader(t *testing.T) {
	r, _, _ := guardSetup(t)
	w := doGet(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthAccount_InvalidToken(t *testing.T) {
	r, _, _ := guardSetup(t)
	w := doGet(r, "/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAccount_ExpiredToken(t *testing.T) {
	r, j, _ := guardSetup(t)
	expired := &auth.JWTer{Secret: j.Secret, Issuer: j.Issuer, AccessTTL: -5 * time.Minute}
	tok, err := expired.IssueAccess(&domain.User{ID: 1, Email: "u@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	w := doGet(r, "/me", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAccount_UnknownAccount(t *testing.T) {
	r, j, _ := guardSetup(t)
	tok, err := j.IssueAccess(&domain.User{ID: 9, Email: "ghost@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	w := doGet(r, "/me", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAccount_DeactivatedAccount(t *testing.T) {
	r, j, _ := guardSetup(t)
	tok, err := j.IssueAccess(&domain.User{ID: 3, Email: "d@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	w := doGet(r, "/me", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAccount_OK(t *testing.T) {
	r, j, _ := guardSetup(t)
	tok, err := j.IssueAccess(&domain.User{ID: 1, Email: "u@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	w := doGet(r, "/me", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u@x.com")
}

func TestRequireAdmin(t *testing.T) {
	r, j, _ := guardSetup(t)

	userTok, err := j.IssueAccess(&domain.User{ID: 1, Email: "u@x.com", Role: domain.RoleUser})
	require.NoError(t, err)
	adminTok, err := j.IssueAccess(&domain.User{ID: 2, Email: "a@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin/ping", userTok).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin/ping", adminTok).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/admin/ping", "").Code)
}
