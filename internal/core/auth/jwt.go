package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"user-account-api/internal/domain"
)

// ErrInvalidToken 所有校验失败（签名/过期/结构/缺 claim）统一收敛到这一个错误，
// guard 和 refresh 接口不再各自判断
var ErrInvalidToken = errors.New("invalid token")

// Claims：sub 放 email，uid/role 放业务字段
type Claims struct {
	UID  int64  `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration // 短期，单次请求序列
	RefreshTTL time.Duration // 长期，只用来换新 access token
}

// IssueAccess 签发短期 access token
func (j *JWTer) IssueAccess(u *domain.User) (string, error) {
	return j.issue(u, j.AccessTTL)
}

// IssueRefresh 签发长期 refresh token（claims 同 access，只是有效期不同）
func (j *JWTer) IssueRefresh(u *domain.User) (string, error) {
	return j.issue(u, j.RefreshTTL)
}

func (j *JWTer) issue(u *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  u.ID,
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse 校验签名、签发方和有效期；只接受 HS256
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return nil, ErrInvalidToken
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
