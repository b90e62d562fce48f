package domain

import (
	"context"
	"errors"
	"time"
)

// Role 只有两档："user" / "admin"，admin 是 user 的超集
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool   { return r == RoleUser || r == RoleAdmin }
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User 唯一的持久化实体（表 users）
// 软删只翻 is_active，不用 gorm.DeletedAt：删除的账号仍要能被管理端查到
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"size:50;not null" json:"first_name"`
	LastName     string    `gorm:"size:50;not null" json:"last_name"`
	MiddleName   string    `gorm:"size:50;not null" json:"middle_name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:user" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// 仓储层统一的错误口径，handler 只认这几个
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindActiveByEmail 只查 is_active=true 的记录。
	// 注册查重也走这里：软删账号的邮箱可以被重新注册（沿用既有策略）
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context) ([]User, error)
	ListDeleted(ctx context.Context) ([]User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Deactivate(ctx context.Context, id int64) error
}
