package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"user-account-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && isDupKey(err) {
		// 并发注册撞唯一索引 → 当作邮箱冲突，不是 500
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ? AND is_active = ?", email, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.listByActive(ctx, true)
}

func (r *UserRepo) ListDeleted(ctx context.Context) ([]domain.User, error) {
	return r.listByActive(ctx, false)
}

func (r *UserRepo) listByActive(ctx context.Context, active bool) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", active).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateFields 局部更新，fields 的 key 用列名（snake_case）
func (r *UserRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil && isDupKey(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 不同驱动的报错文案不一致，按字符串兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
