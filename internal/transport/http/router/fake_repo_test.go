package router_test

import (
	"context"
	"sort"
	"sync"

	"user-account-api/internal/domain"
)

// 内存版仓储，行为对齐 gorm 实现：
// 邮箱唯一约束是全局的（不分活跃状态），查活跃邮箱只看 is_active=true
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, users: map[int64]*domain.User{}}
}

// add 测试用：直接塞一条记录进去
func (f *fakeRepo) add(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	cp := u
	f.users[cp.ID] = &cp
	return &cp
}

func (f *fakeRepo) get(id int64) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.users[id]
}

func (f *fakeRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.users {
		if e.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.users[cp.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) FindActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) ListActive(_ context.Context) ([]domain.User, error) {
	return f.list(true), nil
}

func (f *fakeRepo) ListDeleted(_ context.Context) ([]domain.User, error) {
	return f.list(false), nil
}

func (f *fakeRepo) list(active bool) []domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if u.IsActive == active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepo) UpdateFields(_ context.Context, id int64, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil // gorm 的 Updates 更新 0 行不报错
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "first_name":
			u.FirstName = s
		case "last_name":
			u.LastName = s
		case "middle_name":
			u.MiddleName = s
		case "email":
			for _, e := range f.users {
				if e.ID != id && e.Email == s {
					return domain.ErrEmailTaken
				}
			}
			u.Email = s
		case "password_hash":
			u.PasswordHash = s
		}
	}
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsActive = false
	}
	return nil
}
