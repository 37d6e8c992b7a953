package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/store"
)

type UserRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.store.Set(ctx, user.StorePath(), user)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	found, err := r.store.Get(ctx, "users/"+id, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

// GetByEmail 按邮箱等值扫描查找用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	matches, err := r.store.QueryByField(ctx, "users", "email", email)
	if err != nil {
		return nil, err
	}
	for _, raw := range matches {
		var user model.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		return &user, nil
	}
	return nil, store.ErrNotFound
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	matches, err := r.store.QueryByField(ctx, "users", "username", username)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	matches, err := r.store.QueryByField(ctx, "users", "email", email)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.store.Update(ctx, "users/"+id, fields)
}

// GuardedUpdate 对单个用户文档做条件写；fn 返回的业务错误原样透传
func (r *UserRepository) GuardedUpdate(ctx context.Context, id string, fn func(user *model.User) error) error {
	return r.store.GuardedUpdate(ctx, "users/"+id, func(raw []byte) ([]byte, error) {
		var user model.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		if err := fn(&user); err != nil {
			return nil, err
		}
		return json.Marshal(&user)
	})
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*model.User, error) {
	all, err := r.store.List(ctx, "users")
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(all))
	for _, raw := range all {
		var user model.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user: %w", err)
		}
		users = append(users, &user)
	}
	return users, nil
}
