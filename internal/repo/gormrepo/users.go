package gormrepo

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория пользователей.
func NewUserRepository(db *gorm.DB) repo.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*model.User, error) {
	return first[model.User](ctx, r.db, id)
}

// GetUserByUsername возвращает (nil, nil), если пользователя нет.
func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (r *userRepo) ListUsersByXP(ctx context.Context, limit int) ([]model.User, error) {
	users := make([]model.User, 0)
	q := r.db.WithContext(ctx).Order("xp DESC").Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, wrapErr(err)
	}
	return users, nil
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	u := repo.NewUser(*user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: username %q", repo.ErrDuplicate, u.Username)
		}
		return tx.Create(&u).Error
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (r *userRepo) UpdateUserXP(ctx context.Context, id string, xp int) (*model.User, error) {
	return updateOne[model.User](ctx, r.db, id, map[string]any{"xp": xp})
}
