package gormrepo

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"

	"gorm.io/gorm"
)

type threadRepo struct {
	db *gorm.DB
}

// NewThreadPostRepository создаёт реализацию репозитория тем форума.
func NewThreadPostRepository(db *gorm.DB) repo.ThreadPostRepository {
	return &threadRepo{db: db}
}

func (r *threadRepo) GetThreadPost(ctx context.Context, id string) (*model.ThreadPost, error) {
	return first[model.ThreadPost](ctx, r.db, id)
}

func (r *threadRepo) ListThreadPosts(ctx context.Context) ([]model.ThreadPost, error) {
	posts := make([]model.ThreadPost, 0)
	err := r.db.WithContext(ctx).Order("posted_at ASC").Order("id ASC").Find(&posts).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return posts, nil
}

func (r *threadRepo) CreateThreadPost(ctx context.Context, post *model.ThreadPost) (*model.ThreadPost, error) {
	p := repo.NewThreadPost(*post)
	if err := createOwned[model.User](ctx, r.db, p.UserID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *threadRepo) UpdateThreadReplyCount(ctx context.Context, id string, count int) (*model.ThreadPost, error) {
	return updateOne[model.ThreadPost](ctx, r.db, id, map[string]any{"reply_count": count})
}
