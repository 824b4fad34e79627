package gormrepo

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"

	"gorm.io/gorm"
)

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepository создаёт реализацию репозитория документов.
func NewDocumentRepository(db *gorm.DB) repo.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	return first[model.Document](ctx, r.db, id)
}

func (r *documentRepo) ListDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	docs := make([]model.Document, 0)
	if !validID(userID) {
		return docs, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at ASC").Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return docs, nil
}

func (r *documentRepo) CreateDocument(ctx context.Context, doc *model.Document) (*model.Document, error) {
	d := repo.NewDocument(*doc)
	if err := createOwned[model.User](ctx, r.db, d.UserID, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) UpdateDocumentStatus(ctx context.Context, id string, status string) (*model.Document, error) {
	return updateOne[model.Document](ctx, r.db, id, map[string]any{"status": status})
}
