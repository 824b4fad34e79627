package gormrepo

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepository создаёт реализацию репозитория конспектов.
func NewNoteRepository(db *gorm.DB) repo.NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) GetNote(ctx context.Context, id string) (*model.Note, error) {
	return first[model.Note](ctx, r.db, id)
}

func (r *noteRepo) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	notes := make([]model.Note, 0)
	if !validID(userID) {
		return notes, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}}).Order("id ASC").
		Find(&notes).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return notes, nil
}

// CreateNote проверяет владельца и, если задан, документ-источник.
func (r *noteRepo) CreateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	n := repo.NewNote(*note)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists[model.User](tx, n.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: user %s", repo.ErrReference, n.UserID)
		}
		if n.DocumentID != nil {
			ok, err := exists[model.Document](tx, *n.DocumentID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: document %s", repo.ErrReference, *n.DocumentID)
			}
		}
		return tx.Create(&n).Error
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &n, nil
}
