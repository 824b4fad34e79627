package gormrepo

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deckRepo struct {
	db *gorm.DB
}

// NewFlashcardDeckRepository создаёт реализацию репозитория колод.
func NewFlashcardDeckRepository(db *gorm.DB) repo.FlashcardDeckRepository {
	return &deckRepo{db: db}
}

func (r *deckRepo) GetFlashcardDeck(ctx context.Context, id string) (*model.FlashcardDeck, error) {
	return first[model.FlashcardDeck](ctx, r.db, id)
}

func (r *deckRepo) ListFlashcardDecks(ctx context.Context, userID string) ([]model.FlashcardDeck, error) {
	decks := make([]model.FlashcardDeck, 0)
	if !validID(userID) {
		return decks, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&decks).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return decks, nil
}

func (r *deckRepo) CreateFlashcardDeck(ctx context.Context, deck *model.FlashcardDeck) (*model.FlashcardDeck, error) {
	d := repo.NewFlashcardDeck(*deck)
	if err := createOwned[model.User](ctx, r.db, d.UserID, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deckRepo) UpdateFlashcardDeckMastery(ctx context.Context, id string, masteryPercentage int) (*model.FlashcardDeck, error) {
	now := repo.Now()
	return updateOne[model.FlashcardDeck](ctx, r.db, id, map[string]any{
		"mastery_percentage": masteryPercentage,
		"last_studied":       &now,
	})
}

type flashcardRepo struct {
	db *gorm.DB
	// пересчёт cardCount сериализуется по колоде и внутри процесса
	deckLocks repo.KeyedMutex
}

// NewFlashcardRepository создаёт реализацию репозитория карточек.
func NewFlashcardRepository(db *gorm.DB) repo.FlashcardRepository {
	return &flashcardRepo{db: db}
}

func (r *flashcardRepo) GetFlashcard(ctx context.Context, id string) (*model.Flashcard, error) {
	return first[model.Flashcard](ctx, r.db, id)
}

func (r *flashcardRepo) ListFlashcards(ctx context.Context, deckID string) ([]model.Flashcard, error) {
	cards := make([]model.Flashcard, 0)
	if !validID(deckID) {
		return cards, nil
	}
	err := r.db.WithContext(ctx).
		Where("deck_id = ?", deckID).
		Order("created_at ASC").Order("id ASC").
		Find(&cards).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return cards, nil
}

// CreateFlashcard вставляет карточку и пересчитывает cardCount колоды в одной
// транзакции. Строка колоды блокируется SELECT ... FOR UPDATE (между
// процессами, в Postgres), внутри процесса дополнительно держится мьютекс колоды.
func (r *flashcardRepo) CreateFlashcard(ctx context.Context, card *model.Flashcard) (*model.Flashcard, error) {
	c := repo.NewFlashcard(*card)
	if !validID(c.DeckID) {
		return nil, fmt.Errorf("%w: deck %s", repo.ErrReference, c.DeckID)
	}

	unlock := r.deckLocks.Lock(c.DeckID)
	defer unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deck model.FlashcardDeck
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", c.DeckID).Take(&deck).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: deck %s", repo.ErrReference, c.DeckID)
		}
		if err != nil {
			return err
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Flashcard{}).Where("deck_id = ?", c.DeckID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&model.FlashcardDeck{}).Where("id = ?", c.DeckID).Update("card_count", count).Error
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &c, nil
}
