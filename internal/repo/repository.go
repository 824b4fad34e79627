// Package repo описывает контракт хранилища StudySync: шесть семейств сущностей,
// у каждого чтение по id, выборка по родителю, создание и одно узкое обновление.
//
// Чтение по id отсутствующей записи возвращает (nil, nil). Узкое обновление
// отсутствующей записи возвращает ErrNotFound. Выборки по родителю
// упорядочены по хронологическому полю и никогда не возвращают nil.
package repo

import (
	"StudySync/internal/model"
	"context"
)

// UserRepository — доступ к пользователям.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// ListUsersByXP возвращает до limit пользователей по убыванию XP.
	ListUsersByXP(ctx context.Context, limit int) ([]model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserXP(ctx context.Context, id string, xp int) (*model.User, error)
}

// DocumentRepository — доступ к загруженным документам.
type DocumentRepository interface {
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// ListDocuments — документы пользователя по возрастанию uploadedAt.
	ListDocuments(ctx context.Context, userID string) ([]model.Document, error)
	CreateDocument(ctx context.Context, doc *model.Document) (*model.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status string) (*model.Document, error)
}

// NoteRepository — доступ к конспектам.
type NoteRepository interface {
	GetNote(ctx context.Context, id string) (*model.Note, error)
	// ListNotes — конспекты пользователя по возрастанию date.
	ListNotes(ctx context.Context, userID string) ([]model.Note, error)
	CreateNote(ctx context.Context, note *model.Note) (*model.Note, error)
}

// FlashcardDeckRepository — доступ к колодам.
type FlashcardDeckRepository interface {
	GetFlashcardDeck(ctx context.Context, id string) (*model.FlashcardDeck, error)
	// ListFlashcardDecks — колоды пользователя в порядке создания.
	ListFlashcardDecks(ctx context.Context, userID string) ([]model.FlashcardDeck, error)
	CreateFlashcardDeck(ctx context.Context, deck *model.FlashcardDeck) (*model.FlashcardDeck, error)
	// UpdateFlashcardDeckMastery выставляет процент освоения и lastStudied = now.
	UpdateFlashcardDeckMastery(ctx context.Context, id string, masteryPercentage int) (*model.FlashcardDeck, error)
}

// FlashcardRepository — доступ к карточкам.
type FlashcardRepository interface {
	GetFlashcard(ctx context.Context, id string) (*model.Flashcard, error)
	// ListFlashcards — карточки колоды в порядке создания.
	ListFlashcards(ctx context.Context, deckID string) ([]model.Flashcard, error)
	// CreateFlashcard добавляет карточку и пересчитывает cardCount колоды.
	// Пересчёт сериализован по колоде.
	CreateFlashcard(ctx context.Context, card *model.Flashcard) (*model.Flashcard, error)
}

// ThreadPostRepository — доступ к темам форума.
type ThreadPostRepository interface {
	GetThreadPost(ctx context.Context, id string) (*model.ThreadPost, error)
	// ListThreadPosts — все темы по возрастанию postedAt.
	ListThreadPosts(ctx context.Context) ([]model.ThreadPost, error)
	CreateThreadPost(ctx context.Context, post *model.ThreadPost) (*model.ThreadPost, error)
	UpdateThreadReplyCount(ctx context.Context, id string, count int) (*model.ThreadPost, error)
}

// Storage — полный набор возможностей хранилища. Реализации взаимозаменяемы,
// выбор делается один раз при старте процесса.
type Storage interface {
	UserRepository
	DocumentRepository
	NoteRepository
	FlashcardDeckRepository
	FlashcardRepository
	ThreadPostRepository

	Close() error
}
