package service

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// XPPerKnownCard — награда за каждую карточку, отмеченную как выученная.
const XPPerKnownCard = 10

// DeckStore — то, что DeckService нужно от хранилища.
type DeckStore interface {
	repo.FlashcardDeckRepository
	repo.FlashcardRepository
}

// DeckService — колоды, карточки и итоги сессий повторения.
type DeckService struct {
	store  DeckStore
	users  *UserService
	logger *zap.SugaredLogger
}

func NewDeckService(store DeckStore, users *UserService, logger *zap.SugaredLogger) *DeckService {
	return &DeckService{store: store, users: users, logger: logger}
}

// DeckInput — поля новой колоды; пустое оформление заменяется значениями по умолчанию.
type DeckInput struct {
	Title       string
	Icon        string
	IconBg      string
	IconColor   string
	StatusColor string
}

func (s *DeckService) Create(ctx context.Context, userID string, in DeckInput) (*model.FlashcardDeck, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	return s.store.CreateFlashcardDeck(ctx, &model.FlashcardDeck{
		UserID:      userID,
		Title:       title,
		Icon:        in.Icon,
		IconBg:      in.IconBg,
		IconColor:   in.IconColor,
		StatusColor: in.StatusColor,
	})
}

func (s *DeckService) List(ctx context.Context, userID string) ([]model.FlashcardDeck, error) {
	return s.store.ListFlashcardDecks(ctx, userID)
}

// Get возвращает колоду пользователя; чужая или отсутствующая — repo.ErrNotFound.
func (s *DeckService) Get(ctx context.Context, userID, deckID string) (*model.FlashcardDeck, error) {
	deck, err := s.store.GetFlashcardDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil || deck.UserID != userID {
		return nil, fmt.Errorf("%w: deck %s", repo.ErrNotFound, deckID)
	}
	return deck, nil
}

// AddCard добавляет карточку в колоду пользователя.
func (s *DeckService) AddCard(ctx context.Context, userID, deckID, question, answer string) (*model.Flashcard, error) {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, validationf("question and answer are required")
	}
	if _, err := s.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.store.CreateFlashcard(ctx, &model.Flashcard{DeckID: deckID, Question: question, Answer: answer})
}

// Cards возвращает карточки колоды пользователя в порядке создания.
func (s *DeckService) Cards(ctx context.Context, userID, deckID string) ([]model.Flashcard, error) {
	if _, err := s.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.store.ListFlashcards(ctx, deckID)
}

// Mastery переводит результат сессии в процент освоения 0..100.
func Mastery(known, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(known) / float64(total)))
	return min(100, max(0, pct))
}

// FinishStudy сохраняет итог сессии повторения: процент освоения, время
// последнего повторения и XP за выученные карточки. Сбой начисления XP
// только логируется.
func (s *DeckService) FinishStudy(ctx context.Context, userID, deckID string, known, total int) (*model.FlashcardDeck, error) {
	if total <= 0 || known < 0 || known > total {
		return nil, validationf("known must be within 0..total and total positive (got %d/%d)", known, total)
	}
	if _, err := s.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	deck, err := s.store.UpdateFlashcardDeckMastery(ctx, deckID, Mastery(known, total))
	if err != nil {
		return nil, err
	}
	if known > 0 {
		if _, err := s.users.AddXP(ctx, userID, known*XPPerKnownCard); err != nil {
			// итог сессии уже сохранён, XP не критичен
			s.logger.Warnw("FinishStudy: failed to award XP", "user_id", userID, "deck_id", deckID, "error", err)
		}
	}
	return deck, nil
}
