// Package memory — документное хранилище в памяти процесса. Записи хранятся
// как документы по сгенерированным id, содержимое конспектов — JSON-блобом.
package memory

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"gorm.io/datatypes"
)

// collection — документы одного вида в порядке вставки.
type collection[T any] struct {
	docs  map[string]*T
	order []string
}

func newCollection[T any]() collection[T] {
	return collection[T]{docs: make(map[string]*T)}
}

func (c *collection[T]) put(id string, v *T) {
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = v
}

// filter возвращает копии документов, подходящих под условие, в порядке вставки.
func (c *collection[T]) filter(match func(*T) bool) []T {
	out := make([]T, 0)
	for _, id := range c.order {
		if d := c.docs[id]; match(d) {
			out = append(out, *d)
		}
	}
	return out
}

// noteDoc — конспект в виде документа: content хранится как есть, без схемы.
type noteDoc struct {
	note    model.Note
	content json.RawMessage
}

// Storage реализует repo.Storage в памяти.
type Storage struct {
	mu sync.RWMutex

	users      collection[model.User]
	usernames  map[string]string
	documents  collection[model.Document]
	notes      collection[noteDoc]
	decks      collection[model.FlashcardDeck]
	flashcards collection[model.Flashcard]
	threads    collection[model.ThreadPost]

	deckLocks repo.KeyedMutex
}

var _ repo.Storage = (*Storage)(nil)

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:      newCollection[model.User](),
		usernames:  make(map[string]string),
		documents:  newCollection[model.Document](),
		notes:      newCollection[noteDoc](),
		decks:      newCollection[model.FlashcardDeck](),
		flashcards: newCollection[model.Flashcard](),
		threads:    newCollection[model.ThreadPost](),
	}
}

// Close ничего не освобождает.
func (s *Storage) Close() error { return nil }

// byTime сортирует по хронологическому полю, при равенстве — по id.
func byTime[T any](items []T, at func(*T) time.Time, id func(*T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := at(&a).Compare(at(&b)); c != 0 {
			return c
		}
		return cmp.Compare(id(&a), id(&b))
	})
}

// ---- users ----

func (s *Storage) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users.docs[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	id, ok := s.usernames[username]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.GetUser(ctx, id)
}

func (s *Storage) ListUsersByXP(ctx context.Context, limit int) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	users := s.users.filter(func(*model.User) bool { return true })
	s.mu.RUnlock()

	slices.SortStableFunc(users, func(a, b model.User) int {
		if a.XP != b.XP {
			return cmp.Compare(b.XP, a.XP)
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := repo.NewUser(*user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernames[u.Username]; taken {
		return nil, fmt.Errorf("%w: username %q", repo.ErrDuplicate, u.Username)
	}
	s.users.put(u.ID, &u)
	s.usernames[u.Username] = u.ID
	cp := u
	return &cp, nil
}

func (s *Storage) UpdateUserXP(ctx context.Context, id string, xp int) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", repo.ErrNotFound, id)
	}
	u.XP = xp
	cp := *u
	return &cp, nil
}

// ---- documents ----

func (s *Storage) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.documents.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (s *Storage) ListDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	docs := s.documents.filter(func(d *model.Document) bool { return d.UserID == userID })
	s.mu.RUnlock()
	byTime(docs,
		func(d *model.Document) time.Time { return d.UploadedAt },
		func(d *model.Document) string { return d.ID })
	return docs, nil
}

func (s *Storage) CreateDocument(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := repo.NewDocument(*doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.docs[d.UserID]; !ok {
		return nil, fmt.Errorf("%w: user %s", repo.ErrReference, d.UserID)
	}
	s.documents.put(d.ID, &d)
	cp := d
	return &cp, nil
}

func (s *Storage) UpdateDocumentStatus(ctx context.Context, id string, status string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", repo.ErrNotFound, id)
	}
	d.Status = status
	cp := *d
	return &cp, nil
}

// ---- notes ----

func (nd *noteDoc) decode() (model.Note, error) {
	n := nd.note
	var content model.NoteContent
	if err := json.Unmarshal(nd.content, &content); err != nil {
		return model.Note{}, fmt.Errorf("%w: note %s: %v", repo.ErrUnavailable, n.ID, err)
	}
	n.Content = datatypes.NewJSONType(content)
	if n.DocumentID != nil {
		id := *n.DocumentID
		n.DocumentID = &id
	}
	return n, nil
}

func (s *Storage) GetNote(ctx context.Context, id string) (*model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	nd, ok := s.notes.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	n, err := nd.decode()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Storage) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	docs := s.notes.filter(func(nd *noteDoc) bool { return nd.note.UserID == userID })
	s.mu.RUnlock()

	notes := make([]model.Note, 0, len(docs))
	for i := range docs {
		n, err := docs[i].decode()
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	byTime(notes,
		func(n *model.Note) time.Time { return n.Date },
		func(n *model.Note) string { return n.ID })
	return notes, nil
}

func (s *Storage) CreateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := repo.NewNote(*note)
	raw, err := json.Marshal(n.Content.Data())
	if err != nil {
		return nil, fmt.Errorf("%w: encode note content: %v", repo.ErrUnavailable, err)
	}
	if n.DocumentID != nil {
		id := *n.DocumentID
		n.DocumentID = &id
	}

	s.mu.Lock()
	if _, ok := s.users.docs[n.UserID]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: user %s", repo.ErrReference, n.UserID)
	}
	if n.DocumentID != nil {
		if _, ok := s.documents.docs[*n.DocumentID]; !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: document %s", repo.ErrReference, *n.DocumentID)
		}
	}
	stored := n
	stored.Content = datatypes.JSONType[model.NoteContent]{}
	s.notes.put(n.ID, &noteDoc{note: stored, content: raw})
	s.mu.Unlock()

	nd := noteDoc{note: stored, content: raw}
	out, err := nd.decode()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- decks ----

func (s *Storage) GetFlashcardDeck(ctx context.Context, id string) (*model.FlashcardDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.decks.docs[id]; ok {
		return copyDeck(d), nil
	}
	return nil, nil
}

func copyDeck(d *model.FlashcardDeck) *model.FlashcardDeck {
	cp := *d
	if d.LastStudied != nil {
		t := *d.LastStudied
		cp.LastStudied = &t
	}
	return &cp
}

func (s *Storage) ListFlashcardDecks(ctx context.Context, userID string) ([]model.FlashcardDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	decks := make([]model.FlashcardDeck, 0)
	for _, id := range s.decks.order {
		if d := s.decks.docs[id]; d.UserID == userID {
			decks = append(decks, *copyDeck(d))
		}
	}
	s.mu.RUnlock()
	byTime(decks,
		func(d *model.FlashcardDeck) time.Time { return d.CreatedAt },
		func(d *model.FlashcardDeck) string { return d.ID })
	return decks, nil
}

func (s *Storage) CreateFlashcardDeck(ctx context.Context, deck *model.FlashcardDeck) (*model.FlashcardDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := repo.NewFlashcardDeck(*deck)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.docs[d.UserID]; !ok {
		return nil, fmt.Errorf("%w: user %s", repo.ErrReference, d.UserID)
	}
	s.decks.put(d.ID, &d)
	return copyDeck(&d), nil
}

func (s *Storage) UpdateFlashcardDeckMastery(ctx context.Context, id string, masteryPercentage int) (*model.FlashcardDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := repo.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: deck %s", repo.ErrNotFound, id)
	}
	d.MasteryPercentage = masteryPercentage
	d.LastStudied = &now
	return copyDeck(d), nil
}

// ---- flashcards ----

func (s *Storage) GetFlashcard(ctx context.Context, id string) (*model.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.flashcards.docs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *Storage) ListFlashcards(ctx context.Context, deckID string) ([]model.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	cards := s.flashcards.filter(func(c *model.Flashcard) bool { return c.DeckID == deckID })
	s.mu.RUnlock()
	byTime(cards,
		func(c *model.Flashcard) time.Time { return c.CreatedAt },
		func(c *model.Flashcard) string { return c.ID })
	return cards, nil
}

// CreateFlashcard вставляет карточку, затем под блокировкой колоды заново
// считает её карточки и записывает cardCount.
func (s *Storage) CreateFlashcard(ctx context.Context, card *model.Flashcard) (*model.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := repo.NewFlashcard(*card)

	unlock := s.deckLocks.Lock(c.DeckID)
	defer unlock()

	s.mu.Lock()
	if _, ok := s.decks.docs[c.DeckID]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: deck %s", repo.ErrReference, c.DeckID)
	}
	s.flashcards.put(c.ID, &c)
	s.mu.Unlock()

	s.mu.RLock()
	count := 0
	for _, other := range s.flashcards.docs {
		if other.DeckID == c.DeckID {
			count++
		}
	}
	s.mu.RUnlock()

	s.mu.Lock()
	s.decks.docs[c.DeckID].CardCount = count
	s.mu.Unlock()

	cp := c
	return &cp, nil
}

// ---- threads ----

func (s *Storage) GetThreadPost(ctx context.Context, id string) (*model.ThreadPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.threads.docs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *Storage) ListThreadPosts(ctx context.Context) ([]model.ThreadPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	posts := s.threads.filter(func(*model.ThreadPost) bool { return true })
	s.mu.RUnlock()
	byTime(posts,
		func(p *model.ThreadPost) time.Time { return p.PostedAt },
		func(p *model.ThreadPost) string { return p.ID })
	return posts, nil
}

func (s *Storage) CreateThreadPost(ctx context.Context, post *model.ThreadPost) (*model.ThreadPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := repo.NewThreadPost(*post)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.docs[p.UserID]; !ok {
		return nil, fmt.Errorf("%w: user %s", repo.ErrReference, p.UserID)
	}
	s.threads.put(p.ID, &p)
	cp := p
	return &cp, nil
}

func (s *Storage) UpdateThreadReplyCount(ctx context.Context, id string, count int) (*model.ThreadPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.threads.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: thread %s", repo.ErrNotFound, id)
	}
	p.ReplyCount = count
	cp := *p
	return &cp, nil
}
