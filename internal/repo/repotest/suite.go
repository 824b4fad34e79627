// Package repotest содержит общий набор тестов контракта repo.Storage.
// Каждая реализация хранилища прогоняет его из своего _test.go.
package repotest

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// Factory возвращает новое пустое хранилище для одного теста.
type Factory func(t *testing.T) repo.Storage

// Run прогоняет весь набор тестов контракта.
func Run(t *testing.T, newStorage Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStorage(t)) })
	t.Run("Documents", func(t *testing.T) { testDocuments(t, newStorage(t)) })
	t.Run("Notes", func(t *testing.T) { testNotes(t, newStorage(t)) })
	t.Run("Decks", func(t *testing.T) { testDecks(t, newStorage(t)) })
	t.Run("Flashcards", func(t *testing.T) { testFlashcards(t, newStorage(t)) })
	t.Run("ConcurrentFlashcards", func(t *testing.T) { testConcurrentFlashcards(t, newStorage(t)) })
	t.Run("Threads", func(t *testing.T) { testThreads(t, newStorage(t)) })
}

func mkUser(t *testing.T, s repo.Storage, name string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &model.User{Username: name, Email: name + "@example.com", Password: "hash"})
	require.NoError(t, err)
	return u
}

func mkDeck(t *testing.T, s repo.Storage, userID, title string) *model.FlashcardDeck {
	t.Helper()
	d, err := s.CreateFlashcardDeck(context.Background(), &model.FlashcardDeck{UserID: userID, Title: title})
	require.NoError(t, err)
	return d
}

func testUsers(t *testing.T, s repo.Storage) {
	ctx := context.Background()

	u := mkUser(t, s, "alice")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 0, u.XP)
	assert.Equal(t, model.DefaultAvatar, u.Avatar)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hash", got.Password)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	// отсутствие — нормальный результат
	missing, err := s.GetUser(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = s.GetUserByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.CreateUser(ctx, &model.User{Username: "alice", Email: "x@example.com", Password: "p"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	updated, err := s.UpdateUserXP(ctx, u.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.XP)

	_, err = s.UpdateUserXP(ctx, uuid.NewString(), 10)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	bob := mkUser(t, s, "bob")
	_, err = s.UpdateUserXP(ctx, bob.ID, 300)
	require.NoError(t, err)
	mkUser(t, s, "carol")

	top, err := s.ListUsersByXP(ctx, 2)
	require.NoError(t, err)
	if assert.Len(t, top, 2) {
		assert.Equal(t, "bob", top[0].Username)
		assert.Equal(t, "alice", top[1].Username)
	}
}

func testDocuments(t *testing.T, s repo.Storage) {
	ctx := context.Background()
	u := mkUser(t, s, "doc-owner")
	other := mkUser(t, s, "doc-other")

	_, err := s.CreateDocument(ctx, &model.Document{UserID: uuid.NewString(), Title: "orphan", Type: model.DocumentPDF})
	assert.ErrorIs(t, err, repo.ErrReference)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	// вставляем не по порядку, выборка должна быть отсортирована по uploadedAt
	for i, off := range []int{2, 0, 1} {
		_, err := s.CreateDocument(ctx, &model.Document{
			UserID:     u.ID,
			Title:      fmt.Sprintf("doc-%d", off),
			Type:       model.DocumentPDF,
			Pages:      10 + i,
			UploadedAt: base.Add(time.Duration(off) * time.Hour),
		})
		require.NoError(t, err)
	}

	docs, err := s.ListDocuments(ctx, u.ID)
	require.NoError(t, err)
	if assert.Len(t, docs, 3) {
		for i := range docs {
			assert.Equal(t, fmt.Sprintf("doc-%d", i), docs[i].Title)
			assert.Equal(t, model.StatusProcessing, docs[i].Status)
			assert.Equal(t, "file-pdf", docs[i].Icon)
		}
		assert.True(t, docs[0].UploadedAt.Equal(base))
	}

	empty, err := s.ListDocuments(ctx, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	d := docs[0]
	processed, err := s.UpdateDocumentStatus(ctx, d.ID, model.StatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, processed.Status)
	assert.Equal(t, d.Title, processed.Title)

	got, err := s.GetDocument(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusProcessed, got.Status)

	_, err = s.UpdateDocumentStatus(ctx, "missing-id", model.StatusProcessed)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	after, err := s.ListDocuments(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, after, 3, "неудачное обновление не должно создавать записей")

	none, err := s.GetDocument(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func testNotes(t *testing.T, s repo.Storage) {
	ctx := context.Background()
	u := mkUser(t, s, "note-owner")
	doc, err := s.CreateDocument(ctx, &model.Document{UserID: u.ID, Title: "Physics", Type: model.DocumentText})
	require.NoError(t, err)

	content := model.NoteContent{
		KeyPoints: []model.KeyPoint{{Title: "Newton", Description: "F = ma"}, {Title: "Energy", Description: "E = mc²"}},
		Sections:  []model.Section{{Title: "Summary", Content: "Mechanics basics"}},
	}
	later := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-24 * time.Hour)

	second, err := s.CreateNote(ctx, &model.Note{
		UserID: u.ID, DocumentID: &doc.ID, Title: "second", Source: "Physics",
		Content: datatypes.NewJSONType(content), Date: later,
	})
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, &model.Note{
		UserID: u.ID, Title: "first", Source: "manual",
		Content: datatypes.NewJSONType(model.NoteContent{}), Date: earlier,
	})
	require.NoError(t, err)

	missingDoc := uuid.NewString()
	_, err = s.CreateNote(ctx, &model.Note{UserID: u.ID, DocumentID: &missingDoc, Title: "x", Source: "x"})
	assert.ErrorIs(t, err, repo.ErrReference)
	_, err = s.CreateNote(ctx, &model.Note{UserID: uuid.NewString(), Title: "x", Source: "x"})
	assert.ErrorIs(t, err, repo.ErrReference)

	notes, err := s.ListNotes(ctx, u.ID)
	require.NoError(t, err)
	if assert.Len(t, notes, 2) {
		assert.Equal(t, "first", notes[0].Title)
		assert.Nil(t, notes[0].DocumentID)
		assert.Equal(t, "second", notes[1].Title)
	}

	got, err := s.GetNote(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.DocumentID)
	assert.Equal(t, doc.ID, *got.DocumentID)
	assert.Equal(t, content, got.Content.Data())

	none, err := s.ListNotes(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testDecks(t *testing.T, s repo.Storage) {
	ctx := context.Background()
	u := mkUser(t, s, "deck-owner")

	_, err := s.CreateFlashcardDeck(ctx, &model.FlashcardDeck{UserID: uuid.NewString(), Title: "orphan"})
	assert.ErrorIs(t, err, repo.ErrReference)

	d := mkDeck(t, s, u.ID, "Biology")
	assert.Equal(t, model.DefaultDeckIcon, d.Icon)
	assert.Equal(t, model.DefaultDeckIconBg, d.IconBg)
	assert.Equal(t, model.DefaultDeckIconColor, d.IconColor)
	assert.Equal(t, model.DefaultDeckStatusColor, d.StatusColor)
	assert.Equal(t, 0, d.CardCount)
	assert.Equal(t, 0, d.MasteryPercentage)
	assert.Nil(t, d.LastStudied)

	custom, err := s.CreateFlashcardDeck(ctx, &model.FlashcardDeck{UserID: u.ID, Title: "Chemistry", Icon: "flask", IconBg: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, "flask", custom.Icon)
	assert.Equal(t, "#000000", custom.IconBg)

	decks, err := s.ListFlashcardDecks(ctx, u.ID)
	require.NoError(t, err)
	if assert.Len(t, decks, 2) {
		assert.Equal(t, "Biology", decks[0].Title)
		assert.Equal(t, "Chemistry", decks[1].Title)
	}

	before := time.Now().Add(-time.Second)
	studied, err := s.UpdateFlashcardDeckMastery(ctx, d.ID, 80)
	require.NoError(t, err)
	assert.Equal(t, 80, studied.MasteryPercentage)
	require.NotNil(t, studied.LastStudied)
	assert.True(t, studied.LastStudied.After(before))

	got, err := s.GetFlashcardDeck(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 80, got.MasteryPercentage)
	require.NotNil(t, got.LastStudied)

	_, err = s.UpdateFlashcardDeckMastery(ctx, uuid.NewString(), 50)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	none, err := s.GetFlashcardDeck(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func testFlashcards(t *testing.T, s repo.Storage) {
	ctx := context.Background()
	u := mkUser(t, s, "card-owner")
	d := mkDeck(t, s, u.ID, "History")

	_, err := s.CreateFlashcard(ctx, &model.Flashcard{DeckID: uuid.NewString(), Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, repo.ErrReference)

	const n = 5
	var firstID string
	for i := 0; i < n; i++ {
		c, err := s.CreateFlashcard(ctx, &model.Flashcard{
			DeckID:   d.ID,
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		})
		require.NoError(t, err)
		if i == 0 {
			firstID = c.ID
		}
	}

	deck, err := s.GetFlashcardDeck(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, deck)
	assert.Equal(t, n, deck.CardCount)

	cards, err := s.ListFlashcards(ctx, d.ID)
	require.NoError(t, err)
	if assert.Len(t, cards, n) {
		for i := range cards {
			assert.Equal(t, fmt.Sprintf("q%d", i), cards[i].Question)
			assert.Equal(t, d.ID, cards[i].DeckID)
		}
	}

	card, err := s.GetFlashcard(ctx, firstID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, "a0", card.Answer)

	empty := mkDeck(t, s, u.ID, "Empty")
	none, err := s.ListFlashcards(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testConcurrentFlashcards(t *testing.T, s repo.Storage) {
	ctx := context.Background()
	u := mkUser(t, s, "racer")
	d := mkDeck(t, s, u.ID, "Race")
	other := mkDeck(t, s, u.ID, "Other")

	const n = 20
	var g errgroup.Group
	for i := 0; i < n; i++ {
		deckID := d.ID
		if i%4 == 0 {
			deckID = other.ID
		}
		g.Go(func() error {
			_, err := s.CreateFlashcard(ctx, &model.Flashcard{DeckID: deckID, Question: fmt.Sprintf("q%d", i), Answer: "a"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := s.GetFlashcardDeck(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, n-n/4, got.CardCount)

	gotOther, err := s.GetFlashcardDeck(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, gotOther)
	assert.Equal(t, n/4, gotOther.CardCount)

	cards, err := s.ListFlashcards(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, cards, got.CardCount)
}

func testThreads(t *testing.T, s repo.Storage) {
	ctx := context.Background()
	alice := mkUser(t, s, "poster-a")
	bob := mkUser(t, s, "poster-b")

	_, err := s.CreateThreadPost(ctx, &model.ThreadPost{UserID: uuid.NewString(), Category: "Math", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, repo.ErrReference)

	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	late, err := s.CreateThreadPost(ctx, &model.ThreadPost{
		UserID: bob.ID, Category: "Science", Subcategory: "Physics", Title: "late", Content: "c",
		IsGroupForming: true, Author: model.ThreadAuthor{Name: bob.Username, Avatar: bob.Avatar},
		PostedAt: base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = s.CreateThreadPost(ctx, &model.ThreadPost{
		UserID: alice.ID, Category: "Math", Title: "early", Content: "c",
		Author: model.ThreadAuthor{Name: alice.Username, Avatar: alice.Avatar}, PostedAt: base,
	})
	require.NoError(t, err)

	posts, err := s.ListThreadPosts(ctx)
	require.NoError(t, err)
	if assert.Len(t, posts, 2) {
		assert.Equal(t, "early", posts[0].Title)
		assert.Equal(t, "late", posts[1].Title)
		assert.Equal(t, 0, posts[1].ReplyCount)
		assert.True(t, posts[1].IsGroupForming)
		assert.False(t, posts[1].IsHot)
		assert.Equal(t, "Physics", posts[1].Subcategory)
		assert.Equal(t, "poster-b", posts[1].Author.Name)
	}

	updated, err := s.UpdateThreadReplyCount(ctx, late.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.ReplyCount)

	got, err := s.GetThreadPost(ctx, late.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.ReplyCount)

	_, err = s.UpdateThreadReplyCount(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	none, err := s.GetThreadPost(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, none)
}
