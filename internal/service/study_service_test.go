package service

import (
	"StudySync/internal/chat"
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"StudySync/internal/repo/memory"
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type services struct {
	store   *memory.Storage
	users   *UserService
	docs    *DocumentService
	decks   *DeckService
	threads *ThreadService
}

func newServices(t *testing.T) services {
	t.Helper()
	store := memory.New()
	users := NewUserService(store)
	return services{
		store:   store,
		users:   users,
		docs:    NewDocumentService(store, users, zap.NewNop().Sugar()),
		decks:   NewDeckService(store, users, zap.NewNop().Sugar()),
		threads: NewThreadService(store, users),
	}
}

func (s services) register(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := s.users.Register(context.Background(), name, name+"@example.com", "secret")
	require.NoError(t, err)
	return u
}

func TestDocumentService_UploadAndProcess(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	u := s.register(t, "alice")

	doc, err := s.docs.Upload(ctx, u.ID, UploadInput{Title: "Cell Biology", Type: model.DocumentPDF, Pages: 12})
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, doc.Status)
	assert.Equal(t, "file-pdf", doc.Icon)

	processed, note, err := s.docs.Process(ctx, u.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, processed.Status)
	assert.Equal(t, "Cell Biology: Key Concepts", note.Title)
	assert.Equal(t, "Cell Biology", note.Source)
	require.NotNil(t, note.DocumentID)
	assert.Equal(t, doc.ID, *note.DocumentID)
	assert.Len(t, note.Content.Data().KeyPoints, 4)
	assert.Equal(t, "Summary", note.Content.Data().Sections[0].Title)

	// переход Processing -> Processed только один раз
	_, _, err = s.docs.Process(ctx, u.ID, doc.ID)
	assert.ErrorIs(t, err, ErrValidation)

	notes, err := s.docs.Notes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	got, err := s.docs.Note(ctx, u.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)

	user, err := s.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, XPPerDocument, user.XP)
}

// flakyStore отказывает на выбранных операциях записи, пока флаг поднят.
type flakyStore struct {
	*memory.Storage
	failNote   atomic.Bool
	failStatus atomic.Bool
	failXP     atomic.Bool
}

func (f *flakyStore) CreateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	if f.failNote.Load() {
		return nil, fmt.Errorf("%w: notes table locked", repo.ErrUnavailable)
	}
	return f.Storage.CreateNote(ctx, note)
}

func (f *flakyStore) UpdateDocumentStatus(ctx context.Context, id, status string) (*model.Document, error) {
	if f.failStatus.Load() {
		return nil, fmt.Errorf("%w: documents table locked", repo.ErrUnavailable)
	}
	return f.Storage.UpdateDocumentStatus(ctx, id, status)
}

func (f *flakyStore) UpdateUserXP(ctx context.Context, id string, xp int) (*model.User, error) {
	if f.failXP.Load() {
		return nil, fmt.Errorf("%w: users table locked", repo.ErrUnavailable)
	}
	return f.Storage.UpdateUserXP(ctx, id, xp)
}

func newFlakyServices(t *testing.T) (*flakyStore, services) {
	t.Helper()
	store := &flakyStore{Storage: memory.New()}
	users := NewUserService(store)
	return store, services{
		store: store.Storage,
		users: users,
		docs:  NewDocumentService(store, users, zap.NewNop().Sugar()),
		decks: NewDeckService(store, users, zap.NewNop().Sugar()),
	}
}

func TestDocumentService_ProcessRetryAfterNoteFailure(t *testing.T) {
	ctx := context.Background()
	store, s := newFlakyServices(t)
	u := s.register(t, "alice")
	doc, err := s.docs.Upload(ctx, u.ID, UploadInput{Title: "Genetics", Type: model.DocumentPDF})
	require.NoError(t, err)

	store.failNote.Store(true)
	_, _, err = s.docs.Process(ctx, u.ID, doc.ID)
	require.ErrorIs(t, err, repo.ErrUnavailable)

	// документ остаётся необработанным и без конспекта
	docs, err := s.docs.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, docs[0].Status)
	notes, err := s.docs.Notes(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	store.failNote.Store(false)
	processed, note, err := s.docs.Process(ctx, u.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, processed.Status)
	assert.Equal(t, doc.ID, *note.DocumentID)

	_, _, err = s.docs.Process(ctx, u.ID, doc.ID)
	assert.ErrorIs(t, err, ErrValidation)

	notes, err = s.docs.Notes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	user, err := s.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, XPPerDocument, user.XP)
}

func TestDocumentService_ProcessReusesNoteAfterStatusFailure(t *testing.T) {
	ctx := context.Background()
	store, s := newFlakyServices(t)
	u := s.register(t, "bob")
	doc, err := s.docs.Upload(ctx, u.ID, UploadInput{Title: "Optics", Type: model.DocumentText})
	require.NoError(t, err)

	store.failStatus.Store(true)
	_, _, err = s.docs.Process(ctx, u.ID, doc.ID)
	require.ErrorIs(t, err, repo.ErrUnavailable)
	notes, err := s.docs.Notes(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	store.failStatus.Store(false)
	processed, note, err := s.docs.Process(ctx, u.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, processed.Status)
	assert.Equal(t, notes[0].ID, note.ID, "existing note is reused")

	notes, err = s.docs.Notes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestDocumentService_ProcessedWithoutNote(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	u := s.register(t, "carol")
	doc, err := s.docs.Upload(ctx, u.ID, UploadInput{Title: "Algebra", Type: model.DocumentText})
	require.NoError(t, err)
	_, err = s.store.UpdateDocumentStatus(ctx, doc.ID, model.StatusProcessed)
	require.NoError(t, err)

	_, note, err := s.docs.Process(ctx, u.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, *note.DocumentID)

	_, _, err = s.docs.Process(ctx, u.ID, doc.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeckService_FinishStudyKeepsMasteryWhenXPFails(t *testing.T) {
	ctx := context.Background()
	store, s := newFlakyServices(t)
	u := s.register(t, "dave")
	deck, err := s.decks.Create(ctx, u.ID, DeckInput{Title: "Latin"})
	require.NoError(t, err)
	_, err = s.decks.AddCard(ctx, u.ID, deck.ID, "amo", "I love")
	require.NoError(t, err)

	store.failXP.Store(true)
	studied, err := s.decks.FinishStudy(ctx, u.ID, deck.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, studied.MasteryPercentage)

	store.failXP.Store(false)
	user, err := s.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, user.XP)
}

func TestDocumentService_OwnershipAndValidation(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	_, err := s.docs.Upload(ctx, alice.ID, UploadInput{Title: " ", Type: model.DocumentText})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.docs.Upload(ctx, alice.ID, UploadInput{Title: "x", Type: "docx"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.docs.Upload(ctx, alice.ID, UploadInput{Title: "x", Type: model.DocumentText, Pages: -1})
	assert.ErrorIs(t, err, ErrValidation)

	doc, err := s.docs.Upload(ctx, alice.ID, UploadInput{Title: "Physics: Waves", Type: model.DocumentImage})
	require.NoError(t, err)

	_, _, err = s.docs.Process(ctx, bob.ID, doc.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, note, err := s.docs.Process(ctx, alice.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Physics: Waves", note.Title, "title with a colon is kept as is")

	_, err = s.docs.Note(ctx, bob.ID, note.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	bobDocs, err := s.docs.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobDocs)
}

func TestDocumentService_ConcurrentProcessOnce(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	u := s.register(t, "racer")
	doc, err := s.docs.Upload(ctx, u.ID, UploadInput{Title: "History", Type: model.DocumentText})
	require.NoError(t, err)

	var g errgroup.Group
	results := make([]error, 5)
	for i := range results {
		g.Go(func() error {
			_, _, results[i] = s.docs.Process(ctx, u.ID, doc.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrValidation)
		}
	}
	assert.Equal(t, 1, ok)
	notes, err := s.docs.Notes(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestDeckService_StudyFlow(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	u := s.register(t, "student")
	other := s.register(t, "other")

	_, err := s.decks.Create(ctx, u.ID, DeckInput{Title: ""})
	assert.ErrorIs(t, err, ErrValidation)

	deck, err := s.decks.Create(ctx, u.ID, DeckInput{Title: "Chemistry", Icon: "flask"})
	require.NoError(t, err)
	assert.Equal(t, "flask", deck.Icon)
	assert.Equal(t, model.DefaultDeckIconBg, deck.IconBg)

	_, err = s.decks.AddCard(ctx, u.ID, deck.ID, "H2O?", " ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.decks.AddCard(ctx, other.ID, deck.ID, "q", "a")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	for _, q := range []string{"H2O?", "NaCl?", "CO2?"} {
		_, err := s.decks.AddCard(ctx, u.ID, deck.ID, q, "answer")
		require.NoError(t, err)
	}
	cards, err := s.decks.Cards(ctx, u.ID, deck.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
	_, err = s.decks.Cards(ctx, other.ID, deck.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = s.decks.FinishStudy(ctx, u.ID, deck.ID, 4, 3)
	assert.ErrorIs(t, err, ErrValidation)

	studied, err := s.decks.FinishStudy(ctx, u.ID, deck.ID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 67, studied.MasteryPercentage)
	assert.NotNil(t, studied.LastStudied)
	assert.Equal(t, 3, studied.CardCount)

	user, err := s.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2*XPPerKnownCard, user.XP)

	decks, err := s.decks.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, decks, 1)
}

func TestMastery(t *testing.T) {
	tests := []struct{ known, total, want int }{
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 0, 0},
		{5, 4, 100},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mastery(tt.known, tt.total), "%d/%d", tt.known, tt.total)
	}
}

func TestThreadService(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	u := s.register(t, "poster")

	_, err := s.threads.Create(ctx, u.ID, ThreadInput{Category: "Math", Title: "", Content: "c"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.threads.Create(ctx, "ghost", ThreadInput{Category: "Math", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	post, err := s.threads.Create(ctx, u.ID, ThreadInput{
		Category: "Science", Subcategory: "Physics", Title: "Study group", Content: "Anyone?", IsGroupForming: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "poster", post.Author.Name)
	assert.Equal(t, model.DefaultAvatar, post.Author.Avatar)
	assert.True(t, post.IsGroupForming)
	assert.Zero(t, post.ReplyCount)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := s.threads.Reply(ctx, post.ID)
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := s.threads.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ReplyCount)

	_, err = s.threads.Reply(ctx, "missing-id")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	all, err := s.threads.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestChatService(t *testing.T) {
	svc := NewChatService(nil)
	reply, err := svc.Reply(context.Background(), "Explain photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, chat.NewMatcher(nil).Match("photosynthesis"), reply)

	_, err = svc.Reply(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)

	st := svc.Status()
	assert.True(t, st.Available)
	assert.Equal(t, "Rule-based study assistant is active", st.Message)
}
