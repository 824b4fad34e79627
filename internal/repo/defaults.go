package repo

import (
	"StudySync/internal/model"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Обе реализации хранилища проставляют id и значения по умолчанию через
// функции ниже, чтобы внешнее поведение совпадало.

var clock struct {
	sync.Mutex
	last time.Time
}

// Now возвращает текущее время в UTC с точностью до микросекунд (столько
// хранит Postgres). Значения строго возрастают в пределах процесса, поэтому
// порядок по времени совпадает с порядком вставки.
func Now() time.Time {
	clock.Lock()
	defer clock.Unlock()
	t := time.Now().UTC().Truncate(time.Microsecond)
	if !t.After(clock.last) {
		t = clock.last.Add(time.Microsecond)
	}
	clock.last = t
	return t
}

// Timestamp нормализует время к UTC/микросекундам; нулевое заменяется Now().
func Timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return Now()
	}
	return t.UTC().Truncate(time.Microsecond)
}

func NewUser(in model.User) model.User {
	in.ID = uuid.NewString()
	if in.Avatar == "" {
		in.Avatar = model.DefaultAvatar
	}
	in.XP = 0
	in.CreatedAt = Timestamp(in.CreatedAt)
	return in
}

func NewDocument(in model.Document) model.Document {
	in.ID = uuid.NewString()
	in.User = nil
	if in.Icon == "" {
		in.Icon = model.IconFor(in.Type)
	}
	if in.Pages < 0 {
		in.Pages = 0
	}
	if in.Status == "" {
		in.Status = model.StatusProcessing
	}
	in.UploadedAt = Timestamp(in.UploadedAt)
	return in
}

func NewNote(in model.Note) model.Note {
	in.ID = uuid.NewString()
	in.User, in.Document = nil, nil
	if in.DocumentID != nil && *in.DocumentID == "" {
		in.DocumentID = nil
	}
	in.Date = Timestamp(in.Date)
	return in
}

func NewFlashcardDeck(in model.FlashcardDeck) model.FlashcardDeck {
	in.ID = uuid.NewString()
	in.User = nil
	if in.Icon == "" {
		in.Icon = model.DefaultDeckIcon
	}
	if in.IconBg == "" {
		in.IconBg = model.DefaultDeckIconBg
	}
	if in.IconColor == "" {
		in.IconColor = model.DefaultDeckIconColor
	}
	if in.StatusColor == "" {
		in.StatusColor = model.DefaultDeckStatusColor
	}
	in.CardCount = 0
	in.MasteryPercentage = 0
	in.LastStudied = nil
	in.CreatedAt = Timestamp(in.CreatedAt)
	return in
}

func NewFlashcard(in model.Flashcard) model.Flashcard {
	in.ID = uuid.NewString()
	in.Deck = nil
	in.CreatedAt = Timestamp(in.CreatedAt)
	return in
}

func NewThreadPost(in model.ThreadPost) model.ThreadPost {
	in.ID = uuid.NewString()
	in.User = nil
	if in.ReplyCount < 0 {
		in.ReplyCount = 0
	}
	in.PostedAt = Timestamp(in.PostedAt)
	return in
}
