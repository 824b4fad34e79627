package service

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// XPPerDocument — награда за обработку документа.
const XPPerDocument = 50

// DocumentStore — то, что DocumentService нужно от хранилища.
type DocumentStore interface {
	repo.DocumentRepository
	repo.NoteRepository
}

// DocumentService — загрузка документов и генерация "умных" конспектов.
type DocumentService struct {
	store  DocumentStore
	users  *UserService
	logger *zap.SugaredLogger

	processLocks repo.KeyedMutex
}

func NewDocumentService(store DocumentStore, users *UserService, logger *zap.SugaredLogger) *DocumentService {
	return &DocumentService{store: store, users: users, logger: logger}
}

// UploadInput — метаданные загружаемого документа.
type UploadInput struct {
	Title string
	Type  string
	Pages int
}

// Upload регистрирует документ в статусе Processing.
func (s *DocumentService) Upload(ctx context.Context, userID string, in UploadInput) (*model.Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if !model.ValidDocumentType(in.Type) {
		return nil, validationf("unsupported document type %q", in.Type)
	}
	if in.Pages < 0 {
		return nil, validationf("pages must be non-negative")
	}
	return s.store.CreateDocument(ctx, &model.Document{
		UserID: userID,
		Title:  title,
		Type:   in.Type,
		Icon:   model.IconFor(in.Type),
		Pages:  in.Pages,
		Status: model.StatusProcessing,
	})
}

// Process создаёт по документу конспект, переводит документ в Processed и
// начисляет XP. Конспект пишется раньше статуса: после сбоя повторный вызов
// переиспользует уже созданный конспект. Завершённая обработка не повторяется.
func (s *DocumentService) Process(ctx context.Context, userID, docID string) (*model.Document, *model.Note, error) {
	unlock := s.processLocks.Lock(docID)
	defer unlock()

	doc, err := s.ownedDocument(ctx, userID, docID)
	if err != nil {
		return nil, nil, err
	}
	note, err := s.noteFor(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	if doc.Status == model.StatusProcessed && note != nil {
		return nil, nil, validationf("document %s is already processed", docID)
	}

	if note == nil {
		generated := GenerateNote(doc)
		if note, err = s.store.CreateNote(ctx, &generated); err != nil {
			return nil, nil, err
		}
	}
	if doc.Status != model.StatusProcessed {
		if doc, err = s.store.UpdateDocumentStatus(ctx, doc.ID, model.StatusProcessed); err != nil {
			return nil, nil, err
		}
	}

	if _, err := s.users.AddXP(ctx, userID, XPPerDocument); err != nil {
		// конспект уже создан, XP не критичен
		s.logger.Warnw("Process: failed to award XP", "user_id", userID, "error", err)
	}
	s.logger.Infow("Document processed", "user_id", userID, "document_id", doc.ID, "note_id", note.ID)
	return doc, note, nil
}

// noteFor ищет конспект, уже созданный по документу.
func (s *DocumentService) noteFor(ctx context.Context, doc *model.Document) (*model.Note, error) {
	notes, err := s.store.ListNotes(ctx, doc.UserID)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].DocumentID != nil && *notes[i].DocumentID == doc.ID {
			return &notes[i], nil
		}
	}
	return nil, nil
}

func (s *DocumentService) ownedDocument(ctx context.Context, userID, docID string) (*model.Document, error) {
	doc, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.UserID != userID {
		return nil, fmt.Errorf("%w: document %s", repo.ErrNotFound, docID)
	}
	return doc, nil
}

// List возвращает документы пользователя по времени загрузки.
func (s *DocumentService) List(ctx context.Context, userID string) ([]model.Document, error) {
	return s.store.ListDocuments(ctx, userID)
}

// Notes возвращает конспекты пользователя по дате.
func (s *DocumentService) Notes(ctx context.Context, userID string) ([]model.Note, error) {
	return s.store.ListNotes(ctx, userID)
}

// Note возвращает конспект пользователя; чужой или отсутствующий — repo.ErrNotFound.
func (s *DocumentService) Note(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil || note.UserID != userID {
		return nil, fmt.Errorf("%w: note %s", repo.ErrNotFound, noteID)
	}
	return note, nil
}

// GenerateNote строит заготовленный конспект по документу.
func GenerateNote(doc *model.Document) model.Note {
	title := doc.Title
	if !strings.Contains(title, ":") {
		title += ": Key Concepts"
	}
	keyPoints := make([]model.KeyPoint, 0, 4)
	for i := 1; i <= 4; i++ {
		keyPoints = append(keyPoints, model.KeyPoint{
			Title:       fmt.Sprintf("Key Point %d:", i),
			Description: fmt.Sprintf("Generated description of key point %d", i),
		})
	}
	docID := doc.ID
	return model.Note{
		UserID:     doc.UserID,
		DocumentID: &docID,
		Title:      title,
		Source:     doc.Title,
		Content: datatypes.NewJSONType(model.NoteContent{
			KeyPoints: keyPoints,
			Sections: []model.Section{{
				Title:   "Summary",
				Content: "This is an AI-generated summary of the key concepts in this document.",
			}},
		}),
	}
}
