package handlers

import (
	"StudySync/internal/middleware"
	"StudySync/internal/model"
	"StudySync/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudyHandler — документы, конспекты, колоды и карточки текущего пользователя.
type StudyHandler struct {
	DocumentService *service.DocumentService
	DeckService     *service.DeckService
	UserService     *service.UserService
	Logger          *zap.SugaredLogger
}

func NewStudyHandler(
	documentService *service.DocumentService,
	deckService *service.DeckService,
	userService *service.UserService,
	logger *zap.SugaredLogger,
) *StudyHandler {
	return &StudyHandler{
		DocumentService: documentService,
		DeckService:     deckService,
		UserService:     userService,
		Logger:          logger,
	}
}

type UploadDocumentRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Pages int    `json:"pages"`
}

type ProcessDocumentResponse struct {
	Document *model.Document `json:"document"`
	Note     *model.Note     `json:"note"`
}

type CreateDeckRequest struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	IconBg      string `json:"iconBg"`
	IconColor   string `json:"iconColor"`
	StatusColor string `json:"statusColor"`
}

type CreateCardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// StudyResultRequest — итог сессии повторения.
type StudyResultRequest struct {
	Known int `json:"known"`
	Total int `json:"total"`
}

// userID доступен всем маршрутам за RequireAuth.
func userID(r *http.Request) string {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

func (h *StudyHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.DocumentService.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.Logger, "ListDocuments", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *StudyHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	var req UploadDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "UploadDocument", err)
		return
	}
	doc, err := h.DocumentService.Upload(r.Context(), userID(r), service.UploadInput{
		Title: req.Title,
		Type:  req.Type,
		Pages: req.Pages,
	})
	if err != nil {
		writeError(w, r, h.Logger, "UploadDocument", err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// ProcessDocument завершает обработку документа и возвращает созданный конспект.
func (h *StudyHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	doc, note, err := h.DocumentService.Process(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, "ProcessDocument", err)
		return
	}
	writeJSON(w, http.StatusOK, ProcessDocumentResponse{Document: doc, Note: note})
}

func (h *StudyHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.DocumentService.Notes(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.Logger, "ListNotes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *StudyHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.DocumentService.Note(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, "GetNote", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *StudyHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.DeckService.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, h.Logger, "ListDecks", err)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (h *StudyHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "CreateDeck", err)
		return
	}
	deck, err := h.DeckService.Create(r.Context(), userID(r), service.DeckInput{
		Title:       req.Title,
		Icon:        req.Icon,
		IconBg:      req.IconBg,
		IconColor:   req.IconColor,
		StatusColor: req.StatusColor,
	})
	if err != nil {
		writeError(w, r, h.Logger, "CreateDeck", err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

// FinishStudy сохраняет итог повторения колоды и возвращает колоду вместе с обновлённым пользователем.
func (h *StudyHandler) FinishStudy(w http.ResponseWriter, r *http.Request) {
	var req StudyResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "FinishStudy", err)
		return
	}
	uid := userID(r)
	deck, err := h.DeckService.FinishStudy(r.Context(), uid, chi.URLParam(r, "id"), req.Known, req.Total)
	if err != nil {
		writeError(w, r, h.Logger, "FinishStudy", err)
		return
	}
	user, err := h.UserService.Get(r.Context(), uid)
	if err != nil {
		writeError(w, r, h.Logger, "FinishStudy", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deck": deck, "user": user})
}

// deckID проверяет формат id колоды из пути.
func deckID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "deckId")
	if _, err := uuid.Parse(id); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid deck ID")
		return "", false
	}
	return id, true
}

func (h *StudyHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	id, ok := deckID(w, r)
	if !ok {
		return
	}
	cards, err := h.DeckService.Cards(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, h.Logger, "ListCards", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *StudyHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := deckID(w, r)
	if !ok {
		return
	}
	var req CreateCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "CreateCard", err)
		return
	}
	card, err := h.DeckService.AddCard(r.Context(), userID(r), id, req.Question, req.Answer)
	if err != nil {
		writeError(w, r, h.Logger, "CreateCard", err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}
