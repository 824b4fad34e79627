package handlers

import (
	"StudySync/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ThreadHandler — форум сообщества.
type ThreadHandler struct {
	ThreadService *service.ThreadService
	Logger        *zap.SugaredLogger
}

func NewThreadHandler(threadService *service.ThreadService, logger *zap.SugaredLogger) *ThreadHandler {
	return &ThreadHandler{ThreadService: threadService, Logger: logger}
}

type CreateThreadRequest struct {
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	IsGroupForming bool   `json:"isGroupForming"`
}

func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.ThreadService.List(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, "ListThreads", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.ThreadService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, "GetThread", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateThreadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "CreateThread", err)
		return
	}
	post, err := h.ThreadService.Create(r.Context(), userID(r), service.ThreadInput{
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		Title:          req.Title,
		Content:        req.Content,
		IsGroupForming: req.IsGroupForming,
	})
	if err != nil {
		writeError(w, r, h.Logger, "CreateThread", err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Reply учитывает новый ответ в теме.
func (h *ThreadHandler) Reply(w http.ResponseWriter, r *http.Request) {
	post, err := h.ThreadService.Reply(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, "ReplyThread", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
