package handlers

import (
	"StudySync/internal/chat"
	"StudySync/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Тексты ошибок чата, которые ждёт веб-клиент.
const (
	msgMessageRequired = "Message is required"
	msgChatFailed      = "Failed to process your request"
)

// ChatHandler — ассистент по учёбе.
type ChatHandler struct {
	ChatService *service.ChatService
	Logger      *zap.SugaredLogger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{ChatService: chatService, Logger: logger}
}

// ChatRequest — сообщение пользователя; history принимается, но не используется.
type ChatRequest struct {
	Message *string         `json:"message"`
	History json.RawMessage `json:"history,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// Chat отвечает на сообщение заготовленным ответом.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.Errorw("Chat: panic", "panic", rec)
			writeErrorMessage(w, http.StatusInternalServerError, msgChatFailed)
		}
	}()

	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		writeErrorMessage(w, http.StatusBadRequest, msgMessageRequired)
		return
	}

	reply, err := h.ChatService.Reply(r.Context(), *req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) || statusFor(err) == http.StatusBadRequest {
			writeErrorMessage(w, http.StatusBadRequest, msgMessageRequired)
			return
		}
		h.Logger.Errorw("Chat: reply failed", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, msgChatFailed)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// Status сообщает о доступности ассистента.
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ChatService.Status())
}
