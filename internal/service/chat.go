package service

import (
	"StudySync/internal/chat"
	"context"
	"strings"
)

// ChatStatus — ответ на запрос состояния ассистента.
type ChatStatus struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// ChatService отвечает на сообщения через сопоставитель ключевых слов.
type ChatService struct {
	matcher *chat.Matcher
}

func NewChatService(m *chat.Matcher) *ChatService {
	if m == nil {
		m = chat.NewMatcher(nil)
	}
	return &ChatService{matcher: m}
}

// Reply возвращает заготовленный ответ. Пустое сообщение — ErrValidation.
func (s *ChatService) Reply(_ context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", validationf("%v", chat.ErrEmptyMessage)
	}
	return s.matcher.Match(message), nil
}

// Status всегда сообщает, что ассистент доступен.
func (s *ChatService) Status() ChatStatus {
	return ChatStatus{Available: true, Message: "Rule-based study assistant is active"}
}
