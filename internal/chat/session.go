package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Role — роль автора сообщения.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	// ErrEmptyMessage — пустое сообщение или одни пробелы.
	ErrEmptyMessage = errors.New("message is required")
	// ErrBusy — предыдущий ответ ещё не получен.
	ErrBusy = errors.New("previous message is still being answered")
)

// Message — запись в истории переписки.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session хранит историю одной переписки с ассистентом.
// Начинается с одного системного сообщения; каждое принятое сообщение
// пользователя добавляет ровно одно сообщение user и одно assistant.
type Session struct {
	mu        sync.Mutex
	messages  []Message
	pending   bool
	gen       int // растёт при каждом Clear
	welcome   string
	responder Responder
	now       func() time.Time
}

// NewSession создаёт сессию с приветствием welcome.
func NewSession(welcome string, r Responder) *Session {
	s := &Session{welcome: welcome, responder: r, now: time.Now}
	s.messages = []Message{s.systemMessage()}
	return s
}

func (s *Session) systemMessage() Message {
	return Message{Role: RoleSystem, Content: s.welcome, Timestamp: s.now()}
}

// Submit добавляет сообщение пользователя и ответ ассистента.
// Пустой ввод отклоняется без изменения истории. Если ответчик вернул
// ошибку, сообщение пользователя убирается из истории.
func (s *Session) Submit(ctx context.Context, input string) (Message, error) {
	if strings.TrimSpace(input) == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.pending = true
	s.messages = append(s.messages, Message{Role: RoleUser, Content: input, Timestamp: s.now()})
	userIdx, gen := len(s.messages)-1, s.gen
	s.mu.Unlock()

	reply, err := s.responder.Respond(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	cleared := gen != s.gen
	if err != nil {
		if !cleared {
			s.messages = s.messages[:userIdx]
		}
		return Message{}, err
	}
	msg := Message{Role: RoleAssistant, Content: reply, Timestamp: s.now()}
	// после Clear ответ на старый вопрос в историю не попадает
	if !cleared {
		s.messages = append(s.messages, msg)
	}
	return msg, nil
}

// Clear сбрасывает историю к одному свежему системному сообщению.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.messages = []Message{s.systemMessage()}
}

// Messages возвращает копию истории.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending сообщает, ждёт ли сессия ответа.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
