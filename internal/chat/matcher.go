package chat

import (
	"context"
	"strings"
)

// Responder выдаёт ответ ассистента на сообщение пользователя.
// Matcher отвечает локально, клиент CLI может отвечать через сервер.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Matcher сопоставляет текст с таблицей ответов. Без состояния, безопасен
// для конкурентного использования.
type Matcher struct {
	table *Table
}

// NewMatcher создаёт сопоставитель поверх таблицы. nil означает DefaultTable.
func NewMatcher(t *Table) *Matcher {
	if t == nil {
		t = DefaultTable()
	}
	return &Matcher{table: t}
}

// Table возвращает таблицу, с которой работает сопоставитель.
func (m *Matcher) Table() *Table { return m.table }

// Match возвращает ответ для первого ключевого слова, входящего в текст как
// подстрока (после приведения к нижнему регистру). Если ключевых слов нет,
// проверяются запасные темы, затем возвращается ответ по умолчанию.
func (m *Matcher) Match(input string) string {
	msg := strings.ToLower(input)

	for _, e := range m.table.entries {
		if strings.Contains(msg, e.Keyword) {
			return e.Response
		}
	}
	for _, tp := range m.table.topics {
		for _, h := range tp.Hints {
			if strings.Contains(msg, h) {
				return tp.Response
			}
		}
	}
	return m.table.fallback
}

// Respond реализует Responder. Никогда не возвращает ошибку.
func (m *Matcher) Respond(_ context.Context, message string) (string, error) {
	return m.Match(message), nil
}
