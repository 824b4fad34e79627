// Package chat реализует учебного ассистента на ключевых словах: таблицу
// заготовленных ответов, сопоставитель и сессию с историей сообщений.
package chat

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed responses.yaml
var responsesYAML []byte

//go:embed quick.yaml
var quickYAML []byte

// ErrInvalidTable — таблица ответов не прошла проверку при загрузке.
var ErrInvalidTable = errors.New("invalid response table")

// Entry — пара "ключевое слово -> ответ".
type Entry struct {
	Keyword  string `yaml:"keyword"`
	Response string `yaml:"response"`
}

// Topic — запасная тема: срабатывает, если во входе есть любая из подсказок.
type Topic struct {
	Name     string   `yaml:"name"`
	Hints    []string `yaml:"hints"`
	Response string   `yaml:"response"`
}

type tableFile struct {
	Welcome  string  `yaml:"welcome"`
	Keywords []Entry `yaml:"keywords"`
	Topics   []Topic `yaml:"topics"`
	Default  string  `yaml:"default"`
}

// Table — неизменяемая упорядоченная таблица ответов.
// Порядок записей совпадает с порядком объявления в исходном YAML.
type Table struct {
	welcome  string
	entries  []Entry
	topics   []Topic
	fallback string
}

// LoadTable разбирает и проверяет YAML-описание таблицы.
// Ключевые слова и подсказки приводятся к нижнему регистру.
func LoadTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if strings.TrimSpace(f.Default) == "" {
		return nil, fmt.Errorf("%w: empty default response", ErrInvalidTable)
	}

	t := &Table{
		welcome:  f.Welcome,
		entries:  make([]Entry, 0, len(f.Keywords)),
		topics:   make([]Topic, 0, len(f.Topics)),
		fallback: f.Default,
	}
	seen := make(map[string]struct{}, len(f.Keywords))
	for i, e := range f.Keywords {
		kw := strings.ToLower(e.Keyword)
		if strings.TrimSpace(kw) == "" {
			return nil, fmt.Errorf("%w: keyword #%d is empty", ErrInvalidTable, i)
		}
		if strings.TrimSpace(e.Response) == "" {
			return nil, fmt.Errorf("%w: keyword %q has empty response", ErrInvalidTable, kw)
		}
		if _, dup := seen[kw]; dup {
			return nil, fmt.Errorf("%w: duplicate keyword %q", ErrInvalidTable, kw)
		}
		seen[kw] = struct{}{}
		t.entries = append(t.entries, Entry{Keyword: kw, Response: e.Response})
	}
	for _, tp := range f.Topics {
		if len(tp.Hints) == 0 || strings.TrimSpace(tp.Response) == "" {
			return nil, fmt.Errorf("%w: topic %q needs hints and a response", ErrInvalidTable, tp.Name)
		}
		hints := make([]string, 0, len(tp.Hints))
		for _, h := range tp.Hints {
			h = strings.ToLower(h)
			if strings.TrimSpace(h) == "" {
				return nil, fmt.Errorf("%w: topic %q has an empty hint", ErrInvalidTable, tp.Name)
			}
			hints = append(hints, h)
		}
		t.topics = append(t.topics, Topic{Name: tp.Name, Hints: hints, Response: tp.Response})
	}
	return t, nil
}

func mustLoad(data []byte) *Table {
	t, err := LoadTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	defaultTable = mustLoad(responsesYAML)
	quickTable   = mustLoad(quickYAML)
)

// DefaultTable — серверная таблица ответов.
func DefaultTable() *Table { return defaultTable }

// QuickTable — сокращённая таблица для офлайн-режима клиента.
func QuickTable() *Table { return quickTable }

// Welcome возвращает текст приветственного системного сообщения.
func (t *Table) Welcome() string { return t.welcome }

// Default возвращает ответ по умолчанию.
func (t *Table) Default() string { return t.fallback }

// Entries возвращает копию записей в порядке проверки.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Keywords возвращает ключевые слова в порядке проверки.
func (t *Table) Keywords() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Keyword)
	}
	return out
}
