package model

import "time"

// Оформление колоды по умолчанию.
const (
	DefaultDeckIcon        = "book"
	DefaultDeckIconBg      = "#6366f1"
	DefaultDeckIconColor   = "#ffffff"
	DefaultDeckStatusColor = "#6366f1"
)

// FlashcardDeck — колода карточек пользователя.
type FlashcardDeck struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Icon        string `gorm:"not null" json:"icon"`
	IconBg      string `gorm:"not null" json:"iconBg"`
	IconColor   string `gorm:"not null" json:"iconColor"`
	StatusColor string `gorm:"not null" json:"statusColor"`

	// CardCount пересчитывается при каждом добавлении карточки.
	CardCount         int        `gorm:"not null" json:"cardCount"`
	MasteryPercentage int        `gorm:"not null" json:"masteryPercentage"`
	LastStudied       *time.Time `json:"lastStudied"`

	CreatedAt time.Time `gorm:"not null;index" json:"-"`
}

// Flashcard — карточка "вопрос-ответ".
type Flashcard struct {
	ID     string         `gorm:"primaryKey;type:uuid" json:"id"`
	DeckID string         `gorm:"type:uuid;not null;index" json:"deckId"`
	Deck   *FlashcardDeck `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Question string `gorm:"not null" json:"question"`
	Answer   string `gorm:"not null" json:"answer"`

	CreatedAt time.Time `gorm:"not null;index" json:"-"`
}
