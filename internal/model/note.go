package model

import (
	"time"

	"gorm.io/datatypes"
)

// KeyPoint — тезис конспекта.
type KeyPoint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Section — раздел конспекта.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteContent — содержимое конспекта, хранится одним JSON-значением.
type NoteContent struct {
	KeyPoints []KeyPoint `json:"keyPoints"`
	Sections  []Section  `json:"sections"`
}

// Note — "умный" конспект, сгенерированный по документу. После создания не меняется.
type Note struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"userId"`
	User       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DocumentID *string   `gorm:"type:uuid;index" json:"documentId,omitempty"`
	Document   *Document `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	Title  string `gorm:"not null" json:"title"`
	Source string `gorm:"not null" json:"source"`

	Content datatypes.JSONType[NoteContent] `gorm:"not null" json:"content"`

	Date time.Time `gorm:"not null;index" json:"date"`
}
