package model

import "time"

// ThreadAuthor — снимок автора на момент публикации.
type ThreadAuthor struct {
	Name   string `gorm:"not null" json:"name"`
	Avatar string `gorm:"not null" json:"avatar"`
}

// ThreadPost — тема на форуме сообщества.
type ThreadPost struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Category    string `gorm:"not null" json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Title       string `gorm:"not null" json:"title"`
	Content     string `gorm:"not null" json:"content"`

	ReplyCount     int  `gorm:"not null" json:"replyCount"`
	IsHot          bool `gorm:"not null" json:"isHot"`
	IsGroupForming bool `gorm:"not null" json:"isGroupForming"`

	Author ThreadAuthor `gorm:"embedded;embeddedPrefix:author_" json:"author"`

	PostedAt time.Time `gorm:"not null;index" json:"postedAt"`
}
