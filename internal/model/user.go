package model

import "time"

// DefaultAvatar — аватар, который получает пользователь при регистрации без своего.
const DefaultAvatar = "https://randomuser.me/api/portraits/men/32.jpg"

// User — зарегистрированный пользователь.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"not null;uniqueIndex" json:"username"`
	Email    string `gorm:"not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt-хеш
	Avatar   string `gorm:"not null" json:"avatar"`
	XP       int    `gorm:"not null" json:"xp"`

	CreatedAt time.Time `json:"createdAt"`
}
