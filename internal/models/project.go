package model

import "time"

type Project struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	TelegramChatID int64     `gorm:"not null;default:0" json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
