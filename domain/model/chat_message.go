package model

import "time"

// ChatMessage belongs to exactly one event and one author; both are fixed at
// creation time. Edited only ever flips from false to true.
type ChatMessage struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Edited   bool   `gorm:"not null;default:false" json:"edited"`
	EventID  int64  `gorm:"not null;index" json:"eventId"`
	AuthorID int64  `gorm:"not null;index" json:"authorId"`

	Author User    `json:"author"`
	Images []Image `gorm:"foreignKey:ChatMessageID" json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m ChatMessage) IsAuthor(userID int64) bool {
	return m.AuthorID == userID
}
