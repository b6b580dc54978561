package model

import "time"

// Image starts out temporary (no owning message) and may be attached to at
// most one chat message. The uploader never changes.
type Image struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Filename         string    `gorm:"size:255;uniqueIndex;not null" json:"filename"`
	OriginalFilename string    `gorm:"size:255" json:"originalFilename"`
	UploaderID       int64     `gorm:"not null;index" json:"uploaderId"`
	EventID          int64     `gorm:"not null;index" json:"eventId"`
	ChatMessageID    *int64    `gorm:"index" json:"chatMessageId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (i Image) IsAttached() bool {
	return i.ChatMessageID != nil
}

func (i Image) URL() string {
	return "/images/" + i.Filename
}
