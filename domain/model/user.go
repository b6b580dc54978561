package model

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
