package model

import "time"

type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatorID   int64     `gorm:"not null;index" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`

	Participants []User `gorm:"many2many:event_participants" json:"participants,omitempty"`
}

func (e Event) HasParticipant(userID int64) bool {
	for _, user := range e.Participants {
		if user.ID == userID {
			return true
		}
	}

	return false
}
