package migration

import (
	"github.com/hilthontt/eventra/domain/model"
	"gorm.io/gorm"
)

// Up creates or updates the schema for all domain entities. The
// event_participants join table gets a composite primary key from gorm, which
// enforces uniqueness of each (event, user) pair.
func Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.ChatMessage{},
		&model.Image{},
	)
}
