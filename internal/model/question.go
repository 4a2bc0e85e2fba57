package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is a question-bank entry, scoped by subject/chapter/topic.
type Question struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID     string                      `gorm:"index" json:"subject_id"`
	ChapterID     string                      `gorm:"index" json:"chapter_id"`
	TopicID       string                      `gorm:"index" json:"topic_id,omitempty"`
	Text          string                      `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectOption string                      `gorm:"not null" json:"correct_option"`
	Explanation   string                      `gorm:"type:text" json:"explanation,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
