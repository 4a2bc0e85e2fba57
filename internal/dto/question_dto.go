package dto

import "time"

// CreateQuestionRequest creates a question in either source (bank or demo).
type CreateQuestionRequest struct {
	SubjectID     string   `json:"subject_id" binding:"required"`
	ChapterID     string   `json:"chapter_id" binding:"required"`
	TopicID       string   `json:"topic_id"`
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectOption string   `json:"correct_option" binding:"required"`
	Explanation   string   `json:"explanation"`
}

type QuestionResponse struct {
	ID            string    `json:"id"`
	SubjectID     string    `json:"subject_id"`
	ChapterID     string    `json:"chapter_id"`
	TopicID       string    `json:"topic_id,omitempty"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectOption string    `json:"correct_option"`
	Explanation   string    `json:"explanation,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
