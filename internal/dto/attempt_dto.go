package dto

import "time"

// CreateAttemptRequest starts a new practice session.
type CreateAttemptRequest struct {
	Mode           string    `json:"mode" binding:"required,oneof=tutor timed"`
	Subjects       []string  `json:"subjects"`
	Chapters       []string  `json:"chapters"`
	TotalQuestions int       `json:"total_questions" binding:"required,min=1"`
	StartedAt      time.Time `json:"started_at" binding:"required"`
	QuestionIDs    []string  `json:"question_ids" binding:"required,min=1,dive,required"`
}

// SaveAnswerRequest patches one per-question entry, keyed by question_id.
// Absent fields keep the entry's previous value; is_correct null-or-absent
// means "not graded by this request" and leaves the aggregates untouched.
// Bulk saves submit a sequence of the same shape.
type SaveAnswerRequest struct {
	QuestionID       string  `json:"question_id" binding:"required"`
	SelectedOption   *string `json:"selected_option"`
	IsCorrect        *bool   `json:"is_correct"`
	TimeSpentSeconds *int    `json:"time_spent_seconds" binding:"omitempty,min=0"`
	Note             *string `json:"note"`
	IsMarked         *bool   `json:"is_marked"`
}

type BulkSaveAnswersRequest struct {
	Answers []SaveAnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// SaveNoteRequest sets the note text; an empty string is a valid note.
type SaveNoteRequest struct {
	Note *string `json:"note" binding:"required"`
}

type SaveMarkRequest struct {
	IsMarked *bool `json:"is_marked" binding:"required"`
}

// CompleteQuestionItem is a full per-question snapshot submitted at completion.
// is_correct stays nullable: null marks the question as ungraded.
type CompleteQuestionItem struct {
	QuestionID       string  `json:"question_id" binding:"required"`
	SelectedOption   *string `json:"selected_option"`
	IsCorrect        *bool   `json:"is_correct"`
	IsAnswered       *bool   `json:"is_answered" binding:"required"`
	TimeSpentSeconds *int    `json:"time_spent_seconds" binding:"omitempty,min=0"`
	Note             *string `json:"note"`
	IsMarked         *bool   `json:"is_marked"`
}

// CompleteAttemptRequest finalizes an attempt. The submitted counts are
// advisory; the server recomputes the aggregates from the merged state.
type CompleteAttemptRequest struct {
	CorrectCount   *int                   `json:"correct_count" binding:"required,min=0"`
	IncorrectCount *int                   `json:"incorrect_count" binding:"required,min=0"`
	OmittedCount   *int                   `json:"omitted_count" binding:"required,min=0"`
	PerQuestion    []CompleteQuestionItem `json:"per_question" binding:"omitempty,dive"`
	CompletedAt    *time.Time             `json:"completed_at"`
}

// QuestionStateResponse is the wire view of one per-question entry.
type QuestionStateResponse struct {
	QuestionID       string    `json:"question_id"`
	SelectedOption   string    `json:"selected_option,omitempty"`
	IsCorrect        *bool     `json:"is_correct"`
	IsAnswered       bool      `json:"is_answered"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	Note             string    `json:"note,omitempty"`
	IsMarked         bool      `json:"is_marked"`
	LastUpdatedAt    time.Time `json:"last_updated_at"`
}

type AttemptResponse struct {
	ID             string                  `json:"id"`
	Mode           string                  `json:"mode"`
	Subjects       []string                `json:"subjects"`
	Chapters       []string                `json:"chapters"`
	TotalQuestions int                     `json:"total_questions"`
	QuestionIDs    []string                `json:"question_ids"`
	StartedAt      time.Time               `json:"started_at"`
	CompletedAt    *time.Time              `json:"completed_at,omitempty"`
	Status         string                  `json:"status"`
	CorrectCount   int                     `json:"correct_count"`
	IncorrectCount int                     `json:"incorrect_count"`
	OmittedCount   int                     `json:"omitted_count"`
	PerQuestion    []QuestionStateResponse `json:"per_question"`
	CreatedAt      time.Time               `json:"created_at"`
}

// AttemptDetailResponse is the attempt plus its hydrated question content, in
// question id order.
type AttemptDetailResponse struct {
	AttemptResponse
	Questions []QuestionResponse `json:"questions"`
}

// ScoreSummaryResponse carries the recomputed aggregates after a bulk save.
type ScoreSummaryResponse struct {
	CorrectCount   int `json:"correct_count"`
	IncorrectCount int `json:"incorrect_count"`
	OmittedCount   int `json:"omitted_count"`
}
