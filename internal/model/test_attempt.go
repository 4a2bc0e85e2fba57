package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptMode string

const (
	ModeTutor AttemptMode = "tutor"
	ModeTimed AttemptMode = "timed"
)

type AttemptStatus string

const (
	StatusInProgress AttemptStatus = "in_progress"
	StatusCompleted  AttemptStatus = "completed"
)

// TestAttempt is one practice session over a fixed, ordered set of question ids.
// QuestionIDs is set once at creation and defines both membership and display
// order; Questions holds the mutable per-question state keyed by question id.
type TestAttempt struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Mode           AttemptMode                 `gorm:"not null" json:"mode"`
	Subjects       datatypes.JSONSlice[string] `json:"subjects"`
	Chapters       datatypes.JSONSlice[string] `json:"chapters"`
	TotalQuestions int                         `gorm:"not null" json:"total_questions"`
	QuestionIDs    datatypes.JSONSlice[string] `gorm:"not null" json:"question_ids"`
	StartedAt      time.Time                   `gorm:"not null" json:"started_at"`
	CompletedAt    *time.Time                  `json:"completed_at,omitempty"`
	Status         AttemptStatus               `gorm:"default:'in_progress';index" json:"status"`
	CorrectCount   int                         `gorm:"not null;default:0" json:"correct_count"`
	IncorrectCount int                         `gorm:"not null;default:0" json:"incorrect_count"`
	OmittedCount   int                         `gorm:"not null;default:0" json:"omitted_count"`
	Questions      QuestionStateMap            `gorm:"type:jsonb" json:"questions"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	DeletedAt      gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (a *TestAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Questions == nil {
		a.Questions = QuestionStateMap{}
	}
	return nil
}

// AnsweredCount counts entries flagged as answered.
func (a *TestAttempt) AnsweredCount() int {
	n := 0
	for _, st := range a.Questions {
		if st.IsAnswered {
			n++
		}
	}
	return n
}

// SelectedCount counts entries carrying a non-empty selected option.
func (a *TestAttempt) SelectedCount() int {
	n := 0
	for _, st := range a.Questions {
		if st.SelectedOption != "" {
			n++
		}
	}
	return n
}

// GradedCounts tallies correct and incorrect grades across all entries.
func (a *TestAttempt) GradedCounts() (correct, incorrect int) {
	for _, st := range a.Questions {
		switch st.Grade {
		case GradeCorrect:
			correct++
		case GradeIncorrect:
			incorrect++
		}
	}
	return correct, incorrect
}

// OrderedStates returns the per-question entries ordered by the attempt's
// question id sequence. Entries for ids outside the sequence come last, in
// lexical key order so the output stays deterministic.
func (a *TestAttempt) OrderedStates() []QuestionState {
	if len(a.Questions) == 0 {
		return []QuestionState{}
	}
	out := make([]QuestionState, 0, len(a.Questions))
	seen := make(map[string]bool, len(a.Questions))
	for _, id := range a.QuestionIDs {
		if st, ok := a.Questions[id]; ok && !seen[id] {
			out = append(out, st)
			seen[id] = true
		}
	}
	var extras []string
	for id := range a.Questions {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		out = append(out, a.Questions[id])
	}
	return out
}
