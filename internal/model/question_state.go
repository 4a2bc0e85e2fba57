package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Grade is the tri-state grading result of a single question.
type Grade string

const (
	GradeCorrect   Grade = "correct"
	GradeIncorrect Grade = "incorrect"
	GradeUngraded  Grade = "ungraded"
)

// GradeFromBool maps the wire representation (nullable bool) to a Grade.
func GradeFromBool(b *bool) Grade {
	switch {
	case b == nil:
		return GradeUngraded
	case *b:
		return GradeCorrect
	default:
		return GradeIncorrect
	}
}

// Bool maps a Grade back to the wire representation. Ungraded is nil.
func (g Grade) Bool() *bool {
	switch g {
	case GradeCorrect:
		v := true
		return &v
	case GradeIncorrect:
		v := false
		return &v
	default:
		return nil
	}
}

// QuestionState is the mutable state of one question within an attempt.
type QuestionState struct {
	QuestionID       string    `json:"question_id"`
	SelectedOption   string    `json:"selected_option,omitempty"`
	Grade            Grade     `json:"grade"`
	IsAnswered       bool      `json:"is_answered"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	Note             string    `json:"note,omitempty"`
	IsMarked         bool      `json:"is_marked"`
	LastUpdatedAt    time.Time `json:"last_updated_at"`
}

// NewQuestionState returns a default entry for the given question id.
func NewQuestionState(questionID string) QuestionState {
	return QuestionState{
		QuestionID: questionID,
		Grade:      GradeUngraded,
	}
}

// QuestionStateMap stores per-question state keyed by question id, persisted as
// a single jsonb column. Keying by id makes upsert a plain map write and rules
// out duplicate entries for the same question.
type QuestionStateMap map[string]QuestionState

// Upsert merges entry into the map under its question id and stamps
// LastUpdatedAt. The entry's QuestionID must be set.
func (m QuestionStateMap) Upsert(entry QuestionState, now time.Time) QuestionState {
	entry.LastUpdatedAt = now
	m[entry.QuestionID] = entry
	return entry
}

// Get returns the entry for questionID, or a default entry when absent.
func (m QuestionStateMap) Get(questionID string) (QuestionState, bool) {
	st, ok := m[questionID]
	if !ok {
		return NewQuestionState(questionID), false
	}
	return st, true
}

func (m QuestionStateMap) Value() (driver.Value, error) {
	if m == nil {
		m = QuestionStateMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *QuestionStateMap) Scan(value interface{}) error {
	if value == nil {
		*m = QuestionStateMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for QuestionStateMap")
	}
	if len(data) == 0 {
		*m = QuestionStateMap{}
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("decode question state map: %w", err)
	}
	return nil
}

// GormDataType tells gorm to map the column as jsonb.
func (QuestionStateMap) GormDataType() string {
	return "jsonb"
}
