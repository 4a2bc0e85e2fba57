package service

import (
	"testing"

	"github.com/nhatminh-le/prepquest/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestion(t *testing.T) {
	bank := newFakeQuestionRepo()
	demo := newFakeDemoRepo()
	svc := NewQuestionService(bank, demo)

	resp, err := svc.CreateQuestion(dto.CreateQuestionRequest{
		SubjectID:     "anatomy",
		ChapterID:     "thorax",
		Text:          "Which nerve innervates the diaphragm?",
		Options:       []string{"Phrenic", "Vagus", "Splanchnic", "Intercostal"},
		CorrectOption: "Phrenic",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "anatomy", resp.SubjectID)
	assert.Len(t, bank.questions, 1)
	assert.Empty(t, demo.questions)
}

func TestCreateQuestion_CorrectOptionMustBeListed(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionRepo(), newFakeDemoRepo())

	_, err := svc.CreateQuestion(dto.CreateQuestionRequest{
		SubjectID:     "anatomy",
		ChapterID:     "thorax",
		Text:          "Which nerve innervates the diaphragm?",
		Options:       []string{"Vagus", "Splanchnic"},
		CorrectOption: "Phrenic",
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCreateDemoQuestion(t *testing.T) {
	bank := newFakeQuestionRepo()
	demo := newFakeDemoRepo()
	svc := NewQuestionService(bank, demo)

	resp, err := svc.CreateDemoQuestion(dto.CreateQuestionRequest{
		SubjectID:     "physiology",
		ChapterID:     "cardiac",
		Text:          "Normal resting heart rate?",
		Options:       []string{"60-100 bpm", "20-40 bpm"},
		CorrectOption: "60-100 bpm",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, demo.questions, 1)
	assert.Empty(t, bank.questions)
}

func TestListQuestions_Filters(t *testing.T) {
	bank := newFakeQuestionRepo()
	svc := NewQuestionService(bank, newFakeDemoRepo())

	for _, req := range []dto.CreateQuestionRequest{
		{SubjectID: "anatomy", ChapterID: "thorax", Text: "a", Options: []string{"x", "y"}, CorrectOption: "x"},
		{SubjectID: "anatomy", ChapterID: "abdomen", Text: "b", Options: []string{"x", "y"}, CorrectOption: "y"},
		{SubjectID: "physiology", ChapterID: "cardiac", Text: "c", Options: []string{"x", "y"}, CorrectOption: "x"},
	} {
		_, err := svc.CreateQuestion(req)
		require.NoError(t, err)
	}

	all, err := svc.ListQuestions("", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	anatomy, err := svc.ListQuestions("anatomy", "")
	require.NoError(t, err)
	assert.Len(t, anatomy, 2)

	thorax, err := svc.ListQuestions("anatomy", "thorax")
	require.NoError(t, err)
	assert.Len(t, thorax, 1)
	assert.Equal(t, "a", thorax[0].Text)
}
