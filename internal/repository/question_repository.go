package repository

import (
	"github.com/google/uuid"
	"github.com/nhatminh-le/prepquest/internal/model"
	"gorm.io/gorm"
)

// QuestionRepository is the primary question source.
type QuestionRepository interface {
	Create(question *model.Question) error
	FindByIDs(ids []uuid.UUID) ([]model.Question, error)
	FindAll(subjectID, chapterID string) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByIDs(ids []uuid.UUID) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindAll(subjectID, chapterID string) ([]model.Question, error) {
	query := r.db.Order("created_at DESC")
	if subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if chapterID != "" {
		query = query.Where("chapter_id = ?", chapterID)
	}
	var questions []model.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
