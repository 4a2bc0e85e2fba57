package repository

import (
	"github.com/google/uuid"
	"github.com/nhatminh-le/prepquest/internal/model"
	"gorm.io/gorm"
)

// DemoQuestionRepository is the secondary (demo) question source.
type DemoQuestionRepository interface {
	Create(question *model.DemoQuestion) error
	FindByIDs(ids []uuid.UUID) ([]model.DemoQuestion, error)
}

type demoQuestionRepository struct {
	db *gorm.DB
}

func NewDemoQuestionRepository(db *gorm.DB) DemoQuestionRepository {
	return &demoQuestionRepository{db: db}
}

func (r *demoQuestionRepository) Create(question *model.DemoQuestion) error {
	return r.db.Create(question).Error
}

func (r *demoQuestionRepository) FindByIDs(ids []uuid.UUID) ([]model.DemoQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.DemoQuestion
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
