package repository

import (
	"github.com/google/uuid"
	"github.com/nhatminh-le/prepquest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestAttemptRepository interface {
	Create(attempt *model.TestAttempt) error
	FindByID(id uuid.UUID) (*model.TestAttempt, error)
	FindAllNewestFirst() ([]model.TestAttempt, error)
	// UpdateLocked runs mutate against the row inside a transaction holding a
	// row lock, so concurrent read-modify-write cycles on the same attempt
	// serialize instead of overwriting each other.
	UpdateLocked(id uuid.UUID, mutate func(*model.TestAttempt) error) (*model.TestAttempt, error)
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

func (r *testAttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *testAttemptRepository) FindByID(id uuid.UUID) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.First(&attempt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindAllNewestFirst() ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	if err := r.db.Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *testAttemptRepository) UpdateLocked(id uuid.UUID, mutate func(*model.TestAttempt) error) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&attempt, "id = ?", id).Error; err != nil {
			return err
		}
		if err := mutate(&attempt); err != nil {
			return err
		}
		return tx.Save(&attempt).Error
	})
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
