package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// TestResultRepo реализует repository.TestResultRepository
type TestResultRepo struct {
	db *gorm.DB
}

// NewTestResultRepo создает новый репозиторий результатов тестов
func NewTestResultRepo(db *gorm.DB) *TestResultRepo {
	return &TestResultRepo{db: db}
}

// Create сохраняет результат вместе с дочерними QuestionResult одной вставкой.
// GORM создаст ассоциированные записи в той же транзакции.
func (r *TestResultRepo) Create(tx *gorm.DB, result *entity.TestResult) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Create(result).Error
}

// GetByID возвращает результат с ответами на вопросы
func (r *TestResultRepo) GetByID(id string) (*entity.TestResult, error) {
	var result entity.TestResult
	err := r.db.Preload("QuestionResults").First(&result, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetByUser возвращает страницу результатов пользователя (новые сначала)
func (r *TestResultRepo) GetByUser(userID uint, limit, offset int) ([]entity.TestResult, int64, error) {
	var results []entity.TestResult
	var total int64

	if err := r.db.Model(&entity.TestResult{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}
