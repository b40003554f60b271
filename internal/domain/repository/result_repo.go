package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// TestResultRepository определяет методы для работы с результатами тестов
type TestResultRepository interface {
	// Create сохраняет результат вместе с дочерними QuestionResult.
	// Выполняется внутри переданной транзакции.
	Create(tx *gorm.DB, result *entity.TestResult) error

	GetByID(id string) (*entity.TestResult, error)

	// GetByUser возвращает страницу результатов пользователя (новые сначала)
	GetByUser(userID uint, limit, offset int) ([]entity.TestResult, int64, error)
}
