package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// QuestionReviewRepository определяет методы для работы с оценками вопросов
type QuestionReviewRepository interface {
	// Upsert создает оценку или перезаписывает существующую по ключу
	// (user_id, question_id). Выполняется внутри переданной транзакции;
	// tx == nil означает выполнение вне транзакции.
	Upsert(tx *gorm.DB, review *entity.QuestionReview) error

	// GetByQuestion возвращает все оценки вопроса (новые сначала) с данными ревьюеров
	GetByQuestion(questionID string) ([]entity.QuestionReview, error)

	// List возвращает страницу оценок по всем вопросам и общее количество
	List(limit, offset int) ([]entity.QuestionReview, int64, error)
}
