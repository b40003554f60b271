package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// QuestionReviewRepo реализует repository.QuestionReviewRepository
type QuestionReviewRepo struct {
	db *gorm.DB
}

// NewQuestionReviewRepo создает новый репозиторий оценок
func NewQuestionReviewRepo(db *gorm.DB) *QuestionReviewRepo {
	return &QuestionReviewRepo{db: db}
}

// Upsert создает или перезаписывает оценку по уникальной паре (user_id, question_id).
// Конфликт разрешается на стороне базы: побеждает последняя запись.
func (r *QuestionReviewRepo) Upsert(tx *gorm.DB, review *entity.QuestionReview) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "description", "has_diagram", "updated_at",
		}),
	}).Create(review).Error
}

// GetByQuestion возвращает все оценки вопроса с данными ревьюеров
func (r *QuestionReviewRepo) GetByQuestion(questionID string) ([]entity.QuestionReview, error) {
	var reviews []entity.QuestionReview
	err := r.db.
		Preload("User").
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// List возвращает страницу оценок по всем вопросам и общее количество
func (r *QuestionReviewRepo) List(limit, offset int) ([]entity.QuestionReview, int64, error) {
	var reviews []entity.QuestionReview
	var total int64

	if err := r.db.Model(&entity.QuestionReview{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Preload("User").
		Preload("Question").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
