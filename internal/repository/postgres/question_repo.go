package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateTx создает вопрос внутри переданной транзакции
func (r *QuestionRepo) CreateTx(tx *gorm.DB, question *entity.Question) error {
	return tx.Create(question).Error
}

// GetByID возвращает вопрос по ID вместе с метаданными подраздела
func (r *QuestionRepo) GetByID(id string) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("SubtopicRef").First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// Update обновляет информацию о вопросе
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// applyFilters собирает WHERE-условия админского списка
func applyFilters(query *gorm.DB, filters repository.QuestionFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("review_status = ?", filters.Status)
	}

	switch filters.Reviewer {
	case "me":
		query = query.Where("reviewed_by = ?", filters.ReviewerEmail)
	case "others":
		// Ревью должно существовать и принадлежать кому-то другому
		query = query.Where("reviewed_by IS NOT NULL AND reviewed_by <> '' AND reviewed_by <> ?", filters.ReviewerEmail)
	case "none":
		query = query.Where("reviewed_by IS NULL")
	}

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Subtopic != "" {
		query = query.Where("subtopic ILIKE ?", "%"+filters.Subtopic+"%")
	}

	return query
}

// List возвращает страницу вопросов по фильтрам и общее количество совпадений
func (r *QuestionRepo) List(filters repository.QuestionFilters, limit, offset int) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	base := applyFilters(r.db.Model(&entity.Question{}), filters)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Preload("SubtopicRef").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// ListAll возвращает все вопросы по фильтрам без пагинации (для экспорта)
func (r *QuestionRepo) ListAll(filters repository.QuestionFilters) ([]entity.Question, error) {
	var questions []entity.Question

	err := applyFilters(r.db.Model(&entity.Question{}), filters).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ListPending возвращает активные вопросы в статусе pending (новые сначала)
func (r *QuestionRepo) ListPending(category string, limit int) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.Where("review_status = ? AND is_active = ?", entity.ReviewStatusPending, true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ApplyReview перезаписывает денормализованные поля ревью на вопросе.
// Используется map, чтобы NULL-значения (снятый рейтинг) записывались явно.
func (r *QuestionRepo) ApplyReview(tx *gorm.DB, questionID string, verdict repository.ReviewVerdict) error {
	result := tx.Model(&entity.Question{}).
		Where("id = ?", questionID).
		Updates(map[string]interface{}{
			"review_status":    verdict.Status,
			"review_rating":    verdict.Rating,
			"diagram_accurate": verdict.DiagramAccurate,
			"review_comments":  verdict.Comments,
			"reviewed_by":      verdict.ReviewedBy,
			"reviewed_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetImage возвращает только колонки изображения, чтобы не тянуть весь вопрос
func (r *QuestionRepo) GetImage(id string) (*entity.Question, error) {
	var question entity.Question
	err := r.db.
		Select("id", "image_data", "image_mime_type", "image_alt", "image_url").
		First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}
