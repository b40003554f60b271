package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// QuestionFilters описывает фильтры админского списка вопросов
type QuestionFilters struct {
	// Status: pending | approved | rejected. Пустая строка - без фильтра.
	Status string

	// Reviewer: me | others | none. Интерпретируется относительно ReviewerEmail.
	Reviewer      string
	ReviewerEmail string

	// Category: точное совпадение.
	Category string

	// Subtopic: подстрока, без учета регистра.
	Subtopic string
}

// ReviewVerdict - денормализованный вердикт ревьюера, записываемый на сам вопрос
type ReviewVerdict struct {
	Status          string
	Rating          *int
	DiagramAccurate *bool
	Comments        *string
	ReviewedBy      string
}

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateTx(tx *gorm.DB, question *entity.Question) error
	GetByID(id string) (*entity.Question, error)
	Update(question *entity.Question) error

	// List возвращает страницу вопросов по фильтрам (новые сначала) и общее
	// количество совпадений. SubtopicRef загружается вместе с вопросом.
	List(filters QuestionFilters, limit, offset int) ([]entity.Question, int64, error)

	// ListAll возвращает ВСЕ вопросы по фильтрам без пагинации (для экспорта)
	ListAll(filters QuestionFilters) ([]entity.Question, error)

	// ListPending возвращает вопросы со статусом pending и активным флагом
	ListPending(category string, limit int) ([]entity.Question, error)

	// ApplyReview перезаписывает денормализованные поля ревью на вопросе.
	// Выполняется внутри переданной транзакции.
	ApplyReview(tx *gorm.DB, questionID string, verdict ReviewVerdict) error

	// GetImage возвращает только данные изображения вопроса
	GetImage(id string) (*entity.Question, error)
}
