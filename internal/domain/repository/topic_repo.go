package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// TopicRepository определяет методы для работы с разделами и подразделами
type TopicRepository interface {
	// ListActive возвращает активные разделы с активными подразделами,
	// отсортированные по имени
	ListActive() ([]entity.Topic, error)

	GetTopicByID(id string) (*entity.Topic, error)
	GetSubtopicByID(id string) (*entity.Subtopic, error)

	// FindSubtopicByName ищет подраздел по вхождению имени без учета регистра
	FindSubtopicByName(name string) (*entity.Subtopic, error)

	// ListSubtopics возвращает активные подразделы заданного типа модуля,
	// опционально ограниченные разделом
	ListSubtopics(moduleType, topicID string) ([]entity.Subtopic, error)

	// IncrementSubtopicCount увеличивает счетчик сгенерированных вопросов
	IncrementSubtopicCount(tx *gorm.DB, subtopicID string) error
}
