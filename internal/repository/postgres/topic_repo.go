package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// TopicRepo реализует repository.TopicRepository
type TopicRepo struct {
	db *gorm.DB
}

// NewTopicRepo создает новый репозиторий разделов
func NewTopicRepo(db *gorm.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// ListActive возвращает активные разделы с активными подразделами
func (r *TopicRepo) ListActive() ([]entity.Topic, error) {
	var topics []entity.Topic
	err := r.db.
		Where("is_active = ?", true).
		Preload("Subtopics", "is_active = ?", true, func(db *gorm.DB) *gorm.DB {
			return db.Order("subtopics.name ASC")
		}).
		Order("name ASC").
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// GetTopicByID возвращает раздел по ID
func (r *TopicRepo) GetTopicByID(id string) (*entity.Topic, error) {
	var topic entity.Topic
	err := r.db.First(&topic, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// GetSubtopicByID возвращает подраздел по ID
func (r *TopicRepo) GetSubtopicByID(id string) (*entity.Subtopic, error) {
	var subtopic entity.Subtopic
	err := r.db.First(&subtopic, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subtopic, nil
}

// FindSubtopicByName ищет подраздел по вхождению имени без учета регистра
func (r *TopicRepo) FindSubtopicByName(name string) (*entity.Subtopic, error) {
	var subtopic entity.Subtopic
	err := r.db.Where("name ILIKE ?", "%"+name+"%").First(&subtopic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subtopic, nil
}

// ListSubtopics возвращает активные подразделы заданного типа модуля.
// Тип модуля определяется родительским разделом.
func (r *TopicRepo) ListSubtopics(moduleType, topicID string) ([]entity.Subtopic, error) {
	var subtopics []entity.Subtopic

	query := r.db.
		Joins("JOIN topics ON topics.id = subtopics.topic_id").
		Where("subtopics.is_active = ? AND topics.is_active = ?", true, true)

	if moduleType != "" {
		query = query.Where("topics.module_type = ?", moduleType)
	}
	if topicID != "" {
		query = query.Where("subtopics.topic_id = ?", topicID)
	}

	err := query.Order("subtopics.name ASC").Find(&subtopics).Error
	if err != nil {
		return nil, err
	}
	return subtopics, nil
}

// IncrementSubtopicCount увеличивает счетчик сгенерированных вопросов
func (r *TopicRepo) IncrementSubtopicCount(tx *gorm.DB, subtopicID string) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Model(&entity.Subtopic{}).
		Where("id = ?", subtopicID).
		Update("current_count", gorm.Expr("current_count + 1")).Error
}
