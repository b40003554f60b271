package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic представляет раздел SAT (например, Algebra, Craft and Structure)
type Topic struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Name        string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ModuleType  string  `gorm:"size:20;not null;index" json:"module_type"`
	Description *string `gorm:"type:text" json:"description"`
	IsActive    bool    `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subtopics []Subtopic `gorm:"foreignKey:TopicID" json:"subtopics,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Topic) TableName() string {
	return "topics"
}

// BeforeCreate генерирует UUID для нового раздела
func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Subtopic представляет подраздел. CurrentCount отслеживает, сколько вопросов
// уже сгенерировано, TargetQuestions - целевое количество для пайплайна генерации.
type Subtopic struct {
	ID              string  `gorm:"primaryKey;size:36" json:"id"`
	TopicID         string  `gorm:"size:36;not null;index" json:"topic_id"`
	Name            string  `gorm:"size:100;not null;index" json:"name"`
	Description     *string `gorm:"type:text" json:"description"`
	TargetQuestions int     `gorm:"not null;default:0" json:"target_questions"`
	CurrentCount    int     `gorm:"not null;default:0" json:"current_count"`
	IsActive        bool    `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Topic *Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Subtopic) TableName() string {
	return "subtopics"
}

// BeforeCreate генерирует UUID для нового подраздела
func (s *Subtopic) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
