package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Статусы ревью вопроса. Пустой (nil) статус означает полностью доверенный
// вопрос, не требующий ручной проверки.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Типы модулей SAT
const (
	ModuleTypeMath           = "math"
	ModuleTypeReadingWriting = "reading-writing"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// JSONMap - произвольный JSONB-объект (описание графика, разбивки по категориям)
type JSONMap map[string]interface{}

// Scan реализует интерфейс sql.Scanner для JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = nil
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Question представляет вопрос SAT со всеми метаданными ревью.
// Денормализованные поля Review* хранят вердикт ПОСЛЕДНЕГО ревьюера;
// полная история накапливается в QuestionReview.
type Question struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	SubtopicID    *string     `gorm:"size:36;index" json:"subtopic_id"`
	ModuleType    string      `gorm:"size:20;not null;index" json:"module_type"` // math | reading-writing
	Difficulty    string      `gorm:"size:10;not null" json:"difficulty"`        // easy | medium | hard
	Category      string      `gorm:"size:100;not null;index" json:"category"`
	Subtopic      string      `gorm:"size:100;not null" json:"subtopic"`
	Question      string      `gorm:"type:text;not null" json:"question"`
	Passage       *string     `gorm:"type:text" json:"passage,omitempty"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer int         `gorm:"not null" json:"correct_answer"`
	Explanation   string      `gorm:"type:text;not null" json:"explanation"`

	ImageURL      *string `gorm:"size:500" json:"image_url,omitempty"`
	ImageAlt      *string `gorm:"size:500" json:"image_alt,omitempty"`
	ImageData     []byte  `gorm:"type:bytea" json:"-"` // Бинарные данные не отдаются в JSON напрямую
	ImageMimeType *string `gorm:"size:100" json:"image_mime_type,omitempty"`
	ChartData     JSONMap `gorm:"type:jsonb" json:"chart_data,omitempty"`

	TimeEstimate int         `gorm:"not null;default:60" json:"time_estimate"` // секунды
	Source       string      `gorm:"size:100;not null;default:''" json:"source"`
	Tags         StringArray `gorm:"type:jsonb" json:"tags"`
	IsActive     bool        `gorm:"not null;default:true;index" json:"is_active"`

	ReviewStatus    *string    `gorm:"size:20;index" json:"review_status"`
	ReviewRating    *int       `json:"review_rating"`
	DiagramAccurate *bool      `json:"diagram_accurate"`
	ReviewComments  *string    `gorm:"type:text" json:"review_comments"`
	ReviewedBy      *string    `gorm:"size:100" json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SubtopicRef *Subtopic `gorm:"foreignKey:SubtopicID" json:"subtopic_ref,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// BeforeCreate генерирует UUID для нового вопроса
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// IsValidAnswerIndex проверяет, что индекс ответа указывает на существующий вариант
func (q *Question) IsValidAnswerIndex(index int) bool {
	return index >= 0 && index < len(q.Options)
}

// HasStoredImage возвращает true, если у вопроса есть бинарное изображение в БД
func (q *Question) HasStoredImage() bool {
	return len(q.ImageData) > 0
}

// IsPending возвращает true, если вопрос ожидает ревью
func (q *Question) IsPending() bool {
	return q.ReviewStatus != nil && *q.ReviewStatus == ReviewStatusPending
}
