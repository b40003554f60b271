package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionReview представляет одиночную оценку вопроса пользователем.
// Пара (UserID, QuestionID) уникальна: повторная отправка перезаписывает
// предыдущую оценку этого же пользователя (upsert-семантика).
type QuestionReview struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint    `gorm:"not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID  string  `gorm:"size:36;not null;uniqueIndex:idx_user_question" json:"question_id"`
	Rating      int     `gorm:"not null" json:"rating"` // 1-5
	Description *string `gorm:"type:text" json:"description"`
	HasDiagram  bool    `gorm:"not null;default:false" json:"has_diagram"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (QuestionReview) TableName() string {
	return "question_reviews"
}

// BeforeCreate генерирует UUID для новой оценки
func (r *QuestionReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsValidRating проверяет, что оценка находится в допустимом диапазоне
func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
