package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestResult представляет итог одной попытки прохождения теста.
// Создается единожды в момент отправки результатов и далее не изменяется.
type TestResult struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	StartTime      time.Time `gorm:"not null" json:"start_time"`
	EndTime        time.Time `gorm:"not null" json:"end_time"`
	TotalTimeSpent int       `gorm:"not null;default:0" json:"total_time_spent"` // секунды
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	Score          int       `gorm:"not null;default:0" json:"score"` // процент правильных

	SATReadingScore int `gorm:"not null;default:200" json:"sat_reading_score"`
	SATMathScore    int `gorm:"not null;default:200" json:"sat_math_score"`
	SATTotalScore   int `gorm:"not null;default:400" json:"sat_total_score"`

	CategoryPerformance   JSONMap `gorm:"type:jsonb" json:"category_performance"`
	SubtopicPerformance   JSONMap `gorm:"type:jsonb" json:"subtopic_performance"`
	DifficultyPerformance JSONMap `gorm:"type:jsonb" json:"difficulty_performance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	QuestionResults []QuestionResult `gorm:"foreignKey:TestResultID" json:"question_results,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (TestResult) TableName() string {
	return "test_results"
}

// BeforeCreate генерирует UUID для нового результата
func (t *TestResult) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// QuestionResult представляет ответ пользователя на один вопрос в рамках попытки
type QuestionResult struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	TestResultID string `gorm:"size:36;not null;index" json:"test_result_id"`
	QuestionID   string `gorm:"size:36;not null;index" json:"question_id"`
	UserAnswer   int    `gorm:"not null" json:"user_answer"` // индекс выбранного варианта
	IsCorrect    bool   `gorm:"not null;default:false" json:"is_correct"`
	TimeSpent    int    `gorm:"not null;default:0" json:"time_spent"` // секунды

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuestionResult) TableName() string {
	return "question_results"
}

// BeforeCreate генерирует UUID для нового ответа
func (r *QuestionResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
