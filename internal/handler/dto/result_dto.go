package dto

import (
	"time"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// QuestionResultResponse представляет ответ на один вопрос в рамках попытки
type QuestionResultResponse struct {
	QuestionID string `json:"question_id"`
	UserAnswer int    `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	TimeSpent  int    `json:"time_spent"`
}

// TestResultResponse представляет итог попытки в формате для ответа клиенту
type TestResultResponse struct {
	ID             string    `json:"id"`
	UserID         uint      `json:"user_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	TotalTimeSpent int       `json:"total_time_spent"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	Score          int       `json:"score"`

	SATReadingScore int `json:"sat_reading_score"`
	SATMathScore    int `json:"sat_math_score"`
	SATTotalScore   int `json:"sat_total_score"`

	CategoryPerformance   entity.JSONMap `json:"category_performance,omitempty"`
	SubtopicPerformance   entity.JSONMap `json:"subtopic_performance,omitempty"`
	DifficultyPerformance entity.JSONMap `json:"difficulty_performance,omitempty"`

	QuestionResults []QuestionResultResponse `json:"question_results,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PaginatedResultsResponse представляет пагинированный список результатов
type PaginatedResultsResponse struct {
	Results    []TestResultResponse `json:"results"`
	Pagination Pagination           `json:"pagination"`
}

// NewTestResultResponse создает DTO для результата попытки
func NewTestResultResponse(r *entity.TestResult) TestResultResponse {
	resp := TestResultResponse{
		ID:                    r.ID,
		UserID:                r.UserID,
		StartTime:             r.StartTime,
		EndTime:               r.EndTime,
		TotalTimeSpent:        r.TotalTimeSpent,
		TotalQuestions:        r.TotalQuestions,
		CorrectAnswers:        r.CorrectAnswers,
		Score:                 r.Score,
		SATReadingScore:       r.SATReadingScore,
		SATMathScore:          r.SATMathScore,
		SATTotalScore:         r.SATTotalScore,
		CategoryPerformance:   r.CategoryPerformance,
		SubtopicPerformance:   r.SubtopicPerformance,
		DifficultyPerformance: r.DifficultyPerformance,
		CreatedAt:             r.CreatedAt,
	}
	for _, qr := range r.QuestionResults {
		resp.QuestionResults = append(resp.QuestionResults, QuestionResultResponse{
			QuestionID: qr.QuestionID,
			UserAnswer: qr.UserAnswer,
			IsCorrect:  qr.IsCorrect,
			TimeSpent:  qr.TimeSpent,
		})
	}
	return resp
}

// NewPaginatedResultsResponse создает пагинированный ответ списка результатов
func NewPaginatedResultsResponse(results []entity.TestResult, page, limit int, total int64) PaginatedResultsResponse {
	items := make([]TestResultResponse, len(results))
	for i := range results {
		items[i] = NewTestResultResponse(&results[i])
	}
	return PaginatedResultsResponse{
		Results:    items,
		Pagination: NewPagination(page, limit, total),
	}
}
