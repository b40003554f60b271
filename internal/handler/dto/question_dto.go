package dto

import (
	"math"
	"time"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/handler/helper"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Бинарные данные изображения пере-кодируются в base64 data-URI.
type QuestionResponse struct {
	ID            string         `json:"id"`
	SubtopicID    *string        `json:"subtopic_id,omitempty"`
	ModuleType    string         `json:"module_type"`
	Difficulty    string         `json:"difficulty"`
	Category      string         `json:"category"`
	Subtopic      string         `json:"subtopic"`
	Question      string         `json:"question"`
	Passage       *string        `json:"passage,omitempty"`
	Options       []string       `json:"options"`
	CorrectAnswer int            `json:"correct_answer"`
	Explanation   string         `json:"explanation"`
	ImageURL      *string        `json:"image_url,omitempty"`
	ImageAlt      *string        `json:"image_alt,omitempty"`
	ImageData     string         `json:"image_data,omitempty"`
	ChartData     entity.JSONMap `json:"chart_data,omitempty"`
	TimeEstimate  int            `json:"time_estimate"`
	Source        string         `json:"source"`
	Tags          []string       `json:"tags"`
	IsActive      bool           `json:"is_active"`

	ReviewStatus    *string    `json:"review_status"`
	ReviewRating    *int       `json:"review_rating,omitempty"`
	DiagramAccurate *bool      `json:"diagram_accurate,omitempty"`
	ReviewComments  *string    `json:"review_comments,omitempty"`
	ReviewedBy      *string    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination описывает страницу списочного ответа
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination вычисляет пагинацию: pages всегда ceil(total/limit)
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// PaginatedQuestionsResponse представляет пагинированный список вопросов
type PaginatedQuestionsResponse struct {
	Questions  []QuestionResponse `json:"questions"`
	Pagination Pagination         `json:"pagination"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:              q.ID,
		SubtopicID:      q.SubtopicID,
		ModuleType:      q.ModuleType,
		Difficulty:      q.Difficulty,
		Category:        q.Category,
		Subtopic:        q.Subtopic,
		Question:        q.Question,
		Passage:         q.Passage,
		Options:         q.Options,
		CorrectAnswer:   q.CorrectAnswer,
		Explanation:     q.Explanation,
		ImageURL:        q.ImageURL,
		ImageAlt:        q.ImageAlt,
		ImageData:       helper.EncodeImageData(q.ImageData, q.ImageMimeType),
		ChartData:       q.ChartData,
		TimeEstimate:    q.TimeEstimate,
		Source:          q.Source,
		Tags:            q.Tags,
		IsActive:        q.IsActive,
		ReviewStatus:    q.ReviewStatus,
		ReviewRating:    q.ReviewRating,
		DiagramAccurate: q.DiagramAccurate,
		ReviewComments:  q.ReviewComments,
		ReviewedBy:      q.ReviewedBy,
		ReviewedAt:      q.ReviewedAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

// NewPaginatedQuestionsResponse создает пагинированный ответ списка вопросов
func NewPaginatedQuestionsResponse(questions []entity.Question, page, limit int, total int64) PaginatedQuestionsResponse {
	items := make([]QuestionResponse, len(questions))
	for i := range questions {
		items[i] = NewQuestionResponse(&questions[i])
	}
	return PaginatedQuestionsResponse{
		Questions:  items,
		Pagination: NewPagination(page, limit, total),
	}
}
