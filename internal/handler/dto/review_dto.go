package dto

import (
	"time"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// ReviewResponse представляет оценку вопроса в формате для ответа клиенту
type ReviewResponse struct {
	ID          string    `json:"id"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	QuestionID  string    `json:"question_id"`
	Rating      int       `json:"rating"`
	Description *string   `json:"description,omitempty"`
	HasDiagram  bool      `json:"has_diagram"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginatedReviewsResponse представляет пагинированный список оценок
type PaginatedReviewsResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}

// NewReviewResponse создает DTO для оценки
func NewReviewResponse(r *entity.QuestionReview) ReviewResponse {
	resp := ReviewResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		QuestionID:  r.QuestionID,
		Rating:      r.Rating,
		Description: r.Description,
		HasDiagram:  r.HasDiagram,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.User != nil {
		resp.Username = r.User.Username
	}
	return resp
}

// NewReviewListResponse создает список DTO оценок
func NewReviewListResponse(reviews []entity.QuestionReview) []ReviewResponse {
	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = NewReviewResponse(&reviews[i])
	}
	return items
}
