package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/handler/dto"
	"github.com/yourusername/satprep-api/internal/service"
)

// ReviewHandler обрабатывает запросы к оценкам вопросов
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler создает новый обработчик оценок
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReviewRequest представляет запрос на отправку оценки
type SubmitReviewRequest struct {
	Rating      int     `json:"rating" binding:"required"`
	Description *string `json:"description"`
	HasDiagram  bool    `json:"hasDiagram"`
}

// SubmitReview создает или перезаписывает оценку текущего пользователя
// POST /api/questions/:id/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)
	userID := c.MustGet("user_id").(uint)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.SubmitReview(userID, questionID, req.Rating, req.Description, req.HasDiagram)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReviewResponse(review))
}

// GetQuestionReviews возвращает все оценки вопроса
// GET /api/questions/:id/reviews
func (h *ReviewHandler) GetQuestionReviews(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	reviews, err := h.reviewService.GetQuestionReviews(questionID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": dto.NewReviewListResponse(reviews)})
}

// ListReviews возвращает пагинированный список оценок по всем вопросам
// GET /api/admin/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reviews, total, err := h.reviewService.ListReviews(page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedReviewsResponse{
		Reviews:    dto.NewReviewListResponse(reviews),
		Pagination: dto.NewPagination(page, limit, total),
	})
}
