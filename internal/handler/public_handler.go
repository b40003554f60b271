package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/handler/dto"
	"github.com/yourusername/satprep-api/internal/service"
)

// PublicHandler обрабатывает публичный поток ревью: лента pending-вопросов
// и упрощенный approve/reject без обязательной сессии
type PublicHandler struct {
	questionService *service.QuestionService
}

// NewPublicHandler создает новый публичный обработчик
func NewPublicHandler(questionService *service.QuestionService) *PublicHandler {
	return &PublicHandler{questionService: questionService}
}

// PublicReviewRequest представляет публичный запрос на ревью.
// Рейтинг опционален: approve без рейтинга дает 5, reject - 1.
type PublicReviewRequest struct {
	QuestionID      string  `json:"questionId" binding:"required"`
	Status          string  `json:"status" binding:"required"`
	Rating          *int    `json:"rating"`
	DiagramAccurate *bool   `json:"diagramAccurate"`
	Comments        *string `json:"comments"`
}

// ListPending возвращает ленту pending-вопросов для публичного ревью
// GET /api/public/questions
func (h *PublicHandler) ListPending(c *gin.Context) {
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	questions, err := h.questionService.ListPendingQuestions(category, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	items := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		items[i] = dto.NewQuestionResponse(&questions[i])
	}
	c.JSON(http.StatusOK, gin.H{"questions": items})
}

// Review применяет публичный вердикт ревью
// PATCH /api/public/questions
func (h *PublicHandler) Review(c *gin.Context) {
	var req PublicReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Личность берется из сессии, если она есть; иначе placeholder
	var reviewerEmail string
	var reviewerID *uint
	if email, exists := c.Get("email"); exists {
		reviewerEmail = email.(string)
	}
	if id, exists := c.Get("user_id"); exists {
		uid := id.(uint)
		reviewerID = &uid
	}

	question, err := h.questionService.ReviewQuestionPublic(reviewerEmail, reviewerID, service.ReviewSubmission{
		QuestionID:      req.QuestionID,
		Status:          req.Status,
		Rating:          req.Rating,
		DiagramAccurate: req.DiagramAccurate,
		Comments:        req.Comments,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}
