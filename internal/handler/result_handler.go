package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/handler/dto"
	"github.com/yourusername/satprep-api/internal/service"
)

// ResultHandler обрабатывает запросы к результатам тестов
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// AnswerRequest представляет ответ на один вопрос в отправке результатов
type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	UserAnswer int    `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
	TimeSpent  int    `json:"timeSpent"`
	ModuleType string `json:"moduleType" binding:"required"`
	Category   string `json:"category"`
	Subtopic   string `json:"subtopic"`
	Difficulty string `json:"difficulty"`
}

// SubmitResultRequest представляет отправку результатов одной попытки
type SubmitResultRequest struct {
	StartTime time.Time       `json:"startTime" binding:"required"`
	EndTime   time.Time       `json:"endTime" binding:"required"`
	Answers   []AnswerRequest `json:"answers" binding:"required"`
}

// SubmitResult подсчитывает и сохраняет итоги попытки
// POST /api/test-results
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := service.TestSubmission{
		UserID:    userID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	for _, a := range req.Answers {
		sub.Answers = append(sub.Answers, service.AnswerSubmission{
			QuestionID: a.QuestionID,
			UserAnswer: a.UserAnswer,
			IsCorrect:  a.IsCorrect,
			TimeSpent:  a.TimeSpent,
			ModuleType: a.ModuleType,
			Category:   a.Category,
			Subtopic:   a.Subtopic,
			Difficulty: a.Difficulty,
		})
	}

	result, err := h.resultService.SubmitTestResult(sub)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTestResultResponse(result))
}

// GetResult возвращает результат по ID (только владельцу)
// GET /api/test-results/:id
func (h *ResultHandler) GetResult(c *gin.Context) {
	resultID := c.MustGet("resultID").(string)
	userID := c.MustGet("user_id").(uint)

	result, err := h.resultService.GetResult(resultID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResultResponse(result))
}

// ListMyResults возвращает результаты текущего пользователя
// GET /api/test-results
func (h *ResultHandler) ListMyResults(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, total, err := h.resultService.GetUserResults(userID, page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultsResponse(results, page, limit, total))
}
