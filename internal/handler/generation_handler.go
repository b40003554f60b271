package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/domain/repository"
	"github.com/yourusername/satprep-api/internal/service/generation"
)

// GenerationHandler обрабатывает запросы генерации вопросов и список тем
type GenerationHandler struct {
	pipeline  *generation.Pipeline
	topicRepo repository.TopicRepository
}

// NewGenerationHandler создает новый обработчик генерации
func NewGenerationHandler(pipeline *generation.Pipeline, topicRepo repository.TopicRepository) *GenerationHandler {
	return &GenerationHandler{
		pipeline:  pipeline,
		topicRepo: topicRepo,
	}
}

// GenerateRequest представляет запрос на запуск пайплайна генерации
type GenerateRequest struct {
	MathCount    int `json:"mathCount" binding:"min=0,max=20"`
	ReadingCount int `json:"readingCount" binding:"min=0,max=20"`

	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`

	IncludeCharts   *bool `json:"includeCharts"`
	IncludePassages *bool `json:"includePassages"`

	StoreInDatabase *bool `json:"storeInDatabase"`
	SkipEvaluation  bool  `json:"skipEvaluation"`

	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	TopicID    string `json:"topicId"`
	SubtopicID string `json:"subtopicId"`
}

// Generate запускает пайплайн генерации
// POST /api/admin/generate
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := generation.Options{
		MathCount:       req.MathCount,
		ReadingCount:    req.ReadingCount,
		Temperature:     req.Temperature,
		MaxTokens:       req.MaxTokens,
		IncludeCharts:   req.IncludeCharts == nil || *req.IncludeCharts,
		IncludePassages: req.IncludePassages == nil || *req.IncludePassages,
		StoreInDatabase: req.StoreInDatabase == nil || *req.StoreInDatabase,
		SkipEvaluation:  req.SkipEvaluation,
		Difficulty:      req.Difficulty,
		TopicID:         req.TopicID,
		SubtopicID:      req.SubtopicID,
	}

	result, err := h.pipeline.Run(c.Request.Context(), opts)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListTopics возвращает активные разделы с подразделами для UI генерации
// GET /api/admin/topics
func (h *GenerationHandler) ListTopics(c *gin.Context) {
	topics, err := h.topicRepo.ListActive()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
