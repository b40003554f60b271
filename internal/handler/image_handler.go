package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/service"
)

// placeholderSVG отдается вместо отсутствующего или недоступного изображения
const placeholderSVG = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f3f4f6"/>
  <text x="50%" y="40%" font-family="Arial, sans-serif" font-size="24" fill="#6b7280" text-anchor="middle" dominant-baseline="middle">Image Not Available</text>
  <text x="50%" y="55%" font-family="Arial, sans-serif" font-size="14" fill="#9ca3af" text-anchor="middle" dominant-baseline="middle">This diagram could not be loaded</text>
</svg>`

// ImageHandler отдает изображения вопросов, хранящиеся блобами в БД
type ImageHandler struct {
	questionService *service.QuestionService
}

// NewImageHandler создает новый обработчик изображений
func NewImageHandler(questionService *service.QuestionService) *ImageHandler {
	return &ImageHandler{questionService: questionService}
}

// GetImage отдает изображение вопроса или SVG-заглушку с 404.
// Endpoint никогда не возвращает JSON-ошибку: по контракту клиент всегда
// получает картинку.
// GET /api/questions/:id/image
func (h *ImageHandler) GetImage(c *gin.Context) {
	questionID := c.MustGet("questionID").(string)

	question, err := h.questionService.GetQuestionImage(questionID)
	if err != nil || question == nil || len(question.ImageData) == 0 {
		if err != nil {
			log.Printf("[ImageHandler] Изображение для вопроса %s недоступно: %v", questionID, err)
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusNotFound, "image/svg+xml", []byte(placeholderSVG))
		return
	}

	mimeType := "image/svg+xml"
	if question.ImageMimeType != nil && *question.ImageMimeType != "" {
		mimeType = *question.ImageMimeType
	}
	if question.ImageAlt != nil {
		c.Header("X-Image-Alt", *question.ImageAlt)
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, mimeType, question.ImageData)
}
