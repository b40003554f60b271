package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
	"github.com/yourusername/satprep-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubImageRepo подменяет только GetImage; остальные методы не вызываются
type stubImageRepo struct {
	repository.QuestionRepository
	question *entity.Question
	err      error
}

func (s *stubImageRepo) GetImage(id string) (*entity.Question, error) {
	return s.question, s.err
}

// newImageTestContext создает *gin.Context с установленным questionID
func newImageTestContext(questionID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/questions/"+questionID+"/image", nil)
	c.Set("questionID", questionID)
	return c, w
}

func newImageHandler(repo repository.QuestionRepository) *ImageHandler {
	svc := service.NewQuestionService(repo, nil, nil, nil, nil)
	return NewImageHandler(svc)
}

func TestGetImage_MissingImageReturnsPlaceholderSVG(t *testing.T) {
	// Arrange: вопрос без изображения в БД
	handler := newImageHandler(&stubImageRepo{err: apperrors.ErrNotFound})
	c, w := newImageTestContext("11111111-1111-1111-1111-111111111111")

	// Act
	handler.GetImage(c)

	// Assert: 404 + SVG-заглушка, никогда не JSON-ошибка
	assert.Equal(t, http.StatusNotFound, w.Code, "Отсутствующее изображение должно давать 404")
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Image Not Available", "Тело должно содержать SVG-заглушку")
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
}

func TestGetImage_RepositoryErrorReturnsPlaceholderSVG(t *testing.T) {
	// Arrange: произвольный сбой репозитория тоже не должен отдавать JSON
	handler := newImageHandler(&stubImageRepo{err: errors.New("connection reset")})
	c, w := newImageTestContext("22222222-2222-2222-2222-222222222222")

	// Act
	handler.GetImage(c)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg", "Клиент всегда получает картинку, не JSON")
}

func TestGetImage_StoredImageServedWithMimeAndAlt(t *testing.T) {
	// Arrange: вопрос с PNG-блобом и alt-текстом
	mime := "image/png"
	alt := "Bar chart of sales"
	handler := newImageHandler(&stubImageRepo{question: &entity.Question{
		ID:            "33333333-3333-3333-3333-333333333333",
		ImageData:     []byte{0x89, 0x50, 0x4E, 0x47},
		ImageMimeType: &mime,
		ImageAlt:      &alt,
	}})
	c, w := newImageTestContext("33333333-3333-3333-3333-333333333333")

	// Act
	handler.GetImage(c)

	// Assert: сохраненный MIME, alt в заголовке, immutable-кеширование
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "Bar chart of sales", w.Header().Get("X-Image-Alt"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, w.Body.Bytes())
}

func TestGetImage_EmptyBlobReturnsPlaceholderSVG(t *testing.T) {
	// Arrange: запись есть, но блоб пустой
	handler := newImageHandler(&stubImageRepo{question: &entity.Question{ID: "44444444-4444-4444-4444-444444444444"}})
	c, w := newImageTestContext("44444444-4444-4444-4444-444444444444")

	// Act
	handler.GetImage(c)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Image Not Available")
}
