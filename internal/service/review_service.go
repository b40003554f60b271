package service

import (
	"fmt"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// ReviewService предоставляет методы для работы с оценками вопросов
type ReviewService struct {
	reviewRepo   repository.QuestionReviewRepository
	questionRepo repository.QuestionRepository
}

// NewReviewService создает новый сервис оценок
func NewReviewService(reviewRepo repository.QuestionReviewRepository, questionRepo repository.QuestionRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		questionRepo: questionRepo,
	}
}

// SubmitReview создает или перезаписывает оценку пользователя для вопроса.
// Повторная отправка того же пользователя обновляет существующую строку.
func (s *ReviewService) SubmitReview(userID uint, questionID string, rating int, description *string, hasDiagram bool) (*entity.QuestionReview, error) {
	if !entity.IsValidRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidation)
	}

	// Оценка не может ссылаться на несуществующий вопрос
	if _, err := s.questionRepo.GetByID(questionID); err != nil {
		return nil, err
	}

	review := &entity.QuestionReview{
		UserID:      userID,
		QuestionID:  questionID,
		Rating:      rating,
		Description: description,
		HasDiagram:  hasDiagram,
	}
	if err := s.reviewRepo.Upsert(nil, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetQuestionReviews возвращает все оценки вопроса, новые сначала
func (s *ReviewService) GetQuestionReviews(questionID string) ([]entity.QuestionReview, error) {
	if _, err := s.questionRepo.GetByID(questionID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByQuestion(questionID)
}

// ListReviews возвращает страницу оценок по всем вопросам
func (s *ReviewService) ListReviews(page, limit int) ([]entity.QuestionReview, int64, error) {
	page, limit = normalizePagination(page, limit)
	offset := (page - 1) * limit
	return s.reviewRepo.List(limit, offset)
}
