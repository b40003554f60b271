package service

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// TxRunner выполняет функцию внутри транзакции БД. Реализуется *gorm.DB.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// PublicReviewerIdentity записывается в ReviewedBy, когда публичный ревьюер
// не залогинен
const PublicReviewerIdentity = "public_reviewer"

// pendingFeedCacheKey - ключ кеша публичной ленты pending-вопросов
const pendingFeedCacheKey = "questions:pending-feed"

// pendingFeedCacheTTL - время жизни кеша ленты
const pendingFeedCacheTTL = 30 * time.Second

// Рейтинги по умолчанию для публичного ревью без явной оценки
const (
	defaultApproveRating = 5
	defaultRejectRating  = 1
)

// ReviewNotifier получает события ленты ревью (реализуется websocket-хабом)
type ReviewNotifier interface {
	NotifyQuestionReviewed(questionID, status string)
	NotifyQuestionStored(questionID string)
}

// ReviewSubmission описывает запрос на смену статуса ревью вопроса
type ReviewSubmission struct {
	QuestionID      string
	Status          string
	Rating          *int
	DiagramAccurate *bool
	Comments        *string
}

// QuestionService предоставляет методы для работы с вопросами и их ревью
type QuestionService struct {
	questionRepo repository.QuestionRepository
	reviewRepo   repository.QuestionReviewRepository
	cacheRepo    repository.CacheRepository
	notifier     ReviewNotifier
	db           TxRunner
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	reviewRepo repository.QuestionReviewRepository,
	cacheRepo repository.CacheRepository,
	notifier ReviewNotifier,
	db TxRunner,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		reviewRepo:   reviewRepo,
		cacheRepo:    cacheRepo,
		notifier:     notifier,
		db:           db,
	}
}

// normalizePagination приводит параметры пагинации к допустимым значениям
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// ListQuestions возвращает страницу вопросов по фильтрам и общее количество
func (s *QuestionService) ListQuestions(filters repository.QuestionFilters, page, limit int) ([]entity.Question, int64, error) {
	page, limit = normalizePagination(page, limit)
	offset := (page - 1) * limit
	return s.questionRepo.List(filters, limit, offset)
}

// ListQuestionsForExport возвращает все вопросы по фильтрам без пагинации
func (s *QuestionService) ListQuestionsForExport(filters repository.QuestionFilters) ([]entity.Question, error) {
	return s.questionRepo.ListAll(filters)
}

// GetQuestion возвращает вопрос по ID
func (s *QuestionService) GetQuestion(id string) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// validateStatus проверяет статус против допустимого набора
func validateStatus(status string, allowed ...string) error {
	for _, a := range allowed {
		if status == a {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid review status %q", apperrors.ErrValidation, status)
}

// ReviewQuestion выполняет админский переход статуса ревью.
// Переход в approved/rejected требует рейтинга в [1,5]; его отсутствие -
// ошибка валидации, а не молчаливый дефолт. Обновление вопроса и upsert
// оценки выполняются в одной транзакции: либо оба, либо ни одного.
func (s *QuestionService) ReviewQuestion(reviewerEmail string, reviewerID uint, sub ReviewSubmission) (*entity.Question, error) {
	if sub.QuestionID == "" {
		return nil, fmt.Errorf("%w: questionId is required", apperrors.ErrValidation)
	}
	if err := validateStatus(sub.Status, entity.ReviewStatusApproved, entity.ReviewStatusRejected, entity.ReviewStatusPending); err != nil {
		return nil, err
	}

	if sub.Status == entity.ReviewStatusApproved || sub.Status == entity.ReviewStatusRejected {
		if sub.Rating == nil || !entity.IsValidRating(*sub.Rating) {
			return nil, fmt.Errorf("%w: rating (1-5) is required for approval or rejection", apperrors.ErrValidation)
		}
	}

	// Проверяем существование вопроса до транзакции, чтобы вернуть честный 404
	if _, err := s.questionRepo.GetByID(sub.QuestionID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		verdict := repository.ReviewVerdict{
			Status:          sub.Status,
			Rating:          sub.Rating,
			DiagramAccurate: sub.DiagramAccurate,
			Comments:        sub.Comments,
			ReviewedBy:      reviewerEmail,
		}
		if err := s.questionRepo.ApplyReview(tx, sub.QuestionID, verdict); err != nil {
			return err
		}

		// Сброс в pending не несет оценки, строка QuestionReview не пишется
		if sub.Rating == nil {
			return nil
		}
		review := &entity.QuestionReview{
			UserID:      reviewerID,
			QuestionID:  sub.QuestionID,
			Rating:      *sub.Rating,
			Description: sub.Comments,
			HasDiagram:  sub.DiagramAccurate != nil && *sub.DiagramAccurate,
		}
		return s.reviewRepo.Upsert(tx, review)
	})
	if err != nil {
		return nil, err
	}

	s.afterReview(sub.QuestionID, sub.Status)

	return s.questionRepo.GetByID(sub.QuestionID)
}

// ReviewQuestionPublic выполняет публичный переход статуса ревью.
// В отличие от админского потока: допускается только approved/rejected,
// отсутствующий рейтинг получает дефолт (5 за approve, 1 за reject),
// а при отсутствии сессии записывается placeholder-личность без строки
// QuestionReview.
func (s *QuestionService) ReviewQuestionPublic(reviewerEmail string, reviewerID *uint, sub ReviewSubmission) (*entity.Question, error) {
	if sub.QuestionID == "" {
		return nil, fmt.Errorf("%w: questionId is required", apperrors.ErrValidation)
	}
	if err := validateStatus(sub.Status, entity.ReviewStatusApproved, entity.ReviewStatusRejected); err != nil {
		return nil, err
	}

	if sub.Rating == nil {
		def := defaultApproveRating
		if sub.Status == entity.ReviewStatusRejected {
			def = defaultRejectRating
		}
		sub.Rating = &def
	} else if !entity.IsValidRating(*sub.Rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidation)
	}

	if reviewerEmail == "" {
		reviewerEmail = PublicReviewerIdentity
	}

	if _, err := s.questionRepo.GetByID(sub.QuestionID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		verdict := repository.ReviewVerdict{
			Status:          sub.Status,
			Rating:          sub.Rating,
			DiagramAccurate: sub.DiagramAccurate,
			Comments:        sub.Comments,
			ReviewedBy:      reviewerEmail,
		}
		if err := s.questionRepo.ApplyReview(tx, sub.QuestionID, verdict); err != nil {
			return err
		}

		// Строка QuestionReview создается только для залогиненных ревьюеров
		if reviewerID == nil {
			return nil
		}
		review := &entity.QuestionReview{
			UserID:      *reviewerID,
			QuestionID:  sub.QuestionID,
			Rating:      *sub.Rating,
			Description: sub.Comments,
			HasDiagram:  sub.DiagramAccurate != nil && *sub.DiagramAccurate,
		}
		return s.reviewRepo.Upsert(tx, review)
	})
	if err != nil {
		return nil, err
	}

	s.afterReview(sub.QuestionID, sub.Status)

	return s.questionRepo.GetByID(sub.QuestionID)
}

// afterReview инвалидирует кеш ленты и рассылает событие подписчикам
func (s *QuestionService) afterReview(questionID, status string) {
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Delete(pendingFeedCacheKey); err != nil {
			log.Printf("[QuestionService] Ошибка инвалидации кеша ленты: %v", err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyQuestionReviewed(questionID, status)
	}
}

// ListPendingQuestions возвращает публичную ленту pending-вопросов.
// Лента без фильтра по категории кешируется на короткий срок.
func (s *QuestionService) ListPendingQuestions(category string, limit int) ([]entity.Question, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	// Кешируется только дефолтная лента без фильтров, чтобы инвалидация
	// сводилась к удалению одного ключа
	cacheable := category == "" && limit == 10 && s.cacheRepo != nil

	if cacheable {
		var cached []entity.Question
		if err := s.cacheRepo.GetJSON(pendingFeedCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	questions, err := s.questionRepo.ListPending(category, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cacheRepo.SetJSON(pendingFeedCacheKey, questions, pendingFeedCacheTTL); err != nil {
			log.Printf("[QuestionService] Ошибка записи ленты в кеш: %v", err)
		}
	}

	return questions, nil
}

// GetQuestionImage возвращает данные изображения вопроса
func (s *QuestionService) GetQuestionImage(id string) (*entity.Question, error) {
	return s.questionRepo.GetImage(id)
}
