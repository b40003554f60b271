package service

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
	"github.com/yourusername/satprep-api/internal/service/scoring"
)

// AnswerSubmission - ответ пользователя на один вопрос в отправке результатов
type AnswerSubmission struct {
	QuestionID string
	UserAnswer int
	IsCorrect  bool
	TimeSpent  int
	ModuleType string
	Category   string
	Subtopic   string
	Difficulty string
}

// TestSubmission - полная отправка результатов одной попытки
type TestSubmission struct {
	UserID    uint
	StartTime time.Time
	EndTime   time.Time
	Answers   []AnswerSubmission
}

// ResultService предоставляет методы для работы с результатами тестов
type ResultService struct {
	resultRepo repository.TestResultRepository
	db         TxRunner
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.TestResultRepository, db TxRunner) *ResultService {
	return &ResultService{
		resultRepo: resultRepo,
		db:         db,
	}
}

// sectionTally - счетчик правильных ответов по срезу (категория, подтема и т.п.)
type sectionTally struct {
	Correct int
	Total   int
}

// SubmitTestResult подсчитывает итоги попытки и сохраняет их.
// SAT-баллы считаются раздельно по секциям math и reading_writing, общий
// балл равен их сумме. Результат и дочерние ответы пишутся в одной
// транзакции.
func (s *ResultService) SubmitTestResult(sub TestSubmission) (*entity.TestResult, error) {
	if len(sub.Answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", apperrors.ErrValidation)
	}
	if sub.EndTime.Before(sub.StartTime) {
		return nil, fmt.Errorf("%w: endTime precedes startTime", apperrors.ErrValidation)
	}

	var (
		correct, totalTime     int
		rwCorrect, rwTotal     int
		mathCorrect, mathTotal int

		categoryTally   = map[string]*sectionTally{}
		subtopicTally   = map[string]*sectionTally{}
		difficultyTally = map[string]*sectionTally{}
	)

	for _, a := range sub.Answers {
		totalTime += a.TimeSpent
		if a.IsCorrect {
			correct++
		}

		switch a.ModuleType {
		case entity.ModuleTypeMath:
			mathTotal++
			if a.IsCorrect {
				mathCorrect++
			}
		default:
			rwTotal++
			if a.IsCorrect {
				rwCorrect++
			}
		}

		bump(categoryTally, a.Category, a.IsCorrect)
		bump(subtopicTally, a.Subtopic, a.IsCorrect)
		bump(difficultyTally, a.Difficulty, a.IsCorrect)
	}

	satScore := scoring.CalculateSATScore(rwCorrect, rwTotal, mathCorrect, mathTotal)

	result := &entity.TestResult{
		UserID:                sub.UserID,
		StartTime:             sub.StartTime,
		EndTime:               sub.EndTime,
		TotalTimeSpent:        totalTime,
		TotalQuestions:        len(sub.Answers),
		CorrectAnswers:        correct,
		Score:                 percentScore(correct, len(sub.Answers)),
		SATReadingScore:       satScore.ReadingWritingScore,
		SATMathScore:          satScore.MathScore,
		SATTotalScore:         satScore.TotalScore,
		CategoryPerformance:   tallyMap(categoryTally),
		SubtopicPerformance:   tallyMap(subtopicTally),
		DifficultyPerformance: tallyMap(difficultyTally),
	}

	for _, a := range sub.Answers {
		result.QuestionResults = append(result.QuestionResults, entity.QuestionResult{
			QuestionID: a.QuestionID,
			UserAnswer: a.UserAnswer,
			IsCorrect:  a.IsCorrect,
			TimeSpent:  a.TimeSpent,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.resultRepo.Create(tx, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetResult возвращает результат по ID, только владельцу
func (s *ResultService) GetResult(id string, userID uint) (*entity.TestResult, error) {
	result, err := s.resultRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if result.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return result, nil
}

// GetUserResults возвращает страницу результатов пользователя
func (s *ResultService) GetUserResults(userID uint, page, limit int) ([]entity.TestResult, int64, error) {
	page, limit = normalizePagination(page, limit)
	offset := (page - 1) * limit
	return s.resultRepo.GetByUser(userID, limit, offset)
}

// percentScore возвращает процент правильных ответов, округленный до ближайшего целого
func percentScore(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

func bump(tally map[string]*sectionTally, key string, isCorrect bool) {
	if key == "" {
		return
	}
	t, ok := tally[key]
	if !ok {
		t = &sectionTally{}
		tally[key] = t
	}
	t.Total++
	if isCorrect {
		t.Correct++
	}
}

func tallyMap(tally map[string]*sectionTally) entity.JSONMap {
	m := entity.JSONMap{}
	for k, v := range tally {
		m[k] = map[string]interface{}{
			"correct": v.Correct,
			"total":   v.Total,
		}
	}
	return m
}
