package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) Create(tx *gorm.DB, result *entity.TestResult) error {
	args := m.Called(tx, result)
	return args.Error(0)
}

func (m *MockResultRepo) GetByID(id string) (*entity.TestResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestResult), args.Error(1)
}

func (m *MockResultRepo) GetByUser(userID uint, limit, offset int) ([]entity.TestResult, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.TestResult), args.Get(1).(int64), args.Error(2)
}

func newTestResultService() (*ResultService, *MockResultRepo) {
	resultRepo := new(MockResultRepo)
	svc := NewResultService(resultRepo, &fakeTxRunner{})
	return svc, resultRepo
}

func mathAnswer(correct bool) AnswerSubmission {
	return AnswerSubmission{
		QuestionID: "q-m",
		UserAnswer: 1,
		IsCorrect:  correct,
		TimeSpent:  30,
		ModuleType: entity.ModuleTypeMath,
		Category:   "Algebra",
		Subtopic:   "Linear equations",
		Difficulty: "medium",
	}
}

func rwAnswer(correct bool) AnswerSubmission {
	return AnswerSubmission{
		QuestionID: "q-r",
		UserAnswer: 2,
		IsCorrect:  correct,
		TimeSpent:  45,
		ModuleType: entity.ModuleTypeReadingWriting,
		Category:   "Craft and Structure",
		Subtopic:   "Words in context",
		Difficulty: "easy",
	}
}

func TestSubmitTestResult_ComputesAggregates(t *testing.T) {
	svc, resultRepo := newTestResultService()

	resultRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	start := time.Now().Add(-time.Hour)
	sub := TestSubmission{
		UserID:    1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Answers: []AnswerSubmission{
			mathAnswer(true),
			mathAnswer(false),
			rwAnswer(true),
			rwAnswer(true),
		},
	}

	result, err := svc.SubmitTestResult(sub)

	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 75, result.Score)
	assert.Equal(t, 150, result.TotalTimeSpent)
	assert.Len(t, result.QuestionResults, 4)

	// Секции считаются раздельно: math 1/2, reading_writing 2/2
	assert.Equal(t, 800, result.SATReadingScore)
	assert.Equal(t, 450, result.SATMathScore)
	assert.Equal(t, result.SATReadingScore+result.SATMathScore, result.SATTotalScore)

	resultRepo.AssertExpectations(t)
}

func TestSubmitTestResult_ScoreRoundsToNearestPercent(t *testing.T) {
	svc, resultRepo := newTestResultService()

	resultRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	start := time.Now().Add(-time.Hour)

	// 2/3 = 66.67% округляется вверх до 67, а не отбрасывается до 66
	sub := TestSubmission{
		UserID:    1,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Answers: []AnswerSubmission{
			mathAnswer(true),
			mathAnswer(true),
			mathAnswer(false),
		},
	}

	result, err := svc.SubmitTestResult(sub)

	require.NoError(t, err)
	assert.Equal(t, 67, result.Score, "Процент должен округляться до ближайшего целого")

	// 1/3 = 33.33% округляется вниз до 33
	sub.Answers = []AnswerSubmission{
		mathAnswer(true),
		mathAnswer(false),
		mathAnswer(false),
	}

	result, err = svc.SubmitTestResult(sub)

	require.NoError(t, err)
	assert.Equal(t, 33, result.Score)
}

func TestSubmitTestResult_PerformanceBreakdowns(t *testing.T) {
	svc, resultRepo := newTestResultService()

	resultRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	start := time.Now()
	result, err := svc.SubmitTestResult(TestSubmission{
		UserID:    1,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
		Answers:   []AnswerSubmission{mathAnswer(true), mathAnswer(true), rwAnswer(false)},
	})

	require.NoError(t, err)

	algebra := result.CategoryPerformance["Algebra"].(map[string]interface{})
	assert.Equal(t, 2, algebra["correct"])
	assert.Equal(t, 2, algebra["total"])

	craft := result.CategoryPerformance["Craft and Structure"].(map[string]interface{})
	assert.Equal(t, 0, craft["correct"])
	assert.Equal(t, 1, craft["total"])

	medium := result.DifficultyPerformance["medium"].(map[string]interface{})
	assert.Equal(t, 2, medium["total"])
}

func TestSubmitTestResult_EmptyAnswersFails(t *testing.T) {
	svc, resultRepo := newTestResultService()

	_, err := svc.SubmitTestResult(TestSubmission{UserID: 1, StartTime: time.Now(), EndTime: time.Now()})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	resultRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitTestResult_EndBeforeStartFails(t *testing.T) {
	svc, _ := newTestResultService()

	now := time.Now()
	_, err := svc.SubmitTestResult(TestSubmission{
		UserID:    1,
		StartTime: now,
		EndTime:   now.Add(-time.Minute),
		Answers:   []AnswerSubmission{mathAnswer(true)},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSubmitTestResult_SingleSectionOnly(t *testing.T) {
	// Пустая секция дает минимальный балл 200, а не ошибку
	svc, resultRepo := newTestResultService()

	resultRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	start := time.Now()
	result, err := svc.SubmitTestResult(TestSubmission{
		UserID:    1,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
		Answers:   []AnswerSubmission{mathAnswer(true)},
	})

	require.NoError(t, err)
	assert.Equal(t, 200, result.SATReadingScore)
	assert.Equal(t, 800, result.SATMathScore)
	assert.Equal(t, 1000, result.SATTotalScore)
}

func TestGetResult_ForbiddenForOtherUser(t *testing.T) {
	svc, resultRepo := newTestResultService()

	resultRepo.On("GetByID", "r-1").Return(&entity.TestResult{ID: "r-1", UserID: 1}, nil)

	_, err := svc.GetResult("r-1", 2)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestGetUserResults_Pagination(t *testing.T) {
	svc, resultRepo := newTestResultService()

	resultRepo.On("GetByUser", uint(1), 20, 20).Return([]entity.TestResult{}, int64(0), nil)

	_, _, err := svc.GetUserResults(1, 2, 0)

	require.NoError(t, err)
	resultRepo.AssertExpectations(t)
}
