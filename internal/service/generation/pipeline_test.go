package generation

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
)

// fakeLLM возвращает заготовленные ответы: generation и evaluation различаются
// по системной роли
type fakeLLM struct {
	generation string
	evaluation string
	genErr     error
	evalErr    error
}

func (f *fakeLLM) Complete(ctx context.Context, systemRole, prompt string, temperature float64, maxTokens int) (string, error) {
	if systemRole == roleEvaluator {
		return f.evaluation, f.evalErr
	}
	return f.generation, f.genErr
}

type mockTopicRepo struct {
	mock.Mock
}

func (m *mockTopicRepo) ListActive() ([]entity.Topic, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Topic), args.Error(1)
}

func (m *mockTopicRepo) GetTopicByID(id string) (*entity.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Topic), args.Error(1)
}

func (m *mockTopicRepo) GetSubtopicByID(id string) (*entity.Subtopic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subtopic), args.Error(1)
}

func (m *mockTopicRepo) FindSubtopicByName(name string) (*entity.Subtopic, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subtopic), args.Error(1)
}

func (m *mockTopicRepo) ListSubtopics(moduleType, topicID string) ([]entity.Subtopic, error) {
	args := m.Called(moduleType, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subtopic), args.Error(1)
}

func (m *mockTopicRepo) IncrementSubtopicCount(tx *gorm.DB, subtopicID string) error {
	args := m.Called(tx, subtopicID)
	return args.Error(0)
}

type mockQuestionRepo struct {
	mock.Mock
	stored []*entity.Question
}

func (m *mockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *mockQuestionRepo) CreateTx(tx *gorm.DB, question *entity.Question) error {
	args := m.Called(tx, question)
	if args.Error(0) == nil {
		if question.ID == "" {
			question.ID = "generated-id"
		}
		m.stored = append(m.stored, question)
	}
	return args.Error(0)
}

func (m *mockQuestionRepo) GetByID(id string) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *mockQuestionRepo) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *mockQuestionRepo) List(filters repository.QuestionFilters, limit, offset int) ([]entity.Question, int64, error) {
	args := m.Called(filters, limit, offset)
	return args.Get(0).([]entity.Question), args.Get(1).(int64), args.Error(2)
}

func (m *mockQuestionRepo) ListAll(filters repository.QuestionFilters) ([]entity.Question, error) {
	args := m.Called(filters)
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *mockQuestionRepo) ListPending(category string, limit int) ([]entity.Question, error) {
	args := m.Called(category, limit)
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *mockQuestionRepo) ApplyReview(tx *gorm.DB, questionID string, verdict repository.ReviewVerdict) error {
	args := m.Called(tx, questionID, verdict)
	return args.Error(0)
}

func (m *mockQuestionRepo) GetImage(id string) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendReviewDigest(ctx context.Context, toEmails []string, questions []entity.Question) error {
	args := m.Called(toEmails, questions)
	return args.Error(0)
}

type fakeTx struct{}

func (f *fakeTx) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

func algebraSubtopic() entity.Subtopic {
	return entity.Subtopic{
		ID:    "sub-1",
		Name:  "Linear equations",
		Topic: &entity.Topic{ID: "top-1", Name: "Algebra"},
	}
}

const generationJSON = `[{"question":"Solve for x: 2x + 6 = 10. What is the value of x?","options":["1","2","3","4"],"correctAnswer":1,"explanation":"Subtract 6 from both sides to get 2x = 4, then divide both sides by 2 to arrive at x = 2.","points":1}]`

const trustedEvaluationJSON = `{"difficulty":"easy","qualityScore":0.9,"isAccepted":true,"evaluationFeedback":"Solid question"}`

func newTestPipeline(llm LLMClient) (*Pipeline, *mockQuestionRepo, *mockTopicRepo, *mockMailer) {
	questionRepo := new(mockQuestionRepo)
	topicRepo := new(mockTopicRepo)
	mailer := new(mockMailer)
	p := NewPipeline(llm, questionRepo, topicRepo, mailer, nil, &fakeTx{}, []string{"admin@example.com"})
	return p, questionRepo, topicRepo, mailer
}

func TestRun_TrustedEvaluationStoresWithoutReviewFlag(t *testing.T) {
	llm := &fakeLLM{generation: generationJSON, evaluation: trustedEvaluationJSON}
	p, questionRepo, topicRepo, mailer := newTestPipeline(llm)

	topicRepo.On("ListSubtopics", entity.ModuleTypeMath, "").Return([]entity.Subtopic{algebraSubtopic()}, nil)
	topicRepo.On("FindSubtopicByName", "Linear equations").Return(func() *entity.Subtopic { s := algebraSubtopic(); return &s }(), nil)
	topicRepo.On("IncrementSubtopicCount", mock.Anything, "sub-1").Return(nil)
	questionRepo.On("CreateTx", mock.Anything, mock.Anything).Return(nil)

	result, err := p.Run(context.Background(), Options{MathCount: 1, StoreInDatabase: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Generated)
	assert.Equal(t, 1, result.Summary.Accepted)
	assert.Equal(t, 1, result.Summary.Stored)
	assert.Equal(t, 0, result.Summary.NeedsReview)

	require.Len(t, questionRepo.stored, 1)
	q := questionRepo.stored[0]
	assert.Nil(t, q.ReviewStatus)
	assert.Nil(t, q.ReviewComments)
	assert.Equal(t, "Algebra", q.Category)
	assert.Equal(t, "Linear equations", q.Subtopic)
	require.NotNil(t, q.SubtopicID)
	assert.Equal(t, "sub-1", *q.SubtopicID)

	mailer.AssertNotCalled(t, "SendReviewDigest", mock.Anything, mock.Anything)
}

func TestRun_FallbackEvaluationFlagsForReview(t *testing.T) {
	// Оценщик недоступен: эвристика, статус pending и пометка в комментариях
	llm := &fakeLLM{generation: generationJSON, evalErr: errors.New("evaluator down")}
	p, questionRepo, topicRepo, mailer := newTestPipeline(llm)

	topicRepo.On("ListSubtopics", entity.ModuleTypeMath, "").Return([]entity.Subtopic{algebraSubtopic()}, nil)
	topicRepo.On("FindSubtopicByName", "Linear equations").Return(nil, errors.New("not found"))
	questionRepo.On("CreateTx", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendReviewDigest", []string{"admin@example.com"}, mock.Anything).Return(nil)

	result, err := p.Run(context.Background(), Options{MathCount: 1, StoreInDatabase: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Stored)
	assert.Equal(t, 1, result.Summary.NeedsReview)

	require.Len(t, questionRepo.stored, 1)
	q := questionRepo.stored[0]
	require.NotNil(t, q.ReviewStatus)
	assert.Equal(t, entity.ReviewStatusPending, *q.ReviewStatus)
	require.NotNil(t, q.ReviewComments)
	assert.True(t, strings.HasPrefix(*q.ReviewComments, reviewNeededPrefix))
	assert.Nil(t, q.SubtopicID)

	mailer.AssertExpectations(t)
}

func TestRun_SkipEvaluationAcceptsEverything(t *testing.T) {
	llm := &fakeLLM{generation: generationJSON, evalErr: errors.New("must not be called")}
	p, questionRepo, topicRepo, _ := newTestPipeline(llm)

	topicRepo.On("ListSubtopics", entity.ModuleTypeMath, "").Return([]entity.Subtopic{algebraSubtopic()}, nil)
	topicRepo.On("FindSubtopicByName", "Linear equations").Return(nil, errors.New("not found"))
	questionRepo.On("CreateTx", mock.Anything, mock.Anything).Return(nil)

	result, err := p.Run(context.Background(), Options{MathCount: 1, StoreInDatabase: true, SkipEvaluation: true})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Evaluated)
	assert.Equal(t, 1, result.Summary.Accepted)
	assert.Equal(t, 0, result.Summary.NeedsReview)

	// Пропуск оценки не считается fallback: статус ревью не выставляется
	require.Len(t, questionRepo.stored, 1)
	assert.Nil(t, questionRepo.stored[0].ReviewStatus)
}

func TestRun_StorageErrorIsolatedPerItem(t *testing.T) {
	generationTwo := `[
		{"question":"First long enough question body for the batch?","options":["a","b","c","d"],"correctAnswer":0,"explanation":"Because the first option is the only one satisfying the stated condition.","points":1},
		{"question":"Second long enough question body for the batch?","options":["a","b","c","d"],"correctAnswer":1,"explanation":"Because the second option is the only one satisfying the stated condition.","points":2}
	]`
	llm := &fakeLLM{generation: generationTwo, evaluation: trustedEvaluationJSON}
	p, questionRepo, topicRepo, _ := newTestPipeline(llm)

	sub := algebraSubtopic()
	other := entity.Subtopic{ID: "sub-2", Name: "Quadratics", Topic: sub.Topic}
	topicRepo.On("ListSubtopics", entity.ModuleTypeMath, "").Return([]entity.Subtopic{sub, other}, nil)
	topicRepo.On("FindSubtopicByName", mock.Anything).Return(nil, errors.New("not found"))

	questionRepo.On("CreateTx", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()
	questionRepo.On("CreateTx", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := p.Run(context.Background(), Options{MathCount: 2, StoreInDatabase: true})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Accepted)
	assert.Equal(t, 1, result.Summary.Stored)
	require.Len(t, result.Items, 2)

	var failed, stored int
	for _, item := range result.Items {
		if item.Stored {
			stored++
		} else {
			failed++
			assert.Contains(t, item.Error, "insert failed")
		}
	}
	assert.Equal(t, 1, stored)
	assert.Equal(t, 1, failed)
}

func TestRun_ExplicitSubtopicTakesPrecedence(t *testing.T) {
	llm := &fakeLLM{generation: generationJSON, evaluation: trustedEvaluationJSON}
	p, questionRepo, topicRepo, _ := newTestPipeline(llm)

	sub := algebraSubtopic()
	topicRepo.On("GetSubtopicByID", "sub-1").Return(&sub, nil)
	topicRepo.On("IncrementSubtopicCount", mock.Anything, "sub-1").Return(nil)
	questionRepo.On("CreateTx", mock.Anything, mock.Anything).Return(nil)

	result, err := p.Run(context.Background(), Options{MathCount: 1, StoreInDatabase: true, SubtopicID: "sub-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Stored)
	// Поиск по имени не выполняется, когда подраздел задан явно
	topicRepo.AssertNotCalled(t, "FindSubtopicByName", mock.Anything)
}

func TestRun_NoCountsFails(t *testing.T) {
	llm := &fakeLLM{}
	p, _, _, _ := newTestPipeline(llm)

	_, err := p.Run(context.Background(), Options{})

	require.Error(t, err)
}

func TestRun_DryRunSkipsStorage(t *testing.T) {
	llm := &fakeLLM{generation: generationJSON, evaluation: trustedEvaluationJSON}
	p, questionRepo, topicRepo, _ := newTestPipeline(llm)

	topicRepo.On("ListSubtopics", entity.ModuleTypeMath, "").Return([]entity.Subtopic{algebraSubtopic()}, nil)

	result, err := p.Run(context.Background(), Options{MathCount: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Accepted)
	assert.Equal(t, 0, result.Summary.Stored)
	questionRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything)
}

func TestFallbackEvaluation_Heuristics(t *testing.T) {
	good := Candidate{
		ModuleType:       entity.ModuleTypeMath,
		Question:         "A question body that is comfortably longer than the minimum threshold",
		Options:          []string{"a", "b", "c", "d"},
		CorrectAnswer:    0,
		Explanation:      strings.Repeat("explanation ", 10),
		Points:           2,
		HasChart:         true,
		ChartDescription: "Line graph of y = 2x + 1 with labeled intercepts",
	}

	eval := fallbackEvaluation(good)

	assert.Equal(t, ConfidenceFallback, eval.Confidence)
	assert.True(t, eval.Accepted)
	assert.InDelta(t, 0.9, eval.QualityScore, 0.001)
	assert.Equal(t, "medium", eval.Difficulty)

	easy := good
	easy.Points = 1
	assert.Equal(t, "easy", fallbackEvaluation(easy).Difficulty)

	hard := good
	hard.Points = 4
	assert.Equal(t, "hard", fallbackEvaluation(hard).Difficulty)
}

func TestParseEvaluation_StripsCodeFences(t *testing.T) {
	raw := "```json\n" + trustedEvaluationJSON + "\n```"

	eval, err := parseEvaluation(raw)

	require.NoError(t, err)
	assert.Equal(t, ConfidenceTrusted, eval.Confidence)
	assert.Equal(t, "easy", eval.Difficulty)
	assert.True(t, eval.Accepted)
}
