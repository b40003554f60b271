package generation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"gorm.io/gorm"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// reviewNeededPrefix приписывается к комментариям вопросов, сохраненных
// с эвристической оценкой
const reviewNeededPrefix = "⚠️ Auto-generated - Review needed. "

const generatedSource = "AI Generated (Unified)"

// Секунд на один point сложности при расчете timeEstimate
const secondsPerPoint = 30

// TxRunner выполняет функцию внутри транзакции БД. Реализуется *gorm.DB.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// DigestMailer рассылает админам дайджест вопросов, требующих ревью
type DigestMailer interface {
	SendReviewDigest(ctx context.Context, toEmails []string, questions []entity.Question) error
}

// StoreNotifier получает события о новых сохраненных вопросах
type StoreNotifier interface {
	NotifyQuestionStored(questionID string)
}

// Pipeline - конвейер генерации вопросов: выбор подразделов, генерация
// через LLM, оценка качества, сохранение с изоляцией ошибок по элементам
type Pipeline struct {
	llm          LLMClient
	evaluator    *Evaluator
	questionRepo repository.QuestionRepository
	topicRepo    repository.TopicRepository
	mailer       DigestMailer
	notifier     StoreNotifier
	db           TxRunner
	adminEmails  []string
}

// NewPipeline создает конвейер генерации
func NewPipeline(
	llm LLMClient,
	questionRepo repository.QuestionRepository,
	topicRepo repository.TopicRepository,
	mailer DigestMailer,
	notifier StoreNotifier,
	db TxRunner,
	adminEmails []string,
) *Pipeline {
	return &Pipeline{
		llm:          llm,
		evaluator:    NewEvaluator(llm),
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		mailer:       mailer,
		notifier:     notifier,
		db:           db,
		adminEmails:  adminEmails,
	}
}

// Run выполняет один запуск конвейера
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	opts.Normalize()
	if opts.MathCount == 0 && opts.ReadingCount == 0 {
		return nil, fmt.Errorf("%w: mathCount or readingCount must be positive", apperrors.ErrValidation)
	}

	var candidates []Candidate

	if opts.MathCount > 0 {
		batch, err := p.generateSection(ctx, entity.ModuleTypeMath, opts.MathCount, opts)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, batch...)
	}
	if opts.ReadingCount > 0 {
		batch, err := p.generateSection(ctx, entity.ModuleTypeReadingWriting, opts.ReadingCount, opts)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, batch...)
	}

	result := &Result{Summary: Summary{Generated: len(candidates)}}

	// Оценка. SkipEvaluation помечает все кандидаты принятыми без вызова
	// оценщика, с доверенной оценкой.
	var evaluated []EvaluatedCandidate
	for _, c := range candidates {
		var eval Evaluation
		if opts.SkipEvaluation {
			eval = Evaluation{
				Difficulty:   "medium",
				QualityScore: baseQualityScore,
				Accepted:     true,
				Confidence:   ConfidenceTrusted,
				Feedback:     "Evaluation skipped",
			}
		} else {
			eval = p.evaluator.Evaluate(ctx, c)
			result.Summary.Evaluated++
		}
		if opts.Difficulty != "" {
			eval.Difficulty = opts.Difficulty
		}
		evaluated = append(evaluated, EvaluatedCandidate{Candidate: c, Evaluation: eval})
	}

	for _, ec := range evaluated {
		if ec.Accepted {
			result.Summary.Accepted++
		} else {
			result.Summary.Rejected++
		}
	}

	if !opts.StoreInDatabase {
		return result, nil
	}

	var needingReview []entity.Question
	for _, ec := range evaluated {
		if !ec.Accepted {
			continue
		}
		outcome := p.storeCandidate(ec, opts)
		result.Items = append(result.Items, outcome)
		if outcome.Stored {
			result.Summary.Stored++
			if ec.Confidence == ConfidenceFallback {
				result.Summary.NeedsReview++
				needingReview = append(needingReview, entity.Question{
					ID:       outcome.QuestionID,
					Category: ec.Category,
					Subtopic: ec.Subtopic,
					Question: ec.Question,
				})
			}
			if p.notifier != nil {
				p.notifier.NotifyQuestionStored(outcome.QuestionID)
			}
		}
	}

	if len(needingReview) > 0 && p.mailer != nil && len(p.adminEmails) > 0 {
		if err := p.mailer.SendReviewDigest(ctx, p.adminEmails, needingReview); err != nil {
			log.Printf("[Generation] Ошибка отправки дайджеста ревью: %v", err)
		}
	}

	return result, nil
}

// generateSection генерирует кандидатов одной секции
func (p *Pipeline) generateSection(ctx context.Context, moduleType string, count int, opts Options) ([]Candidate, error) {
	subtopics, err := p.pickSubtopics(moduleType, count, opts)
	if err != nil {
		return nil, err
	}
	if len(subtopics) == 0 {
		return nil, fmt.Errorf("%w: no active subtopics for module %s", apperrors.ErrNotFound, moduleType)
	}

	var prompt string
	if moduleType == entity.ModuleTypeMath {
		prompt = buildMathPrompt(subtopics, opts)
	} else {
		prompt = buildReadingPrompt(subtopics, opts)
	}

	raw, err := p.llm.Complete(ctx, roleQuestionGenerator, prompt, opts.Temperature, opts.MaxTokens)
	if err != nil {
		return nil, err
	}

	return parseCandidates(raw, subtopics, moduleType)
}

// pickSubtopics выбирает подразделы для генерации: явный subtopicId имеет
// приоритет над фильтром по разделу, иначе случайная выборка из активных
func (p *Pipeline) pickSubtopics(moduleType string, count int, opts Options) ([]entity.Subtopic, error) {
	if opts.SubtopicID != "" {
		sub, err := p.topicRepo.GetSubtopicByID(opts.SubtopicID)
		if err != nil {
			return nil, err
		}
		picked := make([]entity.Subtopic, 0, count)
		for i := 0; i < count; i++ {
			picked = append(picked, *sub)
		}
		return picked, nil
	}

	subtopics, err := p.topicRepo.ListSubtopics(moduleType, opts.TopicID)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(subtopics), func(i, j int) {
		subtopics[i], subtopics[j] = subtopics[j], subtopics[i]
	})
	if len(subtopics) > count {
		subtopics = subtopics[:count]
	}
	return subtopics, nil
}

// parseCandidates разбирает JSON-массив кандидатов из ответа LLM и
// привязывает каждого по индексу к своему подразделу
func parseCandidates(raw string, subtopics []entity.Subtopic, moduleType string) ([]Candidate, error) {
	var parsed []Candidate
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed generation response: %v", apperrors.ErrUpstream, err)
	}

	for i := range parsed {
		parsed[i].ModuleType = moduleType
		if i < len(subtopics) {
			parsed[i].Subtopic = subtopics[i].Name
			if subtopics[i].Topic != nil {
				parsed[i].Category = subtopics[i].Topic.Name
			}
		}
		if parsed[i].Category == "" {
			if moduleType == entity.ModuleTypeMath {
				parsed[i].Category = "Math"
			} else {
				parsed[i].Category = "Reading"
			}
		}
		if parsed[i].Subtopic == "" {
			parsed[i].Subtopic = "Unknown"
		}
	}
	return parsed, nil
}

// storeCandidate сохраняет одного принятого кандидата. Любая ошибка
// превращается в ItemOutcome с текстом ошибки и не прерывает batch.
func (p *Pipeline) storeCandidate(ec EvaluatedCandidate, opts Options) ItemOutcome {
	outcome := ItemOutcome{Subtopic: ec.Subtopic}

	if !isValidCandidate(ec.Candidate) {
		outcome.Error = "candidate failed structural validation"
		return outcome
	}

	subtopic := p.resolveSubtopic(ec.Subtopic, opts.SubtopicID)

	question := buildQuestion(ec, subtopic)

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := p.questionRepo.CreateTx(tx, question); err != nil {
			return err
		}
		if subtopic != nil {
			return p.topicRepo.IncrementSubtopicCount(tx, subtopic.ID)
		}
		return nil
	})
	if err != nil {
		log.Printf("[Generation] Ошибка сохранения вопроса (%s): %v", ec.Subtopic, err)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.QuestionID = question.ID
	outcome.Stored = true
	return outcome
}

// resolveSubtopic находит подраздел для привязки: явный ID имеет приоритет,
// иначе поиск по имени без учета регистра. Отсутствие подраздела не ошибка.
func (p *Pipeline) resolveSubtopic(name, explicitID string) *entity.Subtopic {
	if explicitID != "" {
		sub, err := p.topicRepo.GetSubtopicByID(explicitID)
		if err == nil {
			return sub
		}
		log.Printf("[Generation] Подраздел %s не найден: %v", explicitID, err)
	}
	sub, err := p.topicRepo.FindSubtopicByName(name)
	if err != nil {
		return nil
	}
	return sub
}

// buildQuestion собирает сущность вопроса из оцененного кандидата.
// Fallback-оценка переводит вопрос в pending с пометкой в комментариях.
func buildQuestion(ec EvaluatedCandidate, subtopic *entity.Subtopic) *entity.Question {
	points := ec.Points
	if points < 1 {
		points = 1
	}

	question := &entity.Question{
		ModuleType:    ec.ModuleType,
		Difficulty:    ec.Difficulty,
		Category:      ec.Category,
		Subtopic:      ec.Subtopic,
		Question:      ec.Question,
		Options:       entity.StringArray(ec.Options),
		CorrectAnswer: ec.CorrectAnswer,
		Explanation:   ec.Explanation,
		TimeEstimate:  points * secondsPerPoint,
		Source:        generatedSource,
		Tags:          entity.StringArray{ec.Difficulty, ec.Category, ec.Subtopic},
		IsActive:      true,
	}

	if subtopic != nil {
		question.SubtopicID = &subtopic.ID
	}
	if ec.Passage != "" {
		question.Passage = &ec.Passage
	}
	if ec.ChartDescription != "" {
		question.ImageAlt = &ec.ChartDescription
	}
	if ec.HasChart {
		question.ChartData = entity.JSONMap{
			"description":     ec.ChartDescription,
			"interactionType": ec.InteractionType,
			"graphType":       ec.GraphType,
		}
	}

	if ec.Confidence == ConfidenceFallback {
		status := entity.ReviewStatusPending
		comments := reviewNeededPrefix + ec.Feedback
		question.ReviewStatus = &status
		question.ReviewComments = &comments
	}

	return question
}

// isValidCandidate проверяет минимальную структурную целостность кандидата
func isValidCandidate(c Candidate) bool {
	return c.Question != "" &&
		len(c.Options) == requiredOptionsCount &&
		c.CorrectAnswer >= 0 && c.CorrectAnswer < len(c.Options)
}
