package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Пороги эвристической оценки качества
const (
	minExplanationLength = 50
	requiredOptionsCount = 4
	minQuestionLength    = 20
	minPassageLength     = 100

	baseQualityScore    = 0.7
	goodQualityScore    = 0.8
	acceptanceThreshold = 0.6
	qualityBoostChart   = 0.1
	qualityBoostPassage = 0.1
	maxQualityScore     = 1.0

	easyMaxPoints = 1
	hardMinPoints = 3
)

// Evaluator оценивает качество сгенерированных вопросов через LLM,
// с эвристическим fallback при недоступности оценщика
type Evaluator struct {
	llm LLMClient
}

// NewEvaluator создает оценщик
func NewEvaluator(llm LLMClient) *Evaluator {
	return &Evaluator{llm: llm}
}

// Evaluate оценивает кандидата. Провал LLM-оценщика не является ошибкой:
// включается эвристика, и результат помечается Confidence == fallback, что
// дальше по пайплайну переводит вопрос в статус pending.
func (e *Evaluator) Evaluate(ctx context.Context, c Candidate) Evaluation {
	raw, err := e.llm.Complete(ctx, roleEvaluator, buildEvaluationPrompt(c), evaluationTemperature, evaluationMaxTokens)
	if err != nil {
		log.Printf("[Generation] Оценщик недоступен, эвристическая оценка: %v", err)
		return fallbackEvaluation(c)
	}

	eval, err := parseEvaluation(raw)
	if err != nil {
		log.Printf("[Generation] Нечитаемый ответ оценщика, эвристическая оценка: %v", err)
		return fallbackEvaluation(c)
	}
	return eval
}

// parseEvaluation разбирает JSON-ответ оценщика
func parseEvaluation(raw string) (Evaluation, error) {
	var parsed struct {
		Difficulty   string  `json:"difficulty"`
		QualityScore float64 `json:"qualityScore"`
		IsAccepted   *bool   `json:"isAccepted"`
		Feedback     string  `json:"evaluationFeedback"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return Evaluation{}, fmt.Errorf("parse evaluation: %w", err)
	}

	eval := Evaluation{
		Difficulty:   parsed.Difficulty,
		QualityScore: parsed.QualityScore,
		Accepted:     parsed.IsAccepted == nil || *parsed.IsAccepted,
		Confidence:   ConfidenceTrusted,
		Feedback:     parsed.Feedback,
	}
	if eval.Difficulty == "" {
		eval.Difficulty = "medium"
	}
	if eval.QualityScore == 0 {
		eval.QualityScore = 0.5
	}
	if eval.Feedback == "" {
		eval.Feedback = "No feedback"
	}
	return eval, nil
}

// fallbackEvaluation - эвристическая оценка по структурным признакам кандидата
func fallbackEvaluation(c Candidate) Evaluation {
	difficulty := "medium"
	score := baseQualityScore
	var notes []string

	switch {
	case c.Points <= easyMaxPoints:
		difficulty = "easy"
		notes = append(notes, "Low complexity.")
	case c.Points >= hardMinPoints:
		difficulty = "hard"
		notes = append(notes, "High complexity.")
	}

	goodExplanation := len(c.Explanation) > minExplanationLength
	properOptions := len(c.Options) == requiredOptionsCount
	reasonableQuestion := len(c.Question) > minQuestionLength
	if goodExplanation && properOptions && reasonableQuestion {
		score = goodQualityScore
		notes = append(notes, "Good structure.")
	}

	if c.ModuleType == "math" && c.HasChart && c.ChartDescription != "" {
		score += qualityBoostChart
		notes = append(notes, "Includes chart.")
	}
	if c.ModuleType == "reading-writing" && len(c.Passage) > minPassageLength {
		score += qualityBoostPassage
		notes = append(notes, "Includes passage.")
	}
	if score > maxQualityScore {
		score = maxQualityScore
	}

	notes = append(notes, fmt.Sprintf("Quality: %.0f%%", score*100))

	return Evaluation{
		Difficulty:   difficulty,
		QualityScore: score,
		Accepted:     score >= acceptanceThreshold,
		Confidence:   ConfidenceFallback,
		Feedback:     strings.Join(notes, " "),
	}
}

// stripCodeFences убирает обрамление ```json ... ``` из ответа модели
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
