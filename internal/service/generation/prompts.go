package generation

import (
	"fmt"
	"strings"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// buildMathPrompt строит промпт генерации math-вопросов, по одному на подраздел
func buildMathPrompt(subtopics []entity.Subtopic, opts Options) string {
	var list strings.Builder
	for i, s := range subtopics {
		topicName := ""
		if s.Topic != nil {
			topicName = fmt.Sprintf(" (%s)", s.Topic.Name)
		}
		fmt.Fprintf(&list, "%d. %s%s\n", i+1, s.Name, topicName)
	}

	visuals := "May optionally include visual elements if they enhance understanding"
	if opts.IncludeCharts {
		visuals = "MUST include detailed visual elements: graphs, charts, tables, diagrams, or coordinate planes"
	}

	return fmt.Sprintf(`Generate exactly %d high-quality SAT Math questions, one for each of these subtopics:
%s
Requirements for each question:
- %s
- 4 multiple choice options (A, B, C, D)
- Clear correct answer with step-by-step explanation
- Points value (1-4 points based on complexity)
- Appropriate for SAT Math section
- Vary complexity across the %d questions
- Use plain text math notation (x^2, sqrt(x), 3/4), never LaTeX

Return a JSON array where each element has the fields:
question, options (array of 4 strings), correctAnswer (0-3), explanation,
points (1-4), hasChart (boolean), chartDescription, graphType.
Return ONLY the JSON array, no markdown.`, len(subtopics), list.String(), visuals, len(subtopics))
}

// buildReadingPrompt строит промпт генерации reading-writing-вопросов
func buildReadingPrompt(subtopics []entity.Subtopic, opts Options) string {
	var list strings.Builder
	for i, s := range subtopics {
		topicName := ""
		if s.Topic != nil {
			topicName = fmt.Sprintf(" (%s)", s.Topic.Name)
		}
		fmt.Fprintf(&list, "%d. %s%s\n", i+1, s.Name, topicName)
	}

	passages := "A short context sentence is enough, full passages optional"
	if opts.IncludePassages {
		passages = "MUST include an original passage of 150-300 words that the question refers to"
	}

	return fmt.Sprintf(`Generate exactly %d high-quality SAT Reading and Writing questions, one for each of these subtopics:
%s
Requirements for each question:
- %s
- 4 multiple choice options (A, B, C, D)
- Clear correct answer with a thorough explanation
- Points value (1-4 points based on complexity)
- Appropriate for the SAT Reading and Writing section

Return a JSON array where each element has the fields:
question, passage, options (array of 4 strings), correctAnswer (0-3),
explanation, points (1-4).
Return ONLY the JSON array, no markdown.`, len(subtopics), list.String(), passages)
}

// buildEvaluationPrompt строит промпт оценки качества одного кандидата
func buildEvaluationPrompt(c Candidate) string {
	return fmt.Sprintf(`Evaluate this SAT question for quality and correctness.

Question: %s
Options: %s
Correct answer index: %d
Explanation: %s

Return JSON with exactly these fields:
{"difficulty": "easy"|"medium"|"hard", "qualityScore": 0.0-1.0, "isAccepted": boolean, "evaluationFeedback": "short reason"}`,
		c.Question, strings.Join(c.Options, " | "), c.CorrectAnswer, c.Explanation)
}
