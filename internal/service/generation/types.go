package generation

// Значения по умолчанию и границы параметров генерации
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	MinMaxTokens       = 1000
	MaxMaxTokens       = 8000

	evaluationTemperature = 0.1
	evaluationMaxTokens   = 200
)

// Options - параметры одного запуска пайплайна генерации
type Options struct {
	MathCount    int
	ReadingCount int

	Temperature float64
	MaxTokens   int

	IncludeCharts   bool
	IncludePassages bool

	StoreInDatabase bool
	SkipEvaluation  bool

	Difficulty string
	TopicID    string
	SubtopicID string
}

// Normalize приводит параметры к допустимым границам
func (o *Options) Normalize() {
	if o.Temperature < MinTemperature || o.Temperature > MaxTemperature {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens < MinMaxTokens || o.MaxTokens > MaxMaxTokens {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.MathCount < 0 {
		o.MathCount = 0
	}
	if o.ReadingCount < 0 {
		o.ReadingCount = 0
	}
}

// Candidate - сырой вопрос, извлеченный из ответа LLM
type Candidate struct {
	ModuleType       string   `json:"moduleType"`
	Category         string   `json:"category"`
	Subtopic         string   `json:"subtopic"`
	Question         string   `json:"question"`
	Passage          string   `json:"passage,omitempty"`
	Options          []string `json:"options"`
	CorrectAnswer    int      `json:"correctAnswer"`
	Explanation      string   `json:"explanation"`
	Points           int      `json:"points"`
	HasChart         bool     `json:"hasChart,omitempty"`
	ChartDescription string   `json:"chartDescription,omitempty"`
	GraphType        string   `json:"graphType,omitempty"`
	InteractionType  string   `json:"interactionType,omitempty"`
}

// Confidence указывает происхождение оценки качества
type Confidence string

const (
	// ConfidenceTrusted - оценка получена от LLM-оценщика
	ConfidenceTrusted Confidence = "trusted"

	// ConfidenceFallback - оценщик был недоступен, сработала эвристика.
	// Такие вопросы сохраняются со статусом pending и требуют ручного ревью.
	ConfidenceFallback Confidence = "fallback"
)

// Evaluation - результат оценки качества одного кандидата
type Evaluation struct {
	Difficulty   string     `json:"difficulty"`
	QualityScore float64    `json:"qualityScore"`
	Accepted     bool       `json:"isAccepted"`
	Confidence   Confidence `json:"confidence"`
	Feedback     string     `json:"evaluationFeedback"`
}

// EvaluatedCandidate - кандидат вместе с его оценкой
type EvaluatedCandidate struct {
	Candidate
	Evaluation
}

// ItemOutcome - итог сохранения одного кандидата. Ошибки сохранения
// изолированы по элементам: один провал не рушит весь batch.
type ItemOutcome struct {
	QuestionID string `json:"question_id,omitempty"`
	Subtopic   string `json:"subtopic"`
	Stored     bool   `json:"stored"`
	Error      string `json:"error,omitempty"`
}

// Summary - сводные счетчики запуска
type Summary struct {
	Generated   int `json:"generated"`
	Evaluated   int `json:"evaluated"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Stored      int `json:"stored"`
	NeedsReview int `json:"needs_review"`
}

// Result - полный итог запуска пайплайна
type Result struct {
	Items   []ItemOutcome `json:"items"`
	Summary Summary       `json:"summary"`
}
