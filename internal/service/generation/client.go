package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/yourusername/satprep-api/internal/pkg/errors"
)

// Системные роли для разных задач LLM
const (
	roleQuestionGenerator = "You are an expert SAT question writer. Generate high-quality, accurate SAT questions that match official SAT standards and difficulty levels. Always return valid JSON without any markdown formatting or code blocks."
	roleEvaluator         = "You are an expert SAT evaluator. Return only valid JSON."
)

// LLMClient обращается к модели за текстовым ответом
type LLMClient interface {
	Complete(ctx context.Context, systemRole, prompt string, temperature float64, maxTokens int) (string, error)
}

// HTTPLLMClient вызывает OpenAI-совместимый chat completions endpoint
type HTTPLLMClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPLLMClient создает клиент LLM
func NewHTTPLLMClient(endpoint, apiKey string, timeout time.Duration) *HTTPLLMClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPLLMClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete отправляет запрос и возвращает текст первого варианта ответа
func (c *HTTPLLMClient) Complete(ctx context.Context, systemRole, prompt string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemRole},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: llm endpoint returned %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed llm response: %v", apperrors.ErrUpstream, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: llm response contains no choices", apperrors.ErrUpstream)
	}
	return parsed.Choices[0].Message.Content, nil
}
