package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/satprep-api/internal/domain/entity"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendReviewDigest(ctx context.Context, toEmails []string, questions []entity.Question) error
}

// NoopEmailService is used when email notifications are disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendReviewDigest(ctx context.Context, toEmails []string, questions []entity.Question) error {
	log.Printf("[EmailService] noop review digest to=%v questions=%d", toEmails, len(questions))
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// SendReviewDigest notifies admins about freshly generated questions that
// need a manual review pass.
func (s *ResendEmailService) SendReviewDigest(ctx context.Context, toEmails []string, questions []entity.Question) error {
	if len(toEmails) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if len(questions) == 0 {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      toEmails,
		Subject: fmt.Sprintf("%d generated questions need review", len(questions)),
		Text:    digestText(questions),
		Html:    digestHTML(questions),
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithContext(ctx, params)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func digestText(questions []entity.Question) string {
	var b strings.Builder
	b.WriteString("The following auto-generated questions were stored with a low-confidence evaluation and need a manual review:\n\n")
	for _, q := range questions {
		fmt.Fprintf(&b, "- [%s / %s] %s (id=%s)\n", q.Category, q.Subtopic, truncate(q.Question, 100), q.ID)
	}
	return b.String()
}

func digestHTML(questions []entity.Question) string {
	var b strings.Builder
	b.WriteString("<p>The following auto-generated questions were stored with a low-confidence evaluation and need a manual review:</p><ul>")
	for _, q := range questions {
		fmt.Fprintf(&b, "<li><strong>%s / %s</strong>: %s <em>(id=%s)</em></li>", q.Category, q.Subtopic, truncate(q.Question, 100), q.ID)
	}
	b.WriteString("</ul>")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
