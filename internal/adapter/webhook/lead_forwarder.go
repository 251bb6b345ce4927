package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

const defaultTimeout = 10 * time.Second

// LeadForwarder POSTs lead payloads as JSON to a configured webhook.
type LeadForwarder struct {
	url     string
	timeout time.Duration
}

// NewLeadForwarder returns nil when url is empty so callers can treat a
// missing integration as absent.
func NewLeadForwarder(url string, timeout time.Duration) *LeadForwarder {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LeadForwarder{url: url, timeout: timeout}
}

// Send delivers payload. Transport failures and non-2xx replies are errors.
// fiber's Agent takes no context, so ctx is only checked before sending.
func (f *LeadForwarder) Send(ctx context.Context, payload domain.LeadPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(f.url)
	agent.Timeout(f.timeout)
	agent.JSON(payload)

	start := time.Now()
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		logger.Get().Error("Lead webhook request failed", zap.String("url", f.url), zap.Error(err))
		return fmt.Errorf("lead webhook request: %w", err)
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		logger.Get().Error("Lead webhook returned non-success status",
			zap.String("url", f.url),
			zap.Int("status", status),
			zap.ByteString("body", body))
		return fmt.Errorf("lead webhook returned status %d", status)
	}

	logger.Get().Info("Lead delivered",
		zap.String("segment", string(payload.Segment)),
		zap.Duration("duration", time.Since(start)))
	return nil
}
