// Package llm wraps the generative text model service behind a small
// interface so pipeline code can be exercised with a fake in tests.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"cvlens/internal/config"
	"cvlens/internal/metrics"
)

// ErrEmptyCompletion is returned when the upstream call succeeds but the
// model produced no text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// GenerateRequest describes a single completion call. Op labels the call for
// metrics and logs; it never reaches the upstream provider.
type GenerateRequest struct {
	Op          string
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

// Client is the capability handle the pipeline depends on.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeminiClient is the production Client backed by the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	logger     *slog.Logger
}

// NewGeminiClient builds the production client from config.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return &GeminiClient{
		client:     client,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

// Generate runs one completion with a bounded per-attempt timeout, retrying
// transient failures with a doubling backoff. Context cancellation aborts
// between attempts.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	start := time.Now()

	backoff := 2 * time.Second
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				metrics.ObserveLLMRequest(req.Op, "cancelled", time.Since(start))
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			c.logger.Warn("retrying model call",
				slog.String("operation", req.Op),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()),
			)
		}

		text, err := c.generateOnce(ctx, req)
		if err == nil {
			metrics.ObserveLLMRequest(req.Op, "ok", time.Since(start))
			return text, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	metrics.ObserveLLMRequest(req.Op, "error", time.Since(start))
	return "", fmt.Errorf("model call %s: %w", req.Op, lastErr)
}

func (c *GeminiClient) generateOnce(ctx context.Context, req GenerateRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := req.Temperature
	resp, err := c.client.Models.GenerateContent(callCtx, c.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// isRetryableError sniffs for transient upstream conditions worth another
// attempt. Anything else (auth failure, bad request) fails fast.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"timeout",
		"deadline exceeded",
		"connection reset",
		"connection refused",
		"no such host",
		"eof",
		"429",
		"rate limit",
		"unavailable",
		"internal error",
		"overloaded",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
