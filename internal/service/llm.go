package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/metrics"
)

const (
	redactedPlaceholder = "[REDACTED]"
	maxErrorBodyBytes   = 2048
	maxResponseBytes    = 4 << 20
)

// ErrGateway matches every failure returned by LLMService.Complete.
var ErrGateway = errors.New("llm gateway failure")

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a chat completion call.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GatewayError describes a failed completion call. Body and Detail never
// contain the API key.
type GatewayError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Body       string
	Detail     string
	Timeout    bool
	Cause      error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Timeout:
		return "llm gateway: request timed out"
	case e.StatusCode == 0:
		return fmt.Sprintf("llm gateway: %s", e.Detail)
	case e.Body != "":
		return fmt.Sprintf("llm gateway: %s (status %d): %s", e.Detail, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("llm gateway: %s (status %d)", e.Detail, e.StatusCode)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// IsRateLimited reports whether the provider answered 429.
func (e *GatewayError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// LLMService calls an OpenAI-compatible chat completion endpoint. It makes
// exactly one attempt per call.
type LLMService struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ LLMGateway = (*LLMService)(nil)

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg config.LLMConfig, logger *zap.Logger, m *metrics.Metrics) (*LLMService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm api key must be set")
	}
	apiURL := strings.TrimSpace(cfg.URL)
	if apiURL == "" {
		return nil, fmt.Errorf("llm api url must be set")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LLMService{
		apiKey:  apiKey,
		apiURL:  apiURL,
		timeout: timeout,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: m,
	}, nil
}

// Complete sends req and returns the first choice's message content.
func (s *LLMService) Complete(ctx context.Context, req ChatRequest) (string, error) {
	start := time.Now()
	content, outcome, err := s.complete(ctx, req)
	elapsed := time.Since(start)
	s.metrics.ObserveLLMRequest(req.Model, outcome, elapsed)

	if err != nil {
		status := 0
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			status = gwErr.StatusCode
		}
		s.logger.Warn("llm completion failed",
			zap.String("model", req.Model),
			zap.String("outcome", outcome),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Debug("llm completion succeeded",
		zap.String("model", req.Model),
		zap.Int("content_length", len(content)),
		zap.Duration("duration", elapsed),
	)
	return content, nil
}

func (s *LLMService) complete(ctx context.Context, req ChatRequest) (string, string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", "encode_error", &GatewayError{Detail: "failed to marshal request", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", "transport_error", &GatewayError{Detail: s.redact("failed to create request: " + err.Error()), Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", "timeout", &GatewayError{Timeout: true, Detail: "request timed out", Cause: err}
		}
		return "", "transport_error", &GatewayError{Detail: s.redact("failed to send request: " + err.Error()), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return "", "timeout", &GatewayError{StatusCode: resp.StatusCode, Timeout: true, Detail: "response timed out", Cause: err}
		}
		return "", "transport_error", &GatewayError{StatusCode: resp.StatusCode, Detail: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		outcome := "http_error"
		if resp.StatusCode == http.StatusTooManyRequests {
			outcome = "rate_limited"
		}
		return "", outcome, &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       s.errorBody(body),
			Detail:     "unexpected status",
		}
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "decode_error", &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       s.errorBody(body),
			Detail:     "failed to decode response",
			Cause:      err,
		}
	}
	if len(result.Choices) == 0 {
		return "", "empty_choices", &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       s.errorBody(body),
			Detail:     "no choices in response",
		}
	}

	return result.Choices[0].Message.Content, "success", nil
}

// Redact replaces the API key in text with a placeholder.
func (s *LLMService) Redact(text string) string {
	return s.redact(text)
}

func (s *LLMService) redact(text string) string {
	if s.apiKey == "" {
		return text
	}
	return strings.ReplaceAll(text, s.apiKey, redactedPlaceholder)
}

func (s *LLMService) errorBody(body []byte) string {
	return truncateBytes(s.redact(strings.TrimSpace(string(body))), maxErrorBodyBytes)
}

// truncateBytes cuts text to at most limit bytes on a rune boundary and
// appends "..." when anything was dropped.
func truncateBytes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
