package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/metrics"
)

const testAPIKey = "sk-test-7f3a9c"

func newTestLLMService(t *testing.T, url string, timeout time.Duration) *LLMService {
	t.Helper()
	svc, err := NewLLMService(config.LLMConfig{
		APIKey:  testAPIKey,
		URL:     url,
		Timeout: timeout,
	}, zaptest.NewLogger(t), metrics.New())
	require.NoError(t, err)
	return svc
}

func testChatRequest() ChatRequest {
	return ChatRequest{
		Model:       "deepseek-chat",
		Messages:    BuildMessages(UserHealthInfo{Symptom: "insomnia", Gender: "male", Age: 45, OtherConditions: "none"}, LocaleEN),
		Temperature: 0.5,
		MaxTokens:   1500,
	}
}

func TestNewLLMService(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		svc, err := NewLLMService(config.LLMConfig{URL: "https://example.com"}, nil, nil)
		assert.Nil(t, svc)
		assert.Error(t, err)
	})

	t.Run("requires url", func(t *testing.T) {
		svc, err := NewLLMService(config.LLMConfig{APIKey: testAPIKey}, nil, nil)
		assert.Nil(t, svc)
		assert.Error(t, err)
	})

	t.Run("defaults timeout", func(t *testing.T) {
		svc, err := NewLLMService(config.LLMConfig{APIKey: testAPIKey, URL: "https://example.com"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, svc.timeout)
	})
}

func TestLLMServiceComplete(t *testing.T) {
	t.Run("sends one authenticated request and returns first choice", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "deepseek-chat", body["model"])
			assert.Equal(t, 0.5, body["temperature"])
			assert.Equal(t, float64(1500), body["max_tokens"])
			messages := body["messages"].([]interface{})
			if !assert.Len(t, messages, 2) {
				return
			}
			assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"first"}},{"message":{"content":"second"}}]}`))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		content, err := svc.Complete(context.Background(), testChatRequest())
		require.NoError(t, err)
		assert.Equal(t, "first", content)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("rate limit is distinguishable and not retried", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"slow down"}`))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGateway)
		assert.True(t, IsRateLimited(err))

		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, http.StatusTooManyRequests, gwErr.StatusCode)
		assert.Contains(t, gwErr.Body, "slow down")
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("error body is redacted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid key ` + testAPIKey + `"}`))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		require.Error(t, err)
		assert.False(t, IsRateLimited(err))
		assert.NotContains(t, err.Error(), testAPIKey)
		assert.Contains(t, err.Error(), redactedPlaceholder)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("oversized error body is truncated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(strings.Repeat("x", maxErrorBodyBytes*2)))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Len(t, gwErr.Body, maxErrorBodyBytes+3)
	})

	t.Run("multibyte error body is cut on a rune boundary", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			// 3-byte runes after one ASCII byte put the byte limit mid-rune.
			w.Write([]byte("x" + strings.Repeat("服务繁忙", maxErrorBodyBytes)))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.True(t, utf8.ValidString(gwErr.Body))
		assert.True(t, strings.HasSuffix(gwErr.Body, "..."))
		assert.LessOrEqual(t, len(gwErr.Body), maxErrorBodyBytes+3)
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, http.StatusOK, gwErr.StatusCode)
		assert.Contains(t, gwErr.Detail, "no choices")
	})

	t.Run("undecodable body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway</html>`))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		assert.ErrorIs(t, err, ErrGateway)
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Contains(t, gwErr.Detail, "decode")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		svc := newTestLLMService(t, server.URL, 50*time.Millisecond)
		start := time.Now()
		_, err := svc.Complete(context.Background(), testChatRequest())
		assert.Less(t, time.Since(start), 5*time.Second)

		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.True(t, gwErr.Timeout)
		assert.Equal(t, 0, gwErr.StatusCode)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		svc := newTestLLMService(t, url, time.Second)
		_, err := svc.Complete(context.Background(), testChatRequest())
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.False(t, gwErr.Timeout)
		assert.Equal(t, 0, gwErr.StatusCode)
		assert.NotContains(t, err.Error(), testAPIKey)
	})

	t.Run("caller cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL, 5*time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Complete(ctx, testChatRequest())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrGateway))
	})
}

func TestLLMServiceRedact(t *testing.T) {
	svc := newTestLLMService(t, "https://example.com", time.Second)
	assert.Equal(t, "key=[REDACTED] again [REDACTED]", svc.Redact("key="+testAPIKey+" again "+testAPIKey))
	assert.Equal(t, "nothing secret", svc.Redact("nothing secret"))
}

func TestTruncateBytes(t *testing.T) {
	assert.Equal(t, "short", truncateBytes("short", 10))
	assert.Equal(t, "abc...", truncateBytes("abcdef", 3))
	// "失眠" is 6 bytes; a 4-byte limit must not split the second rune.
	assert.Equal(t, "失...", truncateBytes("失眠", 4))
	assert.Equal(t, "...", truncateBytes("失眠", 2))
}
