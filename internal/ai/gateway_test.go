package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dori/brainy/internal/config"
	"github.com/dori/brainy/internal/logging"
)

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		Provider:  "gemini",
		APIKey:    "test-key",
		Model:     "gemini-2.5-flash",
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		RateLimit: 100,
		Burst:     10,
	}
}

func geminiServer(t *testing.T, handler func(prompt string) (int, string)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		var req geminiRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Contents, 1)

		status, resp := handler(req.Contents[0].Parts[0].Text)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func geminiText(text string) string {
	b, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + string(b) + `}]},"finishReason":"STOP"}]}`
}

func TestGatewayOfflineDoesNoIO(t *testing.T) {
	srv, calls := geminiServer(t, func(string) (int, string) { return 200, geminiText("nope") })

	cfg := testAIConfig(srv.URL)
	cfg.APIKey = ""
	gw, err := NewGateway(cfg, nil)
	require.NoError(t, err)
	assert.False(t, gw.Online())

	text, err := gw.GetResponse(context.Background(), "hello", "be nice")
	require.NoError(t, err)
	assert.Equal(t, OfflineMessage, text)
	assert.Zero(t, calls.Load())
}

func TestGatewayOfflineLogsQuietly(t *testing.T) {
	log := logging.NewTestLogger()
	gw := NewGatewayWithGenerator(nil, testAIConfig(""), log.Logger)

	for i := 0; i < 3; i++ {
		text, err := gw.GetResponse(context.Background(), "hello", "")
		require.NoError(t, err)
		assert.Equal(t, OfflineMessage, text)
	}

	log.AssertNotLogged(t, zapcore.WarnLevel, "no API key configured")
	log.AssertLogged(t, zapcore.DebugLevel, "no API key configured")
}

func TestGatewayPrependsInstruction(t *testing.T) {
	var got string
	srv, _ := geminiServer(t, func(prompt string) (int, string) {
		got = prompt
		return 200, geminiText("ok")
	})
	gw, err := NewGateway(testAIConfig(srv.URL), nil)
	require.NoError(t, err)

	text, err := gw.GetResponse(context.Background(), "what now?", "You are a coach.")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "You are a coach.\n\nUser Query: what now?", got)

	_, err = gw.GetResponse(context.Background(), "bare", "")
	require.NoError(t, err)
	assert.Equal(t, "bare", got)
}

func TestGatewayWrapsFailures(t *testing.T) {
	srv, calls := geminiServer(t, func(string) (int, string) {
		return http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`
	})
	gw, err := NewGateway(testAIConfig(srv.URL), nil)
	require.NoError(t, err)

	_, err = gw.GetResponse(context.Background(), "hi", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(1), calls.Load(), "no retry")
}

func TestGatewayUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gw, err := NewGateway(testAIConfig(url), nil)
	require.NoError(t, err)
	_, err = gw.GetResponse(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestGatewayHonoursCancellation(t *testing.T) {
	gw := NewGatewayWithGenerator(generatorFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), testAIConfig(""), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := gw.GetResponse(ctx, "slow", "")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeminiBlockedPrompt(t *testing.T) {
	srv, _ := geminiServer(t, func(string) (int, string) {
		return 200, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`
	})
	c := NewGeminiClient("test-key", srv.URL, "gemini-2.5-flash", time.Second)
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiJoinsParts(t *testing.T) {
	srv, _ := geminiServer(t, func(string) (int, string) {
		return 200, `{"candidates":[{"content":{"parts":[{"text":"Hello, "},{"text":"world"}]}}]}`
	})
	c := NewGeminiClient("test-key", srv.URL, "", time.Second)
	text, err := c.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)
}

func TestOpenAIProvider(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"from openai"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`))
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.Provider = "openai"
	gw, err := NewGateway(cfg, nil)
	require.NoError(t, err)

	text, err := gw.GetResponse(context.Background(), "hello", "sys")
	require.NoError(t, err)
	assert.Equal(t, "from openai", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.True(t, strings.Contains(gotBody, "gpt-4o-mini"), "gemini model name replaced for openai")
	assert.Contains(t, gotBody, `User Query: hello`)
}

func TestNewGatewayRejectsUnknownProvider(t *testing.T) {
	cfg := testAIConfig("")
	cfg.Provider = "pigeon"
	_, err := NewGateway(cfg, nil)
	assert.Error(t, err)
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
