// Package ai talks to the hosted text model and turns its answers into
// domain values.
//
// The Gateway is the only thing in brainy that touches the network. The
// Assistant builds feature prompts on top of it and never fails: when the
// model is unreachable, unconfigured or answers with garbage, each feature
// returns a fixed local fallback instead.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dori/brainy/internal/config"
	"github.com/dori/brainy/internal/logging"
)

// OfflineMessage is returned by the gateway when no credential is configured
const OfflineMessage = "I am in offline mode. Please add your GEMINI_API_KEY to the environment (or ai.api_key to config.yaml) to unlock my full potential!"

// ErrUnreachable wraps every transport or API failure
var ErrUnreachable = errors.New("failed to connect to Brainy's AI core")

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
)

// Generator sends one prompt to a model and returns its text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gateway formats prompts and sends them through a Generator
type Gateway struct {
	gen     Generator
	limiter *rate.Limiter
	timeout time.Duration
	log     *logging.Logger
}

// NewGateway builds the generator named by cfg.Provider. Without an API key
// the gateway runs offline and never does network I/O.
func NewGateway(cfg config.AIConfig, log *logging.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return newGateway(nil, cfg, log), nil
	}

	var gen Generator
	switch cfg.Provider {
	case "", "gemini":
		if cfg.Model == "" {
			cfg.Model = defaultGeminiModel
		}
		gen = NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	case "openai":
		if cfg.Model == "" || strings.HasPrefix(cfg.Model, "gemini") {
			cfg.Model = defaultOpenAIModel
		}
		c, err := NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		gen = c
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	return newGateway(gen, cfg, log), nil
}

// NewGatewayWithGenerator wraps an existing generator. gen may be nil for an
// offline gateway.
func NewGatewayWithGenerator(gen Generator, cfg config.AIConfig, log *logging.Logger) *Gateway {
	return newGateway(gen, cfg, log)
}

func newGateway(gen Generator, cfg config.AIConfig, log *logging.Logger) *Gateway {
	if log == nil {
		log = logging.Nop()
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := max(cfg.Burst, 1)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Gateway{
		gen:     gen,
		limiter: rate.NewLimiter(limit, burst),
		timeout: timeout,
		log:     log.Named("ai"),
	}
}

// Online reports whether a credential is configured
func (g *Gateway) Online() bool {
	return g.gen != nil
}

// GetResponse sends prompt, preceded by instruction when one is given, and
// returns the model's raw text. Offline it returns OfflineMessage. Failures
// wrap ErrUnreachable and are not retried.
func (g *Gateway) GetResponse(ctx context.Context, prompt, instruction string) (string, error) {
	if g.gen == nil {
		g.log.Debug(ctx, "no API key configured, returning offline message")
		return OfflineMessage, nil
	}

	full := prompt
	if instruction != "" {
		full = instruction + "\n\nUser Query: " + prompt
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %w", ErrUnreachable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.gen.Generate(ctx, full)
	if err != nil {
		g.log.Error(ctx, "model request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	g.log.Debug(ctx, "model responded",
		zap.Int("prompt_len", len(full)),
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
