package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/imkonsowa/restaurants-recommender/config"
	"github.com/imkonsowa/restaurants-recommender/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

type CompletionOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   500,
	}
}

// CompletionOptionsFromConfig takes the configured values as they are; config
// defaults already match DefaultCompletionOptions, and zero is a valid
// temperature.
func CompletionOptionsFromConfig(cfg config.LLM) CompletionOptions {
	return CompletionOptions{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}
}

// CompletionGateway is the boundary to the remote chat model. Complete
// returns ErrUpstreamUnavailable when no client is configured and an
// *UpstreamError when the call fails.
type CompletionGateway interface {
	Complete(ctx context.Context, turns []models.Turn, opts CompletionOptions) (string, error)
	Available() bool
}

type LLMGateway struct {
	llm     llms.Model
	timeout time.Duration
}

// NewLLMGateway wraps llm. A nil llm gives a gateway that is never available.
func NewLLMGateway(llm llms.Model, timeout time.Duration) *LLMGateway {
	return &LLMGateway{
		llm:     llm,
		timeout: timeout,
	}
}

// NewGateway builds the client for the configured provider. Missing
// credentials are not an error: the gateway is returned unavailable.
func NewGateway(cfg config.LLM) (*LLMGateway, error) {
	if !cfg.Configured() {
		slog.Warn("chat model credentials missing, recommendations will use fallback data", "provider", cfg.Provider)
		return NewLLMGateway(nil, cfg.Timeout), nil
	}

	var (
		llm llms.Model
		err error
	)

	switch cfg.Provider {
	case config.ProviderAzure:
		// an empty api version makes the client demand an embedding model
		llm, err = openai.New(
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(cfg.Endpoint),
			openai.WithModel(cfg.Deployment),
			openai.WithEmbeddingModel(cfg.Deployment),
			openai.WithAPIVersion(cfg.APIVersion),
		)
	case config.ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
		}
		llm, err = openai.New(opts...)
	case config.ProviderOllama:
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.Endpoint),
			ollama.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	slog.Info("chat model client initialized", "provider", cfg.Provider, "endpoint", cfg.Endpoint)
	return NewLLMGateway(llm, cfg.Timeout), nil
}

func (g *LLMGateway) Available() bool {
	return g.llm != nil
}

func (g *LLMGateway) Complete(ctx context.Context, turns []models.Turn, opts CompletionOptions) (string, error) {
	if g.llm == nil {
		return "", ErrUpstreamUnavailable
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	messages := make([]llms.MessageContent, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, llms.MessageContent{
			Role: messageType(turn.Role),
			Parts: []llms.ContentPart{
				llms.TextPart(turn.Content),
			},
		})
	}

	content, err := g.llm.GenerateContent(
		ctx,
		messages,
		llms.WithTemperature(opts.Temperature),
		llms.WithTopP(opts.TopP),
		llms.WithMaxTokens(opts.MaxTokens),
	)
	if err != nil {
		return "", &UpstreamError{Op: "generate content", Err: err}
	}
	if len(content.Choices) == 0 {
		return "", &UpstreamError{Op: "generate content", Err: errEmptyCompletion}
	}

	return content.Choices[0].Content, nil
}
