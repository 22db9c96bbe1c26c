package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"studybuddy/config"
	"studybuddy/models"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

type Options struct {
	Provider     string
	Model        string
	Temperature  float64
	APIKey       string
	SystemPrompt string
}

// Factory builds an agent for one session. ChatService calls it whenever the
// session's API key changes.
type Factory func(ctx context.Context, opts Options) (models.Agent, error)

// New builds an agent for the configured provider. No request is sent, so an
// invalid key usually only surfaces on the first Invoke.
func New(ctx context.Context, opts Options) (models.Agent, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}

	log.Printf("[INFO] Creating %s agent with model %s", opts.Provider, opts.Model)

	switch opts.Provider {
	case config.ProviderGoogleAI, "":
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(opts.APIKey),
			googleai.WithDefaultModel(opts.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI client: %w", err)
		}
		return NewLLMAgent(llm, opts.SystemPrompt, opts.Temperature), nil

	case config.ProviderOpenAI:
		llm, err := openai.New(
			openai.WithModel(opts.Model),
			openai.WithToken(opts.APIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return NewLLMAgent(llm, opts.SystemPrompt, opts.Temperature), nil

	case config.ProviderAnthropic:
		return NewAnthropicAgent(opts.APIKey, opts.Model, opts.SystemPrompt, opts.Temperature), nil

	default:
		return nil, fmt.Errorf("unsupported provider %q", opts.Provider)
	}
}
