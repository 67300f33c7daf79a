package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
)

var ErrUnknownProvider = errors.New("unknown llm provider")

// ProviderConfig selects and configures the completion backend.
type ProviderConfig struct {
	Provider string // "googleai" or "ollama"
	APIKey   string
	BaseURL  string // Ollama server URL
	Model    string
}

// NewModel builds the langchaingo model for config.Provider.
func NewModel(ctx context.Context, config ProviderConfig) (llms.Model, error) {
	switch config.Provider {
	case "googleai", "":
		if config.APIKey == "" {
			return nil, fmt.Errorf("googleai: API key is required")
		}
		if config.Model == "" {
			config.Model = "gemini-1.5-flash"
		}
		m, err := googleai.New(ctx,
			googleai.WithAPIKey(config.APIKey),
			googleai.WithDefaultModel(config.Model))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize googleai: %w", err)
		}
		return m, nil

	case "ollama":
		if config.Model == "" {
			config.Model = "mistral" // Default Ollama model
		}
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434" // Default Ollama URL
		}
		m, err := ollama.New(ollama.WithModel(config.Model),
			ollama.WithServerURL(config.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama: %w", err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Provider)
	}
}
