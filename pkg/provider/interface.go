package provider

import (
	"fmt"
	"os"

	"github.com/theapemachine/recall/pkg/errors"
	"github.com/theapemachine/recall/pkg/memory"
)

const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderCohere    = "cohere"
	ProviderAnthropic = "anthropic"
)

/*
NewEmbedder picks the embedder registered under a provider name, so the
vendor computing vectors is a configuration value rather than a compile-time
choice. An empty model keeps the provider's default.
*/
func NewEmbedder(name string, model string) (memory.Embedder, error) {
	switch name {
	case ProviderOpenAI, "":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, errors.NewError(errors.ErrMissingAPIKey{Provider: ProviderOpenAI})
		}

		options := []OpenAIEmbedderOption{}

		if model != "" {
			options = append(options, WithOpenAIEmbedderModel(model))
		}

		return NewOpenAIEmbedder(options...), nil

	case ProviderOllama:
		options := []OllamaEmbedderOption{}

		if model != "" {
			options = append(options, WithOllamaEmbedderModel(model))
		}

		return NewOllamaEmbedder(options...), nil

	case ProviderCohere:
		if os.Getenv("COHERE_API_KEY") == "" {
			return nil, errors.NewError(errors.ErrMissingAPIKey{Provider: ProviderCohere})
		}

		options := []CohereEmbedderOption{}

		if model != "" {
			options = append(options, WithCohereEmbedderModel(model))
		}

		return NewCohereEmbedder(options...), nil
	}

	return nil, fmt.Errorf("provider: unknown embedding provider %q", name)
}

/*
NewExtractor picks the fact extractor registered under a provider name. An
empty model keeps the provider's default.
*/
func NewExtractor(name string, model string) (memory.Extractor, error) {
	switch name {
	case ProviderOpenAI, "":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, errors.NewError(errors.ErrMissingAPIKey{Provider: ProviderOpenAI})
		}

		options := []OpenAIExtractorOption{}

		if model != "" {
			options = append(options, WithOpenAIExtractorModel(model))
		}

		return NewOpenAIExtractor(options...), nil

	case ProviderAnthropic:
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, errors.NewError(errors.ErrMissingAPIKey{Provider: ProviderAnthropic})
		}

		options := []AnthropicExtractorOption{}

		if model != "" {
			options = append(options, WithAnthropicExtractorModel(model))
		}

		return NewAnthropicExtractor(options...), nil
	}

	return nil, fmt.Errorf("provider: unknown extraction provider %q", name)
}
