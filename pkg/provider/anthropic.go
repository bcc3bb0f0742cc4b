package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/theapemachine/recall/pkg/memory"
	"github.com/theapemachine/recall/pkg/prompts"
)

const (
	DefaultAnthropicExtractionModel = "claude-3-5-haiku-latest"

	extractionMaxTokens = 1024
)

/*
AnthropicExtractor distills a raw user message into structured memory facts
through the Anthropic messages API.
*/
type AnthropicExtractor struct {
	api     anthropic.Client
	Model   string
	prompts *prompts.Manager
}

type AnthropicExtractorOption func(*AnthropicExtractor)

func NewAnthropicExtractor(options ...AnthropicExtractorOption) *AnthropicExtractor {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)

	extractor := &AnthropicExtractor{
		api:     client,
		Model:   DefaultAnthropicExtractionModel,
		prompts: prompts.Default(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor
}

func (e *AnthropicExtractor) Extract(ctx context.Context, message string) ([]memory.Fact, error) {
	prompt, err := e.prompts.Get(ctx, prompts.FactExtractionName)
	if err != nil {
		return nil, err
	}

	resp, err := e.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model: anthropic.Model(e.Model),
		System: []anthropic.TextBlockParam{{
			Text: prompt.Content,
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
		MaxTokens: extractionMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var text string

	for _, block := range resp.Content {
		switch contentBlock := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += contentBlock.Text
		}
	}

	if text == "" {
		return nil, fmt.Errorf("anthropic: message contained no text content")
	}

	return parseFacts(text)
}

func WithAnthropicExtractorModel(model string) AnthropicExtractorOption {
	return func(e *AnthropicExtractor) {
		e.Model = model
	}
}

func WithAnthropicExtractorClient(client *anthropic.Client) AnthropicExtractorOption {
	return func(e *AnthropicExtractor) {
		e.api = *client
	}
}

func WithAnthropicExtractorPrompts(manager *prompts.Manager) AnthropicExtractorOption {
	return func(e *AnthropicExtractor) {
		e.prompts = manager
	}
}
