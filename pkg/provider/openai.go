package provider

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/theapemachine/recall/pkg/memory"
	"github.com/theapemachine/recall/pkg/prompts"
	"github.com/theapemachine/recall/pkg/utils"
)

const (
	DefaultOpenAIEmbeddingModel  = "text-embedding-3-small"
	DefaultOpenAIExtractionModel = "gpt-4o-mini"
)

/*
OpenAIEmbedder computes embedding vectors through the OpenAI API.
*/
type OpenAIEmbedder struct {
	api   openai.Client
	Model string
}

type OpenAIEmbedderOption func(*OpenAIEmbedder)

func NewOpenAIEmbedder(options ...OpenAIEmbedderOption) *OpenAIEmbedder {
	client := openai.NewClient(
		option.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
	)

	embedder := &OpenAIEmbedder{
		api:   client,
		Model: DefaultOpenAIEmbeddingModel,
	}

	for _, option := range options {
		option(embedder)
	}

	return embedder
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.Model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: embeddings response contained no data")
	}

	return utils.ConvertToFloat32(resp.Data[0].Embedding), nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.Model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = utils.ConvertToFloat32(d.Embedding)
	}
	return out, nil
}

/*
OpenAIExtractor distills a raw user message into structured memory facts
through the OpenAI chat API.
*/
type OpenAIExtractor struct {
	api     openai.Client
	Model   string
	prompts *prompts.Manager
}

type OpenAIExtractorOption func(*OpenAIExtractor)

func NewOpenAIExtractor(options ...OpenAIExtractorOption) *OpenAIExtractor {
	client := openai.NewClient(
		option.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
	)

	extractor := &OpenAIExtractor{
		api:     client,
		Model:   DefaultOpenAIExtractionModel,
		prompts: prompts.Default(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor
}

func (e *OpenAIExtractor) Extract(ctx context.Context, message string) ([]memory.Fact, error) {
	prompt, err := e.prompts.Get(ctx, prompts.FactExtractionName)
	if err != nil {
		return nil, err
	}

	completion, err := e.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.Content),
			openai.UserMessage(message),
		},
		Temperature: openai.Float(0.0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai: chat completion returned no choices")
	}

	return parseFacts(completion.Choices[0].Message.Content)
}

func WithOpenAIEmbedderModel(model string) OpenAIEmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.Model = model
	}
}

func WithOpenAIEmbedderClient(client *openai.Client) OpenAIEmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.api = *client
	}
}

func WithOpenAIExtractorModel(model string) OpenAIExtractorOption {
	return func(e *OpenAIExtractor) {
		e.Model = model
	}
}

func WithOpenAIExtractorClient(client *openai.Client) OpenAIExtractorOption {
	return func(e *OpenAIExtractor) {
		e.api = *client
	}
}

func WithOpenAIExtractorPrompts(manager *prompts.Manager) OpenAIExtractorOption {
	return func(e *OpenAIExtractor) {
		e.prompts = manager
	}
}
