package provider

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ollama/ollama/api"
)

const DefaultOllamaEmbeddingModel = "nomic-embed-text"

/*
OllamaEmbedder computes embedding vectors through a local Ollama server,
using the native batch embed endpoint.
*/
type OllamaEmbedder struct {
	client *api.Client
	Model  string
}

type OllamaEmbedderOption func(*OllamaEmbedder)

func NewOllamaEmbedder(options ...OllamaEmbedderOption) *OllamaEmbedder {
	embedder := &OllamaEmbedder{
		Model: DefaultOllamaEmbeddingModel,
	}

	for _, option := range options {
		option(embedder)
	}

	if embedder.client == nil {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			log.Error("failed to create Ollama client", "error", err)
		} else {
			embedder.client = client
		}
	}

	return embedder
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if e.client == nil {
		return nil, fmt.Errorf("ollama: no client configured")
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.Model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

func WithOllamaEmbedderModel(model string) OllamaEmbedderOption {
	return func(e *OllamaEmbedder) {
		e.Model = model
	}
}

func WithOllamaEmbedderClient(client *api.Client) OllamaEmbedderOption {
	return func(e *OllamaEmbedder) {
		e.client = client
	}
}
