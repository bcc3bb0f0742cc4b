package provider

import (
	"context"
	"fmt"
	"os"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/theapemachine/recall/pkg/utils"
)

const DefaultCohereEmbeddingModel = "embed-english-v3.0"

/*
CohereEmbedder computes embedding vectors through the Cohere API.
*/
type CohereEmbedder struct {
	api   cohereclient.Client
	Model string
}

type CohereEmbedderOption func(*CohereEmbedder)

func NewCohereEmbedder(options ...CohereEmbedderOption) *CohereEmbedder {
	client := cohereclient.NewClient(
		cohereclient.WithToken(os.Getenv("COHERE_API_KEY")),
	)

	embedder := &CohereEmbedder{
		api:   *client,
		Model: DefaultCohereEmbeddingModel,
	}

	for _, option := range options {
		option(embedder)
	}

	return embedder
}

func (e *CohereEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.Model
	resp, err := e.api.Embed(ctx, &cohere.EmbedRequest{
		Model: &model,
		Texts: []string{text},
	})
	if err != nil {
		return nil, err
	}

	floats := resp.GetEmbeddingsFloats()
	if floats == nil || len(floats.Embeddings) == 0 {
		return nil, fmt.Errorf("cohere: embed response contained no float embeddings")
	}

	return utils.ConvertToFloat32(floats.Embeddings[0]), nil
}

func (e *CohereEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	model := e.Model
	resp, err := e.api.Embed(ctx, &cohere.EmbedRequest{
		Model: &model,
		Texts: texts,
	})
	if err != nil {
		return nil, err
	}

	floats := resp.GetEmbeddingsFloats()
	if floats == nil {
		return nil, fmt.Errorf("cohere: embed response contained no float embeddings")
	}

	embeddings := floats.Embeddings
	out := make([][]float32, len(embeddings))
	for i, embedding := range embeddings {
		out[i] = utils.ConvertToFloat32(embedding)
	}
	return out, nil
}

func WithCohereEmbedderModel(model string) CohereEmbedderOption {
	return func(e *CohereEmbedder) {
		e.Model = model
	}
}

func WithCohereEmbedderClient(client *cohereclient.Client) CohereEmbedderOption {
	return func(e *CohereEmbedder) {
		e.api = *client
	}
}
