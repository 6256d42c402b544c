package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type EmbeddingClient struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewEmbeddingClient creates a new OpenAI embedding client
func NewEmbeddingClient(client *openai.Client, model string, dimensions int) *EmbeddingClient {
	return &EmbeddingClient{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed returns the embedding of text, shortened to the configured dimensions.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: c.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding returned from OpenAI")
	}
	return resp.Data[0].Embedding, nil
}
