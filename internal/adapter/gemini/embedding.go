package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const taskRetrievalDocument = "RETRIEVAL_DOCUMENT"

type EmbeddingClient struct {
	client     *genai.Client
	model      string
	dimensions int32
}

func NewEmbeddingClient(client *genai.Client, model string, dimensions int) *EmbeddingClient {
	return &EmbeddingClient{
		client:     client,
		model:      model,
		dimensions: int32(dimensions),
	}
}

// Embed returns the embedding of text at the configured dimensionality.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	dims := c.dimensions
	result, err := c.client.Models.EmbedContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{
			TaskType:             taskRetrievalDocument,
			OutputDimensionality: &dims,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("no embedding returned from gemini")
	}
	return result.Embeddings[0].Values, nil
}
