package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// NewClient opens a Gemini API client. An empty baseURL keeps the default endpoint.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	return client, nil
}
