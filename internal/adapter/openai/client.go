package openai

import (
	openai "github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client. An empty baseURL keeps the public API.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
