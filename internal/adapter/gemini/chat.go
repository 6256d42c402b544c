package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type ChatClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewChatClient(client *genai.Client, model string) *ChatClient {
	return &ChatClient{
		client:      client,
		model:       model,
		temperature: 0.2,
	}
}

// Generate sends a single user prompt and returns the model text. A response
// without text, such as a safety-blocked candidate, yields "" and no error;
// only a failed call is an error.
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(c.temperature)},
	)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}
