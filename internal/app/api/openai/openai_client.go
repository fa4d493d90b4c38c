package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient creates an OpenAI API client from an API key. The client is
// process-wide, reentrant and safe for concurrent use by in-flight requests.
func NewClient(apiKey string) *openai.Client {
	return openai.NewClient(apiKey)
}
