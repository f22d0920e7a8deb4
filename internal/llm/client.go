package llm

import "context"

// Client sends a system prompt and a user prompt to a text-completion API and
// returns the reply text. maxOutputTokens caps the reply length for cost
// control. An empty reply with a nil error means the API returned no text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxOutputTokens int) (string, error)
}
