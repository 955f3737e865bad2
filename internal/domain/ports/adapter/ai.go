package adapter

import "context"

// Message represents a chat message as sent to a completion provider.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Usage for a single chat call, as reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatRequest is one completion call. Temperature and MaxTokens are optional;
// zero values mean "provider default".
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// AIServiceAdapter is the port for LLM chat completions.
//
// Implementations do not retry: a failed call is surfaced immediately so the
// caller can report degraded AI availability instead of masking it.
type AIServiceAdapter interface {
	ListModels(ctx context.Context) ([]string, error)

	// CountTokens must return prompt tokens for the provided messages
	// (provider-specific counting; best-effort when exact isn't available).
	CountTokens(ctx context.Context, model string, messages []Message) (int, error)

	// Chat returns only the assistant text.
	Chat(ctx context.Context, req ChatRequest) (string, error)

	// ChatWithUsage returns assistant text + usage as reported by the provider.
	ChatWithUsage(ctx context.Context, req ChatRequest) (string, Usage, error)
}
