package provider

import "time"

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a backend-neutral generation request.
type Request struct {
	// Model is the backend model identifier, e.g. "gpt-4o".
	Model string `json:"model"`

	// System is the system prompt, prepended to Messages when set.
	System string `json:"system,omitempty"`

	// Messages is the conversation history, oldest first.
	Messages []Message `json:"messages"`

	// MaxTokens limits the response length. Zero leaves the backend
	// default in place.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls sampling randomness. Nil leaves the backend
	// default in place.
	Temperature *float64 `json:"temperature,omitempty"`

	// CachedContext is an opaque reusable context blob attached by the
	// dispatch layer. Providers that cannot use it ignore it.
	CachedContext string `json:"cached_context,omitempty"`

	// Metadata carries request tracking labels.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Response is a backend-neutral generation result.
type Response struct {
	// ID is the backend's completion identifier.
	ID string `json:"id"`

	// Model is the model that produced the completion. May differ from
	// the requested model when the backend resolves aliases.
	Model string `json:"model"`

	// Provider names the backend that handled the request.
	Provider string `json:"provider"`

	// Content is the generated text.
	Content string `json:"content"`

	// FinishReason reports why generation stopped, e.g. "stop", "length".
	FinishReason string `json:"finish_reason"`

	// Usage is the token accounting for the call.
	Usage Usage `json:"usage"`

	// Latency is the wall-clock duration of the backend call.
	Latency time.Duration `json:"latency"`

	// Created is the backend-reported creation time.
	Created time.Time `json:"created"`
}

// Chunk is one increment of a streaming generation.
type Chunk struct {
	// Content is the text delta for this chunk. May be empty on chunks
	// that carry only metadata.
	Content string `json:"content"`

	// FinishReason is set on the final content chunk.
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage is populated on the terminal chunk when the backend reports
	// streaming usage.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage is the token accounting for one generation.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}
