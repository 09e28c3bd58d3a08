// Package anthropic maps the Anthropic Messages wire format to and from
// the canonical Gemini request/chunk types in internal/ir.
package anthropic

import "encoding/json"

// MessagesRequest is the inbound body of POST /anthropic/v1/messages.
type MessagesRequest struct {
	Model       string          `json:"model"`
	MaxTokens   *int            `json:"max_tokens"`
	System      json.RawMessage `json:"system"`
	Messages    []Message       `json:"messages"`
	Temperature *float64        `json:"temperature"`
	Stream      bool            `json:"stream"`
	Tools       []Tool          `json:"tools"`
	ToolChoice  *ToolChoice     `json:"tool_choice"`
}

// Message is one turn; Content is either a plain string or an array of
// typed content blocks.
type Message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// block is the union of every Anthropic content-block shape this proxy
// needs to read or write. Only the fields relevant to Type are populated.
type block struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// thinking (inbound history only; dropped on rebuild per spec §4.3)
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`

	// image
	Source *imageSource `json:"source,omitempty"`

	// tool_use
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`

	ThoughtSignature string `json:"-"`
}

// imageSource is the base64 image payload of an image block.
type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// Tool is one function declaration offered to the model.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// ToolChoice controls function-calling mode.
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// MessagesResponse is the non-streaming response object.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ResponseBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// ResponseBlock is one outbound content block.
type ResponseBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`
}

// Usage is the Anthropic usage object.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

// ErrorBody is the {"type":"error","error":{...}} envelope used for every
// Anthropic-dialect error surface.
type ErrorBody struct {
	Type  string      `json:"type"`
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object inside ErrorBody.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewInvalidRequestError builds the standard Anthropic invalid_request_error
// envelope.
func NewInvalidRequestError(message string) ErrorBody {
	return ErrorBody{Type: "error", Error: ErrorDetail{Type: "invalid_request_error", Message: message}}
}
