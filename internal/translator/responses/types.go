// Package responses maps the OpenAI Responses API wire format to and from
// the canonical Gemini request/chunk types in internal/ir, by first
// adapting a Responses request into the internal/translator/openai Chat
// Completions shape (spec §4.3's "Responses → Chat adapter").
package responses

import "encoding/json"

// Request is the inbound body of POST /openai/v1/responses.
type Request struct {
	Model        string          `json:"model"`
	Input        json.RawMessage `json:"input"`
	Instructions string          `json:"instructions,omitempty"`
	Stream       bool            `json:"stream"`
	Tools        []Tool          `json:"tools"`
	ToolChoice   json.RawMessage `json:"tool_choice"`
	Reasoning    *Reasoning      `json:"reasoning,omitempty"`
}

// Reasoning carries the Responses API's nested effort field (as opposed
// to Chat Completions' flat reasoning_effort).
type Reasoning struct {
	Effort string `json:"effort"`
}

// Tool is one function declaration, flattened (no nested "function" key
// the way Chat Completions nests it).
type Tool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// item is the union of every Responses input-item / output-item shape
// this proxy reads or writes.
type item struct {
	Type string `json:"type,omitempty"` // "message" | "function_call" | "function_call_output"
	Role string `json:"role,omitempty"`

	Content json.RawMessage `json:"content,omitempty"`

	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

// contentPart mirrors a Responses input_text/input_image content element.
type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Response is the non-streaming response object.
type Response struct {
	ID     string         `json:"id"`
	Object string         `json:"object"`
	Model  string         `json:"model"`
	Status string         `json:"status"`
	Output []OutputItem   `json:"output"`
	Usage  *ResponseUsage `json:"usage,omitempty"`
}

// OutputItem is one entry in Response.Output.
type OutputItem struct {
	Type      string         `json:"type"`
	ID        string         `json:"id,omitempty"`
	Role      string         `json:"role,omitempty"`
	Status    string         `json:"status,omitempty"`
	Content   []OutputContent `json:"content,omitempty"`
	CallID    string         `json:"call_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Arguments string         `json:"arguments,omitempty"`
}

// OutputContent is one content part of a message-type OutputItem.
type OutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ResponseUsage is the Responses-API usage object.
type ResponseUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
