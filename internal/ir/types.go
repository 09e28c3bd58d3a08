// Package ir defines the canonical Gemini request/response shapes and the
// normalized streaming chunk that sits between the Gemini client and the
// dialect-specific SSE re-emitters.
package ir

import "strings"

// Role is a Gemini content-turn role.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// FunctionCallingMode controls how the model is allowed to invoke tools.
type FunctionCallingMode string

const (
	ModeAuto FunctionCallingMode = "AUTO"
	ModeAny  FunctionCallingMode = "ANY"
	ModeNone FunctionCallingMode = "NONE"
)

// FinishReason is the normalized reason a response stopped generating.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishLength         FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
)

// Part is a single piece of content within a Content turn. Exactly one of
// the typed fields is populated; Kind says which.
type Part struct {
	Kind PartKind

	// Text / Thought part.
	Text             string
	Thought          bool
	ThoughtSignature string

	// InlineData part.
	MimeType string
	Data     string // base64

	// FunctionCall part.
	FunctionName     string
	FunctionArgs     map[string]any

	// FunctionResponse part.
	ResponseName string
	Response     map[string]any
}

// PartKind discriminates the Part sum type.
type PartKind int

const (
	PartText PartKind = iota
	PartInlineData
	PartFunctionCall
	PartFunctionResponse
)

// Content is one turn in the conversation.
type Content struct {
	Role  Role
	Parts []Part
}

// FunctionDeclaration describes one callable tool to Gemini.
type FunctionDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any // already normalized, see internal/schema
}

// ToolConfig carries the function-calling mode and an optional allow-list.
type ToolConfig struct {
	Mode                 FunctionCallingMode
	AllowedFunctionNames []string
}

// ThinkingConfig controls Gemini's extended-reasoning behavior.
type ThinkingConfig struct {
	ThinkingBudget  int
	IncludeThoughts bool
}

// GenerationConfig carries sampling and thinking parameters.
type GenerationConfig struct {
	Temperature     *float64
	MaxOutputTokens *int
	Thinking        *ThinkingConfig
}

// CanonicalRequest is the fully-translated request body sent to Gemini's
// streamGenerateContent / generateContent.
type CanonicalRequest struct {
	Model             string
	ProjectID         string
	Contents          []Content
	SystemInstruction *Content
	Tools             []FunctionDeclaration
	ToolConfig        *ToolConfig
	GenerationConfig  *GenerationConfig
}

// Usage is normalized token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Estimated        bool // true when filled in by local estimation, not upstream
}

// ToolCallDelta is one slice of an in-progress (or complete) tool call in
// the normalized chunk stream.
type ToolCallDelta struct {
	Index            int
	ID               string
	Name             string
	ArgumentsDelta   string
	ThoughtSignature string
}

// Chunk is the normalized, dialect-agnostic streaming unit produced by the
// Gemini client and consumed by the SSE re-emitters. It carries at most one
// delta plus the boolean lifecycle markers described in spec §3.
type Chunk struct {
	Role string // set only on the first emitted chunk ("assistant")

	Content    string // visible assistant text delta
	ToolCalls  []ToolCallDelta

	Thought        bool // this chunk's Content is a thinking delta
	ThinkingStart  bool
	ThinkingEnd    bool

	FinishReason FinishReason // set only on the terminal chunk
	Usage        *Usage       // set at most once, on or after the finish chunk

	// Err, when non-nil, signals the stream ended in error; no further
	// chunks follow it.
	Err error
}

// IsTerminal reports whether this chunk carries the finish reason.
func (c Chunk) IsTerminal() bool {
	return c.FinishReason != ""
}

// ModelFamily derives the thought-signature cache family from a model id:
// "claude" if the id contains that substring, "gemini" otherwise.
func ModelFamily(model string) string {
	if strings.Contains(strings.ToLower(model), "claude") {
		return "claude"
	}
	return "gemini"
}
