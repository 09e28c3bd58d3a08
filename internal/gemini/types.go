// Package gemini implements the Gemini Streaming Client (spec §4.4):
// project discovery, authenticated SSE calls to Code Assist's internal
// `:streamGenerateContent` endpoint, and incremental parsing into the
// normalized internal/ir chunk stream.
package gemini

// wireRequest is the outer envelope POSTed to :streamGenerateContent /
// :generateContent, matching Code Assist's internal shape (see
// GenerateContentRequest in the retrieved antigravity-proxy types).
type wireRequest struct {
	Model        string            `json:"model,omitempty"`
	Project      string            `json:"project,omitempty"`
	UserPromptID string            `json:"user_prompt_id,omitempty"`
	Request      wireInnerRequest  `json:"request"`
}

// wireInnerRequest is the nested "request" object carrying the actual
// generateContent payload plus the session id.
type wireInnerRequest struct {
	Contents          []wireContent         `json:"contents,omitempty"`
	SystemInstruction *wireContent          `json:"systemInstruction,omitempty"`
	Tools             []wireTool            `json:"tools,omitempty"`
	ToolConfig        *wireToolConfig       `json:"toolConfig,omitempty"`
	GenerationConfig  *wireGenerationConfig `json:"generationConfig,omitempty"`
	SessionID         string                `json:"session_id,omitempty"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts,omitempty"`
}

type wirePart struct {
	Text             string                `json:"text,omitempty"`
	Thought          bool                  `json:"thought,omitempty"`
	ThoughtSignature string                `json:"thoughtSignature,omitempty"`
	InlineData       *wireInlineData       `json:"inlineData,omitempty"`
	FunctionCall     *wireFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *wireFunctionResponse `json:"functionResponse,omitempty"`
}

type wireInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type wireFunctionCall struct {
	Name string         `json:"name,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

type wireFunctionResponse struct {
	Name     string         `json:"name,omitempty"`
	Response map[string]any `json:"response,omitempty"`
}

type wireTool struct {
	FunctionDeclarations []wireFunctionDeclaration `json:"functionDeclarations,omitempty"`
}

type wireFunctionDeclaration struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type wireToolConfig struct {
	FunctionCallingConfig wireFunctionCallingConfig `json:"functionCallingConfig"`
}

type wireFunctionCallingConfig struct {
	Mode                 string   `json:"mode,omitempty"`
	AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
}

type wireThinkingConfig struct {
	ThinkingBudget  int  `json:"thinkingBudget"`
	IncludeThoughts bool `json:"includeThoughts,omitempty"`
}

type wireGenerationConfig struct {
	Temperature     *float64            `json:"temperature,omitempty"`
	MaxOutputTokens *int                `json:"maxOutputTokens,omitempty"`
	ThinkingConfig  *wireThinkingConfig `json:"thinkingConfig,omitempty"`
}

// wireResponse is one streamGenerateContent SSE event payload (and the
// shape of a non-streaming generateContent response).
type wireResponse struct {
	Response wireResponseBody `json:"response"`
}

// wireResponseBody is also accepted unwrapped — some Code Assist
// responses omit the outer "response" envelope and place candidates at
// the top level, so callers try both.
type wireResponseBody struct {
	Candidates    []wireCandidate   `json:"candidates"`
	UsageMetadata *wireUsageMetadata `json:"usageMetadata,omitempty"`
}

type wireCandidate struct {
	Content      wireContent `json:"content"`
	FinishReason string      `json:"finishReason"`
}

type wireUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// wireErrorBody is the {"error":{code,status,message}} envelope a 400
// response carries.
type wireErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// loadCodeAssistRequest is the body of POST {v1internal}:loadCodeAssist.
type loadCodeAssistRequest struct {
	CloudaicompanionProject string                    `json:"cloudaicompanionProject,omitempty"`
	Metadata                loadCodeAssistMetadata    `json:"metadata"`
}

type loadCodeAssistMetadata struct {
	IdeType    string `json:"ideType"`
	Platform   string `json:"platform"`
	PluginType string `json:"pluginType"`
}

// loadCodeAssistResponse is the response body of :loadCodeAssist.
type loadCodeAssistResponse struct {
	CurrentTier             tier   `json:"currentTier"`
	AllowedTiers            []tier `json:"allowedTiers"`
	CloudaicompanionProject string `json:"cloudaicompanionProject"`
}

type tier struct {
	ID        string `json:"id"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// onboardUserRequest is the body of POST {v1internal}:onboardUser.
type onboardUserRequest struct {
	TierID  string `json:"tierId"`
	CloudaicompanionProject string `json:"cloudaicompanionProject,omitempty"`
}

// onboardUserResponse is the long-running-operation response polled by
// onboardUser until Done is true.
type onboardUserResponse struct {
	Done     bool `json:"done"`
	Response struct {
		CloudaicompanionProject struct {
			ID string `json:"id"`
		} `json:"cloudaicompanionProject"`
	} `json:"response"`
}
