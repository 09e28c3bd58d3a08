package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/schema"
	"github.com/samkirk/gca-bridge/internal/translator/common"
)

// ToCanonical translates a parsed ChatRequest into a canonical Gemini
// request, applying the shared preprocessing steps from
// internal/translator/common.
func ToCanonical(req *ChatRequest) (*ir.CanonicalRequest, error) {
	out := &ir.CanonicalRequest{Model: req.Model}

	toolNameByCallID := map[string]string{}
	var systemParts []string

	for _, msg := range req.Messages {
		switch msg.Role {
		case "system", "developer":
			text, err := flattenText(msg.Content)
			if err != nil {
				return nil, err
			}
			if text != "" {
				systemParts = append(systemParts, text)
			}
			continue
		case "assistant":
			for _, tc := range msg.ToolCalls {
				toolNameByCallID[tc.ID] = tc.Function.Name
			}
		}

		content, err := toContent(msg, toolNameByCallID)
		if err != nil {
			return nil, err
		}
		if len(content.Parts) == 0 {
			continue
		}
		out.Contents = append(out.Contents, content)
	}

	if len(systemParts) > 0 {
		out.SystemInstruction = &ir.Content{
			Role:  ir.RoleUser,
			Parts: []ir.Part{{Kind: ir.PartText, Text: strings.Join(systemParts, "\n")}},
		}
	}

	if len(req.Tools) > 0 {
		for _, t := range req.Tools {
			out.Tools = append(out.Tools, ir.FunctionDeclaration{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  schema.Normalize(t.Function.Parameters),
			})
		}
	}

	if tc, err := toolConfigFrom(req.ToolChoice); err != nil {
		return nil, err
	} else if tc != nil {
		out.ToolConfig = tc
	}

	if req.Temperature != nil || req.MaxTokens != nil {
		out.GenerationConfig = &ir.GenerationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens}
	}
	common.ApplyReasoningEffort(out, req.ReasoningEffort)
	common.ClampMaxOutputTokens(out, 0)
	common.EnsureNonEmptyContents(out)

	return out, nil
}

// flattenText extracts the plain-text content of a message whose Content
// is either a bare string or a multimodal parts array; non-text parts are
// dropped (images are meaningless on a system/developer turn).
func flattenText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var parts []contentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", fmt.Errorf("openai: decoding message content: %w", err)
	}
	var sb strings.Builder
	for _, p := range parts {
		if p.Type == "text" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

// toContent builds one Gemini content turn from a single inbound message.
func toContent(msg ChatMessage, toolNameByCallID map[string]string) (ir.Content, error) {
	role := ir.RoleUser
	if msg.Role == "assistant" {
		role = ir.RoleModel
	}

	var parts []ir.Part

	if msg.Role == "tool" {
		name := toolNameByCallID[msg.ToolCallID]
		text, err := flattenText(msg.Content)
		if err != nil {
			return ir.Content{}, err
		}
		parts = append(parts, ir.Part{
			Kind:         ir.PartFunctionResponse,
			ResponseName: name,
			Response:     map[string]any{"result": text},
		})
		return ir.Content{Role: role, Parts: parts}, nil
	}

	textParts, imageParts, err := toMessageParts(msg.Content)
	if err != nil {
		return ir.Content{}, err
	}
	parts = append(parts, textParts...)
	parts = append(parts, imageParts...)

	for _, tc := range msg.ToolCalls {
		var args map[string]any
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return ir.Content{}, fmt.Errorf("openai: tool call %q arguments: %w", tc.ID, err)
			}
		}
		parts = append(parts, ir.Part{
			Kind:         ir.PartFunctionCall,
			FunctionName: tc.Function.Name,
			FunctionArgs: args,
		})
	}

	return ir.Content{Role: role, Parts: parts}, nil
}

// toMessageParts splits a user/assistant Content value into text parts
// (each newline-terminated per spec §4.3) and inline-data parts for any
// data-URL images; non-data-URL images are dropped.
func toMessageParts(raw json.RawMessage) (text []ir.Part, images []ir.Part, err error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil, nil, nil
		}
		return []ir.Part{{Kind: ir.PartText, Text: terminate(s)}}, nil, nil
	}

	var parts []contentPart
	if uErr := json.Unmarshal(raw, &parts); uErr != nil {
		return nil, nil, fmt.Errorf("openai: decoding message content: %w", uErr)
	}
	for _, p := range parts {
		switch p.Type {
		case "text":
			if p.Text != "" {
				text = append(text, ir.Part{Kind: ir.PartText, Text: terminate(p.Text)})
			}
		case "image_url":
			if p.ImageURL == nil {
				continue
			}
			mime, data, ok := parseDataURL(p.ImageURL.URL)
			if !ok {
				continue
			}
			images = append(images, ir.Part{Kind: ir.PartInlineData, MimeType: mime, Data: data})
		}
	}
	return text, images, nil
}

// terminate appends "\n" if s doesn't already end with one, per spec §4.3's
// multi-part text-merging rule.
func terminate(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// parseDataURL splits a "data:<mime>;base64,<body>" URL into its parts.
func parseDataURL(url string) (mime, data string, ok bool) {
	const prefix = "data:"
	if !strings.HasPrefix(url, prefix) {
		return "", "", false
	}
	rest := url[len(prefix):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", "", false
	}
	header, body := rest[:comma], rest[comma+1:]
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", "", false
	}
	return mime, body, true
}

// toolConfigFrom maps an OpenAI tool_choice field (string or object) to a
// Gemini ToolConfig.
func toolConfigFrom(raw json.RawMessage) (*ir.ToolConfig, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	v := gjson.ParseBytes(raw)
	if v.Type == gjson.String {
		switch v.String() {
		case "none":
			return &ir.ToolConfig{Mode: ir.ModeNone}, nil
		case "required", "any":
			return &ir.ToolConfig{Mode: ir.ModeAny}, nil
		default: // "auto" or unrecognized
			return &ir.ToolConfig{Mode: ir.ModeAuto}, nil
		}
	}
	if name := v.Get("function.name").String(); name != "" {
		return &ir.ToolConfig{Mode: ir.ModeAny, AllowedFunctionNames: []string{name}}, nil
	}
	return nil, nil
}

// newToolCallID mints a fresh tool call id in the "call_<uuid>" shape this
// proxy uses consistently across dialects.
func newToolCallID() string {
	return "call_" + uuid.NewString()
}
