package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/schema"
	"github.com/samkirk/gca-bridge/internal/translator/common"
)

// skipThoughtSignatureValidator is the sentinel signature spec §4.3
// requires on every echoed tool_use part in a rebuilt Gemini history,
// since thinking blocks themselves are dropped from that history.
const skipThoughtSignatureValidator = "skip_thought_signature_validator"

// interleavedThinkingHint is appended to the system instruction whenever
// tools are present, to suppress a thinking-model validator quirk.
const interleavedThinkingHint = "Interleaved thinking is enabled for this conversation; reasoning may appear between tool calls."

// ToCanonical translates a parsed MessagesRequest into a canonical Gemini
// request. Returns an apierr.InvalidRequest if max_tokens is missing.
func ToCanonical(req *MessagesRequest) (*ir.CanonicalRequest, error) {
	if req.MaxTokens == nil {
		return nil, apierr.InvalidRequest{Message: "max_tokens is required"}
	}

	out := &ir.CanonicalRequest{
		Model:            req.Model,
		GenerationConfig: &ir.GenerationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens},
	}

	toolNameByID := map[string]string{}

	var systemParts []string
	if text, err := flattenSystem(req.System); err != nil {
		return nil, err
	} else if text != "" {
		systemParts = append(systemParts, text)
	}
	if len(req.Tools) > 0 {
		systemParts = append(systemParts, interleavedThinkingHint)
	}
	if len(systemParts) > 0 {
		out.SystemInstruction = &ir.Content{
			Role:  ir.RoleUser,
			Parts: []ir.Part{{Kind: ir.PartText, Text: strings.Join(systemParts, "\n")}},
		}
	}

	for _, msg := range req.Messages {
		var blocks []block
		if err := json.Unmarshal(msg.Content, &blocks); err != nil {
			var s string
			if sErr := json.Unmarshal(msg.Content, &s); sErr != nil {
				return nil, fmt.Errorf("anthropic: decoding message content: %w", err)
			}
			blocks = []block{{Type: "text", Text: s}}
		}
		for _, b := range blocks {
			if b.Type == "tool_use" {
				toolNameByID[b.ID] = b.Name
			}
		}

		role := ir.RoleUser
		if msg.Role == "assistant" {
			role = ir.RoleModel
		}
		parts, err := toParts(blocks, toolNameByID)
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			parts = []ir.Part{{Kind: ir.PartText, Text: "."}}
		}
		out.Contents = append(out.Contents, ir.Content{Role: role, Parts: parts})
	}

	if len(req.Tools) > 0 {
		for _, t := range req.Tools {
			out.Tools = append(out.Tools, ir.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schema.Normalize(t.InputSchema),
			})
		}
	}
	if req.ToolChoice != nil {
		out.ToolConfig = toolConfigFrom(req.ToolChoice)
	}

	common.EnsureNonEmptyContents(out)
	return out, nil
}

// flattenSystem extracts plain text from the Anthropic `system` field,
// which is either a bare string or an array of text blocks.
func flattenSystem(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var blocks []block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", fmt.Errorf("anthropic: decoding system: %w", err)
	}
	var sb strings.Builder
	for _, b := range blocks {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// toParts converts one message's content blocks into Gemini parts.
// Inbound thinking blocks are dropped entirely (spec §4.3); any echoed
// tool_use block is given the sentinel signature the validator requires.
func toParts(blocks []block, toolNameByID map[string]string) ([]ir.Part, error) {
	var parts []ir.Part
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				parts = append(parts, ir.Part{Kind: ir.PartText, Text: terminate(b.Text)})
			}
		case "thinking":
			// dropped: spec §4.3 rebuilds history without prior thinking blocks.
		case "image":
			if b.Source == nil || b.Source.Type != "base64" {
				continue
			}
			parts = append(parts, ir.Part{Kind: ir.PartInlineData, MimeType: b.Source.MediaType, Data: b.Source.Data})
		case "tool_use":
			parts = append(parts, ir.Part{
				Kind:             ir.PartFunctionCall,
				FunctionName:     b.Name,
				FunctionArgs:     b.Input,
				ThoughtSignature: skipThoughtSignatureValidator,
			})
		case "tool_result":
			name := toolNameByID[b.ToolUseID]
			result, err := toolResultText(b.Content)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ir.Part{
				Kind:         ir.PartFunctionResponse,
				ResponseName: name,
				Response:     map[string]any{"result": result},
			})
		}
	}
	return parts, nil
}

// toolResultText implements spec §4.3's tool_result content rules: array
// content concatenates its text sub-parts with "\n"; string content
// passes through; empty content becomes "Success".
func toolResultText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "Success", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "Success", nil
		}
		return s, nil
	}
	var blocks []block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", fmt.Errorf("anthropic: decoding tool_result content: %w", err)
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	if len(parts) == 0 {
		return "Success", nil
	}
	return strings.Join(parts, "\n"), nil
}

func terminate(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// toolConfigFrom maps an Anthropic tool_choice object to a Gemini
// ToolConfig.
func toolConfigFrom(tc *ToolChoice) *ir.ToolConfig {
	switch tc.Type {
	case "none":
		return &ir.ToolConfig{Mode: ir.ModeNone}
	case "any":
		return &ir.ToolConfig{Mode: ir.ModeAny}
	case "tool":
		return &ir.ToolConfig{Mode: ir.ModeAny, AllowedFunctionNames: []string{tc.Name}}
	default: // "auto"
		return &ir.ToolConfig{Mode: ir.ModeAuto}
	}
}
