package gemini

import "github.com/samkirk/gca-bridge/internal/ir"

// toWireRequest lowers a canonical request into the Code Assist wire
// envelope. userPromptID and sessionID are stamped in by the caller per
// call (spec §4.4).
func toWireRequest(req *ir.CanonicalRequest, userPromptID, sessionID string) wireRequest {
	inner := wireInnerRequest{
		Contents:  toWireContents(req.Contents),
		SessionID: sessionID,
	}
	if req.SystemInstruction != nil {
		c := toWireContent(*req.SystemInstruction)
		inner.SystemInstruction = &c
	}
	if len(req.Tools) > 0 {
		inner.Tools = []wireTool{{FunctionDeclarations: toWireFunctionDeclarations(req.Tools)}}
	}
	if req.ToolConfig != nil {
		inner.ToolConfig = &wireToolConfig{
			FunctionCallingConfig: wireFunctionCallingConfig{
				Mode:                 string(req.ToolConfig.Mode),
				AllowedFunctionNames: req.ToolConfig.AllowedFunctionNames,
			},
		}
	}
	if gc := req.GenerationConfig; gc != nil {
		wgc := &wireGenerationConfig{
			Temperature:     gc.Temperature,
			MaxOutputTokens: gc.MaxOutputTokens,
		}
		if gc.Thinking != nil {
			wgc.ThinkingConfig = &wireThinkingConfig{
				ThinkingBudget:  gc.Thinking.ThinkingBudget,
				IncludeThoughts: gc.Thinking.IncludeThoughts,
			}
		}
		inner.GenerationConfig = wgc
	}

	return wireRequest{
		Model:        req.Model,
		Project:      req.ProjectID,
		UserPromptID: userPromptID,
		Request:      inner,
	}
}

func toWireContents(contents []ir.Content) []wireContent {
	out := make([]wireContent, 0, len(contents))
	for _, c := range contents {
		out = append(out, toWireContent(c))
	}
	return out
}

func toWireContent(c ir.Content) wireContent {
	parts := make([]wirePart, 0, len(c.Parts))
	for _, p := range c.Parts {
		parts = append(parts, toWirePart(p))
	}
	return wireContent{Role: string(c.Role), Parts: parts}
}

func toWirePart(p ir.Part) wirePart {
	switch p.Kind {
	case ir.PartInlineData:
		return wirePart{InlineData: &wireInlineData{MimeType: p.MimeType, Data: p.Data}}
	case ir.PartFunctionCall:
		return wirePart{
			FunctionCall:     &wireFunctionCall{Name: p.FunctionName, Args: p.FunctionArgs},
			ThoughtSignature: p.ThoughtSignature,
		}
	case ir.PartFunctionResponse:
		return wirePart{FunctionResponse: &wireFunctionResponse{Name: p.ResponseName, Response: p.Response}}
	default:
		return wirePart{
			Text:             p.Text,
			Thought:          p.Thought,
			ThoughtSignature: p.ThoughtSignature,
		}
	}
}

func toWireFunctionDeclarations(decls []ir.FunctionDeclaration) []wireFunctionDeclaration {
	out := make([]wireFunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, wireFunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return out
}
