// Package util provides the local token-count estimation used as a
// fallback when an upstream stream ends without usageMetadata (SPEC_FULL
// "Usage estimation fallback").
package util

import (
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/samkirk/gca-bridge/internal/ir"
)

// tiktokenCache avoids re-initializing a codec per call.
var (
	tiktokenCacheMu sync.RWMutex
	tiktokenCache   = make(map[tokenizer.Encoding]tokenizer.Codec)
)

// EstimateUsage counts approximate prompt and completion tokens for a
// canonical request and the accumulated completion text, for use only
// when the upstream omitted usageMetadata.
func EstimateUsage(model string, req *ir.CanonicalRequest, completionText string) ir.Usage {
	enc, err := codecFor(model)
	if err != nil {
		return ir.Usage{Estimated: true}
	}

	var prompt int64
	if req != nil {
		if req.SystemInstruction != nil {
			prompt += int64(len(encodeParts(enc, req.SystemInstruction.Parts)))
		}
		for _, c := range req.Contents {
			prompt += 3 // per-turn overhead, mirrors OpenAI's per-message overhead
			prompt += int64(len(encodeParts(enc, c.Parts)))
		}
	}

	ids, _, _ := enc.Encode(completionText)
	completion := int64(len(ids))

	return ir.Usage{
		PromptTokens:     int(prompt),
		CompletionTokens: int(completion),
		TotalTokens:      int(prompt + completion),
		Estimated:        true,
	}
}

func encodeParts(enc tokenizer.Codec, parts []ir.Part) []uint {
	var sb strings.Builder
	for _, p := range parts {
		switch p.Kind {
		case ir.PartText:
			sb.WriteString(p.Text)
		case ir.PartFunctionCall:
			sb.WriteString(p.FunctionName)
		case ir.PartFunctionResponse:
			sb.WriteString(p.ResponseName)
		}
	}
	ids, _, _ := enc.Encode(sb.String())
	return ids
}

func codecFor(model string) (tokenizer.Codec, error) {
	name := encodingFor(model)

	tiktokenCacheMu.RLock()
	c, ok := tiktokenCache[name]
	tiktokenCacheMu.RUnlock()
	if ok {
		return c, nil
	}

	tiktokenCacheMu.Lock()
	defer tiktokenCacheMu.Unlock()
	if c, ok := tiktokenCache[name]; ok {
		return c, nil
	}
	c, err := tokenizer.Get(name)
	if err != nil {
		return nil, err
	}
	tiktokenCache[name] = c
	return c, nil
}

// encodingFor picks the closest tiktoken encoding for a Gemini/Claude
// model id. Gemini has no public BPE vocabulary, so o200k_base is used as a
// reasonable proxy for every id except those naming gpt-4 or gpt-3.5,
// which get cl100k_base — this is an estimate, not a precise count,
// matching its only consumer's fallback role.
func encodingFor(model string) tokenizer.Encoding {
	lower := strings.ToLower(model)
	if strings.Contains(lower, "gpt-4") || strings.Contains(lower, "gpt-3.5") {
		return tokenizer.Cl100kBase
	}
	return tokenizer.O200kBase
}
