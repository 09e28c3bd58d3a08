package ir

import "encoding/json"

// Accumulator collects a normalized chunk stream into the values the
// non-streaming response mappers need: visible text, tool calls keyed by
// index, the finish reason, and usage.
type Accumulator struct {
	Text         string
	ToolCalls    map[int]*AccumulatedToolCall
	order        []int
	FinishReason FinishReason
	Usage        *Usage
}

// AccumulatedToolCall is one tool call whose arguments have been built up
// from streamed deltas.
type AccumulatedToolCall struct {
	ID               string
	Name             string
	Arguments        string
	ThoughtSignature string
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{ToolCalls: make(map[int]*AccumulatedToolCall)}
}

// Add folds one normalized chunk into the accumulator.
func (a *Accumulator) Add(c Chunk) {
	if c.Content != "" && !c.Thought {
		a.Text += c.Content
	}
	for _, d := range c.ToolCalls {
		tc, ok := a.ToolCalls[d.Index]
		if !ok {
			tc = &AccumulatedToolCall{}
			a.ToolCalls[d.Index] = tc
			a.order = append(a.order, d.Index)
		}
		if d.ID != "" {
			tc.ID = d.ID
		}
		if d.Name != "" {
			tc.Name = d.Name
		}
		tc.Arguments += d.ArgumentsDelta
		if d.ThoughtSignature != "" {
			tc.ThoughtSignature = d.ThoughtSignature
		}
	}
	if c.FinishReason != "" {
		a.FinishReason = c.FinishReason
	}
	if c.Usage != nil {
		a.Usage = c.Usage
	}
}

// OrderedToolCalls returns the accumulated tool calls in first-seen index
// order, the order spec invariant 3/4 require downstream parsers to see.
func (a *Accumulator) OrderedToolCalls() []*AccumulatedToolCall {
	out := make([]*AccumulatedToolCall, 0, len(a.order))
	for _, idx := range a.order {
		out = append(out, a.ToolCalls[idx])
	}
	return out
}

// ParseArguments parses a tool call's concatenated argument string as
// JSON. Per invariant 3 this must succeed once the stream has finished.
func (tc *AccumulatedToolCall) ParseArguments() (map[string]any, error) {
	if tc.Arguments == "" {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(tc.Arguments), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HasToolCalls reports whether any tool call was accumulated.
func (a *Accumulator) HasToolCalls() bool {
	return len(a.ToolCalls) > 0
}

// DetermineFinishReason applies invariant 5: tool_calls wins whenever any
// tool call was emitted, otherwise stop unless the model already reported
// length/content_filter.
func (a *Accumulator) DetermineFinishReason() FinishReason {
	if a.HasToolCalls() {
		return FinishToolCalls
	}
	if a.FinishReason == FinishLength || a.FinishReason == FinishContentFilter {
		return a.FinishReason
	}
	return FinishStop
}
