package responses

import (
	"encoding/json"
	"testing"
)

func TestAdaptToChatMessagesPlainString(t *testing.T) {
	raw, _ := json.Marshal("hi")
	msgs, err := adaptToChatMessages(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Role != "user" {
		t.Fatalf("got %#v", msgs)
	}
}

func TestAdaptToChatMessagesGroupsFunctionCalls(t *testing.T) {
	raw := []byte(`[
		{"type":"message","role":"user","content":"what's the weather in two cities"},
		{"type":"function_call","call_id":"call_1","name":"get_weather","arguments":"{\"city\":\"Paris\"}"},
		{"type":"function_call","call_id":"call_2","name":"get_weather","arguments":"{\"city\":\"Rome\"}"},
		{"type":"function_call_output","call_id":"call_1","output":"Sunny"},
		{"type":"function_call_output","call_id":"call_2","output":"Cloudy"}
	]`)
	msgs, err := adaptToChatMessages(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("got %d messages: %#v", len(msgs), msgs)
	}
	if msgs[1].Role != "assistant" || len(msgs[1].ToolCalls) != 2 {
		t.Fatalf("expected grouped assistant tool calls, got %#v", msgs[1])
	}
	if msgs[2].Role != "tool" || msgs[2].ToolCallID != "call_1" {
		t.Fatalf("got %#v", msgs[2])
	}
	if msgs[3].Role != "tool" || msgs[3].ToolCallID != "call_2" {
		t.Fatalf("got %#v", msgs[3])
	}
}
