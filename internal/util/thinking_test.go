package util

import "testing"

func TestThinkingBudgetForEffort(t *testing.T) {
	cases := map[string]int{"low": 1024, "medium": 8192, "high": 24576}
	for effort, want := range cases {
		got, ok := ThinkingBudgetForEffort(effort)
		if !ok || got != want {
			t.Fatalf("%s: got %d,%v want %d", effort, got, ok, want)
		}
	}
	if _, ok := ThinkingBudgetForEffort("ultra"); ok {
		t.Fatalf("expected unknown effort to report not-ok")
	}
}
