package util

// ThinkingBudgetForEffort maps a reasoning_effort / reasoning.effort value
// to one of the three fixed Gemini thinking budgets spec §4.3 names. ok is
// false for anything else, in which case callers leave thinking unset.
func ThinkingBudgetForEffort(effort string) (budget int, ok bool) {
	switch effort {
	case "low":
		return 1024, true
	case "medium":
		return 8192, true
	case "high":
		return 24576, true
	default:
		return 0, false
	}
}
