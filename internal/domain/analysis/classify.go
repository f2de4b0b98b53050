package analysis

// Classify derives the overall safety score from the detected items.
// It is pure: no I/O, no randomness, same input always yields the same output.
//
// Precedence, evaluated in order:
//  1. any hazard with high priority        -> danger
//  2. any hazard, or any medium/high item  -> caution
//  3. otherwise (including no items)       -> safe
//
// Items with no priority are normalized to low before evaluation. The
// modelScore argument is advisory only; when it disagrees with the derived
// value the derived value wins.
func Classify(items []DetectedItem, modelScore SafetyScore) (SafetyScore, []DetectedItem) {
	normalized := make([]DetectedItem, len(items))
	copy(normalized, items)
	for i := range normalized {
		if normalized[i].Priority == "" {
			normalized[i].Priority = PriorityLow
		}
	}

	score := ScoreSafe
	for _, it := range normalized {
		if it.Category == CategoryHazard && it.Priority == PriorityHigh {
			return ScoreDanger, normalized
		}
		if it.Category == CategoryHazard || it.Priority == PriorityMedium || it.Priority == PriorityHigh {
			score = ScoreCaution
		}
	}
	return score, normalized
}
