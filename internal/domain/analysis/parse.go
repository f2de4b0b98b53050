package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Payload is the validated detection payload extracted from raw model output.
// ModelScore is the model's own verdict when it supplied one; it is advisory
// and the classifier's derived score always wins.
type Payload struct {
	Items      []DetectedItem
	ModelScore SafetyScore
	Summary    string
}

type rawItem struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Confidence  json.RawMessage `json:"confidence"`
	Priority    string          `json:"priority"`
	Location    string          `json:"location"`
	Action      string          `json:"action"`
}

type rawPayload struct {
	DetectedItems      json.RawMessage `json:"detected_items"`
	OverallSafetyScore string          `json:"overall_safety_score"`
	Summary            string          `json:"summary"`
}

// ParseResponse extracts and validates the detection payload from raw model
// text. The model may wrap the JSON in prose or markdown fences; parsing is
// two-stage: direct parse first, then the first balanced {...} block.
func ParseResponse(raw string) (*Payload, error) {
	text := stripFences(strings.TrimSpace(raw))

	var rp rawPayload
	if err := json.Unmarshal([]byte(text), &rp); err != nil {
		obj, ok := extractObject(text)
		if !ok {
			return nil, ErrUnparsableResponse
		}
		if err := json.Unmarshal([]byte(obj), &rp); err != nil {
			return nil, ErrUnparsableResponse
		}
	}

	if rp.DetectedItems == nil || string(rp.DetectedItems) == "null" {
		return nil, &MalformedResponseError{Field: "detected_items", Reason: "missing"}
	}
	var rawList []json.RawMessage
	if err := json.Unmarshal(rp.DetectedItems, &rawList); err != nil {
		return nil, &MalformedResponseError{Field: "detected_items", Reason: "must be a list"}
	}

	// Empty list is a valid "no findings" result. Items decode one at a
	// time so one mistyped field names that item, not the whole list.
	items := make([]DetectedItem, 0, len(rawList))
	for i, rm := range rawList {
		var ri rawItem
		if err := json.Unmarshal(rm, &ri); err != nil {
			field := fmt.Sprintf("detected_items[%d]", i)
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				field = fmt.Sprintf("detected_items[%d].%s", i, typeErr.Field)
			}
			return nil, &MalformedResponseError{Field: field, Reason: "wrong type"}
		}
		item, err := validateItem(i, ri)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	out := &Payload{Items: items, Summary: strings.TrimSpace(rp.Summary)}
	if s := strings.TrimSpace(rp.OverallSafetyScore); s != "" {
		score, ok := ParseSafetyScore(s)
		if !ok {
			return nil, &MalformedResponseError{Field: "overall_safety_score", Reason: fmt.Sprintf("unknown score %q", s)}
		}
		out.ModelScore = score
	}
	return out, nil
}

func validateItem(i int, ri rawItem) (DetectedItem, error) {
	field := func(name string) string { return fmt.Sprintf("detected_items[%d].%s", i, name) }

	if strings.TrimSpace(ri.Name) == "" {
		return DetectedItem{}, &MalformedResponseError{Field: field("name"), Reason: "missing or empty"}
	}
	cat, ok := ParseCategory(ri.Category)
	if !ok {
		return DetectedItem{}, &MalformedResponseError{Field: field("category"), Reason: fmt.Sprintf("unknown category %q", ri.Category)}
	}
	if strings.TrimSpace(ri.Description) == "" {
		return DetectedItem{}, &MalformedResponseError{Field: field("description"), Reason: "missing or empty"}
	}
	conf, ok := normalizeConfidence(ri.Confidence)
	if !ok {
		return DetectedItem{}, &MalformedResponseError{Field: field("confidence"), Reason: "missing"}
	}
	if strings.TrimSpace(ri.Action) == "" {
		return DetectedItem{}, &MalformedResponseError{Field: field("action"), Reason: "missing or empty"}
	}

	// Priority stays empty when absent; Classify defaults it to low.
	var prio Priority
	if p := strings.TrimSpace(ri.Priority); p != "" {
		prio, ok = ParsePriority(p)
		if !ok {
			return DetectedItem{}, &MalformedResponseError{Field: field("priority"), Reason: fmt.Sprintf("unknown priority %q", p)}
		}
	}

	return DetectedItem{
		Name:        strings.TrimSpace(ri.Name),
		Category:    cat,
		Description: strings.TrimSpace(ri.Description),
		Confidence:  conf,
		Priority:    prio,
		Location:    strings.TrimSpace(ri.Location),
		Action:      strings.TrimSpace(ri.Action),
	}, nil
}

// normalizeConfidence accepts a JSON string or number and returns its string form.
func normalizeConfidence(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// stripFences removes a leading ```json / ``` fence and a trailing ``` fence.
func stripFences(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// extractObject returns the first balanced top-level {...} block, skipping
// braces inside JSON strings.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
