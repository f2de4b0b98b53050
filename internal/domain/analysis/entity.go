package analysis

import (
	"strings"
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Category enum
type Category string

const (
	CategoryHazard    Category = "hazard"
	CategoryEquipment Category = "equipment"
)

// Priority enum
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// SafetyScore enum
type SafetyScore string

const (
	ScoreSafe    SafetyScore = "safe"
	ScoreCaution SafetyScore = "caution"
	ScoreDanger  SafetyScore = "danger"
)

// DetectedItem value object: one finding reported by the vision model.
// Items belong to exactly one AnalysisRecord.
type DetectedItem struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Confidence  string   `json:"confidence"`
	Priority    Priority `json:"priority"`
	Location    string   `json:"location,omitempty"`
	Action      string   `json:"action"`
}

// Aggregate Root: AnalysisRecord. Immutable once appended.
type AnalysisRecord struct {
	ID                 AnalysisID     `json:"id"`
	ImageName          string         `json:"image_name"`
	ImageURL           string         `json:"image_url,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
	DetectedItems      []DetectedItem `json:"detected_items"`
	OverallSafetyScore SafetyScore    `json:"overall_safety_score"`
	Summary            string         `json:"summary"`
}

// StatsSnapshot value object; safe+caution+danger always equals total.
type StatsSnapshot struct {
	TotalAnalyses int `json:"total_analyses"`
	SafeCount     int `json:"safe_count"`
	CautionCount  int `json:"caution_count"`
	DangerCount   int `json:"danger_count"`
}

// ParseSafetyScore normalizes a model-provided score string ("Safe", "DANGER", ...).
func ParseSafetyScore(s string) (SafetyScore, bool) {
	switch SafetyScore(strings.ToLower(strings.TrimSpace(s))) {
	case ScoreSafe:
		return ScoreSafe, true
	case ScoreCaution:
		return ScoreCaution, true
	case ScoreDanger:
		return ScoreDanger, true
	}
	return "", false
}

// ParseCategory normalizes a model-provided category string.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryHazard:
		return CategoryHazard, true
	case CategoryEquipment:
		return CategoryEquipment, true
	}
	return "", false
}

// ParsePriority normalizes a model-provided priority string.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}
