package analysis

import "context"

// DefaultListLimit is the page size List applies when limit is zero.
const DefaultListLimit = 50

// Repository port (interface untuk persistence).
// Append assigns the record's id and timestamp and commits atomically:
// a record is either fully visible to List/Get or not visible at all.
// List returns most-recent-first; limit < 0 means unbounded, limit == 0
// means DefaultListLimit.
type Repository interface {
	Append(ctx context.Context, items []DetectedItem, score SafetyScore, summary, imageName, imageURL string) (*AnalysisRecord, error)
	List(ctx context.Context, limit int) ([]*AnalysisRecord, error)
	Get(ctx context.Context, id AnalysisID) (*AnalysisRecord, error)
	Summary(ctx context.Context) (total, safe, caution, danger int, err error)
}
