package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
)

// AnalysisRepository is an in-memory record store. Used for tests and for
// running the service without a database. Append order is the canonical
// order; List walks it backwards so ties in timestamp are broken by
// insertion order.
type AnalysisRepository struct {
	mu      sync.RWMutex
	records []*domain.AnalysisRecord
	byID    map[domain.AnalysisID]*domain.AnalysisRecord
	now     func() time.Time
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{
		byID: make(map[domain.AnalysisID]*domain.AnalysisRecord),
		now:  time.Now,
	}
}

// NewAnalysisRepositoryWithClock pins the append timestamp source, for tests.
func NewAnalysisRepositoryWithClock(now func() time.Time) *AnalysisRepository {
	r := NewAnalysisRepository()
	r.now = now
	return r
}

// Append assigns id and timestamp and commits the record atomically.
func (r *AnalysisRepository) Append(ctx context.Context, items []domain.DetectedItem, score domain.SafetyScore, summary, imageName, imageURL string) (*domain.AnalysisRecord, error) {
	if items == nil {
		items = []domain.DetectedItem{}
	}
	rec := &domain.AnalysisRecord{
		ID:                 domain.AnalysisID(uuid.New().String()),
		ImageName:          imageName,
		ImageURL:           imageURL,
		DetectedItems:      items,
		OverallSafetyScore: score,
		Summary:            summary,
	}

	r.mu.Lock()
	rec.Timestamp = r.now().UTC()
	r.records = append(r.records, rec)
	r.byID[rec.ID] = rec
	r.mu.Unlock()

	return rec, nil
}

// List returns records most-recent-first. A negative limit means no cap;
// zero falls back to the default page size.
func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error) {
	if limit == 0 {
		limit = domain.DefaultListLimit
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.records)
	if limit < 0 || limit > n {
		limit = n
	}
	out := make([]*domain.AnalysisRecord, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

// Get returns one record by id.
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.AnalysisRecord, error) {
	r.mu.RLock()
	rec, exists := r.byID[id]
	r.mu.RUnlock()

	if !exists {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Summary folds the canonical sequence into per-score counts.
func (r *AnalysisRepository) Summary(ctx context.Context) (int, int, int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var safe, caution, danger int
	for _, rec := range r.records {
		switch rec.OverallSafetyScore {
		case domain.ScoreSafe:
			safe++
		case domain.ScoreCaution:
			caution++
		case domain.ScoreDanger:
			danger++
		}
	}
	return len(r.records), safe, caution, danger, nil
}

// interface check
var _ domain.Repository = (*AnalysisRepository)(nil)
