package analysis

import (
	"context"
	"sync"

	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
)

// StatsAggregator keeps running counts of stored analyses per safety score.
// It is a derived view over the repository: rebuildable at any time by
// folding the canonical record sequence, never the source of truth.
type StatsAggregator struct {
	mu      sync.RWMutex
	total   int
	safe    int
	caution int
	danger  int
}

func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{}
}

// Update incorporates one newly appended record. O(1). Must be called
// exactly once per committed append; there is no decrement path because
// records are immutable and never deleted.
func (a *StatsAggregator) Update(rec *domain.AnalysisRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total++
	switch rec.OverallSafetyScore {
	case domain.ScoreSafe:
		a.safe++
	case domain.ScoreCaution:
		a.caution++
	case domain.ScoreDanger:
		a.danger++
	}
}

// Snapshot returns a consistent copy of the counts.
func (a *StatsAggregator) Snapshot() domain.StatsSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return domain.StatsSnapshot{
		TotalAnalyses: a.total,
		SafeCount:     a.safe,
		CautionCount:  a.caution,
		DangerCount:   a.danger,
	}
}

// Rebuild re-derives the counts from the repository. Used at startup when
// the store already holds records, and as a reconciliation path.
func (a *StatsAggregator) Rebuild(ctx context.Context, repo domain.Repository) error {
	total, safe, caution, danger, err := repo.Summary(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total, a.safe, a.caution, a.danger = total, safe, caution, danger
	return nil
}
