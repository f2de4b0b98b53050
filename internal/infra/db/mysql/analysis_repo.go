package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
)

type AnalysisRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db, now: time.Now}
}

// Append inserts one immutable analysis row. The id and timestamp are
// assigned here; the auto-increment seq column breaks timestamp ties so
// List order stays well-defined under concurrent appends.
func (r *AnalysisRepository) Append(ctx context.Context, items []domain.DetectedItem, score domain.SafetyScore, summary, imageName, imageURL string) (*domain.AnalysisRecord, error) {
	const q = `
INSERT INTO analyses
  (id, image_name, image_url, created_at, items_json, overall_safety_score, summary)
VALUES (?,?,?,?,?,?,?);
`
	rec := &domain.AnalysisRecord{
		ID:                 domain.AnalysisID(uuid.New().String()),
		ImageName:          imageName,
		ImageURL:           imageURL,
		Timestamp:          r.now().UTC().Truncate(time.Microsecond),
		DetectedItems:      items,
		OverallSafetyScore: score,
		Summary:            summary,
	}
	if rec.DetectedItems == nil {
		rec.DetectedItems = []domain.DetectedItem{}
	}

	itemsJSON, err := json.Marshal(rec.DetectedItems)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding items: %v", domain.ErrStoreUnavailable, err)
	}

	if _, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.ImageName, rec.ImageURL, rec.Timestamp,
		itemsJSON, rec.OverallSafetyScore, rec.Summary,
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.AnalysisRecord, error) {
	const q = `
SELECT id, image_name, image_url, created_at, items_json, overall_safety_score, summary
FROM analyses
WHERE id=? LIMIT 1;
`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// List returns records most-recent-first. A negative limit means no cap;
// zero falls back to the default page size.
func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error) {
	if limit == 0 {
		limit = domain.DefaultListLimit
	}
	q := `
SELECT id, image_name, image_url, created_at, items_json, overall_safety_score, summary
FROM analyses
ORDER BY created_at DESC, seq DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []*domain.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

// Summary counts stored records per safety score, for stats reconciliation
func (r *AnalysisRepository) Summary(ctx context.Context) (int, int, int, int, error) {
	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(overall_safety_score='safe'),0)    AS safe,
       COALESCE(SUM(overall_safety_score='caution'),0) AS caution,
       COALESCE(SUM(overall_safety_score='danger'),0)  AS danger
FROM analyses;
`
	var t, s, c, d int
	if err := r.db.QueryRowContext(ctx, q).Scan(&t, &s, &c, &d); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return t, s, c, d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	var itemsJSON []byte
	if err := row.Scan(
		&rec.ID, &rec.ImageName, &rec.ImageURL, &rec.Timestamp,
		&itemsJSON, &rec.OverallSafetyScore, &rec.Summary,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &rec.DetectedItems); err != nil {
		return nil, err
	}
	return &rec, nil
}
