package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/vision"
)

// Service implements use-cases untuk analysis
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo    domain.Repository
	Vision  vision.Client
	Stats   *StatsAggregator
	Archive ImageArchive
	Clock   Clock

	// Retry policy for vision calls. Zero means no retry (the default);
	// only transport failures are retried, never rejections or parse errors.
	Retries      int
	RetryBackoff time.Duration

	// ModelTimeout bounds each vision call. Zero means no extra bound
	// beyond the request context.
	ModelTimeout time.Duration
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ImageArchive port for keeping a copy of the analyzed image. Optional;
// archive failures never fail the analysis.
type ImageArchive interface {
	UploadImage(ctx context.Context, image []byte, key string) (string, error)
}

//
// ==== USE CASES ====
//

// Analyze runs the full pipeline: model call, parse/validate, classify,
// append, stats update. Nothing is persisted when any step before the
// append fails; the caller gets either a complete record or a typed error.
func (s *Service) Analyze(ctx context.Context, image []byte, imageName string) (*domain.AnalysisRecord, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidInput
	}

	raw, err := s.invokeModel(ctx, image, imageName)
	if err != nil {
		return nil, err
	}

	payload, err := domain.ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	score, items := domain.Classify(payload.Items, payload.ModelScore)

	imageURL := s.archiveImage(ctx, image, imageName)

	rec, err := s.Repo.Append(ctx, items, score, payload.Summary, imageName, imageURL)
	if err != nil {
		return nil, err
	}

	if s.Stats != nil {
		s.Stats.Update(rec)
	}
	return rec, nil
}

// History returns stored records, most recent first.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error) {
	return s.Repo.List(ctx, limit)
}

// Get fetches one record by id.
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.AnalysisRecord, error) {
	return s.Repo.Get(ctx, id)
}

// StatsSnapshot returns the current aggregate counts.
func (s *Service) StatsSnapshot() domain.StatsSnapshot {
	if s.Stats == nil {
		return domain.StatsSnapshot{}
	}
	return s.Stats.Snapshot()
}

// invokeModel calls the vision client, retrying transport failures per policy.
func (s *Service) invokeModel(ctx context.Context, image []byte, imageName string) (string, error) {
	raw, err := s.callOnce(ctx, image, imageName)
	for attempt := 0; attempt < s.Retries && errors.Is(err, vision.ErrUnavailable); attempt++ {
		if s.RetryBackoff > 0 {
			select {
			case <-time.After(s.RetryBackoff):
			case <-ctx.Done():
				return "", vision.ErrUnavailable
			}
		}
		raw, err = s.callOnce(ctx, image, imageName)
	}
	return raw, err
}

func (s *Service) callOnce(ctx context.Context, image []byte, imageName string) (string, error) {
	if s.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ModelTimeout)
		defer cancel()
	}
	return s.Vision.Analyze(ctx, image, imageName)
}

// archiveImage uploads a copy of the image when an archive is configured.
func (s *Service) archiveImage(ctx context.Context, image []byte, imageName string) string {
	if s.Archive == nil {
		return ""
	}
	name := path.Base(imageName)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	key := fmt.Sprintf("%s/%s-%s", s.Clock.Now().UTC().Format("2006/01/02"), uuid.New().String(), name)
	url, err := s.Archive.UploadImage(ctx, image, key)
	if err != nil {
		log.Printf("image archive upload failed for %s: %v", imageName, err)
		return ""
	}
	return url
}
