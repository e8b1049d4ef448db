package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/rawdata"
	"github.com/kyak15/soccer-analytics/internal/platform/id"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MatchStatusLoaded  = "loaded"
	MatchStatusSkipped = "skipped"
	MatchStatusFailed  = "failed"

	StageExtract   = "extract"
	StageTransform = "transform"
	StageLoad      = "load"
)

type PipelineConfig struct {
	Workers int
	// ReuseRaw skips capture when a raw artifact for the match is stored.
	ReuseRaw bool
}

type BackfillInput struct {
	StartRound int
	EndRound   int
}

type BackfillResult struct {
	RunID        string        `json:"run_id"`
	StartRound   int           `json:"start_round"`
	EndRound     int           `json:"end_round"`
	Discovered   int           `json:"discovered"`
	LoadedCount  int           `json:"loaded_count"`
	SkippedCount int           `json:"skipped_count"`
	FailedCount  int           `json:"failed_count"`
	WorkerCount  int           `json:"worker_count"`
	Matches      []MatchResult `json:"matches"`
}

type MatchResult struct {
	MatchID    string `json:"match_id"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	Stage      string `json:"stage,omitempty"`
	Rows       int    `json:"rows"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type PipelineService struct {
	discovery *DiscoveryService
	capture   *CaptureService
	transform *TransformService
	load      *LoadService
	raw       rawdata.Repository
	artifacts match.ArtifactRepository
	publisher EventPublisher
	ids       id.Generator
	cfg       PipelineConfig
	logger    *logging.Logger
}

func NewPipelineService(
	discovery *DiscoveryService,
	capture *CaptureService,
	transform *TransformService,
	load *LoadService,
	raw rawdata.Repository,
	artifacts match.ArtifactRepository,
	publisher EventPublisher,
	ids id.Generator,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	if publisher == nil {
		publisher = noopEventPublisher{}
	}
	if ids == nil {
		ids = id.NewRunIDGenerator()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &PipelineService{
		discovery: discovery,
		capture:   capture,
		transform: transform,
		load:      load,
		raw:       raw,
		artifacts: artifacts,
		publisher: publisher,
		ids:       ids,
		cfg:       cfg,
		logger:    logger.Named("pipeline"),
	}
}

// Backfill discovers the completed matches of the round range and runs each
// through extract, transform and load. A failing match is recorded and never
// stops the run.
func (s *PipelineService) Backfill(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Backfill",
		attribute.Int("round.start", input.StartRound),
		attribute.Int("round.end", input.EndRound),
	)
	defer span.End()

	runID, err := s.ids.NewID()
	if err != nil {
		return BackfillResult{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := s.logger.With("run_id", runID)

	refs, err := s.discovery.Discover(ctx, input.StartRound, input.EndRound)
	if err != nil {
		return BackfillResult{}, err
	}

	workerCount := s.cfg.Workers
	if len(refs) > 0 && workerCount > len(refs) {
		workerCount = len(refs)
	}
	result := BackfillResult{
		RunID:       runID,
		StartRound:  input.StartRound,
		EndRound:    input.EndRound,
		Discovered:  len(refs),
		WorkerCount: workerCount,
		Matches:     make([]MatchResult, 0, len(refs)),
	}
	logger.InfoContext(ctx, "backfill started", "matches", len(refs), "workers", workerCount)
	if len(refs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan MatchResult, len(refs))
	var loadedCount, skippedCount, failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, ref := range refs {
		ref := ref
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.processMatch(ctx, runID, ref)
			switch row.Status {
			case MatchStatusLoaded:
				loadedCount.Add(1)
			case MatchStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return BackfillResult{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return lessMatchID(result.Matches[i].MatchID, result.Matches[j].MatchID)
	})

	result.LoadedCount = int(loadedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())

	logger.InfoContext(ctx, "backfill finished",
		"loaded", result.LoadedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// ProcessMatch runs one discovered match through every stage.
func (s *PipelineService) ProcessMatch(ctx context.Context, ref match.Reference) (MatchResult, error) {
	runID, err := s.ids.NewID()
	if err != nil {
		return MatchResult{}, fmt.Errorf("generate run id: %w", err)
	}
	return s.processMatch(ctx, runID, ref), nil
}

func (s *PipelineService) processMatch(ctx context.Context, runID string, ref match.Reference) MatchResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.processMatch", attribute.String("match.id", ref.MatchID))
	defer span.End()

	start := time.Now()
	row := MatchResult{MatchID: ref.MatchID, URL: ref.URL}
	finish := func(status, stage string, err error) MatchResult {
		row.Status = status
		row.Stage = stage
		row.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			row.Message = err.Error()
			recordSpanError(span, err)
			s.logger.ErrorContext(ctx, "match failed", "run_id", runID, "match_id", ref.MatchID, "stage", stage, "error", err)
		}
		s.publish(ctx, runID, row)
		return row
	}

	doc, err := s.extract(ctx, ref)
	if err != nil {
		return finish(MatchStatusFailed, StageExtract, err)
	}

	bundle, err := s.transform.Transform(ctx, doc)
	if err != nil {
		return finish(MatchStatusFailed, StageTransform, err)
	}
	if s.artifacts != nil {
		if err := s.artifacts.Save(ctx, bundle); err != nil {
			return finish(MatchStatusFailed, StageTransform, fmt.Errorf("%w: save transformed match: %w", ErrStorage, err))
		}
	}

	inserted, err := s.load.Load(ctx, bundle)
	if err != nil {
		return finish(MatchStatusFailed, StageLoad, err)
	}
	if !inserted {
		return finish(MatchStatusSkipped, StageLoad, nil)
	}
	row.Rows = len(bundle.PlayerStats)
	return finish(MatchStatusLoaded, StageLoad, nil)
}

func (s *PipelineService) extract(ctx context.Context, ref match.Reference) (rawdata.Document, error) {
	if s.cfg.ReuseRaw && s.raw != nil && ref.MatchID != "" {
		doc, ok, err := s.raw.Get(ctx, ref.MatchID)
		if err != nil {
			return rawdata.Document{}, fmt.Errorf("%w: read raw match %s: %w", ErrStorage, ref.MatchID, err)
		}
		if ok {
			s.logger.InfoContext(ctx, "reusing stored raw match", "match_id", ref.MatchID)
			return doc, nil
		}
	}
	return s.CaptureAndStore(ctx, ref.URL)
}

// CaptureAndStore captures a match and persists the raw document before
// anything else reads it.
func (s *PipelineService) CaptureAndStore(ctx context.Context, matchURL string) (rawdata.Document, error) {
	doc, err := s.capture.Capture(ctx, matchURL)
	if err != nil {
		return rawdata.Document{}, err
	}
	if s.raw != nil {
		if err := s.raw.Save(ctx, doc); err != nil {
			return rawdata.Document{}, fmt.Errorf("%w: save raw match %s: %w", ErrStorage, doc.MatchID, err)
		}
	}
	return doc, nil
}

// TransformStored transforms a previously captured match and stores the
// result.
func (s *PipelineService) TransformStored(ctx context.Context, matchID string) (match.Bundle, error) {
	if s.raw == nil {
		return match.Bundle{}, fmt.Errorf("%w: raw artifact store is not configured", ErrDependencyUnavailable)
	}
	doc, ok, err := s.raw.Get(ctx, matchID)
	if err != nil {
		return match.Bundle{}, fmt.Errorf("%w: read raw match %s: %w", ErrStorage, matchID, err)
	}
	if !ok {
		return match.Bundle{}, fmt.Errorf("%w: no raw artifact for match %s", ErrNotFound, matchID)
	}

	bundle, err := s.transform.Transform(ctx, doc)
	if err != nil {
		return match.Bundle{}, err
	}
	if s.artifacts != nil {
		if err := s.artifacts.Save(ctx, bundle); err != nil {
			return match.Bundle{}, fmt.Errorf("%w: save transformed match: %w", ErrStorage, err)
		}
	}
	return bundle, nil
}

// LoadStored loads a previously transformed match.
func (s *PipelineService) LoadStored(ctx context.Context, matchID int64) (bool, error) {
	if s.artifacts == nil {
		return false, fmt.Errorf("%w: transformed artifact store is not configured", ErrDependencyUnavailable)
	}
	bundle, ok, err := s.artifacts.Get(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("%w: read transformed match %d: %w", ErrStorage, matchID, err)
	}
	if !ok {
		return false, fmt.Errorf("%w: no transformed artifact for match %d", ErrNotFound, matchID)
	}
	return s.load.Load(ctx, bundle)
}

func (s *PipelineService) publish(ctx context.Context, runID string, row MatchResult) {
	event := PipelineEvent{
		RunID:    runID,
		MatchID:  row.MatchID,
		Stage:    row.Stage,
		Status:   row.Status,
		Rows:     row.Rows,
		Message:  row.Message,
		Occurred: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "publish pipeline event failed", "run_id", runID, "match_id", row.MatchID, "error", err)
	}
}

// lessMatchID orders numeric ids numerically and anything else lexically
// after them.
func lessMatchID(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
