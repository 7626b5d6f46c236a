package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoImage means the exercise has no associated target image and
	// cannot be consolidated yet.
	ErrNoImage = errors.New("exercise has no target image")
	// ErrNoAnalysis means the target image exists but the detector has
	// not analyzed it yet.
	ErrNoAnalysis = errors.New("target image has no analysis yet")
)

// Store is the persistence capability the consolidator needs. The engine
// never touches SQL itself; snapshots come in already loaded and updates
// go out as plain structs.
type Store interface {
	GetExercise(ctx context.Context, id int64) (ExerciseSnapshot, error)
	// GetLatestAnalysis returns the newest analysis for the exercise's
	// image. The bool is false when no analysis exists yet.
	GetLatestAnalysis(ctx context.Context, exerciseID int64) (AnalysisSnapshot, bool, error)
	UpdateExerciseMetrics(ctx context.Context, exerciseID int64, m MetricsUpdate) error
	ListSessionExerciseIDs(ctx context.Context, sessionID int64) ([]int64, error)
	// ListSessionMetrics returns the stored metrics of every exercise
	// currently attached to the session.
	ListSessionMetrics(ctx context.Context, sessionID int64) ([]MetricsUpdate, error)
	UpdateSessionTotals(ctx context.Context, sessionID int64, t SessionTotals) error
}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// ConsolidationResult bundles the reconciliation verdict with the computed
// metrics so the warning is visible to the caller even when consolidation
// succeeds.
type ConsolidationResult struct {
	ExerciseID int64
	Validation AmmunitionValidation
	Metrics    MetricsUpdate
}

// BatchItem reports one exercise's outcome within a session batch.
type BatchItem struct {
	ExerciseID int64
	Skipped    bool
	Reason     string
	Result     *ConsolidationResult
}

// BatchResult reports a whole-session consolidation run. One exercise
// failing never aborts the rest.
type BatchResult struct {
	SessionID    int64
	Consolidated int
	Skipped      int
	Failed       int
	Items        []BatchItem
	Totals       SessionTotals
}

// Consolidator orchestrates exercise consolidation and session rollup.
// The metrics write is a full overwrite, so concurrent re-analysis of the
// same exercise is serialized with a per-exercise mutex.
type Consolidator struct {
	store Store
	log   Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(store Store, log Logger) *Consolidator {
	if log == nil {
		log = nopLogger{}
	}
	return &Consolidator{
		store: store,
		log:   log,
		locks: make(map[int64]*sync.Mutex),
	}
}

func (c *Consolidator) exerciseLock(id int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}

// UpdateExerciseFromAnalysis consolidates one exercise from its latest
// analysis: validates the ammunition counts, computes the reconciled
// metrics, overwrites the exercise's stored metrics and re-derives the
// owning session's totals. Re-running it on unchanged inputs produces the
// identical result.
func (c *Consolidator) UpdateExerciseFromAnalysis(ctx context.Context, exerciseID int64) (*ConsolidationResult, error) {
	l := c.exerciseLock(exerciseID)
	l.Lock()
	defer l.Unlock()

	res, sessionID, err := c.consolidateLocked(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if _, err := c.RecomputeSessionTotals(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("exercise %d: session %d rollup: %w", exerciseID, sessionID, err)
	}
	return res, nil
}

// consolidateLocked does the single-exercise work without touching session
// totals, so batch mode can roll up exactly once after its loop.
func (c *Consolidator) consolidateLocked(ctx context.Context, exerciseID int64) (*ConsolidationResult, int64, error) {
	ex, err := c.store.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, 0, fmt.Errorf("exercise %d: %w", exerciseID, err)
	}
	if !ex.HasImage {
		return nil, 0, fmt.Errorf("exercise %d: %w", exerciseID, ErrNoImage)
	}

	an, ok, err := c.store.GetLatestAnalysis(ctx, exerciseID)
	if err != nil {
		return nil, 0, fmt.Errorf("exercise %d: %w", exerciseID, err)
	}
	if !ok {
		return nil, 0, fmt.Errorf("exercise %d: %w", exerciseID, ErrNoAnalysis)
	}

	validation := ValidateAmmunition(ex.Allocated, ex.DeclaredUsed, an.FreshImpacts())
	if validation.Warning != "" {
		c.log.Warnf("exercise %d: %s", exerciseID, validation.Warning)
	}
	if validation.NeedsManualReview {
		c.log.Warnf("exercise %d flagged for manual review (allocated=%d detected=%d)", exerciseID, validation.Allocated, validation.DetectedImpacts)
	}

	metrics := CalculateExerciseMetrics(ex, an)
	if err := c.store.UpdateExerciseMetrics(ctx, exerciseID, metrics); err != nil {
		return nil, 0, fmt.Errorf("exercise %d: persisting metrics: %w", exerciseID, err)
	}

	return &ConsolidationResult{
		ExerciseID: exerciseID,
		Validation: validation,
		Metrics:    metrics,
	}, ex.SessionID, nil
}

// ConsolidateSessionExercises consolidates every exercise of a session.
// Exercises without an image are reported as skipped; any other failure is
// recorded per-exercise without stopping the batch. Session totals are
// recomputed exactly once, after the loop.
func (c *Consolidator) ConsolidateSessionExercises(ctx context.Context, sessionID int64) (*BatchResult, error) {
	ids, err := c.store.ListSessionExerciseIDs(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %d: listing exercises: %w", sessionID, err)
	}

	batch := &BatchResult{SessionID: sessionID}
	for _, id := range ids {
		l := c.exerciseLock(id)
		l.Lock()
		res, _, err := c.consolidateLocked(ctx, id)
		l.Unlock()

		switch {
		case errors.Is(err, ErrNoImage):
			batch.Skipped++
			batch.Items = append(batch.Items, BatchItem{ExerciseID: id, Skipped: true, Reason: ErrNoImage.Error()})
			c.log.Infof("session %d: exercise %d skipped: no image", sessionID, id)
		case err != nil:
			batch.Failed++
			batch.Items = append(batch.Items, BatchItem{ExerciseID: id, Reason: err.Error()})
			c.log.Errorf("session %d: exercise %d failed: %v", sessionID, id, err)
		default:
			batch.Consolidated++
			batch.Items = append(batch.Items, BatchItem{ExerciseID: id, Result: res})
		}
	}

	totals, err := c.RecomputeSessionTotals(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %d: rollup: %w", sessionID, err)
	}
	batch.Totals = totals
	return batch, nil
}
