package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"repo-insight/internal/config"
	"repo-insight/internal/github"
	"repo-insight/internal/status"
)

// Key families per repository. Each key is written independently with its
// own TTL; a poller may observe a completed status before the result key is
// readable and should simply poll again.
const (
	statusKeyPrefix   = "deep_analysis_status_"
	resultKeyPrefix   = "deep_analysis_result_"
	errorKeyPrefix    = "deep_analysis_error_"
	progressKeyPrefix = "deep_analysis_progress_"
)

// StatusStore maps the deep-analysis lifecycle onto a TTL key-value store.
// The worker processing a repository is the only writer for that
// repository's keys after dispatch; the orchestrator writes only the initial
// queued marker, and pollers are read-only.
type StatusStore struct {
	store       status.Store
	statusTTL   time.Duration
	progressTTL time.Duration
}

func NewStatusStore(store status.Store, cfg config.AnalysisConfig) *StatusStore {
	return &StatusStore{
		store:       store,
		statusTTL:   cfg.StatusTTL,
		progressTTL: cfg.ProgressTTL,
	}
}

// TryEnqueue atomically claims the status key for a new deep analysis run.
// It succeeds when no analysis exists (or the previous one finished); it
// reports false when one is already queued or processing, in which case the
// caller must not dispatch a duplicate worker.
func (s *StatusStore) TryEnqueue(ctx context.Context, repo github.Repo) (bool, error) {
	ok, err := s.store.CompareAndSwap(ctx, statusKey(repo), "", string(StateQueued), s.statusTTL)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	current, err := s.store.Get(ctx, statusKey(repo))
	if errors.Is(err, status.ErrNotFound) {
		// Expired between the swap and the read; one retry.
		return s.store.CompareAndSwap(ctx, statusKey(repo), "", string(StateQueued), s.statusTTL)
	}
	if err != nil {
		return false, err
	}

	// A finished run may be superseded; an in-flight one may not.
	if current == string(StateCompleted) || current == string(StateFailed) {
		return s.store.CompareAndSwap(ctx, statusKey(repo), current, string(StateQueued), s.statusTTL)
	}
	return false, nil
}

// MarkProcessing transitions queued -> processing at worker start.
func (s *StatusStore) MarkProcessing(ctx context.Context, repo github.Repo) error {
	return s.store.Put(ctx, statusKey(repo), string(StateProcessing), s.statusTTL)
}

// Complete stores the result payload and then flips the status. Result
// before status, so a poller that sees "completed" has the best chance of
// finding the result on its next read.
func (s *StatusStore) Complete(ctx context.Context, repo github.Repo, result *Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}

	if err := s.store.Put(ctx, resultKey(repo), string(payload), s.statusTTL); err != nil {
		return err
	}
	return s.store.Put(ctx, statusKey(repo), string(StateCompleted), s.statusTTL)
}

// Fail records a terminal failure with its message. No partial result is
// written.
func (s *StatusStore) Fail(ctx context.Context, repo github.Repo, message string) error {
	if err := s.store.Put(ctx, errorKey(repo), message, s.statusTTL); err != nil {
		return err
	}
	return s.store.Put(ctx, statusKey(repo), string(StateFailed), s.statusTTL)
}

// Snapshot returns the current lifecycle view for the polling endpoint. A
// missing or expired entry reads as not_started.
func (s *StatusStore) Snapshot(ctx context.Context, repo github.Repo) DeepStatus {
	snap := DeepStatus{Status: StateNotStarted}

	current, err := s.store.Get(ctx, statusKey(repo))
	if err != nil {
		return snap
	}
	snap.Status = State(current)

	switch snap.Status {
	case StateCompleted:
		payload, err := s.store.Get(ctx, resultKey(repo))
		if err == nil {
			var result Result
			if err := json.Unmarshal([]byte(payload), &result); err == nil {
				snap.Result = &result
			}
		}
	case StateFailed:
		if message, err := s.store.Get(ctx, errorKey(repo)); err == nil {
			snap.Error = message
		}
	}

	return snap
}

// PutProgress records coarse walk progress in [0,100].
func (s *StatusStore) PutProgress(ctx context.Context, repo github.Repo, percent float64) error {
	value := strconv.FormatFloat(percent, 'f', 2, 64)
	return s.store.Put(ctx, progressKey(repo), value, s.progressTTL)
}

// Progress returns the last recorded progress, defaulting to 0.
func (s *StatusStore) Progress(ctx context.Context, repo github.Repo) float64 {
	value, err := s.store.Get(ctx, progressKey(repo))
	if err != nil {
		return 0
	}

	percent, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return percent
}

func statusKey(repo github.Repo) string   { return statusKeyPrefix + repo.FullName() }
func resultKey(repo github.Repo) string   { return resultKeyPrefix + repo.FullName() }
func errorKey(repo github.Repo) string    { return errorKeyPrefix + repo.FullName() }
func progressKey(repo github.Repo) string { return progressKeyPrefix + repo.FullName() }
