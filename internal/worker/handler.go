package worker

import (
	"context"
	"fmt"
	"log"

	"repo-insight/internal/analysis"
	"repo-insight/internal/database"
	"repo-insight/internal/github"
	"repo-insight/internal/queue"
)

// DeepRunner executes one deep analysis run for a repository.
type DeepRunner interface {
	Run(ctx context.Context, repo github.Repo, token string) error
}

// JobHandler implements the queue.JobHandler interface
type JobHandler struct {
	db       *database.DB
	runner   DeepRunner
	statuses *analysis.StatusStore
}

// NewJobHandler creates a new job handler
func NewJobHandler(db *database.DB, runner DeepRunner, statuses *analysis.StatusStore) *JobHandler {
	return &JobHandler{
		db:       db,
		runner:   runner,
		statuses: statuses,
	}
}

// HandleJob processes a job from the queue
func (h *JobHandler) HandleJob(ctx context.Context, job *queue.Job) error {
	log.Printf("Processing job %s (type: %s, repo: %s)", job.ID, job.Type, job.Repository)

	switch job.Type {
	case queue.JobTypeDeepAnalysis:
		return h.handleDeepAnalysisJob(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleDeepAnalysisJob resolves the user's provider token and runs the deep
// analysis. Every failure path records a terminal failed status so pollers
// are never left watching a job that silently died.
func (h *JobHandler) handleDeepAnalysisJob(ctx context.Context, job *queue.Job) error {
	repo, err := github.ParseRepo(job.Repository)
	if err != nil {
		return fmt.Errorf("invalid repository in job %s: %w", job.ID, err)
	}

	token, err := h.db.GetAccessToken(ctx, job.UserID, job.Provider)
	if err != nil {
		h.fail(ctx, repo, "could not resolve access token")
		return fmt.Errorf("failed to resolve token for user %d: %w", job.UserID, err)
	}
	if token == "" {
		h.fail(ctx, repo, "no access token on file for this repository")
		return fmt.Errorf("user %d has no usable %s token", job.UserID, job.Provider)
	}

	if err := h.runner.Run(ctx, repo, token); err != nil {
		h.fail(ctx, repo, err.Error())
		return fmt.Errorf("deep analysis of %s failed: %w", repo.FullName(), err)
	}

	return nil
}

func (h *JobHandler) fail(ctx context.Context, repo github.Repo, message string) {
	if err := h.statuses.Fail(ctx, repo, message); err != nil {
		log.Printf("failed to record failure for %s: %v", repo.FullName(), err)
	}
}
