package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"repo-insight/internal/analysis"
	"repo-insight/internal/database"
	"repo-insight/internal/github"
	"repo-insight/internal/validation"
)

// CreateAnalysisRequest represents the request body for starting an analysis
type CreateAnalysisRequest struct {
	RepositoryName string `json:"repository_name"`
	Deep           bool   `json:"deep"`
}

// CreateAnalysis handles POST /api/v1/analysis.
//
// Shallow requests run in-request and return the finished result. Deep
// requests dispatch a background job and return 202 with a pending marker;
// the caller polls the status endpoint for the outcome.
func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req CreateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	v := validation.New()
	v.Required("repository_name", req.RepositoryName).
		RepoFullName("repository_name", req.RepositoryName)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	repo, err := github.ParseRepo(req.RepositoryName)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user := GetUserFromContext(ctx)
	if user == nil {
		Error(w, fmt.Errorf("unauthorized"), http.StatusUnauthorized)
		return
	}

	token, err := h.tokenForUser(ctx, user.ID)
	if err != nil {
		Error(w, err, http.StatusPreconditionFailed)
		return
	}

	result, err := h.analyzer.Analyze(ctx, repo, token, user.ID, req.Deep)
	if err != nil {
		if err == github.ErrMissingToken {
			Error(w, err, http.StatusPreconditionFailed)
			return
		}
		Error(w, fmt.Errorf("analysis failed: %w", err), http.StatusInternalServerError)
		return
	}

	if req.Deep {
		JSON(w, http.StatusAccepted, result)
		return
	}

	h.saveSnapshot(r, repo, token, user.ID, result)
	JSON(w, http.StatusOK, result)
}

// saveSnapshot persists a finished shallow result. Snapshot storage is best
// effort: a database problem is logged, never surfaced to the caller.
func (h *Handler) saveSnapshot(r *http.Request, repo github.Repo, token string, userID int64, result *analysis.Result) {
	ctx := r.Context()

	metadata := h.client.GetRepositoryMetadata(ctx, token, repo)
	record, err := h.db.GetOrCreateRepository(ctx, &database.Repository{
		FullName:    repo.FullName(),
		Name:        repo.Name,
		URL:         "https://github.com/" + repo.FullName(),
		GitHubID:    metadata.ID,
		Description: metadata.Description,
		UserID:      &userID,
	})
	if err != nil {
		log.Printf("failed to track repository %s: %v", repo.FullName(), err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("failed to encode snapshot for %s: %v", repo.FullName(), err)
		return
	}

	snapshot := &database.RepositoryAnalysis{
		RepositoryID: record.ID,
		UserID:       userID,
		Analysis:     payload,
	}
	if err := h.db.CreateAnalysisSnapshot(ctx, snapshot); err != nil {
		log.Printf("failed to store snapshot for %s: %v", repo.FullName(), err)
	}
}

// GetAnalysisStatus handles GET /api/v1/analysis/{owner}/{repo}/status
func (h *Handler) GetAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	repo, err := repoFromRequest(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	snapshot := h.analyzer.Status(r.Context(), repo)
	JSON(w, http.StatusOK, snapshot)
}

// GetAnalysisProgress handles GET /api/v1/analysis/{owner}/{repo}/progress
func (h *Handler) GetAnalysisProgress(w http.ResponseWriter, r *http.Request) {
	repo, err := repoFromRequest(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	progress := h.analyzer.Progress(r.Context(), repo)
	JSON(w, http.StatusOK, map[string]interface{}{
		"repository": repo.FullName(),
		"progress":   progress,
	})
}

// GetQueueLength handles GET /api/v1/queue/length
func (h *Handler) GetQueueLength(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	length, err := h.publisher.GetQueueLength(ctx)
	if err != nil {
		Error(w, fmt.Errorf("failed to get queue length: %w", err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"queue_length": length,
	})
}
