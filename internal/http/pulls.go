package http

import (
	"fmt"
	"net/http"
	"strconv"

	"repo-insight/internal/github"
	"repo-insight/internal/validation"

	"github.com/go-chi/chi/v5"
)

// ListPullRequests handles GET /api/v1/repositories/{owner}/{repo}/pulls
func (h *Handler) ListPullRequests(w http.ResponseWriter, r *http.Request) {
	repo, err := repoFromRequest(r)
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

	pulls, err := h.client.ListPullRequests(ctx, token, repo)
	if err != nil {
		if github.IsNotFound(err) {
			Error(w, fmt.Errorf("repository not found"), http.StatusNotFound)
			return
		}
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string][]github.PullRequest{
		"pull_requests": pulls,
	})
}

// AnalyzePullRequest handles GET /api/v1/repositories/{owner}/{repo}/pulls/{number}/analysis
func (h *Handler) AnalyzePullRequest(w http.ResponseWriter, r *http.Request) {
	repo, err := repoFromRequest(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	numberStr := chi.URLParam(r, "number")
	number, err := strconv.Atoi(numberStr)
	if err != nil {
		Error(w, fmt.Errorf("invalid pull request number"), http.StatusBadRequest)
		return
	}

	v := validation.New()
	v.GreaterThan("number", number, 0)
	if err := v.Validate(); err != nil {
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

	score, err := h.analyzer.AnalyzePullRequest(ctx, repo, token, number)
	if err != nil {
		if github.IsNotFound(err) {
			Error(w, fmt.Errorf("pull request not found"), http.StatusNotFound)
			return
		}
		Error(w, fmt.Errorf("pull request analysis failed: %w", err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"repository":  repo.FullName(),
		"pull_number": number,
		"analysis":    score,
	})
}
