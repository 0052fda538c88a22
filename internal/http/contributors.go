package http

import (
	"fmt"
	"net/http"

	"repo-insight/internal/github"

	"github.com/go-chi/chi/v5"
)

// ListContributors handles GET /api/v1/repositories/{owner}/{repo}/contributors
func (h *Handler) ListContributors(w http.ResponseWriter, r *http.Request) {
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

	contributorList, err := h.client.ListContributors(ctx, token, repo)
	if err != nil {
		if github.IsNotFound(err) {
			Error(w, fmt.Errorf("repository not found"), http.StatusNotFound)
			return
		}
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string][]github.Contributor{
		"contributors": contributorList,
	})
}

// AnalyzeContributor handles GET /api/v1/repositories/{owner}/{repo}/contributors/{username}/analysis
func (h *Handler) AnalyzeContributor(w http.ResponseWriter, r *http.Request) {
	repo, err := repoFromRequest(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	username := chi.URLParam(r, "username")
	if username == "" {
		Error(w, fmt.Errorf("username is required"), http.StatusBadRequest)
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

	result, err := h.analyzer.AnalyzeContributor(ctx, repo, token, username)
	if err != nil {
		if github.IsNotFound(err) {
			Error(w, fmt.Errorf("repository not found"), http.StatusNotFound)
			return
		}
		Error(w, fmt.Errorf("contributor analysis failed: %w", err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, result)
}
