package http

import (
	"fmt"
	"net/http"

	"repo-insight/internal/validation"
)

// ListProviderRepositories handles GET /api/v1/repositories. It lists the
// repositories visible to the caller's GitHub account for the dashboard
// selector.
func (h *Handler) ListProviderRepositories(w http.ResponseWriter, r *http.Request) {
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

	repos, err := h.client.ListUserRepositories(ctx, token)
	if err != nil {
		Error(w, fmt.Errorf("failed to fetch repositories: %w", err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, repos)
}

// ListAnalysisSnapshots handles GET /api/v1/repositories/{owner}/{repo}/analyses
func (h *Handler) ListAnalysisSnapshots(w http.ResponseWriter, r *http.Request) {
	repo, err := repoFromRequest(r)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	limit, offset := h.GetLimitOffset(r)

	v := validation.New()
	v.InRange("limit", limit, 1, 100).
		GreaterThanOrEqual("offset", offset, 0)
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

	record, err := h.db.GetRepositoryByFullName(ctx, repo.FullName())
	if err != nil {
		if validation.IsNotFound(err) {
			Error(w, fmt.Errorf("repository not found"), http.StatusNotFound)
			return
		}
		Error(w, validation.ParseDatabaseError(err), http.StatusInternalServerError)
		return
	}

	snapshots, err := h.db.ListAnalysisSnapshots(ctx, record.ID, limit, offset)
	if err != nil {
		Error(w, validation.ParseDatabaseError(err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, snapshots)
}
