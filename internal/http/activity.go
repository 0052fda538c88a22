package http

import (
	"fmt"
	"net/http"

	"repo-insight/internal/stats"
)

// GetActivity handles GET /api/v1/repositories/{owner}/{repo}/activity. It
// returns the weekly commit heat levels plus repository metadata for the
// dashboard header. Both upstream calls degrade rather than fail: an empty
// participation response yields an empty chart.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
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

	weekly := h.client.GetParticipationStats(ctx, token, repo)
	metadata := h.client.GetRepositoryMetadata(ctx, token, repo)

	JSON(w, http.StatusOK, map[string]interface{}{
		"repository": repo.FullName(),
		"metadata":   metadata,
		"activity":   stats.ActivityLevels(weekly),
	})
}
