package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"repo-insight/internal/database"
	"repo-insight/internal/github"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetLimitOffset(r *http.Request) (int, int) {
	limit := r.URL.Query().Get("limit")
	offset := r.URL.Query().Get("offset")

	limitInt, err := strconv.Atoi(limit)
	if err != nil {
		limitInt = h.httpCfg.LIMIT
	}

	offsetInt, err := strconv.Atoi(offset)
	if err != nil {
		offsetInt = h.httpCfg.OFFSET
	}

	return limitInt, offsetInt
}

// repoFromRequest builds the repository identifier from the route params.
func repoFromRequest(r *http.Request) (github.Repo, error) {
	owner := chi.URLParam(r, "owner")
	name := chi.URLParam(r, "repo")
	return github.ParseRepo(owner + "/" + name)
}

// tokenForUser resolves the caller's stored GitHub token. The token is
// threaded explicitly through every downstream call; nothing below the
// handlers reads credentials from the context.
func (h *Handler) tokenForUser(ctx context.Context, userID int64) (string, error) {
	token, err := h.db.GetAccessToken(ctx, userID, "github")
	if err != nil {
		if err == database.ErrNotFound {
			return "", fmt.Errorf("no linked github account")
		}
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("no usable github token on file")
	}
	return token, nil
}
