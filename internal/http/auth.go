package http

import (
	"fmt"
	"net/http"

	"repo-insight/internal/database"

	"github.com/go-chi/chi/v5"
)

// AuthLogin handles the initial redirect to OAuth provider
func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	p, err := h.authRegistry.Get(providerName)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	state := "random-state"
	url := p.LoginURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// AuthCallback handles the OAuth2 callback from any provider
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	p, err := h.authRegistry.Get(providerName)
	if err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		Error(w, fmt.Errorf("missing code"), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	token, err := p.Exchange(ctx, code)
	if err != nil {
		Error(w, fmt.Errorf("failed to exchange token: %w", err), http.StatusInternalServerError)
		return
	}

	profile, err := p.FetchProfile(ctx, token)
	if err != nil {
		Error(w, fmt.Errorf("failed to fetch profile: %w", err), http.StatusInternalServerError)
		return
	}

	user := &database.User{
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: &profile.AvatarURL,
	}

	expiry := token.Expiry
	identity := &database.UserIdentity{
		Provider:         providerName,
		ProviderUserID:   profile.ID,
		ProviderUsername: &profile.Username,
		AccessToken:      &token.AccessToken,
		RefreshToken:     &token.RefreshToken,
		TokenExpiry:      &expiry,
	}

	err = h.db.UpsertUserByIdentity(ctx, user, identity)
	if err != nil {
		Error(w, fmt.Errorf("failed to sync user: %w", err), http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		Error(w, fmt.Errorf("failed to generate token: %w", err), http.StatusInternalServerError)
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/callback?token=%s", h.frontendURL, jwtToken)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
