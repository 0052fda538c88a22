package database

import (
	"encoding/json"
	"time"
)

// User is an account that signed in through an OAuth provider.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserIdentity links a user to one provider account and carries the access
// token the analysis pipeline uses on the user's behalf.
type UserIdentity struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Provider         string     `json:"provider"`
	ProviderUserID   string     `json:"provider_user_id"`
	ProviderUsername *string    `json:"provider_username,omitempty"`
	AccessToken      *string    `json:"-"`
	RefreshToken     *string    `json:"-"`
	TokenExpiry      *time.Time `json:"token_expiry,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Repository is a tracked repository. GitHubID and Description are nil when
// the metadata fetch degraded to a stub at creation time.
type Repository struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	GitHubID    *int64    `json:"github_id,omitempty"`
	Description *string   `json:"description,omitempty"`
	UserID      *int64    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RepositoryAnalysis is a durable snapshot of one finished analysis result.
type RepositoryAnalysis struct {
	ID           int64           `json:"id"`
	RepositoryID int64           `json:"repository_id"`
	UserID       int64           `json:"user_id"`
	Analysis     json.RawMessage `json:"analysis"`
	CreatedAt    time.Time       `json:"created_at"`
}
