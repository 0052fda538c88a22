package github

import (
	"fmt"
	"strings"
)

// Repo identifies a repository by its owner and name.
type Repo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepo splits an "owner/name" identifier into a Repo.
func ParseRepo(fullName string) (Repo, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("invalid repository name %q, expected owner/name", fullName)
	}
	return Repo{Owner: parts[0], Name: parts[1]}, nil
}

// FullName returns the "owner/name" form used in API paths and cache keys.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// ContentEntry is one item from a directory listing.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int    `json:"size"`
}

// WeeklyChange is one week of code frequency data.
type WeeklyChange struct {
	Week      int64 `json:"week"`
	Additions int   `json:"additions"`
	Deletions int   `json:"deletions"`
}

// Metadata holds repository-level details. ID and Description are nil
// when the upstream call failed and the value is a degraded stub.
type Metadata struct {
	ID              *int64  `json:"id"`
	Description     *string `json:"description"`
	DefaultBranch   string  `json:"default_branch,omitempty"`
	Language        string  `json:"language,omitempty"`
	StargazersCount int     `json:"stargazers_count,omitempty"`
	OpenIssuesCount int     `json:"open_issues_count,omitempty"`
	ForksCount      int     `json:"forks_count,omitempty"`
}

// RemoteRepo is a repository visible to the authenticated user.
type RemoteRepo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	IsPrivate   bool   `json:"is_private"`
}

// Contributor is one entry from the contributors listing.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
}

// Commit is a single commit from the commits listing.
type Commit struct {
	SHA         string `json:"sha"`
	Message     string `json:"message"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	AuthoredAt  string `json:"authored_at"`
}

// PullRequest is one entry from the pull request listing.
type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	UserLogin string `json:"user_login"`
	CreatedAt string `json:"created_at"`
}
