package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"repo-insight/internal/config"
)

// Client talks to the GitHub REST API on behalf of a single request. The
// access token is passed per call rather than held on the client so that one
// instance can serve every user.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.GitHubConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ListContents returns the directory listing at path. An empty path lists
// the repository root.
func (c *Client) ListContents(ctx context.Context, token string, repo Repo, path string) ([]ContentEntry, error) {
	var entries []ContentEntry
	if err := c.getJSON(ctx, token, c.contentsPath(repo, path), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetFileContent fetches and base64-decodes a single file. A missing file or
// an undecodable payload returns (nil, nil): absence is not an error for
// callers collecting files opportunistically.
func (c *Client) GetFileContent(ctx context.Context, token string, repo Repo, path string) ([]byte, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}

	err := c.getJSON(ctx, token, c.contentsPath(repo, path), &payload)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if payload.Content == "" {
		return nil, nil
	}

	// The contents API wraps base64 at 60 columns; strip the newlines first.
	raw := strings.ReplaceAll(payload.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		log.Printf("github: undecodable content for %s in %s: %v", path, repo.FullName(), err)
		return nil, nil
	}

	return decoded, nil
}

// GetParticipationStats returns weekly commit counts for the whole
// repository. Degrades to an empty slice on any upstream failure.
func (c *Client) GetParticipationStats(ctx context.Context, token string, repo Repo) []int {
	var payload struct {
		All []int `json:"all"`
	}

	path := fmt.Sprintf("/repos/%s/stats/participation", repo.FullName())
	if err := c.getJSON(ctx, token, path, &payload); err != nil {
		log.Printf("github: participation stats unavailable for %s: %v", repo.FullName(), err)
		return nil
	}
	return payload.All
}

// GetCodeFrequencyStats returns weekly addition/deletion totals. Degrades to
// an empty slice on any upstream failure.
func (c *Client) GetCodeFrequencyStats(ctx context.Context, token string, repo Repo) []WeeklyChange {
	// The API encodes each week as a [timestamp, additions, deletions] triple.
	var weeks [][]int64

	path := fmt.Sprintf("/repos/%s/stats/code_frequency", repo.FullName())
	if err := c.getJSON(ctx, token, path, &weeks); err != nil {
		log.Printf("github: code frequency stats unavailable for %s: %v", repo.FullName(), err)
		return nil
	}

	changes := make([]WeeklyChange, 0, len(weeks))
	for _, w := range weeks {
		if len(w) < 3 {
			continue
		}
		changes = append(changes, WeeklyChange{
			Week:      w[0],
			Additions: int(w[1]),
			Deletions: int(w[2]),
		})
	}
	return changes
}

// GetRepositoryMetadata returns repository details, degrading to a stub with
// nil ID and Description on failure. Callers must handle the stub shape.
func (c *Client) GetRepositoryMetadata(ctx context.Context, token string, repo Repo) Metadata {
	var meta Metadata
	path := fmt.Sprintf("/repos/%s", repo.FullName())
	if err := c.getJSON(ctx, token, path, &meta); err != nil {
		log.Printf("github: metadata unavailable for %s: %v", repo.FullName(), err)
		return Metadata{}
	}
	return meta
}

// ListUserRepositories returns the repositories visible to the token's user,
// most recently pushed first.
func (c *Client) ListUserRepositories(ctx context.Context, token string) ([]RemoteRepo, error) {
	var all []RemoteRepo
	page := 1
	perPage := 100

	for {
		var data []struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			FullName    string `json:"full_name"`
			Description string `json:"description"`
			HTMLURL     string `json:"html_url"`
			Private     bool   `json:"private"`
		}

		path := fmt.Sprintf("/user/repos?per_page=%d&page=%d&sort=pushed&direction=desc", perPage, page)
		if err := c.getJSON(ctx, token, path, &data); err != nil {
			return nil, err
		}

		for _, r := range data {
			all = append(all, RemoteRepo{
				ID:          r.ID,
				Name:        r.Name,
				FullName:    r.FullName,
				Description: r.Description,
				URL:         r.HTMLURL,
				IsPrivate:   r.Private,
			})
		}

		if len(data) < perPage {
			break
		}
		page++
	}

	return all, nil
}

// ListContributors returns the repository's contributors.
func (c *Client) ListContributors(ctx context.Context, token string, repo Repo) ([]Contributor, error) {
	var contributors []Contributor
	path := fmt.Sprintf("/repos/%s/contributors", repo.FullName())
	if err := c.getJSON(ctx, token, path, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

// ListCommits returns commits, optionally filtered to a single author login.
func (c *Client) ListCommits(ctx context.Context, token string, repo Repo, author string) ([]Commit, error) {
	var data []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name  string `json:"name"`
				Email string `json:"email"`
				Date  string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}

	path := fmt.Sprintf("/repos/%s/commits", repo.FullName())
	if author != "" {
		path += "?author=" + url.QueryEscape(author)
	}
	if err := c.getJSON(ctx, token, path, &data); err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(data))
	for _, d := range data {
		commits = append(commits, Commit{
			SHA:         d.SHA,
			Message:     d.Commit.Message,
			AuthorName:  d.Commit.Author.Name,
			AuthorEmail: d.Commit.Author.Email,
			AuthoredAt:  d.Commit.Author.Date,
		})
	}
	return commits, nil
}

// ListPullRequests returns the open pull requests for a repository.
func (c *Client) ListPullRequests(ctx context.Context, token string, repo Repo) ([]PullRequest, error) {
	var data []struct {
		Number    int    `json:"number"`
		Title     string `json:"title"`
		State     string `json:"state"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
	}

	path := fmt.Sprintf("/repos/%s/pulls?state=open", repo.FullName())
	if err := c.getJSON(ctx, token, path, &data); err != nil {
		return nil, err
	}

	pulls := make([]PullRequest, 0, len(data))
	for _, d := range data {
		pulls = append(pulls, PullRequest{
			Number:    d.Number,
			Title:     d.Title,
			State:     d.State,
			UserLogin: d.User.Login,
			CreatedAt: d.CreatedAt,
		})
	}
	return pulls, nil
}

// GetPullRequestDiff returns the raw diff body for a pull request.
func (c *Client) GetPullRequestDiff(ctx context.Context, token string, repo Repo, number int) ([]byte, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d", repo.FullName(), number)
	resp, err := c.do(ctx, token, path, "application/vnd.github.v3.diff")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Path: path}
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) contentsPath(repo Repo, path string) string {
	p := fmt.Sprintf("/repos/%s/contents", repo.FullName())
	if path != "" {
		p += "/" + strings.TrimLeft(path, "/")
	}
	return p
}

func (c *Client) do(ctx context.Context, token, path, accept string) (*http.Response, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Path: path, Err: err}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, out interface{}) error {
	resp, err := c.do(ctx, token, path, "application/vnd.github.v3+json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{StatusCode: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, Path: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
