package config

import (
	"time"
)

type GitHubConfig struct {
	BaseURL string
	Timeout time.Duration
}

func loadGitHubConfig() GitHubConfig {
	return GitHubConfig{
		BaseURL: getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),
		Timeout: getEnvDuration("GITHUB_API_TIMEOUT", 30*time.Second),
	}
}
