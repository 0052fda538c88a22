package config

import (
	"strings"
	"time"
)

type AnalysisConfig struct {
	// DeepBudget is the wall-clock budget for one deep analysis run.
	DeepBudget time.Duration

	// MaxRootFiles bounds how many root files a shallow analysis fetches.
	MaxRootFiles int

	// AllowedExtensions filters shallow file collection when non-empty.
	// Empty means every root file is fetched.
	AllowedExtensions []string

	StatusTTL   time.Duration
	ProgressTTL time.Duration
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DeepBudget:        getEnvDuration("DEEP_ANALYSIS_BUDGET", 30*time.Second),
		MaxRootFiles:      getEnvInt("MAX_ROOT_FILES", 10),
		AllowedExtensions: splitList(getEnv("ANALYSIS_EXTENSIONS", "")),
		StatusTTL:         getEnvDuration("ANALYSIS_STATUS_TTL", time.Hour),
		ProgressTTL:       getEnvDuration("ANALYSIS_PROGRESS_TTL", 10*time.Minute),
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
