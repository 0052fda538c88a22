package stats

import (
	"repo-insight/internal/github"
)

// CommitFrequency returns the mean of the weekly commit counts, or 0 when no
// data is available. The guard matters: an upstream stats outage produces an
// empty slice, and that must read as "no activity data", not a crash.
func CommitFrequency(weeklyCommits []int) float64 {
	if len(weeklyCommits) == 0 {
		return 0
	}

	total := 0
	for _, c := range weeklyCommits {
		total += c
	}
	return float64(total) / float64(len(weeklyCommits))
}

// CodeChurn returns the mean of |additions| + |deletions| across weeks, or 0
// when no data is available.
func CodeChurn(weeks []github.WeeklyChange) float64 {
	if len(weeks) == 0 {
		return 0
	}

	total := 0
	for _, w := range weeks {
		total += abs(w.Additions) + abs(w.Deletions)
	}
	return float64(total) / float64(len(weeks))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
