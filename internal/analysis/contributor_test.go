package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"repo-insight/internal/classifier"
	"repo-insight/internal/github"
)

// makeCommits builds n commits spaced gap apart, newest last, with the given
// message on every commit.
func makeCommits(n int, gap time.Duration, message string) []github.Commit {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	commits := make([]github.Commit, 0, n)
	for i := 0; i < n; i++ {
		commits = append(commits, github.Commit{
			SHA:        fmt.Sprintf("sha-%d", i),
			Message:    message,
			AuthoredAt: start.Add(time.Duration(i) * gap).Format(time.RFC3339),
		})
	}
	return commits
}

func newContributorAnalyzer(client *fakeRepoClient) *Analyzer {
	scorer := &fixedScorer{feedback: "solid work, keep it up"}
	return NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, scorer, newStatuses(), &recordingPublisher{}, testCfg())
}

func TestAnalyzeContributor(t *testing.T) {
	client := &fakeRepoClient{
		commits: makeCommits(12, 24*time.Hour, "add tests and update docs for the parser"),
	}
	a := newContributorAnalyzer(client)

	result, err := a.AnalyzeContributor(context.Background(), testRepo, "token", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.QualityScore != 10 {
		t.Errorf("all messages descriptive, expected quality 10, got %d", result.QualityScore)
	}
	if result.ImpactScore != 2 {
		t.Errorf("12 commits, expected impact 2, got %d", result.ImpactScore)
	}
	if result.ConsistencyScore != 10 {
		t.Errorf("daily commits, expected consistency 10, got %d", result.ConsistencyScore)
	}
	if len(result.Improvements) != 0 {
		t.Errorf("expected no improvements, got %v", result.Improvements)
	}
	if result.Feedback != "solid work, keep it up" {
		t.Errorf("unexpected feedback: %q", result.Feedback)
	}
}

func TestAnalyzeContributorEmptyHistory(t *testing.T) {
	a := newContributorAnalyzer(&fakeRepoClient{})

	result, err := a.AnalyzeContributor(context.Background(), testRepo, "token", "alice")
	if err != nil {
		t.Fatalf("empty history must not error, got %v", err)
	}

	if result.QualityScore != 0 || result.ImpactScore != 0 || result.ConsistencyScore != 0 {
		t.Errorf("expected zero scores, got %+v", result)
	}
	if len(result.Improvements) != 1 || result.Improvements[0].Title != "Start Contributing" {
		t.Errorf("expected the starter hint, got %v", result.Improvements)
	}
}

func TestAnalyzeContributorMissingToken(t *testing.T) {
	a := newContributorAnalyzer(&fakeRepoClient{})

	_, err := a.AnalyzeContributor(context.Background(), testRepo, "", "alice")
	if !errors.Is(err, github.ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestAnalyzeContributorListFailure(t *testing.T) {
	a := newContributorAnalyzer(&fakeRepoClient{commitsErr: errors.New("rate limited")})

	_, err := a.AnalyzeContributor(context.Background(), testRepo, "token", "alice")
	if err == nil {
		t.Error("expected listing failure to surface")
	}
}

func TestMessageQualityScore(t *testing.T) {
	all := makeCommits(4, time.Hour, "a descriptive message")
	if got := messageQualityScore(all); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}

	none := makeCommits(4, time.Hour, "wip")
	if got := messageQualityScore(none); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}

	// Only the first line counts.
	multiline := makeCommits(2, time.Hour, "fix\n\na very long body that explains everything in detail")
	if got := messageQualityScore(multiline); got != 1 {
		t.Errorf("expected the body to be ignored, got %d", got)
	}

	half := append(makeCommits(2, time.Hour, "wip"), makeCommits(2, time.Hour, "refactor the queue consumer")...)
	if got := messageQualityScore(half); got != 6 {
		t.Errorf("expected 6 for a 50%% ratio, got %d", got)
	}
}

func TestImpactScore(t *testing.T) {
	tests := []struct {
		commits int
		want    int
	}{
		{1, 1},
		{12, 2},
		{95, 10},
		{300, 10},
	}

	for _, tt := range tests {
		if got := impactScore(makeCommits(tt.commits, time.Hour, "m")); got != tt.want {
			t.Errorf("impactScore(%d commits) = %d, want %d", tt.commits, got, tt.want)
		}
	}
}

func TestConsistencyScore(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{"daily", 24 * time.Hour, 10},
		{"every two days", 2 * 24 * time.Hour, 8},
		{"weekly", 7 * 24 * time.Hour, 6},
		{"biweekly", 14 * 24 * time.Hour, 4},
		{"monthly", 30 * 24 * time.Hour, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := consistencyScore(makeCommits(5, tt.gap, "m")); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestConsistencyScoreDegenerateHistory(t *testing.T) {
	if got := consistencyScore(makeCommits(1, time.Hour, "m")); got != 5 {
		t.Errorf("single commit must score neutral, got %d", got)
	}

	unparsable := []github.Commit{
		{Message: "m", AuthoredAt: "yesterday"},
		{Message: "m", AuthoredAt: "not a date"},
	}
	if got := consistencyScore(unparsable); got != 5 {
		t.Errorf("unparsable dates must score neutral, got %d", got)
	}
}

func TestSuggestImprovements(t *testing.T) {
	// Short messages, monthly cadence, no tests or docs mentioned: every
	// hint fires.
	commits := makeCommits(3, 30*24*time.Hour, "wip")
	improvements := suggestImprovements(commits)

	if len(improvements) != 4 {
		t.Fatalf("expected 4 improvements, got %d: %v", len(improvements), improvements)
	}

	titles := make(map[string]bool, len(improvements))
	for _, imp := range improvements {
		titles[imp.Title] = true
	}
	for _, want := range []string{
		"Improve Commit Messages",
		"Increase Commit Frequency",
		"Add Test Coverage",
		"Update Documentation",
	} {
		if !titles[want] {
			t.Errorf("missing improvement %q", want)
		}
	}
}
