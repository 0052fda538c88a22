package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"repo-insight/internal/classifier"
	"repo-insight/internal/config"
	"repo-insight/internal/github"
	"repo-insight/internal/llm"
	"repo-insight/internal/status"
)

var testRepo = github.Repo{Owner: "owner", Name: "repo"}

type fakeRepoClient struct {
	listings      map[string][]github.ContentEntry
	contents      map[string][]byte
	listErr       error
	listDelay     time.Duration
	participation []int
	codeFreq      []github.WeeklyChange
	commits       []github.Commit
	commitsErr    error
	diff          []byte
	diffErr       error
}

func (f *fakeRepoClient) ListContents(ctx context.Context, token string, repo github.Repo, path string) ([]github.ContentEntry, error) {
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listings[path], nil
}

func (f *fakeRepoClient) GetFileContent(ctx context.Context, token string, repo github.Repo, path string) ([]byte, error) {
	return f.contents[path], nil
}

func (f *fakeRepoClient) GetParticipationStats(ctx context.Context, token string, repo github.Repo) []int {
	return f.participation
}

func (f *fakeRepoClient) GetCodeFrequencyStats(ctx context.Context, token string, repo github.Repo) []github.WeeklyChange {
	return f.codeFreq
}

func (f *fakeRepoClient) ListCommits(ctx context.Context, token string, repo github.Repo, author string) ([]github.Commit, error) {
	if f.commitsErr != nil {
		return nil, f.commitsErr
	}
	return f.commits, nil
}

func (f *fakeRepoClient) GetPullRequestDiff(ctx context.Context, token string, repo github.Repo, number int) ([]byte, error) {
	if f.diffErr != nil {
		return nil, f.diffErr
	}
	return f.diff, nil
}

type fixedClassifier struct {
	projectType classifier.ProjectType
}

func (f fixedClassifier) Classify(ctx context.Context, token string, repo github.Repo) classifier.ProjectType {
	return f.projectType
}

func (f fixedClassifier) Details(ctx context.Context, token string, repo github.Repo, t classifier.ProjectType) classifier.FrameworkDetails {
	return classifier.FrameworkDetails{Framework: t, Version: "Unknown", MajorDependencies: map[string]string{}}
}

type fixedScorer struct {
	score    llm.Score
	err      error
	scored   [][]byte
	feedback string
}

func (f *fixedScorer) ScoreFile(ctx context.Context, content []byte) (llm.Score, error) {
	f.scored = append(f.scored, content)
	if f.err != nil {
		return llm.DefaultScore(), f.err
	}
	return f.score, nil
}

func (f *fixedScorer) ScoreContributor(ctx context.Context, stats llm.ContributorStats) string {
	if f.feedback != "" {
		return f.feedback
	}
	return "keep going"
}

type recordingPublisher struct {
	published []string
	err       error
}

func (r *recordingPublisher) PublishDeepAnalysisJob(ctx context.Context, repository string, userID int64, provider string) error {
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, repository)
	return nil
}

func (r *recordingPublisher) GetQueueLength(ctx context.Context) (int64, error) {
	return int64(len(r.published)), nil
}

func testCfg() config.AnalysisConfig {
	return config.AnalysisConfig{
		DeepBudget:   30 * time.Second,
		MaxRootFiles: 10,
		StatusTTL:    time.Hour,
		ProgressTTL:  10 * time.Minute,
	}
}

func newStatuses() *StatusStore {
	return NewStatusStore(status.NewMemoryStore(), testCfg())
}

func rootListing() map[string][]github.ContentEntry {
	return map[string][]github.ContentEntry{
		"": {
			{Name: "main.go", Path: "main.go", Type: "file", Size: 24},
			{Name: "util.go", Path: "util.go", Type: "file", Size: 18},
			{Name: "src", Path: "src", Type: "dir"},
		},
		"src": {
			{Name: "nested.go", Path: "src/nested.go", Type: "file", Size: 9},
		},
	}
}

func rootContents() map[string][]byte {
	return map[string][]byte{
		"main.go":       []byte("package main"),
		"util.go":       []byte("package main // util"),
		"src/nested.go": []byte("package src"),
	}
}

func TestAnalyzeShallow(t *testing.T) {
	client := &fakeRepoClient{
		listings:      rootListing(),
		contents:      rootContents(),
		participation: []int{2, 4, 6},
		codeFreq: []github.WeeklyChange{
			{Week: 1, Additions: 10, Deletions: -4},
			{Week: 2, Additions: 0, Deletions: -2},
		},
	}
	scorer := &fixedScorer{score: llm.Score{ComplexityScore: 3, QualityScore: 8, Suggestions: []string{"fine"}}}
	publisher := &recordingPublisher{}
	a := NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, scorer, newStatuses(), publisher, testCfg())

	result, err := a.Analyze(context.Background(), testRepo, "token", 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CommitFrequency != 4.0 {
		t.Errorf("expected commit frequency 4.0, got %f", result.CommitFrequency)
	}
	if result.CodeChurn != 8.0 {
		t.Errorf("expected code churn 8.0, got %f", result.CodeChurn)
	}

	// Shallow collection takes direct root files only.
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 root files, got %d", len(result.Files))
	}
	if len(result.FileAnalyses) != 2 {
		t.Errorf("expected 2 scored files, got %d", len(result.FileAnalyses))
	}
	if _, ok := result.FileAnalyses["src/nested.go"]; ok {
		t.Error("shallow analysis must not descend into directories")
	}

	score := result.FileAnalyses["main.go"]
	if score.ComplexityScore != 3 || score.QualityScore != 8 {
		t.Errorf("unexpected score: %+v", score)
	}

	if result.Summary.AverageComplexity != 3.0 || result.Summary.AverageQuality != 8.0 {
		t.Errorf("unexpected summary averages: %+v", result.Summary)
	}
	if !result.Summary.AnalysisCompleted {
		t.Error("shallow analysis must report completed")
	}
	if result.DeepAnalysisPending {
		t.Error("shallow analysis must not be pending")
	}
	if len(publisher.published) != 0 {
		t.Errorf("shallow analysis must not dispatch jobs, got %v", publisher.published)
	}
}

func TestAnalyzeShallowDegradesOnListingFailure(t *testing.T) {
	client := &fakeRepoClient{listErr: errors.New("503 from upstream")}
	scorer := &fixedScorer{score: llm.Score{ComplexityScore: 3, QualityScore: 8, Suggestions: []string{"x"}}}
	a := NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, scorer, newStatuses(), &recordingPublisher{}, testCfg())

	result, err := a.Analyze(context.Background(), testRepo, "token", 1, false)
	if err != nil {
		t.Fatalf("degradation must not surface an error, got %v", err)
	}

	if len(result.Files) != 0 || len(result.FileAnalyses) != 0 {
		t.Errorf("expected empty collection, got %d files", len(result.Files))
	}
	if result.CommitFrequency != 0 || result.CodeChurn != 0 {
		t.Errorf("expected zeroed stats, got %+v", result)
	}
	if result.Summary.AverageComplexity != 0 {
		t.Errorf("empty analysis must not divide by zero: %+v", result.Summary)
	}
}

func TestAnalyzeMissingToken(t *testing.T) {
	a := NewAnalyzer(&fakeRepoClient{}, fixedClassifier{classifier.TypeUnknown}, &fixedScorer{}, newStatuses(), &recordingPublisher{}, testCfg())

	_, err := a.Analyze(context.Background(), testRepo, "", 1, false)
	if !errors.Is(err, github.ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestAnalyzeDeepDispatch(t *testing.T) {
	client := &fakeRepoClient{listings: rootListing(), contents: rootContents()}
	publisher := &recordingPublisher{}
	statuses := newStatuses()
	a := NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, &fixedScorer{}, statuses, publisher, testCfg())
	ctx := context.Background()

	result, err := a.Analyze(ctx, testRepo, "token", 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.DeepAnalysisPending {
		t.Error("expected pending marker")
	}
	if len(result.FileAnalyses) != 0 {
		t.Error("deep request must not score synchronously")
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one dispatched job, got %d", len(publisher.published))
	}

	snap := a.Status(ctx, testRepo)
	if snap.Status != StateQueued {
		t.Errorf("expected queued status, got %s", snap.Status)
	}

	// A second deep request while queued must not dispatch again.
	result, err = a.Analyze(ctx, testRepo, "token", 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DeepAnalysisPending {
		t.Error("duplicate request still reports pending")
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected no duplicate dispatch, got %d jobs", len(publisher.published))
	}
}

func TestAnalyzeDeepDispatchFailure(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("redis down")}
	statuses := newStatuses()
	a := NewAnalyzer(&fakeRepoClient{}, fixedClassifier{classifier.TypeUnknown}, &fixedScorer{}, statuses, publisher, testCfg())
	ctx := context.Background()

	result, err := a.Analyze(ctx, testRepo, "token", 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DeepAnalysisPending {
		t.Error("expected pending marker even on dispatch failure")
	}

	// The failed dispatch must be visible to pollers, not silently dropped.
	snap := a.Status(ctx, testRepo)
	if snap.Status != StateFailed {
		t.Errorf("expected failed status after dispatch failure, got %s", snap.Status)
	}
}

func TestAnalyzePullRequest(t *testing.T) {
	client := &fakeRepoClient{diff: []byte("diff --git a/main.go b/main.go")}
	scorer := &fixedScorer{score: llm.Score{ComplexityScore: 2, QualityScore: 9, Suggestions: []string{"small and clean"}}}
	a := NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, scorer, newStatuses(), &recordingPublisher{}, testCfg())

	score, err := a.AnalyzePullRequest(context.Background(), testRepo, "token", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.QualityScore != 9 {
		t.Errorf("unexpected score: %+v", score)
	}
	if len(scorer.scored) != 1 || string(scorer.scored[0]) != "diff --git a/main.go b/main.go" {
		t.Errorf("expected the diff to be scored, got %q", scorer.scored)
	}
}

func TestAnalyzePullRequestUpstreamError(t *testing.T) {
	client := &fakeRepoClient{diffErr: &github.UpstreamError{StatusCode: 404, Path: "/repos/owner/repo/pulls/7"}}
	a := NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, &fixedScorer{}, newStatuses(), &recordingPublisher{}, testCfg())

	_, err := a.AnalyzePullRequest(context.Background(), testRepo, "token", 7)
	if !github.IsNotFound(err) {
		t.Errorf("expected a not-found upstream error, got %v", err)
	}
}

func TestAnalyzeShallowScorerFailureDegrades(t *testing.T) {
	client := &fakeRepoClient{listings: rootListing(), contents: rootContents()}
	scorer := &fixedScorer{err: llm.ErrModelFormat}
	a := NewAnalyzer(client, fixedClassifier{classifier.TypeUnknown}, scorer, newStatuses(), &recordingPublisher{}, testCfg())

	result, err := a.Analyze(context.Background(), testRepo, "token", 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every file still carries the sentinel score.
	sentinel := llm.DefaultScore()
	for path, score := range result.FileAnalyses {
		if score.ComplexityScore != sentinel.ComplexityScore || score.QualityScore != sentinel.QualityScore {
			t.Errorf("expected sentinel score for %s, got %+v", path, score)
		}
	}
	if result.Summary.AverageComplexity != 5.0 || result.Summary.AverageQuality != 5.0 {
		t.Errorf("expected sentinel averages, got %+v", result.Summary)
	}
}
