package analysis

import (
	"context"
	"log"
	"time"

	"repo-insight/internal/classifier"
	"repo-insight/internal/config"
	"repo-insight/internal/github"
	"repo-insight/internal/llm"
	"repo-insight/internal/queue"
	"repo-insight/internal/stats"
)

// RepoClient is the slice of the GitHub client the analysis pipeline uses.
type RepoClient interface {
	ListContents(ctx context.Context, token string, repo github.Repo, path string) ([]github.ContentEntry, error)
	GetFileContent(ctx context.Context, token string, repo github.Repo, path string) ([]byte, error)
	GetParticipationStats(ctx context.Context, token string, repo github.Repo) []int
	GetCodeFrequencyStats(ctx context.Context, token string, repo github.Repo) []github.WeeklyChange
	ListCommits(ctx context.Context, token string, repo github.Repo, author string) ([]github.Commit, error)
	GetPullRequestDiff(ctx context.Context, token string, repo github.Repo, number int) ([]byte, error)
}

// ProjectClassifier detects the framework family and its manifest details.
type ProjectClassifier interface {
	Classify(ctx context.Context, token string, repo github.Repo) classifier.ProjectType
	Details(ctx context.Context, token string, repo github.Repo, t classifier.ProjectType) classifier.FrameworkDetails
}

// Scorer submits content to the content-analysis model. Implementations are
// total: they always return a usable score and surface the failure cause
// through the error only.
type Scorer interface {
	ScoreFile(ctx context.Context, content []byte) (llm.Score, error)
	ScoreContributor(ctx context.Context, stats llm.ContributorStats) string
}

// Analyzer coordinates one analysis request. The synchronous path never
// fails the request: every upstream problem degrades the result instead.
// The one exception is a missing credential, which is rejected before any
// work starts.
type Analyzer struct {
	client     RepoClient
	classifier ProjectClassifier
	scorer     Scorer
	statuses   *StatusStore
	publisher  queue.IPublisher
	cfg        config.AnalysisConfig
}

func NewAnalyzer(
	client RepoClient,
	projectClassifier ProjectClassifier,
	scorer Scorer,
	statuses *StatusStore,
	publisher queue.IPublisher,
	cfg config.AnalysisConfig,
) *Analyzer {
	return &Analyzer{
		client:     client,
		classifier: projectClassifier,
		scorer:     scorer,
		statuses:   statuses,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Analyze runs the synchronous part of an analysis. Shallow mode collects
// and scores the repository's root files in-request. Deep mode claims the
// status key, dispatches a background job, and returns a pending marker; the
// finished result is later read through Status.
func (a *Analyzer) Analyze(ctx context.Context, repo github.Repo, token string, userID int64, deep bool) (*Result, error) {
	if token == "" {
		return nil, github.ErrMissingToken
	}

	start := time.Now()

	projectType := a.classifier.Classify(ctx, token, repo)
	result := &Result{
		CommitFrequency:  stats.CommitFrequency(a.client.GetParticipationStats(ctx, token, repo)),
		CodeChurn:        stats.CodeChurn(a.client.GetCodeFrequencyStats(ctx, token, repo)),
		ProjectType:      projectType,
		FrameworkDetails: a.classifier.Details(ctx, token, repo, projectType),
		Files:            []FileRecord{},
		FileAnalyses:     map[string]llm.Score{},
	}

	if deep {
		a.dispatchDeep(ctx, repo, userID)
		result.DeepAnalysisPending = true
		return result, nil
	}

	files, _ := collectFiles(ctx, a.client, token, repo, collectOptions{
		roots:      []string{""},
		recursive:  false,
		maxFiles:   a.cfg.MaxRootFiles,
		extensions: a.cfg.AllowedExtensions,
	})
	result.Files = files

	for _, file := range files {
		score, err := a.scorer.ScoreFile(ctx, file.Content)
		if err != nil {
			log.Printf("analysis: degraded score for %s in %s: %v", file.Path, repo.FullName(), err)
		}
		result.FileAnalyses[file.Path] = score
	}

	result.Summary = summarize(result.Files, result.FileAnalyses, time.Since(start), true)
	return result, nil
}

// dispatchDeep claims the status key and publishes the worker job. A claim
// failure means a run is already queued or processing for this repository;
// the request degrades to a pending marker pointing at the existing run.
func (a *Analyzer) dispatchDeep(ctx context.Context, repo github.Repo, userID int64) {
	claimed, err := a.statuses.TryEnqueue(ctx, repo)
	if err != nil {
		log.Printf("analysis: failed to claim deep analysis for %s: %v", repo.FullName(), err)
		return
	}
	if !claimed {
		log.Printf("analysis: deep analysis already in flight for %s", repo.FullName())
		return
	}

	if err := a.publisher.PublishDeepAnalysisJob(ctx, repo.FullName(), userID, "github"); err != nil {
		log.Printf("analysis: failed to dispatch deep analysis for %s: %v", repo.FullName(), err)
		if failErr := a.statuses.Fail(ctx, repo, "failed to dispatch analysis job"); failErr != nil {
			log.Printf("analysis: failed to record dispatch failure for %s: %v", repo.FullName(), failErr)
		}
	}
}

// Status returns the deep-analysis lifecycle view for the polling endpoint.
func (a *Analyzer) Status(ctx context.Context, repo github.Repo) DeepStatus {
	return a.statuses.Snapshot(ctx, repo)
}

// Progress returns the coarse walk progress in [0,100], 0 when absent.
func (a *Analyzer) Progress(ctx context.Context, repo github.Repo) float64 {
	return a.statuses.Progress(ctx, repo)
}

// AnalyzePullRequest scores a pull request's diff. The diff is treated like
// any other file content: bounded on input and scored with the same
// fail-soft contract.
func (a *Analyzer) AnalyzePullRequest(ctx context.Context, repo github.Repo, token string, number int) (llm.Score, error) {
	if token == "" {
		return llm.Score{}, github.ErrMissingToken
	}

	diff, err := a.client.GetPullRequestDiff(ctx, token, repo, number)
	if err != nil {
		return llm.Score{}, err
	}

	score, scoreErr := a.scorer.ScoreFile(ctx, diff)
	if scoreErr != nil {
		log.Printf("analysis: degraded score for %s#%d: %v", repo.FullName(), number, scoreErr)
	}
	return score, nil
}

// summarize computes the per-pass aggregate. Averages cover only files that
// produced a score and guard the empty case explicitly.
func summarize(files []FileRecord, analyses map[string]llm.Score, elapsed time.Duration, completed bool) Summary {
	summary := Summary{
		TotalFiles:        len(files),
		AnalyzedFiles:     len(analyses),
		AnalysisCompleted: completed,
		TimeTaken:         elapsed.Seconds(),
	}

	if len(analyses) == 0 {
		return summary
	}

	var complexity, quality int
	for _, score := range analyses {
		complexity += score.ComplexityScore
		quality += score.QualityScore
	}
	summary.AverageComplexity = float64(complexity) / float64(len(analyses))
	summary.AverageQuality = float64(quality) / float64(len(analyses))
	return summary
}
