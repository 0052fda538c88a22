package analysis

import (
	"context"
	"log"
	"time"

	"repo-insight/internal/classifier"
	"repo-insight/internal/config"
	"repo-insight/internal/github"
	"repo-insight/internal/llm"
	"repo-insight/internal/stats"
)

// DeepRunner executes one deep analysis outside the request cycle. It is the
// single writer for the repository's status keys while the run is active.
//
// The wall-clock budget is checked between upstream calls, never by aborting
// one in flight; a slow call can overrun the budget by its own latency, with
// the client-level timeout as the hard ceiling.
type DeepRunner struct {
	client     RepoClient
	classifier ProjectClassifier
	scorer     Scorer
	statuses   *StatusStore
	budget     time.Duration
}

func NewDeepRunner(
	client RepoClient,
	projectClassifier ProjectClassifier,
	scorer Scorer,
	statuses *StatusStore,
	cfg config.AnalysisConfig,
) *DeepRunner {
	return &DeepRunner{
		client:     client,
		classifier: projectClassifier,
		scorer:     scorer,
		statuses:   statuses,
		budget:     cfg.DeepBudget,
	}
}

// Run walks the repository's important paths, scores what it gathered, and
// writes the result into the status store. Partial results from a
// budget-truncated walk are kept, not discarded; only infrastructure
// failures (status store unreachable, context cancelled) return an error,
// which the caller records as the failed state.
func (r *DeepRunner) Run(ctx context.Context, repo github.Repo, token string) error {
	if token == "" {
		return github.ErrMissingToken
	}

	if err := r.statuses.MarkProcessing(ctx, repo); err != nil {
		return err
	}

	start := time.Now()
	deadline := start.Add(r.budget)

	projectType := r.classifier.Classify(ctx, token, repo)
	roots := classifier.ImportantPaths(projectType)

	files, walkedRoots := collectFiles(ctx, r.client, token, repo, collectOptions{
		roots:     roots,
		recursive: true,
		deadline:  deadline,
		onRootDone: func(processed, total int) {
			percent := float64(processed) / float64(total) * 100
			if err := r.statuses.PutProgress(ctx, repo, percent); err != nil {
				log.Printf("deep analysis: failed to record progress for %s: %v", repo.FullName(), err)
			}
		},
	})
	if walkedRoots < len(roots) {
		log.Printf("deep analysis: budget cut walk short for %s (%d/%d paths)", repo.FullName(), walkedRoots, len(roots))
	}

	result := &Result{
		CommitFrequency:  stats.CommitFrequency(r.client.GetParticipationStats(ctx, token, repo)),
		CodeChurn:        stats.CodeChurn(r.client.GetCodeFrequencyStats(ctx, token, repo)),
		ProjectType:      projectType,
		FrameworkDetails: r.classifier.Details(ctx, token, repo, projectType),
		Files:            files,
		FileAnalyses:     map[string]llm.Score{},
	}

	// Score in collection order, re-checking the budget before each call.
	// Files left unscored are omitted, not marked failed.
	for _, file := range files {
		if time.Now().After(deadline) {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		score, err := r.scorer.ScoreFile(ctx, file.Content)
		if err != nil {
			log.Printf("deep analysis: degraded score for %s in %s: %v", file.Path, repo.FullName(), err)
		}
		result.FileAnalyses[file.Path] = score
	}

	elapsed := time.Since(start)
	result.Summary = summarize(files, result.FileAnalyses, elapsed, elapsed < r.budget)

	if err := r.statuses.Complete(ctx, repo, result); err != nil {
		return err
	}

	log.Printf("deep analysis: completed %s (%d files, %d scored, %.1fs)",
		repo.FullName(), result.Summary.TotalFiles, result.Summary.AnalyzedFiles, result.Summary.TimeTaken)
	return nil
}
