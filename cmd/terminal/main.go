package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"repo-insight/internal/analysis"
	"repo-insight/internal/classifier"
	"repo-insight/internal/config"
	"repo-insight/internal/github"
	"repo-insight/internal/llm"
	"repo-insight/internal/status"

	"github.com/joho/godotenv"
)

type noopPublisher struct{}

func (noopPublisher) PublishDeepAnalysisJob(ctx context.Context, repository string, userID int64, provider string) error {
	return fmt.Errorf("background analysis is not available in terminal mode")
}
func (noopPublisher) GetQueueLength(ctx context.Context) (int64, error) { return 0, nil }

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	// Get repository name from command line argument
	if len(os.Args) != 2 {
		log.Fatal("Please provide the repository as an argument (owner/name)")
	}

	repo, err := github.ParseRepo(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Fatal("GITHUB_TOKEN environment variable is required")
	}

	cfg := config.Load()
	ctx := context.Background()

	ghClient := github.NewClient(cfg.GitHub)
	scorer := llm.NewClient(cfg.LLM)
	statuses := analysis.NewStatusStore(status.NewMemoryStore(), cfg.Analysis)
	analyzer := analysis.NewAnalyzer(ghClient, classifier.New(ghClient), scorer, statuses, noopPublisher{}, cfg.Analysis)

	result, err := analyzer.Analyze(ctx, repo, token, 0, false)
	if err != nil {
		log.Fatal(err)
	}

	// Print results
	fmt.Printf("\nRepository: %s\n", repo.FullName())
	fmt.Printf("Project type: %s (%s %s)\n",
		result.ProjectType, result.FrameworkDetails.Framework, result.FrameworkDetails.Version)
	fmt.Printf("Commit frequency: %.2f commits/week\n", result.CommitFrequency)
	fmt.Printf("Code churn: %.2f lines/week\n\n", result.CodeChurn)

	fmt.Printf("%-40s %-12s %-10s\n", "File", "Complexity", "Quality")
	fmt.Println(strings.Repeat("-", 62))

	paths := make([]string, 0, len(result.FileAnalyses))
	for path := range result.FileAnalyses {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		score := result.FileAnalyses[path]
		fmt.Printf("%-40s %-12d %-10d\n", path, score.ComplexityScore, score.QualityScore)
	}

	fmt.Printf("\nAnalyzed %d of %d files in %.1fs (avg complexity %.1f, avg quality %.1f)\n",
		result.Summary.AnalyzedFiles,
		result.Summary.TotalFiles,
		result.Summary.TimeTaken,
		result.Summary.AverageComplexity,
		result.Summary.AverageQuality,
	)
}
