package analysis

import (
	"context"
	"sort"
	"strings"
	"time"

	"repo-insight/internal/github"
	"repo-insight/internal/llm"
)

// Improvement is one actionable hint for a contributor.
type Improvement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContributorAnalysis scores one contributor's commit history. The numeric
// scores are deterministic heuristics over the history; only the feedback
// text comes from the content-analysis model.
type ContributorAnalysis struct {
	QualityScore     int           `json:"quality_score"`
	ImpactScore      int           `json:"impact_score"`
	ConsistencyScore int           `json:"consistency_score"`
	Feedback         string        `json:"feedback"`
	Improvements     []Improvement `json:"improvements"`
}

// AnalyzeContributor scores a single contributor by their commits in the
// repository. An empty history returns zero scores with a starter hint
// rather than an error.
func (a *Analyzer) AnalyzeContributor(ctx context.Context, repo github.Repo, token, username string) (*ContributorAnalysis, error) {
	if token == "" {
		return nil, github.ErrMissingToken
	}

	commits, err := a.client.ListCommits(ctx, token, repo, username)
	if err != nil {
		return nil, err
	}

	if len(commits) == 0 {
		return &ContributorAnalysis{
			Feedback: "No commits found to analyze.",
			Improvements: []Improvement{{
				Title:       "Start Contributing",
				Description: "Begin contributing to get a detailed analysis of your work.",
			}},
		}, nil
	}

	result := &ContributorAnalysis{
		QualityScore:     messageQualityScore(commits),
		ImpactScore:      impactScore(commits),
		ConsistencyScore: consistencyScore(commits),
		Improvements:     suggestImprovements(commits),
	}

	result.Feedback = a.scorer.ScoreContributor(ctx, llm.ContributorStats{
		Commits:          len(commits),
		QualityScore:     result.QualityScore,
		ImpactScore:      result.ImpactScore,
		ConsistencyScore: result.ConsistencyScore,
	})

	return result, nil
}

// messageQualityScore rates commit messages by how many are descriptive
// (at least ten characters of first line).
func messageQualityScore(commits []github.Commit) int {
	descriptive := 0
	for _, c := range commits {
		if len(firstLine(c.Message)) >= 10 {
			descriptive++
		}
	}

	ratio := float64(descriptive) / float64(len(commits))
	return clampScore(1 + int(ratio*9+0.5))
}

// impactScore rates raw contribution volume on a coarse scale.
func impactScore(commits []github.Commit) int {
	return clampScore(1 + len(commits)/10)
}

// consistencyScore rates the average gap between commits; a single commit
// scores neutral.
func consistencyScore(commits []github.Commit) int {
	dates := commitDates(commits)
	if len(dates) < 2 {
		return 5
	}

	span := dates[len(dates)-1].Sub(dates[0])
	averageGap := span / time.Duration(len(dates)-1)

	switch {
	case averageGap <= 24*time.Hour:
		return 10
	case averageGap <= 3*24*time.Hour:
		return 8
	case averageGap <= 7*24*time.Hour:
		return 6
	case averageGap <= 14*24*time.Hour:
		return 4
	default:
		return 2
	}
}

func suggestImprovements(commits []github.Commit) []Improvement {
	var improvements []Improvement

	short := false
	mentionsTests := false
	mentionsDocs := false
	for _, c := range commits {
		line := firstLine(c.Message)
		if len(line) < 10 {
			short = true
		}
		lower := strings.ToLower(c.Message)
		if strings.Contains(lower, "test") {
			mentionsTests = true
		}
		if strings.Contains(lower, "readme") || strings.Contains(lower, "doc") {
			mentionsDocs = true
		}
	}

	if short {
		improvements = append(improvements, Improvement{
			Title:       "Improve Commit Messages",
			Description: "Write more descriptive commit messages to better explain changes and their purpose.",
		})
	}

	dates := commitDates(commits)
	if len(dates) >= 2 {
		span := dates[len(dates)-1].Sub(dates[0])
		if span/time.Duration(len(dates)-1) > 7*24*time.Hour {
			improvements = append(improvements, Improvement{
				Title:       "Increase Commit Frequency",
				Description: "Consider committing changes more frequently for smaller, easier to review increments.",
			})
		}
	}

	if !mentionsTests {
		improvements = append(improvements, Improvement{
			Title:       "Add Test Coverage",
			Description: "Include tests with your changes to ensure code quality and prevent regressions.",
		})
	}

	if !mentionsDocs {
		improvements = append(improvements, Improvement{
			Title:       "Update Documentation",
			Description: "Keep documentation up to date with code changes to help other contributors understand the project.",
		})
	}

	return improvements
}

func commitDates(commits []github.Commit) []time.Time {
	dates := make([]time.Time, 0, len(commits))
	for _, c := range commits {
		if t, err := time.Parse(time.RFC3339, c.AuthoredAt); err == nil {
			dates = append(dates, t)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
