package llm

import "fmt"

func buildScorePrompt(code string) string {
	return fmt.Sprintf(`Analyze this code and provide ONLY a JSON response in the following format, with no additional text:
{
    "complexity_score": <number between 1-10>,
    "quality_score": <number between 1-10>,
    "suggestions": [
        "<brief improvement suggestion 1>",
        "<brief improvement suggestion 2>",
        "<brief improvement suggestion 3>"
    ]
}

Code to analyze:
%s`, code)
}

func buildContributorPrompt(stats ContributorStats) string {
	return fmt.Sprintf(`A repository contributor has the following activity profile:
- commits: %d
- quality score: %d/10
- impact score: %d/10
- consistency score: %d/10

Write a short, encouraging paragraph of feedback for this contributor. Reply with the feedback text only, no JSON and no headings.`,
		stats.Commits, stats.QualityScore, stats.ImpactScore, stats.ConsistencyScore)
}
