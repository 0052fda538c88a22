package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"repo-insight/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// ErrModelFormat indicates the model's reply could not be validated against
// the expected JSON schema. The caller still receives a usable sentinel
// score; the error only reports the cause.
var ErrModelFormat = errors.New("llm: model reply did not match expected schema")

// Score is a normalized per-file quality assessment. Scores are always in
// [1,10]. The sentinel value (see DefaultScore) is substituted whenever the
// upstream model cannot be consulted or its reply fails validation, so a
// {5,5} pair with the default suggestion is a "no data" marker, not a real
// assessment.
type Score struct {
	ComplexityScore int      `json:"complexity_score"`
	QualityScore    int      `json:"quality_score"`
	Suggestions     []string `json:"suggestions"`
}

// DefaultScore is the sentinel substituted on any scoring failure.
func DefaultScore() Score {
	return Score{
		ComplexityScore: 5,
		QualityScore:    5,
		Suggestions:     []string{"Default analysis - API processing failed"},
	}
}

const defaultContributorFeedback = "Unable to generate contribution feedback at this time."

// ContributorStats summarizes a contributor's activity for feedback
// generation.
type ContributorStats struct {
	Commits          int `json:"commits"`
	QualityScore     int `json:"quality_score"`
	ImpactScore      int `json:"impact_score"`
	ConsistencyScore int `json:"consistency_score"`
}

// Client scores file contents through a chat-completion model. The upstream
// model is treated as untrusted: input is bounded before submission and
// output is validated in full before use.
type Client struct {
	api             *openai.Client
	model           string
	maxTokens       int
	maxContentBytes int
}

func NewClient(cfg config.LLMConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	maxContent := cfg.MaxContentBytes
	if maxContent <= 0 {
		maxContent = 8000
	}

	return &Client{
		api:             openai.NewClientWithConfig(apiCfg),
		model:           cfg.Model,
		maxTokens:       cfg.MaxTokens,
		maxContentBytes: maxContent,
	}
}

// ScoreFile submits file content for scoring. Content beyond the configured
// maximum (8000 bytes by default) is truncated before submission; large
// files are only partially considered. The returned Score is always valid;
// the error, when non-nil, names the failure cause for logging and tests.
func (c *Client) ScoreFile(ctx context.Context, content []byte) (Score, error) {
	if len(content) > c.maxContentBytes {
		content = content[:c.maxContentBytes]
	}

	reply, err := c.complete(ctx, buildScorePrompt(string(content)))
	if err != nil {
		log.Printf("llm: scoring request failed: %v", err)
		return DefaultScore(), err
	}

	score, err := parseScore(reply)
	if err != nil {
		log.Printf("llm: rejecting model reply: %v", err)
		return DefaultScore(), err
	}
	return score, nil
}

// ScoreContributor generates a short natural-language feedback string for a
// contributor. Falls back to a fixed message on any failure.
func (c *Client) ScoreContributor(ctx context.Context, stats ContributorStats) string {
	reply, err := c.complete(ctx, buildContributorPrompt(stats))
	if err != nil {
		log.Printf("llm: contributor feedback request failed: %v", err)
		return defaultContributorFeedback
	}

	feedback := strings.TrimSpace(reply)
	if feedback == "" {
		return defaultContributorFeedback
	}
	return feedback
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: reply contained no choices", ErrModelFormat)
	}
	return resp.Choices[0].Message.Content, nil
}

// parseScore validates the model's reply in full. Anything outside the
// contract - unparseable JSON, missing keys, scores outside [1,10] - is
// rejected wholesale rather than patched up: a reply that fabricates an
// out-of-range score cannot be trusted on its remaining fields either.
func parseScore(reply string) (Score, error) {
	var score Score
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &score); err != nil {
		return Score{}, fmt.Errorf("%w: %v", ErrModelFormat, err)
	}

	if score.ComplexityScore < 1 || score.ComplexityScore > 10 {
		return Score{}, fmt.Errorf("%w: complexity_score %d out of range", ErrModelFormat, score.ComplexityScore)
	}
	if score.QualityScore < 1 || score.QualityScore > 10 {
		return Score{}, fmt.Errorf("%w: quality_score %d out of range", ErrModelFormat, score.QualityScore)
	}
	if len(score.Suggestions) == 0 {
		return Score{}, fmt.Errorf("%w: missing suggestions", ErrModelFormat)
	}

	return score, nil
}

// stripCodeFence unwraps a reply the model packaged as a markdown code
// block. The JSON inside is still validated strictly.
func stripCodeFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
