package analysis

import (
	"repo-insight/internal/classifier"
	"repo-insight/internal/llm"
)

// FileRecord is one collected file. Content is fetched lazily, owned by the
// collecting pass, and never serialized: only the scoring derived from it
// leaves the pass.
type FileRecord struct {
	Path      string `json:"path"`
	Content   []byte `json:"-"`
	Size      int    `json:"size"`
	Extension string `json:"extension"`
}

// Summary aggregates one analysis pass.
type Summary struct {
	TotalFiles        int     `json:"total_files"`
	AnalyzedFiles     int     `json:"analyzed_files"`
	AverageComplexity float64 `json:"average_complexity"`
	AverageQuality    float64 `json:"average_quality"`
	AnalysisCompleted bool    `json:"analysis_completed"`
	TimeTaken         float64 `json:"time_taken"` // seconds
}

// Result is the output of one analysis pass, shallow or deep. A pending deep
// request returns a Result carrying only the synchronous parts with
// DeepAnalysisPending set; the full Result arrives later via the status
// store.
type Result struct {
	CommitFrequency     float64                     `json:"commit_frequency"`
	CodeChurn           float64                     `json:"code_churn"`
	Files               []FileRecord                `json:"files"`
	ProjectType         classifier.ProjectType      `json:"project_type"`
	FrameworkDetails    classifier.FrameworkDetails `json:"framework_details"`
	FileAnalyses        map[string]llm.Score        `json:"file_analyses"`
	Summary             Summary                     `json:"summary"`
	DeepAnalysisPending bool                        `json:"deep_analysis_pending,omitempty"`
}

// State is the lifecycle of a deep analysis for one repository.
type State string

const (
	StateNotStarted State = "not_started"
	StateQueued     State = "queued"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// DeepStatus is what the polling endpoint returns. Result is non-nil only
// once the state is completed; Error is set only when failed.
type DeepStatus struct {
	Status State   `json:"status"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}
