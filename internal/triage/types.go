package triage

import "time"

// Source tells which path produced a triage result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
	SourceNoData   Source = "no_data"
)

// TaskRecord is the read-only projection of a todo used for analysis.
type TaskRecord struct {
	Completed bool       `db:"completed"`
	Priority  int        `db:"priority"`
	Category  string     `db:"category"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DueDate   *time.Time `db:"due_date"`
}

// RecentTask is the slice of task history fed into the suggestion prompt.
type RecentTask struct {
	Title    string `db:"title"`
	Category string `db:"category"`
}

type TaskSuggestion struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Priority          int    `json:"priority"`
	EstimatedDuration string `json:"estimatedDuration"`
}

type SuggestResponse struct {
	Suggestions []TaskSuggestion `json:"suggestions"`
	Source      Source           `json:"-"`
}

type CategorizationResult struct {
	Category  string `json:"category"`
	Priority  int    `json:"priority"`
	Reasoning string `json:"reasoning"`
	Source    Source `json:"-"`
}

type ProductivityReport struct {
	Insights               []string `json:"insights"`
	Recommendations        []string `json:"recommendations"`
	CompletionRate         int      `json:"completionRate"`
	AverageCompletionTime  string   `json:"averageCompletionTime"`
	MostProductiveCategory string   `json:"mostProductiveCategory"`
	Source                 Source   `json:"-"`
}
