package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"smart-todo-backend/internal/ai"
)

const (
	maxHistoryItems  = 10
	maxSuggestions   = 5
	minReportItems   = 3
	maxReportItems   = 5
	goodCompletion   = 70
	defaultReasoning = "Automatically categorized based on task content"
	// DefaultEstimatedDuration fills suggestions whose estimate the model omitted.
	DefaultEstimatedDuration = "Not specified"
)

// Completer is the model call the service depends on; *ai.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service runs the triage features. Each call makes at most one model
// request and falls back to the deterministic computation on any failure,
// so none of its methods return an error.
type Service struct {
	model Completer
	log   *slog.Logger
	now   func() time.Time
}

func NewService(model Completer, log *slog.Logger) *Service {
	return &Service{model: model, log: log, now: time.Now}
}

// -------------------------------
// Suggestions
// -------------------------------

type aiSuggestion struct {
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Category          string        `json:"category"`
	Priority          priorityValue `json:"priority"`
	EstimatedDuration string        `json:"estimatedDuration"`
}

// SuggestTasks proposes tasks for input. history should be most recent first.
func (s *Service) SuggestTasks(ctx context.Context, input string, history []RecentTask) SuggestResponse {
	suggestions, err := s.suggestWithModel(ctx, input, history)
	if err != nil {
		s.log.Warn("AI suggestion failed, using fallback", "feature", "suggest", "error", err)
		return SuggestResponse{Suggestions: Suggest(input), Source: SourceFallback}
	}
	return SuggestResponse{Suggestions: suggestions, Source: SourceAI}
}

func (s *Service) suggestWithModel(ctx context.Context, input string, history []RecentTask) ([]TaskSuggestion, error) {
	raw, err := s.model.Complete(ctx, ai.BuildSuggestPrompt(input, historyContext(history)))
	if err != nil {
		return nil, err
	}

	fragment, err := ai.ExtractJSON(raw, ai.Array)
	if err != nil {
		return nil, err
	}

	var parsed []aiSuggestion
	if err := json.Unmarshal(fragment, &parsed); err != nil {
		return nil, fmt.Errorf("%w: suggestions: %v", ai.ErrMalformedResponse, err)
	}

	out := make([]TaskSuggestion, 0, maxSuggestions)
	for _, p := range parsed {
		sg := TaskSuggestion{
			Title:             strings.TrimSpace(p.Title),
			Description:       strings.TrimSpace(p.Description),
			Category:          strings.TrimSpace(p.Category),
			Priority:          p.Priority.clamped(),
			EstimatedDuration: strings.TrimSpace(p.EstimatedDuration),
		}
		if sg.Title == "" || sg.Description == "" || sg.Category == "" {
			continue
		}
		if sg.EstimatedDuration == "" {
			sg.EstimatedDuration = DefaultEstimatedDuration
		}
		out = append(out, sg)
		if len(out) == maxSuggestions {
			break
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no valid suggestions", ai.ErrMalformedResponse)
	}
	return out, nil
}

func historyContext(history []RecentTask) string {
	if len(history) == 0 {
		return "No previous tasks found."
	}
	if len(history) > maxHistoryItems {
		history = history[:maxHistoryItems]
	}

	parts := make([]string, 0, len(history))
	for _, t := range history {
		category := t.Category
		if category == "" {
			category = "No category"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", t.Title, category))
	}
	return "User's recent tasks: " + strings.Join(parts, ", ")
}

// -------------------------------
// Categorization
// -------------------------------

type aiCategorization struct {
	Category  string        `json:"category"`
	Priority  priorityValue `json:"priority"`
	Reasoning string        `json:"reasoning"`
}

func (s *Service) CategorizeTask(ctx context.Context, title, description string) CategorizationResult {
	result, err := s.categorizeWithModel(ctx, title, description)
	if err != nil {
		s.log.Warn("AI categorization failed, using fallback", "feature", "categorize", "error", err)
		return Classify(title, description)
	}
	return result
}

func (s *Service) categorizeWithModel(ctx context.Context, title, description string) (CategorizationResult, error) {
	raw, err := s.model.Complete(ctx, ai.BuildCategorizePrompt(title, description))
	if err != nil {
		return CategorizationResult{}, err
	}

	fragment, err := ai.ExtractJSON(raw, ai.Object)
	if err != nil {
		return CategorizationResult{}, err
	}

	var parsed aiCategorization
	if err := json.Unmarshal(fragment, &parsed); err != nil {
		return CategorizationResult{}, fmt.Errorf("%w: categorization: %v", ai.ErrMalformedResponse, err)
	}

	result := CategorizationResult{
		Category:  strings.TrimSpace(parsed.Category),
		Priority:  parsed.Priority.clamped(),
		Reasoning: strings.TrimSpace(parsed.Reasoning),
		Source:    SourceAI,
	}
	if result.Category == "" {
		result.Category = DefaultCategory
	}
	if result.Reasoning == "" {
		result.Reasoning = defaultReasoning
	}
	return result, nil
}

// -------------------------------
// Productivity analysis
// -------------------------------

type aiAnalysis struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

var noDataReport = ProductivityReport{
	Insights: []string{
		"Start by creating some tasks to track your productivity!",
		"Set due dates for your tasks to better manage deadlines.",
		"Use categories to organize your tasks by type or project.",
	},
	Recommendations: []string{
		"Create your first task to begin tracking productivity",
		"Set up categories like 'Work', 'Personal', and 'Health'",
		"Add due dates to important tasks",
	},
	CompletionRate:         0,
	AverageCompletionTime:  NoDataAvailable,
	MostProductiveCategory: NoDataAvailable,
	Source:                 SourceNoData,
}

// AnalyzeProductivity reports on tasks. An empty task set returns the fixed
// starter report without calling the model.
func (s *Service) AnalyzeProductivity(ctx context.Context, tasks []TaskRecord) ProductivityReport {
	m := ComputeMetrics(tasks, s.now())
	if m.Empty() {
		return cloneReport(noDataReport)
	}

	report := ProductivityReport{
		CompletionRate:         m.CompletionRate,
		AverageCompletionTime:  m.AverageCompletionTime,
		MostProductiveCategory: m.MostProductiveCategory,
	}

	parsed, err := s.analyzeWithModel(ctx, m)
	if err != nil {
		s.log.Warn("AI analysis failed, using fallback", "feature", "analyze", "error", err)
		report.Insights, report.Recommendations = fallbackAnalysis(m)
		report.Source = SourceFallback
		return report
	}

	report.Insights = parsed.Insights
	report.Recommendations = parsed.Recommendations
	report.Source = SourceAI
	return report
}

func (s *Service) analyzeWithModel(ctx context.Context, m Metrics) (aiAnalysis, error) {
	facts := ai.AnalysisFacts{
		TotalTasks:             m.TotalTasks,
		CompletedTasks:         m.CompletedTasks,
		CompletionRate:         m.CompletionRate,
		MostProductiveCategory: m.MostProductiveCategory,
		AverageCompletionTime:  m.AverageCompletionTime,
		OverdueTasks:           m.OverdueTasks,
	}
	for _, c := range m.Categories {
		facts.Categories = append(facts.Categories, ai.CategoryLine{Name: c.Name, Completed: c.Completed, Total: c.Total})
	}

	raw, err := s.model.Complete(ctx, ai.BuildAnalysisPrompt(facts))
	if err != nil {
		return aiAnalysis{}, err
	}

	fragment, err := ai.ExtractJSON(raw, ai.Object)
	if err != nil {
		return aiAnalysis{}, err
	}

	var parsed aiAnalysis
	if err := json.Unmarshal(fragment, &parsed); err != nil {
		return aiAnalysis{}, fmt.Errorf("%w: analysis: %v", ai.ErrMalformedResponse, err)
	}

	parsed.Insights = cleanList(parsed.Insights)
	parsed.Recommendations = cleanList(parsed.Recommendations)
	if len(parsed.Insights) < minReportItems || len(parsed.Recommendations) < minReportItems {
		return aiAnalysis{}, fmt.Errorf("%w: analysis needs %d-%d insights and recommendations, got %d and %d",
			ai.ErrMalformedResponse, minReportItems, maxReportItems, len(parsed.Insights), len(parsed.Recommendations))
	}
	return parsed, nil
}

func fallbackAnalysis(m Metrics) (insights, recommendations []string) {
	verdict := "there's room for improvement"
	if m.CompletionRate >= goodCompletion {
		verdict = "Great job!"
	}
	deadlines := "You're staying on top of your deadlines"
	if m.OverdueTasks > 0 {
		deadlines = "You have some overdue tasks that need attention"
	}
	insights = []string{
		fmt.Sprintf("Your completion rate is %d%% - %s", m.CompletionRate, verdict),
		fmt.Sprintf("You're most productive in the %s category", m.MostProductiveCategory),
		deadlines,
	}

	first := "Keep up the great work!"
	if m.CompletionRate < goodCompletion {
		first = "Try breaking large tasks into smaller, manageable pieces"
	}
	recommendations = []string{
		first,
		"Set realistic due dates for your tasks",
		"Review and prioritize your tasks daily",
	}
	return insights, recommendations
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == maxReportItems {
			break
		}
	}
	return out
}

func cloneReport(r ProductivityReport) ProductivityReport {
	r.Insights = append([]string(nil), r.Insights...)
	r.Recommendations = append([]string(nil), r.Recommendations...)
	return r
}

// -------------------------------
// Priority parsing
// -------------------------------

// priorityValue accepts a JSON number, a numeric string or null.
type priorityValue struct {
	value float64
	set   bool
}

func (p *priorityValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = priorityValue{}
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		// an unreadable priority counts as missing
		*p = priorityValue{}
		return nil
	}
	*p = priorityValue{value: v, set: true}
	return nil
}

// clamped maps the model's priority into 1..3; missing or zero means 1.
func (p priorityValue) clamped() int {
	if !p.set || p.value == 0 {
		return 1
	}
	return int(roundHalfUp(math.Max(1, math.Min(3, p.value))))
}
