package triage

import (
	"fmt"
	"math"
	"time"
)

const (
	UncategorizedCategory = "Uncategorized"
	NoDataAvailable       = "No data available"
)

// CategoryStat counts tasks of one category. Completed <= Total always.
type CategoryStat struct {
	Name      string
	Total     int
	Completed int
}

// Metrics is the deterministic part of a productivity analysis.
type Metrics struct {
	TotalTasks             int
	CompletedTasks         int
	CompletionRate         int
	AverageCompletionTime  string
	MostProductiveCategory string
	// Categories are kept in first-seen order of the input.
	Categories   []CategoryStat
	OverdueTasks int
}

func (m Metrics) Empty() bool {
	return m.TotalTasks == 0
}

// ComputeMetrics summarizes tasks. now is only used to count overdue tasks.
func ComputeMetrics(tasks []TaskRecord, now time.Time) Metrics {
	if len(tasks) == 0 {
		return Metrics{
			AverageCompletionTime:  NoDataAvailable,
			MostProductiveCategory: NoDataAvailable,
		}
	}

	m := Metrics{TotalTasks: len(tasks)}
	index := make(map[string]int)

	for _, t := range tasks {
		if t.Completed {
			m.CompletedTasks++
		} else if t.DueDate != nil && t.DueDate.Before(now) {
			m.OverdueTasks++
		}

		name := t.Category
		if name == "" {
			name = UncategorizedCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(m.Categories)
			index[name] = i
			m.Categories = append(m.Categories, CategoryStat{Name: name})
		}
		m.Categories[i].Total++
		if t.Completed {
			m.Categories[i].Completed++
		}
	}

	m.CompletionRate = percent(m.CompletedTasks, m.TotalTasks)
	m.AverageCompletionTime = averageCompletionTime(tasks)
	m.MostProductiveCategory = mostProductive(m.Categories)

	return m
}

// percent is round(100*part/whole) with halves rounded up, in integers.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

func averageCompletionTime(tasks []TaskRecord) string {
	var (
		totalMs int64
		n       int64
	)
	for _, t := range tasks {
		if !t.Completed || t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
			continue
		}
		totalMs += t.UpdatedAt.Sub(t.CreatedAt).Milliseconds()
		n++
	}
	if n == 0 {
		return NoDataAvailable
	}

	hours := roundHalfUp(float64(totalMs) / float64(n*int64(time.Hour/time.Millisecond)))
	if hours < 24 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d days", roundHalfUp(float64(hours)/24))
}

// mostProductive picks the highest completed/total ratio; on ties the
// category seen first wins.
func mostProductive(stats []CategoryStat) string {
	best := -1
	for i, s := range stats {
		if s.Total == 0 {
			continue
		}
		if best < 0 || s.Completed*stats[best].Total > stats[best].Completed*s.Total {
			best = i
		}
	}
	if best < 0 {
		return NoDataAvailable
	}
	return stats[best].Name
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
