package ai

import (
	"fmt"
	"strings"
)

// BuildSuggestPrompt asks for 3-5 task suggestions as a JSON array.
func BuildSuggestPrompt(input, historyContext string) string {
	var b strings.Builder

	b.WriteString("Based on the user's input and their task history, suggest 3-5 relevant tasks.\n\n")

	b.WriteString("User input: ")
	b.WriteString(quote(input))
	b.WriteString("\n")
	b.WriteString(historyContext)
	b.WriteString("\n\n")

	b.WriteString("Respond with a JSON array of task suggestions. Each suggestion has:\n")
	b.WriteString("- title: a clear, actionable task title\n")
	b.WriteString("- description: a brief description of what needs to be done\n")
	b.WriteString("- category: a relevant category (Work, Personal, Health, Learning, etc.)\n")
	b.WriteString("- priority: a number from 1-3 (1=low, 2=medium, 3=high)\n")
	b.WriteString("- estimatedDuration: estimated time to complete (e.g. \"30 minutes\", \"2 hours\")\n\n")

	b.WriteString("Example format:\n")
	b.WriteString(`[{"title":"Review quarterly budget","description":"Analyze Q3 expenses and prepare budget adjustments for Q4","category":"Work","priority":2,"estimatedDuration":"1 hour"}]`)
	b.WriteString("\n")

	return b.String()
}

// BuildCategorizePrompt asks for one {category, priority, reasoning} object.
func BuildCategorizePrompt(title, description string) string {
	var b strings.Builder

	b.WriteString("Analyze this task and suggest an appropriate category and priority.\n\n")

	b.WriteString("Title: ")
	b.WriteString(quote(title))
	b.WriteString("\n")

	b.WriteString("Description: ")
	if strings.TrimSpace(description) == "" {
		b.WriteString(quote("No description provided"))
	} else {
		b.WriteString(quote(description))
	}
	b.WriteString("\n\n")

	b.WriteString("Respond with JSON in this exact format:\n")
	b.WriteString(`{"category":"suggested category","priority":2,"reasoning":"brief explanation of the categorization"}`)
	b.WriteString("\n\n")

	b.WriteString("Common categories: Work, Personal, Health, Learning, Finance, Home, Shopping, Travel.\n")
	b.WriteString("Priority guidelines:\n")
	b.WriteString("- 3 (High): urgent deadlines, important meetings, critical tasks\n")
	b.WriteString("- 2 (Medium): important but not urgent, regular work tasks\n")
	b.WriteString("- 1 (Low): nice to have, routine tasks, long-term goals\n")

	return b.String()
}

// CategoryLine is one row of the per-category breakdown in the analysis prompt.
type CategoryLine struct {
	Name      string
	Completed int
	Total     int
}

// AnalysisFacts are the precomputed metrics the analysis prompt is grounded on.
type AnalysisFacts struct {
	TotalTasks             int
	CompletedTasks         int
	CompletionRate         int
	MostProductiveCategory string
	AverageCompletionTime  string
	Categories             []CategoryLine
	OverdueTasks           int
}

func BuildAnalysisPrompt(f AnalysisFacts) string {
	var b strings.Builder

	b.WriteString("Analyze this user's productivity data and provide insights and recommendations.\n\n")

	fmt.Fprintf(&b, "Total tasks: %d\n", f.TotalTasks)
	fmt.Fprintf(&b, "Completed tasks: %d\n", f.CompletedTasks)
	fmt.Fprintf(&b, "Completion rate: %d%%\n", f.CompletionRate)
	fmt.Fprintf(&b, "Most productive category: %s\n", f.MostProductiveCategory)
	fmt.Fprintf(&b, "Average completion time: %s\n\n", f.AverageCompletionTime)

	b.WriteString("Task breakdown by category:\n")
	for _, c := range f.Categories {
		pct := 0
		if c.Total > 0 {
			pct = (200*c.Completed + c.Total) / (2 * c.Total)
		}
		fmt.Fprintf(&b, "%s: %d/%d completed (%d%%)\n", c.Name, c.Completed, c.Total, pct)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Overdue tasks: %d\n\n", f.OverdueTasks)

	b.WriteString("Provide:\n")
	b.WriteString("1. 3-5 insights about their productivity patterns\n")
	b.WriteString("2. 3-5 actionable recommendations for improvement\n\n")
	b.WriteString("Respond in JSON format:\n")
	b.WriteString(`{"insights":["insight1","insight2"],"recommendations":["rec1","rec2"]}`)
	b.WriteString("\n\nMake the insights specific and the recommendations actionable.\n")

	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.TrimSpace(s), `"`, `'`) + `"`
}
