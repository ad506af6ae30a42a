package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		description  string
		wantCategory string
		wantPriority int
	}{
		{name: "doctor appointment", title: "Doctor appointment", wantCategory: "Health", wantPriority: 2},
		{name: "work meeting", title: "Team meeting", description: "sync on roadmap", wantCategory: "Work", wantPriority: 2},
		{name: "learning", title: "Study for exam", wantCategory: "Learning", wantPriority: 1},
		{name: "shopping", title: "Buy milk", wantCategory: "Shopping", wantPriority: 1},
		{name: "urgent keeps default category", title: "Call mom ASAP", wantCategory: "Personal", wantPriority: 3},
		{name: "earlier rule beats urgent", title: "Urgent project review", wantCategory: "Work", wantPriority: 2},
		{name: "keyword in description", title: "Monday", description: "go to the GYM", wantCategory: "Health", wantPriority: 2},
		{name: "substring match", title: "Homework", wantCategory: "Work", wantPriority: 2},
		{name: "no match", title: "Walk the dog", wantCategory: "Personal", wantPriority: 1},
		{name: "empty", wantCategory: "Personal", wantPriority: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, tt.description)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantPriority, got.Priority)
			assert.Equal(t, FallbackReasoning, got.Reasoning)
			assert.Equal(t, SourceFallback, got.Source)
		})
	}
}

func TestSuggest(t *testing.T) {
	t.Run("get fit returns health list", func(t *testing.T) {
		got := Suggest("I want to get fit")
		require.Len(t, got, 2)
		assert.Equal(t, TaskSuggestion{
			Title:             "30-minute workout",
			Description:       "Complete a cardio or strength training session",
			Category:          "Health",
			Priority:          2,
			EstimatedDuration: "30 minutes",
		}, got[0])
		assert.Equal(t, "Plan healthy meals", got[1].Title)
	})

	t.Run("work wins over health", func(t *testing.T) {
		got := Suggest("Exercise before WORK")
		require.Len(t, got, 2)
		assert.Equal(t, "Work", got[0].Category)
		assert.Equal(t, "Schedule team meeting", got[0].Title)
	})

	t.Run("generic", func(t *testing.T) {
		got := Suggest("plan my weekend")
		require.Len(t, got, 1)
		assert.Equal(t, "Organize daily tasks", got[0].Title)
		assert.Equal(t, "Personal", got[0].Category)
	})

	t.Run("fit only as a whole word", func(t *testing.T) {
		for _, input := range []string{
			"Calculate profit margins",
			"Buy a new outfit",
			"Review employee benefits",
		} {
			got := Suggest(input)
			require.Len(t, got, 1, input)
			assert.Equal(t, "Organize daily tasks", got[0].Title, input)
			assert.Equal(t, "Personal", got[0].Category, input)
		}

		assert.Equal(t, "Health", Suggest("Stay FIT, eat well")[0].Category)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		got := Suggest("job hunt")
		got[0].Title = "changed"
		assert.Equal(t, "Schedule team meeting", Suggest("job hunt")[0].Title)
	})
}
