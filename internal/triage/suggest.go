package triage

import (
	"strings"
	"unicode"
)

type suggestionRule struct {
	keywords []string

	// words only match whole words, so "fit" skips "profit" and "outfit"
	words       []string
	suggestions []TaskSuggestion
}

func (r suggestionRule) matches(lower string, tokens []string) bool {
	if containsAny(lower, r.keywords) {
		return true
	}
	for _, tok := range tokens {
		for _, w := range r.words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

var suggestionRules = []suggestionRule{
	{
		keywords: []string{"work", "job", "meeting"},
		suggestions: []TaskSuggestion{
			{
				Title:             "Schedule team meeting",
				Description:       "Organize a meeting to discuss project progress",
				Category:          "Work",
				Priority:          2,
				EstimatedDuration: "30 minutes",
			},
			{
				Title:             "Review project timeline",
				Description:       "Check current project milestones and deadlines",
				Category:          "Work",
				Priority:          2,
				EstimatedDuration: "45 minutes",
			},
		},
	},
	{
		keywords: []string{"health", "exercise", "fitness"},
		words:    []string{"fit"},
		suggestions: []TaskSuggestion{
			{
				Title:             "30-minute workout",
				Description:       "Complete a cardio or strength training session",
				Category:          "Health",
				Priority:          2,
				EstimatedDuration: "30 minutes",
			},
			{
				Title:             "Plan healthy meals",
				Description:       "Prepare a meal plan for the week",
				Category:          "Health",
				Priority:          1,
				EstimatedDuration: "20 minutes",
			},
		},
	},
}

var genericSuggestion = TaskSuggestion{
	Title:             "Organize daily tasks",
	Description:       "Review and prioritize today's activities",
	Category:          "Personal",
	Priority:          1,
	EstimatedDuration: "15 minutes",
}

// Suggest is the keyword fallback for task suggestions. It always returns
// one or two items and never fails. The returned slice is a fresh copy.
func Suggest(input string) []TaskSuggestion {
	lower := strings.ToLower(input)
	tokens := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) })

	for _, rule := range suggestionRules {
		if rule.matches(lower, tokens) {
			out := make([]TaskSuggestion, len(rule.suggestions))
			copy(out, rule.suggestions)
			return out
		}
	}

	return []TaskSuggestion{genericSuggestion}
}
