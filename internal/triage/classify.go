package triage

import "strings"

const (
	DefaultCategory   = "Personal"
	FallbackReasoning = "Categorized based on keyword analysis"
)

type keywordRule struct {
	keywords []string
	category string // empty keeps DefaultCategory
	priority int
}

// Order matters: the first matching rule wins.
var classifyRules = []keywordRule{
	{keywords: []string{"work", "meeting", "project", "deadline"}, category: "Work", priority: 2},
	{keywords: []string{"health", "doctor", "exercise", "gym"}, category: "Health", priority: 2},
	{keywords: []string{"learn", "study", "course", "read"}, category: "Learning", priority: 1},
	{keywords: []string{"buy", "shop", "purchase"}, category: "Shopping", priority: 1},
	{keywords: []string{"urgent", "asap", "important"}, priority: 3},
}

// Classify is the keyword fallback for categorization. It never fails.
func Classify(title, description string) CategorizationResult {
	content := strings.ToLower(title + " " + description)

	result := CategorizationResult{
		Category:  DefaultCategory,
		Priority:  1,
		Reasoning: FallbackReasoning,
		Source:    SourceFallback,
	}

	for _, rule := range classifyRules {
		if !containsAny(content, rule.keywords) {
			continue
		}
		if rule.category != "" {
			result.Category = rule.category
		}
		result.Priority = rule.priority
		break
	}

	return result
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
