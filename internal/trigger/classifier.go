package trigger

import "strings"

// Category of an activity, derived from its text. The category decides
// which start message is used and whether check-ins apply.
type Category string

const (
	CategoryMeal     Category = "meal"
	CategoryRest     Category = "rest"
	CategoryLeisure  Category = "leisure"
	CategoryExercise Category = "exercise"
	CategoryWork     Category = "work"
	CategoryGeneric  Category = "generic"
)

// ClassifierRule maps a keyword list to a category
type ClassifierRule struct {
	Category Category
	Keywords []string
}

// Classifier categorizes activity text by ordered substring matching,
// first matching rule wins.
type Classifier struct {
	rules []ClassifierRule
}

// DefaultRules covers the Korean and English synonyms the assistant
// ships with. Order matters: earlier rules win.
func DefaultRules() []ClassifierRule {
	return []ClassifierRule{
		{Category: CategoryMeal, Keywords: []string{"식사", "아침", "점심", "저녁", "밥", "브런치", "meal", "breakfast", "lunch", "dinner"}},
		{Category: CategoryRest, Keywords: []string{"휴식", "낮잠", "잠", "수면", "쉬기", "rest", "nap", "sleep", "break"}},
		{Category: CategoryLeisure, Keywords: []string{"여가", "게임", "영화", "산책", "취미", "leisure", "game", "movie", "hobby", "walk"}},
		{Category: CategoryExercise, Keywords: []string{"운동", "헬스", "요가", "러닝", "조깅", "수영", "exercise", "gym", "yoga", "running", "workout"}},
		{Category: CategoryWork, Keywords: []string{"업무", "공부", "회의", "작업", "학습", "과제", "미팅", "work", "study", "meeting", "project", "class"}},
	}
}

// NewClassifier builds a classifier from the given rules. Nil or empty
// falls back to DefaultRules.
func NewClassifier(rules []ClassifierRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the first matching category, or CategoryGeneric
func (c *Classifier) Classify(text string) Category {
	lowered := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return rule.Category
			}
		}
	}
	return CategoryGeneric
}
