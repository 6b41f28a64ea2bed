// Package analyzer derives pedagogical signals from chunk text. It is
// keyword-driven and deterministic: no model calls, no state.
package analyzer

import (
	"strings"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

// Cue-word families mapped to question-type affinities.
var typeCues = []struct {
	qtype string
	cues  []string
}{
	{"definition", []string{"definition", "define", "meaning", "is", "are"}},
	{"process", []string{"process", "step", "procedure", "method", "how"}},
	{"example", []string{"example", "instance", "such as", "including"}},
	{"comparison", []string{"compare", "contrast", "difference", "similar", "unlike"}},
	{"analysis", []string{"analysis", "analyze", "examine", "evaluate", "assess"}},
}

// Cue-word families mapped to Bloom's taxonomy levels.
var bloomCues = []struct {
	level string
	cues  []string
}{
	{models.BloomRemember, []string{"define", "list", "name", "identify", "recall"}},
	{models.BloomUnderstand, []string{"explain", "describe", "summarize", "interpret"}},
	{models.BloomApply, []string{"use", "apply", "implement", "execute", "solve"}},
	{models.BloomAnalyze, []string{"analyze", "examine", "compare", "contrast", "categorize"}},
	{models.BloomEvaluate, []string{"evaluate", "assess", "judge", "critique", "defend"}},
	{models.BloomCreate, []string{"create", "design", "develop", "compose", "generate"}},
}

// Analyze profiles a chunk of text for downstream prompt selection.
// The result is never empty: when no cue matches, the defaults
// {remember, understand} and {multiple_choice, short_answer} apply, because
// prompt selection requires at least one candidate type.
func Analyze(text string) models.ContentProfile {
	return models.ContentProfile{
		ComplexityTier:         complexityTier(text),
		SuggestedQuestionTypes: suggestQuestionTypes(text),
		ApplicableBloomLevels:  bloomLevels(text),
	}
}

// complexityTier buckets text by average word length.
func complexityTier(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return models.DifficultyIntermediate
	}
	var total int
	for _, w := range words {
		total += len(w)
	}
	avg := float64(total) / float64(len(words))
	switch {
	case avg < 4:
		return models.DifficultyBasic
	case avg < 6:
		return models.DifficultyIntermediate
	default:
		return models.DifficultyAdvanced
	}
}

func suggestQuestionTypes(text string) []string {
	lower := strings.ToLower(text)

	var types []string
	for _, family := range typeCues {
		if containsAny(lower, family.cues) {
			types = append(types, family.qtype)
		}
	}

	// multiple_choice and short_answer work on almost any content, so they
	// ride along with every cue-derived suggestion.
	if len(types) == 0 {
		return []string{models.TypeMultipleChoice, models.TypeShortAnswer}
	}
	return append(types, models.TypeMultipleChoice, models.TypeShortAnswer)
}

func bloomLevels(text string) []string {
	lower := strings.ToLower(text)

	var levels []string
	for _, family := range bloomCues {
		if containsAny(lower, family.cues) {
			levels = append(levels, family.level)
		}
	}
	if len(levels) == 0 {
		return []string{models.BloomRemember, models.BloomUnderstand}
	}
	return levels
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}
