package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

func TestAnalyze_EmptyTextGetsDefaults(t *testing.T) {
	profile := Analyze("")

	assert.Equal(t, models.DifficultyIntermediate, profile.ComplexityTier)
	assert.Equal(t, []string{models.TypeMultipleChoice, models.TypeShortAnswer}, profile.SuggestedQuestionTypes)
	assert.Equal(t, []string{models.BloomRemember, models.BloomUnderstand}, profile.ApplicableBloomLevels)
}

func TestComplexityTier_ByAverageWordLength(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short words", "the cat sat on a mat", models.DifficultyBasic},
		{"medium words", "plants absorb water through their roots", models.DifficultyIntermediate},
		{"long words", "photosynthesis mitochondria chloroplast thermodynamics", models.DifficultyAdvanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, complexityTier(tt.text))
		})
	}
}

func TestAnalyze_ProcessCuesSuggestProcessQuestions(t *testing.T) {
	profile := Analyze("The procedure unfolds in ordered stages, and knowing how each stage feeds the next matters.")

	assert.Contains(t, profile.SuggestedQuestionTypes, "process")
	// Baseline types always ride along with cue-derived suggestions.
	assert.Contains(t, profile.SuggestedQuestionTypes, models.TypeMultipleChoice)
	assert.Contains(t, profile.SuggestedQuestionTypes, models.TypeShortAnswer)
}

func TestAnalyze_ComparisonAndAnalysisCues(t *testing.T) {
	profile := Analyze("We compare both approaches and analyze the difference between them.")

	assert.Contains(t, profile.SuggestedQuestionTypes, "comparison")
	assert.Contains(t, profile.SuggestedQuestionTypes, "analysis")
	assert.Contains(t, profile.ApplicableBloomLevels, models.BloomAnalyze)
}

func TestAnalyze_BloomLevelsFromCues(t *testing.T) {
	profile := Analyze("Students will evaluate the claim and then design a new experiment.")

	assert.Contains(t, profile.ApplicableBloomLevels, models.BloomEvaluate)
	assert.Contains(t, profile.ApplicableBloomLevels, models.BloomCreate)
}

func TestAnalyze_CueMatchingIsCaseInsensitive(t *testing.T) {
	lower := Analyze("explain the mechanism")
	upper := Analyze("EXPLAIN THE MECHANISM")

	assert.Equal(t, lower.ApplicableBloomLevels, upper.ApplicableBloomLevels)
	assert.Contains(t, upper.ApplicableBloomLevels, models.BloomUnderstand)
}

func TestAnalyze_ProfileNeverEmpty(t *testing.T) {
	for _, text := range []string{"", "zzz qqq", strings.Repeat("x ", 200)} {
		profile := Analyze(text)
		assert.NotEmpty(t, profile.SuggestedQuestionTypes, "text: %q", text)
		assert.NotEmpty(t, profile.ApplicableBloomLevels, "text: %q", text)
		assert.NotEmpty(t, profile.ComplexityTier, "text: %q", text)
	}
}
