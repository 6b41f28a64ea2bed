package models

// Supported question types.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeShortAnswer    = "short_answer"
	TypeFillInTheBlank = "fill_in_the_blank"
	TypeEssay          = "essay"
	TypeDefinition     = "definition"
	TypeExplanation    = "explanation"
	TypeAllTypes       = "all_types"
)

// Bloom's taxonomy levels.
const (
	BloomRemember   = "remember"
	BloomUnderstand = "understand"
	BloomApply      = "apply"
	BloomAnalyze    = "analyze"
	BloomEvaluate   = "evaluate"
	BloomCreate     = "create"
)

// Difficulty tiers, shared with the analyzer's complexity tiers.
const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// QuestionTypes lists every concrete type in the order all-types mode
// iterates them. Order matters for deterministic per-type status reporting.
var QuestionTypes = []string{
	TypeMultipleChoice,
	TypeTrueFalse,
	TypeShortAnswer,
	TypeFillInTheBlank,
	TypeEssay,
	TypeDefinition,
	TypeExplanation,
}

// BloomLevels lists the taxonomy levels in ascending cognitive demand.
var BloomLevels = []string{
	BloomRemember,
	BloomUnderstand,
	BloomApply,
	BloomAnalyze,
	BloomEvaluate,
	BloomCreate,
}

// IsQuestionType reports whether t is a concrete supported question type.
func IsQuestionType(t string) bool {
	for _, qt := range QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}
