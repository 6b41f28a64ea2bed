// Package prompts renders per-question-type generation prompts.
package prompts

import (
	"fmt"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

// SystemPrompt frames every generation call.
const SystemPrompt = `You are an expert educational question generator. Your role is to create high-quality, pedagogically sound questions for educational assessment and learning.

Guidelines:
- Generate questions that are clear, unambiguous, and appropriate for the content level
- Ensure questions test understanding, not just memorization
- Include diverse question types when requested
- Provide accurate answers and explanations
- Consider Bloom's taxonomy levels when specified
- Format responses as valid JSON

Always respond with properly formatted JSON containing the requested questions.`

// Each template takes: count, content, bloom level, difficulty, and repeats
// bloom/difficulty inside the JSON example.
const (
	multipleChoiceTemplate = `Generate %d multiple choice question(s) based on the following content.
Each question should have 4 options (A, B, C, D) with exactly one correct answer.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "multiple_choice",
      "question": "Question text here?",
      "options": {
        "A": "Option A text",
        "B": "Option B text",
        "C": "Option C text",
        "D": "Option D text"
      },
      "correct_answer": "A",
      "explanation": "Why this answer is correct",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	trueFalseTemplate = `Generate %d true/false question(s) based on the following content.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "true_false",
      "question": "Statement to evaluate as true or false",
      "correct_answer": "true",
      "explanation": "Why this answer is correct",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	shortAnswerTemplate = `Generate %d short answer question(s) based on the following content.
Each question should require a brief 1-3 sentence response.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "short_answer",
      "question": "Question requiring a short answer?",
      "correct_answer": "Expected short answer",
      "explanation": "Detailed explanation of the answer",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	fillInTheBlankTemplate = `Generate %d fill-in-the-blank question(s) based on the following content.
Use underscores or [blank] to indicate where students should fill in the answer.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "fill_in_the_blank",
      "question": "The process of _______ is essential for cellular respiration.",
      "correct_answer": "glycolysis",
      "explanation": "Why this answer is correct",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	essayTemplate = `Generate %d essay question(s) based on the following content.
Each question should require a comprehensive response with multiple paragraphs.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "essay",
      "question": "Essay question requiring detailed analysis?",
      "correct_answer": "Key points that should be covered in the essay",
      "explanation": "Detailed explanation of what makes a good answer",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	definitionTemplate = `Generate %d definition question(s) based on the following content.
Ask students to define key terms or concepts.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "definition",
      "question": "Define [key term]",
      "correct_answer": "Complete definition of the term",
      "explanation": "Additional context and examples",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	explanationTemplate = `Generate %d explanation question(s) based on the following content.
Ask students to explain processes, concepts, or relationships.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format:
{
  "questions": [
    {
      "id": "unique_id",
      "type": "explanation",
      "question": "Explain how/why [concept or process works]?",
      "correct_answer": "Clear explanation of the concept or process",
      "explanation": "Additional details and context",
      "bloom_level": "%s",
      "difficulty": "%s",
      "topic": "Main topic covered"
    }
  ]
}`

	allTypesTemplate = `Generate %d questions of different types based on the following content.
Generate exactly one question of each type: multiple_choice, true_false, short_answer, fill_in_the_blank, essay, definition, explanation.

Content: %s

Bloom's Level: %s
Difficulty: %s

Respond with JSON format containing an array of questions under a "questions" key, each of a different type.`
)

var templates = map[string]string{
	models.TypeMultipleChoice: multipleChoiceTemplate,
	models.TypeTrueFalse:      trueFalseTemplate,
	models.TypeShortAnswer:    shortAnswerTemplate,
	models.TypeFillInTheBlank: fillInTheBlankTemplate,
	models.TypeEssay:          essayTemplate,
	models.TypeDefinition:     definitionTemplate,
	models.TypeExplanation:    explanationTemplate,
	models.TypeAllTypes:       allTypesTemplate,
}

// Render fills the template matching the question type. Unknown types fall
// back to the all-types template rather than failing the call.
func Render(questionType, content, bloomLevel, difficulty string, count int) string {
	tpl, ok := templates[questionType]
	if !ok {
		tpl = allTypesTemplate
	}
	if tpl == allTypesTemplate {
		return fmt.Sprintf(tpl, count, content, bloomLevel, difficulty)
	}
	return fmt.Sprintf(tpl, count, content, bloomLevel, difficulty, bloomLevel, difficulty)
}
