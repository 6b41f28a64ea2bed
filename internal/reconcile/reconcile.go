// Package reconcile converts untrusted model output into validated question
// objects. Model responses are supposed to be JSON but frequently arrive
// wrapped in reasoning preambles, with broken syntax, or under unexpected
// keys; this package applies a bounded pipeline of repairs before giving up
// with a typed error.
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GodReaper/PrashnaRachnaAI/internal/helper"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// ErrNoQuestions marks a response that parsed but contained no question
// entries under any recognized key.
var ErrNoQuestions = errors.New("no questions in response")

// MalformedResponseError is the terminal failure of reconciliation. It
// carries the original raw text so callers can persist or inspect it.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Question is one normalized question candidate extracted from a response.
type Question struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	QuestionText  string `json:"question"`
	CorrectAnswer any    `json:"correct_answer,omitempty"`
	Options       any    `json:"options,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
	BloomLevel    string `json:"bloom_level,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	Topic         string `json:"topic,omitempty"`
}

// Reconcile turns raw model output into a list of validated questions.
// Entries missing a type or question text are dropped with a warning rather
// than failing the batch. The returned error, when non-nil, is always a
// *MalformedResponseError.
func Reconcile(raw string) ([]Question, error) {
	stripped := stripReasoning(raw)

	// A fully well-formed response (including a bare top-level array) parses
	// here without any span surgery.
	value, err := parseJSON(stripped)
	if err != nil {
		candidate := isolateJSONSpan(stripped)
		value, err = parseJSON(candidate)
		if err != nil {
			log.Warn().Err(err).Msg("initial JSON parse failed, attempting repair")
			value, err = parseJSON(Repair(candidate))
		}
		if err != nil {
			value, err = salvageQuestionsArray(candidate)
		}
	}
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	entries := normalizeShape(value)
	if len(entries) == 0 {
		return nil, &MalformedResponseError{Raw: raw, Err: ErrNoQuestions}
	}

	questions := make([]Question, 0, len(entries))
	for i, entry := range entries {
		q, ok := toQuestion(entry)
		if !ok {
			log.Warn().Int("index", i).Msg("dropping malformed question entry")
			continue
		}
		if q.ID == "" {
			q.ID = helper.QuestionID(i + 1)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// stripReasoning removes a reasoning preamble. A closed reasoning block is
// discarded wholesale; an unclosed one is cut at the first '{' that follows
// the opening delimiter.
func stripReasoning(text string) string {
	if idx := strings.Index(text, thinkClose); idx >= 0 {
		return strings.TrimSpace(text[idx+len(thinkClose):])
	}
	if idx := strings.Index(text, thinkOpen); idx >= 0 {
		if brace := strings.Index(text[idx:], "{"); brace >= 0 {
			return strings.TrimSpace(text[idx+brace:])
		}
	}
	return strings.TrimSpace(text)
}

// isolateJSONSpan slices text to the region between the first '{' and the
// last '}'. When no such span exists the text is returned untouched so the
// parse error reflects the full candidate.
func isolateJSONSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func parseJSON(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}
	return value, nil
}

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	adjacentBraceRe = regexp.MustCompile(`}\s*{`)
	adjacentArrayRe = regexp.MustCompile(`]\s*\[`)
	bareKeyRe       = regexp.MustCompile(`(\w+):`)
	questionsRe     = regexp.MustCompile(`(?s)"questions"\s*:\s*(\[.*?\])`)
)

// Repair applies the ordered best-effort text repairs. Each step is a pure
// transform; the composition is heuristic and makes no validity guarantee.
func Repair(text string) string {
	text = removeTrailingCommas(text)
	text = insertMissingCommas(text)
	text = quoteBareKeys(text)
	text = normalizeQuotes(text)
	return truncateAfterLastBrace(text)
}

func removeTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "${1}")
}

func insertMissingCommas(text string) string {
	text = adjacentBraceRe.ReplaceAllString(text, "},{")
	return adjacentArrayRe.ReplaceAllString(text, "],[")
}

// quoteBareKeys wraps unquoted object keys in double quotes. Keys already
// quoted are untouched because their closing quote sits between the word and
// the colon.
func quoteBareKeys(text string) string {
	return bareKeyRe.ReplaceAllString(text, `"${1}":`)
}

func normalizeQuotes(text string) string {
	return strings.ReplaceAll(text, "'", `"`)
}

func truncateAfterLastBrace(text string) string {
	if idx := strings.LastIndex(text, "}"); idx >= 0 {
		return text[:idx+1]
	}
	return text
}

// salvageQuestionsArray is the last resort: locate a "questions" array by
// pattern and parse it in isolation.
func salvageQuestionsArray(text string) (any, error) {
	m := questionsRe.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("no questions array found")
	}
	var arr []any
	if err := json.Unmarshal([]byte(m[1]), &arr); err != nil {
		return nil, fmt.Errorf("salvaged questions array: %w", err)
	}
	return map[string]any{"questions": arr}, nil
}

// Alternate keys probed when a parsed object has no "questions" key.
var alternateKeys = []string{"question", "items", "data"}

// normalizeShape resolves the duck-typed response payload once: a bare list
// is the questions list, an object is probed for "questions" then the
// alternate keys, and a singleton object under one of those keys becomes a
// one-element list. Anything else yields no entries.
func normalizeShape(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case map[string]any:
		if qs, ok := v["questions"].([]any); ok {
			return qs
		}
		for _, key := range alternateKeys {
			switch candidate := v[key].(type) {
			case []any:
				return candidate
			case map[string]any:
				return []any{candidate}
			}
		}
	}
	return nil
}

// toQuestion validates and converts one raw entry. The minimum contract is a
// type and non-empty question text; both "question" and "question_text" are
// accepted for the latter.
func toQuestion(entry any) (Question, bool) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return Question{}, false
	}

	q := Question{
		ID:            stringField(obj, "id"),
		Type:          stringField(obj, "type"),
		QuestionText:  stringField(obj, "question"),
		CorrectAnswer: obj["correct_answer"],
		Options:       obj["options"],
		Explanation:   stringField(obj, "explanation"),
		BloomLevel:    stringField(obj, "bloom_level"),
		Difficulty:    stringField(obj, "difficulty"),
		Topic:         stringField(obj, "topic"),
	}
	if q.QuestionText == "" {
		q.QuestionText = stringField(obj, "question_text")
	}

	if q.Type == "" || strings.TrimSpace(q.QuestionText) == "" {
		return Question{}, false
	}
	return q, true
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
