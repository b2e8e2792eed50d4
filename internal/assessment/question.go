package assessment

import (
	"fmt"
	"strings"
)

// QuestionKind is the closed variant tag for question types.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "MULTIPLE_CHOICE"
	KindEssay          QuestionKind = "ESSAY"
)

// Question is an immutable catalog entry for one session. MultipleChoice
// questions carry Options and CorrectOption; Essay questions carry
// ModelAnswer. The slice order of Options is display order: letters are
// assigned A, B, C, ... by position.
type Question struct {
	ID            string       `json:"id"`
	Kind          QuestionKind `json:"kind"`
	Prompt        string       `json:"prompt"`
	ImageURL      string       `json:"image_url,omitempty"`
	Options       []string     `json:"options,omitempty"`
	CorrectOption string       `json:"correct_option,omitempty"`
	ModelAnswer   string       `json:"model_answer,omitempty"`
}

// RawQuestion is a loosely-typed question record as delivered by a catalog
// source. Type is a free string with historical aliases; resolution into the
// closed QuestionKind happens exactly once, in ResolveCatalog.
type RawQuestion struct {
	ID          string
	Type        string
	Prompt      string
	ImageURL    string
	Options     []string
	Answer      string // canonical correct answer text (multiple choice)
	AnswerGuide string // model answer guidance (essay)
}

// resolveKind maps the loose type string onto the closed variant set.
// Legacy records sometimes lack a type entirely; those are inferred from the
// presence of options, matching how the old catalog source backfilled them.
func resolveKind(raw RawQuestion) (QuestionKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "multiple_choice", "pg", "pilgan":
		return KindMultipleChoice, nil
	case "essay":
		return KindEssay, nil
	case "":
		if len(raw.Options) > 0 {
			return KindMultipleChoice, nil
		}
		return KindEssay, nil
	default:
		return "", fmt.Errorf("%w: unrecognized question kind %q", ErrInvalidCatalog, raw.Type)
	}
}

// ResolveCatalog validates a raw question set and resolves it into the
// ordered, immutable catalog a session is built from. Any malformed record
// fails the whole catalog with ErrInvalidCatalog: sessions never start on
// partially valid question sets.
func ResolveCatalog(records []RawQuestion) ([]Question, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty question set", ErrInvalidCatalog)
	}

	questions := make([]Question, 0, len(records))
	for i, raw := range records {
		kind, err := resolveKind(raw)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}

		if strings.TrimSpace(raw.Prompt) == "" {
			return nil, fmt.Errorf("%w: question %d has no prompt", ErrInvalidCatalog, i)
		}

		q := Question{
			ID:       raw.ID,
			Kind:     kind,
			Prompt:   raw.Prompt,
			ImageURL: raw.ImageURL,
		}

		switch kind {
		case KindMultipleChoice:
			if len(raw.Options) < 2 {
				return nil, fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidCatalog, i)
			}
			if !containsOption(raw.Options, raw.Answer) {
				return nil, fmt.Errorf("%w: question %d correct answer not among options", ErrInvalidCatalog, i)
			}
			q.Options = append([]string(nil), raw.Options...)
			q.CorrectOption = raw.Answer
		case KindEssay:
			q.ModelAnswer = raw.AnswerGuide
		}

		questions = append(questions, q)
	}

	return questions, nil
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

// OptionLetter returns the display letter for an option position (A, B, C, ...).
func OptionLetter(pos int) string {
	if pos < 0 || pos >= 26 {
		return ""
	}
	return string(rune('A' + pos))
}

// letterIndex resolves a submitted option letter back to its position.
// Returns -1 for anything that is not a single letter within range.
func letterIndex(letter string, optionCount int) int {
	if len(letter) != 1 {
		return -1
	}
	c := letter[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return -1
	}
	idx := int(c - 'A')
	if idx >= optionCount {
		return -1
	}
	return idx
}
