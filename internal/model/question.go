package model

import (
	"github.com/Ramandaygy/tutor-app/internal/assessment"
	"github.com/google/uuid"
)

// Question is a stored tryout question record. QuestionType is the loose
// historical string (aliases included); it is resolved into the engine's
// closed variant set exactly once, when an attempt's catalog is built.
type Question struct {
	ID           uuid.UUID `json:"id"`
	TryoutID     uuid.UUID `json:"tryout_id"`
	QuestionType string    `json:"question_type"`
	Prompt       string    `json:"prompt"`
	ImageURL     string    `json:"image_url,omitempty"`
	Options      []string  `json:"options,omitempty"`
	Answer       string    `json:"answer,omitempty"`       // canonical option text (multiple choice)
	AnswerGuide  string    `json:"answer_guide,omitempty"` // model answer (essay)
	OrderNum     int       `json:"order_num"`
}

// Raw converts the stored record into the engine's loose input form.
func (q *Question) Raw() assessment.RawQuestion {
	return assessment.RawQuestion{
		ID:          q.ID.String(),
		Type:        q.QuestionType,
		Prompt:      q.Prompt,
		ImageURL:    q.ImageURL,
		Options:     q.Options,
		Answer:      q.Answer,
		AnswerGuide: q.AnswerGuide,
	}
}

// PaperQuestion is a question as delivered to a student taking the tryout:
// no canonical answer, no model answer, options pre-lettered for display.
type PaperQuestion struct {
	Position int                     `json:"position"`
	Kind     assessment.QuestionKind `json:"kind"`
	Prompt   string                  `json:"prompt"`
	ImageURL string                  `json:"image_url,omitempty"`
	Options  []PaperOption           `json:"options,omitempty"`
}

// PaperOption pairs an option's display letter with its text.
type PaperOption struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// TryoutPaper is the student-facing payload for a whole tryout.
type TryoutPaper struct {
	TryoutID        uuid.UUID       `json:"tryout_id"`
	Title           string          `json:"title"`
	DurationMinutes int             `json:"duration_minutes"`
	Questions       []PaperQuestion `json:"questions"`
}
