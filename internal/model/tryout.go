package model

import (
	"time"

	"github.com/Ramandaygy/tutor-app/internal/assessment"
	"github.com/google/uuid"
)

// TryoutStatus enumerates the publication states of a tryout.
type TryoutStatus string

const (
	TryoutStatusDraft     TryoutStatus = "DRAFT"
	TryoutStatusPublished TryoutStatus = "PUBLISHED"
	TryoutStatusArchived  TryoutStatus = "ARCHIVED"
)

// Tryout is a published set of ordered questions together with the session
// configuration an attempt over it runs under. The engine configuration is
// stored per tryout, not derived at each call site.
type Tryout struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Category        string       `json:"category"`
	Status          TryoutStatus `json:"status"`
	DurationMinutes int          `json:"duration_minutes"` // 0 = untimed
	QuestionCount   int          `json:"question_count"`

	// Session engine configuration, fixed per tryout.
	AnswerPolicy      assessment.AnswerPolicy      `json:"answer_policy"`
	CompletionTrigger assessment.CompletionTrigger `json:"completion_trigger"`
	LockEssays        bool                         `json:"lock_essays"`

	// AccessCodeHash is a bcrypt hash; empty means the tryout is open.
	// Never serialized to clients.
	AccessCodeHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAccessCode reports whether starting an attempt requires an access code.
func (t *Tryout) HasAccessCode() bool {
	return t.AccessCodeHash != ""
}

// EngineConfig assembles the assessment engine configuration for this tryout.
func (t *Tryout) EngineConfig() assessment.Config {
	return assessment.Config{
		Policy:     t.AnswerPolicy,
		Completion: t.CompletionTrigger,
		LockEssays: t.LockEssays,
	}
}

// StartAttemptRequest is the payload for starting (or resuming) an attempt.
type StartAttemptRequest struct {
	AccessCode string `json:"access_code" binding:"omitempty,min=4,max=20"`
}
