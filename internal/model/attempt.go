package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt states.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusCompleted  AttemptStatus = "COMPLETED"
)

// Attempt represents a student's attempt at a tryout. The live mutable
// session state belongs to the assessment engine; this row only carries
// identity, timing and the persisted outcome.
type Attempt struct {
	ID              uuid.UUID     `json:"id"`
	TryoutID        uuid.UUID     `json:"tryout_id"`
	StudentID       int           `json:"student_id"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
	Status          AttemptStatus `json:"status"`
	FinalScore      *float64      `json:"final_score,omitempty"`
	CorrectCount    *int          `json:"correct_count,omitempty"`
	ScorableCount   *int          `json:"scorable_count,omitempty"`
	UnansweredCount *int          `json:"unanswered_count,omitempty"`
}

// AttemptAnswer is one row of the durable answer log. The worker UPSERTs
// these as answers stream in; they back session recovery when the Redis
// snapshot is gone.
type AttemptAnswer struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Position  int       `json:"position"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitAnswerRequest is the payload for answering a question.
type SubmitAnswerRequest struct {
	Position int    `json:"position" binding:"min=0"`
	Value    string `json:"value" binding:"max=10000"`
}

// PositionRequest is the payload for jump navigation and mark toggling.
type PositionRequest struct {
	Position int `json:"position" binding:"min=0"`
}
