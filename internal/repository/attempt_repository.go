package repository

import (
	"context"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, tryout_id, student_id, started_at, finished_at, status,
	final_score, correct_count, scorable_count, unanswered_count`

func scanAttempt(row interface{ Scan(...any) error }) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := row.Scan(
		&a.ID, &a.TryoutID, &a.StudentID, &a.StartedAt, &a.FinishedAt, &a.Status,
		&a.FinalScore, &a.CorrectCount, &a.ScorableCount, &a.UnansweredCount,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an attempt by its ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// GetByTryoutAndStudent retrieves the attempt for a tryout-student pair.
// One attempt per pair; starting is idempotent.
func (r *AttemptRepository) GetByTryoutAndStudent(ctx context.Context, tryoutID uuid.UUID, studentID int) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE tryout_id = $1 AND student_id = $2`,
		tryoutID, studentID))
}

// Create inserts a new attempt (student starts the tryout). The unique
// constraint on (tryout_id, student_id) makes concurrent starts collapse
// into one row; the loser of the race gets pgx.ErrNoRows back.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (tryout_id, student_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tryout_id, student_id) DO NOTHING
		 RETURNING id, started_at`,
		a.TryoutID, a.StudentID, model.AttemptStatusInProgress,
	).Scan(&a.ID, &a.StartedAt)
}

// Complete marks an attempt as completed with its final result. The result
// worker normally does this in bulk; this single-row path backs the
// synchronous fallback.
func (r *AttemptRepository) Complete(ctx context.Context, id uuid.UUID, score float64, correct, scorable, unanswered int) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, final_score = $2, correct_count = $3,
		     scorable_count = $4, unanswered_count = $5, finished_at = $6
		 WHERE id = $7`,
		model.AttemptStatusCompleted, score, correct, scorable, unanswered, now, id)
	return err
}

// ListAnswers retrieves the persisted answer log of an attempt, ordered by
// question position.
func (r *AttemptRepository) ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attempt_id, position, value, updated_at
		 FROM attempt_answers
		 WHERE attempt_id = $1
		 ORDER BY position`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AttemptAnswer
	for rows.Next() {
		var a model.AttemptAnswer
		if err := rows.Scan(&a.AttemptID, &a.Position, &a.Value, &a.UpdatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListByStudent retrieves all attempts of a student, newest first.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE student_id = $1
		 ORDER BY started_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}
