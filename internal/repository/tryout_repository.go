package repository

import (
	"context"

	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TryoutRepository handles tryout data access.
type TryoutRepository struct {
	pool *pgxpool.Pool
}

// NewTryoutRepository creates a new TryoutRepository.
func NewTryoutRepository(pool *pgxpool.Pool) *TryoutRepository {
	return &TryoutRepository{pool: pool}
}

const tryoutColumns = `id, title, category, status, duration_minutes, question_count,
	answer_policy, completion_trigger, lock_essays, COALESCE(access_code_hash, ''),
	created_at, updated_at`

// GetByID retrieves a single tryout.
func (r *TryoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tryout, error) {
	t := &model.Tryout{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+tryoutColumns+` FROM tryouts WHERE id = $1`, id,
	).Scan(
		&t.ID, &t.Title, &t.Category, &t.Status, &t.DurationMinutes, &t.QuestionCount,
		&t.AnswerPolicy, &t.CompletionTrigger, &t.LockEssays, &t.AccessCodeHash,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListPublished retrieves published tryouts with pagination, optionally
// filtered by category.
func (r *TryoutRepository) ListPublished(ctx context.Context, page, perPage int, category string) ([]model.Tryout, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := ` FROM tryouts WHERE status = 'PUBLISHED'`
	args := []any{}
	if category != "" {
		args = append(args, category)
		baseQuery += ` AND category = $1`
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tryoutColumns + baseQuery + ` ORDER BY created_at DESC`
	switch len(args) {
	case 0:
		query += ` LIMIT $1 OFFSET $2`
	case 1:
		query += ` LIMIT $2 OFFSET $3`
	}
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tryouts []model.Tryout
	for rows.Next() {
		var t model.Tryout
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Category, &t.Status, &t.DurationMinutes, &t.QuestionCount,
			&t.AnswerPolicy, &t.CompletionTrigger, &t.LockEssays, &t.AccessCodeHash,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		tryouts = append(tryouts, t)
	}
	return tryouts, total, rows.Err()
}

// Create inserts a new tryout. Used by seeders and catalog import tools.
func (r *TryoutRepository) Create(ctx context.Context, t *model.Tryout) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tryouts
			(title, category, status, duration_minutes, question_count,
			 answer_policy, completion_trigger, lock_essays, access_code_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Category, t.Status, t.DurationMinutes, t.QuestionCount,
		t.AnswerPolicy, t.CompletionTrigger, t.LockEssays, t.AccessCodeHash,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// UpdateQuestionCount refreshes the cached question counter after a bulk
// question import.
func (r *TryoutRepository) UpdateQuestionCount(ctx context.Context, tryoutID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tryouts
		 SET question_count = (SELECT COUNT(*) FROM questions WHERE tryout_id = $1),
		     updated_at = NOW()
		 WHERE id = $1`, tryoutID)
	return err
}
