package repository

import (
	"context"

	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles tryout question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByTryout retrieves all questions of a tryout in display order.
func (r *QuestionRepository) ListByTryout(ctx context.Context, tryoutID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tryout_id, COALESCE(question_type, ''), prompt, COALESCE(image_url, ''),
		        options, COALESCE(answer, ''), COALESCE(answer_guide, ''), order_num
		 FROM questions
		 WHERE tryout_id = $1
		 ORDER BY order_num ASC`, tryoutID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(
			&q.ID, &q.TryoutID, &q.QuestionType, &q.Prompt, &q.ImageURL,
			&q.Options, &q.Answer, &q.AnswerGuide, &q.OrderNum,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateBatch inserts a set of questions for a tryout in one transaction.
func (r *QuestionRepository) CreateBatch(ctx context.Context, tryoutID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range questions {
		q := &questions[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO questions
				(tryout_id, question_type, prompt, image_url, options, answer, answer_guide, order_num)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), $8)
			 RETURNING id`,
			tryoutID, q.QuestionType, q.Prompt, q.ImageURL, q.Options, q.Answer, q.AnswerGuide, q.OrderNum,
		).Scan(&q.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
