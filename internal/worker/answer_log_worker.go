package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnswerLogWorker consumes persist_answers_queue and UPSERTs the answer log
// to PostgreSQL. The log is the durable copy of a student's answers; the
// attempt snapshot in Redis is only a fast-path cache on top of it.
type AnswerLogWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAnswerLogWorker creates a new AnswerLogWorker.
func NewAnswerLogWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *AnswerLogWorker {
	return &AnswerLogWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "answer_log_worker").Logger(),
	}
}

type answerPayload struct {
	AttemptID string `json:"attempt_id"`
	Position  int    `json:"position"`
	Value     string `json:"value"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AnswerLogWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AnswerLogWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistAnswersQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload answerPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistAnswer(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Str("attempt_id", payload.AttemptID).
			Int("position", payload.Position).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *AnswerLogWorker) persistAnswer(ctx context.Context, p *answerPayload) error {
	attemptID, err := uuid.Parse(p.AttemptID)
	if err != nil {
		return err
	}

	// UPSERT keeps the log at the latest value per position without locking.
	_, err = w.pool.Exec(ctx,
		`INSERT INTO attempt_answers (attempt_id, position, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (attempt_id, position) DO UPDATE
		 SET value = EXCLUDED.value, updated_at = NOW()`,
		attemptID, p.Position, p.Value,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *AnswerLogWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAnswersQueue).Result()
		if err != nil {
			break
		}

		var payload answerPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistAnswer(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
