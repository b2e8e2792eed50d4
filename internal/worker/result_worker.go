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

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker consumes persist_results_queue and lands final attempt
// outcomes in PostgreSQL in bulk.
type ResultWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewResultWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "result_worker").Logger(),
	}
}

type resultPayload struct {
	AttemptID       string  `json:"attempt_id"`
	Score           float64 `json:"score"`
	CorrectCount    int     `json:"correct_count"`
	ScorableCount   int     `json:"scorable_count"`
	UnansweredCount int     `json:"unanswered_count"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*resultPayload, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p resultPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch Update Wrapper
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*resultPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpdateResults(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk result update failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL UPDATE using UNNEST + alias
// ----------------------------------------------------------------

func (w *ResultWorker) bulkUpdateResults(ctx context.Context, batch []*resultPayload) error {
	n := len(batch)

	attemptIDs := make([]uuid.UUID, 0, n)
	scores := make([]float64, 0, n)
	corrects := make([]int, 0, n)
	scorables := make([]int, 0, n)
	unanswereds := make([]int, 0, n)
	finishedAts := make([]time.Time, n)

	now := time.Now()
	for i, p := range batch {
		aID, err := uuid.Parse(p.AttemptID)
		if err != nil {
			return err
		}
		attemptIDs = append(attemptIDs, aID)
		scores = append(scores, p.Score)
		corrects = append(corrects, p.CorrectCount)
		scorables = append(scorables, p.ScorableCount)
		unanswereds = append(unanswereds, p.UnansweredCount)
		finishedAts[i] = now
	}

	query := `
		UPDATE attempts AS a
		SET status = 'COMPLETED',
		    final_score = t.score,
		    correct_count = t.correct_count,
		    scorable_count = t.scorable_count,
		    unanswered_count = t.unanswered_count,
		    finished_at = t.finished_at
		FROM (
			SELECT
				u.id,
				u.score,
				u.correct_count,
				u.scorable_count,
				u.unanswered_count,
				u.finished_at
			FROM UNNEST(
				$1::uuid[],
				$2::float8[],
				$3::int[],
				$4::int[],
				$5::int[],
				$6::timestamptz[]
			) AS u (id, score, correct_count, scorable_count, unanswered_count, finished_at)
		) AS t
		WHERE a.id = t.id
	`

	_, err := w.pool.Exec(ctx, query, attemptIDs, scores, corrects, scorables, unanswereds, finishedAts)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single update
// ----------------------------------------------------------------

func (w *ResultWorker) persistSingle(ctx context.Context, p *resultPayload) error {
	aID, err := uuid.Parse(p.AttemptID)
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = 'COMPLETED',
		     final_score = $1,
		     correct_count = $2,
		     scorable_count = $3,
		     unanswered_count = $4,
		     finished_at = NOW()
		 WHERE id = $5`,
		p.Score, p.CorrectCount, p.ScorableCount, p.UnansweredCount, aID,
	)

	return err
}
