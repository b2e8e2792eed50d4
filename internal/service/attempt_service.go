package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/assessment"
	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/Ramandaygy/tutor-app/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Attempt service errors.
var (
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrNotAttemptOwner     = errors.New("attempt belongs to another student")
	ErrAttemptNotCompleted = errors.New("attempt is not completed yet")
)

// AttemptService orchestrates student attempts: it owns the in-memory engine
// sessions, mirrors every state change into Redis snapshots, and hands
// completed outcomes to the persistence workers.
type AttemptService struct {
	tryoutService *TryoutService
	authService   *AuthService
	tryoutRepo    *repository.TryoutRepository
	attemptRepo   *repository.AttemptRepository
	rdb           *redis.Client
	cfg           *config.Config
	log           zerolog.Logger

	mu   sync.Mutex
	live map[uuid.UUID]*liveAttempt
}

// liveAttempt bundles an engine session with the row and tryout it belongs
// to, so mutations never re-fetch identity data.
type liveAttempt struct {
	attempt *model.Attempt
	tryout  *model.Tryout
	session *assessment.Session
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	tryoutService *TryoutService,
	authService *AuthService,
	tryoutRepo *repository.TryoutRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		tryoutService: tryoutService,
		authService:   authService,
		tryoutRepo:    tryoutRepo,
		attemptRepo:   attemptRepo,
		rdb:           rdb,
		cfg:           cfg,
		log:           log.With().Str("component", "attempt_service").Logger(),
		live:          make(map[uuid.UUID]*liveAttempt),
	}
}

// AttemptState is the full resumable view of an attempt as seen by its
// student: position, answers so far, marks, locks and the running clock.
type AttemptState struct {
	AttemptID        uuid.UUID           `json:"attempt_id"`
	TryoutID         uuid.UUID           `json:"tryout_id"`
	Status           model.AttemptStatus `json:"status"`
	CurrentPosition  int                 `json:"current_position"`
	QuestionCount    int                 `json:"question_count"`
	Answers          map[int]string      `json:"answers"`
	Marked           []int               `json:"marked"`
	Locked           []int               `json:"locked"`
	Answered         int                 `json:"answered"`
	Unanswered       int                 `json:"unanswered"`
	RemainingSeconds *float64            `json:"remaining_seconds,omitempty"`
}

// FinishSummary is what the student sees right after completing an attempt.
type FinishSummary struct {
	AttemptID       uuid.UUID `json:"attempt_id"`
	Score           float64   `json:"score"`
	CorrectCount    int       `json:"correct_count"`
	ScorableCount   int       `json:"scorable_count"`
	UnansweredCount int       `json:"unanswered_count"`
	Message         string    `json:"message"`
	Emoji           string    `json:"emoji"`
}

// answerPayload is the persist_answers_queue wire format.
type answerPayload struct {
	AttemptID string `json:"attempt_id"`
	Position  int    `json:"position"`
	Value     string `json:"value"`
}

// resultPayload is the persist_results_queue wire format.
type resultPayload struct {
	AttemptID       string  `json:"attempt_id"`
	Score           float64 `json:"score"`
	CorrectCount    int     `json:"correct_count"`
	ScorableCount   int     `json:"scorable_count"`
	UnansweredCount int     `json:"unanswered_count"`
}

// ─────────────────────────────────────────────
// Starting and resuming
// ─────────────────────────────────────────────

// Start begins (or resumes) the student's attempt at a tryout. Each student
// gets exactly one attempt per tryout; calling Start again resumes it.
func (s *AttemptService) Start(ctx context.Context, studentID int, tryoutID uuid.UUID, accessCode string) (*model.Attempt, error) {
	tryout, err := s.tryoutRepo.GetByID(ctx, tryoutID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTryoutNotAvailable
		}
		return nil, fmt.Errorf("get tryout: %w", err)
	}

	if tryout.Status != model.TryoutStatusPublished {
		return nil, ErrTryoutNotAvailable
	}

	if tryout.HasAccessCode() {
		if err := s.authService.CheckAccessCode(tryout.AccessCodeHash, accessCode); err != nil {
			return nil, err
		}
	}

	// Resume path: the unique (tryout_id, student_id) constraint means any
	// existing row is this student's one attempt.
	existing, err := s.attemptRepo.GetByTryoutAndStudent(ctx, tryoutID, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing attempt: %w", err)
	}
	if existing != nil {
		_ = s.rdb.Set(ctx, config.CacheKey.AttemptStartKey(existing.ID.String()), existing.StartedAt.Unix(), 0)
		if _, err := s.ensureLive(ctx, existing, tryout); err != nil {
			return nil, err
		}
		return existing, nil
	}

	// Resolve the catalog before touching the database so a malformed
	// tryout never leaves a stray attempt row.
	catalog, err := s.tryoutService.LoadCatalog(ctx, tryoutID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		TryoutID:  tryoutID,
		StudentID: studentID,
		StartedAt: time.Now(),
		Status:    model.AttemptStatusInProgress,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a concurrent start race; the winner's row is ours.
			existing, fetchErr := s.attemptRepo.GetByTryoutAndStudent(ctx, tryoutID, studentID)
			if fetchErr != nil {
				return nil, fmt.Errorf("concurrent start detected, but fetch failed: %w", fetchErr)
			}
			if _, lErr := s.ensureLive(ctx, existing, tryout); lErr != nil {
				return nil, lErr
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	session, err := assessment.NewSession(catalog, tryout.EngineConfig())
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	la := &liveAttempt{attempt: attempt, tryout: tryout, session: session}
	s.mu.Lock()
	s.live[attempt.ID] = la
	s.mu.Unlock()

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.AttemptStartKey(attempt.ID.String()), attempt.StartedAt.Unix(), 0)
	pipe.Set(ctx, config.CacheKey.StudentActiveAttemptKey(studentID), attempt.ID.String(), s.cfg.SnapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Failed to cache start time")
	}
	s.persistSnapshot(ctx, la)

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("tryout_id", tryoutID.String()).
		Int("student_id", studentID).
		Msg("Attempt started")
	return attempt, nil
}

// ensureLive returns the attempt's live session, restoring it from the
// Redis snapshot (or rebuilding it from persisted answers) if this process
// has not seen the attempt yet.
func (s *AttemptService) ensureLive(ctx context.Context, attempt *model.Attempt, tryout *model.Tryout) (*liveAttempt, error) {
	s.mu.Lock()
	if la, ok := s.live[attempt.ID]; ok {
		s.mu.Unlock()
		return la, nil
	}
	s.mu.Unlock()

	catalog, err := s.tryoutService.LoadCatalog(ctx, tryout.ID)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, attempt)
	if err != nil {
		return nil, err
	}

	session, err := assessment.Restore(catalog, tryout.EngineConfig(), *snap)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	la := &liveAttempt{attempt: attempt, tryout: tryout, session: session}
	s.mu.Lock()
	// Another request may have restored concurrently; first one wins.
	if prior, ok := s.live[attempt.ID]; ok {
		la = prior
	} else {
		s.live[attempt.ID] = la
	}
	s.mu.Unlock()
	return la, nil
}

// loadSnapshot reads the attempt snapshot from Redis, falling back to the
// persisted answer log when the snapshot has expired.
func (s *AttemptService) loadSnapshot(ctx context.Context, attempt *model.Attempt) (*assessment.Snapshot, error) {
	key := config.CacheKey.AttemptSnapshotKey(attempt.ID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()

	if err == nil {
		var snap assessment.Snapshot
		if uErr := json.Unmarshal(data, &snap); uErr != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", uErr)
		}
		return &snap, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	// Snapshot evicted. The answer log in PostgreSQL is the durable copy;
	// navigation position and marks are lost, answers are not.
	answers, dbErr := s.attemptRepo.ListAnswers(ctx, attempt.ID)
	if dbErr != nil {
		return nil, fmt.Errorf("list persisted answers: %w", dbErr)
	}

	snap := &assessment.Snapshot{
		Answers:   make(map[int]string, len(answers)),
		Completed: attempt.Status == model.AttemptStatusCompleted,
	}
	for _, a := range answers {
		snap.Answers[a.Position] = a.Value
	}
	return snap, nil
}

// load resolves an attempt for the given student, enforcing ownership.
func (s *AttemptService) load(ctx context.Context, attemptID uuid.UUID, studentID int) (*liveAttempt, error) {
	s.mu.Lock()
	la, ok := s.live[attemptID]
	s.mu.Unlock()

	if !ok {
		attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrAttemptNotFound
			}
			return nil, fmt.Errorf("get attempt: %w", err)
		}
		tryout, err := s.tryoutRepo.GetByID(ctx, attempt.TryoutID)
		if err != nil {
			return nil, fmt.Errorf("get tryout: %w", err)
		}
		la, err = s.ensureLive(ctx, attempt, tryout)
		if err != nil {
			return nil, err
		}
	}

	if la.attempt.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	return la, nil
}

// ─────────────────────────────────────────────
// State and the clock
// ─────────────────────────────────────────────

// remaining returns seconds left on a timed attempt, or nil when untimed.
func (s *AttemptService) remaining(ctx context.Context, la *liveAttempt) *float64 {
	if la.tryout.DurationMinutes <= 0 {
		return nil
	}

	startUnix := la.attempt.StartedAt.Unix()
	if val, err := s.rdb.Get(ctx, config.CacheKey.AttemptStartKey(la.attempt.ID.String())).Result(); err == nil {
		if parsed, pErr := strconv.ParseInt(val, 10, 64); pErr == nil {
			startUnix = parsed
		}
	}

	endTime := time.Unix(startUnix, 0).Add(time.Duration(la.tryout.DurationMinutes) * time.Minute)
	left := time.Until(endTime).Seconds()
	if left < 0 {
		left = 0
	}
	return &left
}

// expireIfDue force-completes a timed attempt whose clock has run out.
// Every entry point calls this first, so a student who walks away from a
// timed tryout cannot keep mutating it past the deadline.
func (s *AttemptService) expireIfDue(ctx context.Context, la *liveAttempt) {
	if la.session.Completed() {
		return
	}
	left := s.remaining(ctx, la)
	if left == nil || *left > 0 {
		return
	}
	if err := la.session.Finish(); err != nil {
		return
	}
	s.log.Info().Str("attempt_id", la.attempt.ID.String()).Msg("Attempt expired, forcing completion")
	s.finalize(ctx, la)
}

// State returns the attempt's full resumable state.
func (s *AttemptService) State(ctx context.Context, attemptID uuid.UUID, studentID int) (*AttemptState, error) {
	la, err := s.load(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	s.expireIfDue(ctx, la)

	snap := la.session.Snapshot()
	progress := la.session.Progress()

	status := model.AttemptStatusInProgress
	if la.session.Completed() {
		status = model.AttemptStatusCompleted
	}

	return &AttemptState{
		AttemptID:        la.attempt.ID,
		TryoutID:         la.attempt.TryoutID,
		Status:           status,
		CurrentPosition:  snap.CurrentIndex,
		QuestionCount:    la.session.Len(),
		Answers:          snap.Answers,
		Marked:           snap.Marked,
		Locked:           snap.Locked,
		Answered:         progress.Answered,
		Unanswered:       progress.Unanswered,
		RemainingSeconds: s.remaining(ctx, la),
	}, nil
}

// Paper returns the student-facing question payload for the attempt.
func (s *AttemptService) Paper(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.TryoutPaper, error) {
	la, err := s.load(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	return s.tryoutService.GetPaper(ctx, la.tryout.ID)
}

// ─────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────

// mutate runs an engine operation, then snapshots. When the operation ends
// the session (auto-finish on last-question Next, or an explicit Finish),
// the outcome is handed to the result worker exactly once.
func (s *AttemptService) mutate(ctx context.Context, attemptID uuid.UUID, studentID int, op func(*assessment.Session) error) (*liveAttempt, error) {
	la, err := s.load(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	s.expireIfDue(ctx, la)

	wasCompleted := la.session.Completed()
	if err := op(la.session); err != nil {
		return nil, err
	}

	if !wasCompleted && la.session.Completed() {
		s.finalize(ctx, la)
	} else {
		s.persistSnapshot(ctx, la)
	}
	return la, nil
}

// GoTo jumps the attempt to an arbitrary question position.
func (s *AttemptService) GoTo(ctx context.Context, attemptID uuid.UUID, studentID, pos int) error {
	_, err := s.mutate(ctx, attemptID, studentID, func(sess *assessment.Session) error {
		return sess.GoTo(pos)
	})
	return err
}

// Next advances to the following question. On auto-completing tryouts,
// stepping past the last question finishes the attempt.
func (s *AttemptService) Next(ctx context.Context, attemptID uuid.UUID, studentID int) error {
	_, err := s.mutate(ctx, attemptID, studentID, func(sess *assessment.Session) error {
		return sess.Next()
	})
	return err
}

// Prev steps back to the preceding question.
func (s *AttemptService) Prev(ctx context.Context, attemptID uuid.UUID, studentID int) error {
	_, err := s.mutate(ctx, attemptID, studentID, func(sess *assessment.Session) error {
		return sess.Prev()
	})
	return err
}

// ToggleMark flips the review flag on a question.
func (s *AttemptService) ToggleMark(ctx context.Context, attemptID uuid.UUID, studentID, pos int) error {
	_, err := s.mutate(ctx, attemptID, studentID, func(sess *assessment.Session) error {
		return sess.ToggleMark(pos)
	})
	return err
}

// SubmitAnswer records an answer and queues it for durable persistence.
// A locked question swallows the write without error, matching what the
// student sees: the control is simply disabled.
func (s *AttemptService) SubmitAnswer(ctx context.Context, attemptID uuid.UUID, studentID, pos int, value string) error {
	la, err := s.mutate(ctx, attemptID, studentID, func(sess *assessment.Session) error {
		return sess.SubmitAnswer(pos, value)
	})
	if err != nil {
		return err
	}

	// Queue whatever the engine actually holds, not the raw input: a
	// locked question keeps its first answer.
	stored, answered, aErr := la.session.Answer(pos)
	if aErr != nil || !answered {
		return nil
	}
	raw, _ := json.Marshal(answerPayload{
		AttemptID: attemptID.String(),
		Position:  pos,
		Value:     stored,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Failed to queue answer")
	}
	return nil
}

// Finish explicitly completes the attempt and returns its summary.
func (s *AttemptService) Finish(ctx context.Context, attemptID uuid.UUID, studentID int) (*FinishSummary, error) {
	la, err := s.mutate(ctx, attemptID, studentID, func(sess *assessment.Session) error {
		return sess.Finish()
	})
	if err != nil {
		return nil, err
	}
	return s.summary(la), nil
}

// finalize hands a freshly completed session's outcome to the result worker
// and refreshes the snapshot so review survives a restart window.
func (s *AttemptService) finalize(ctx context.Context, la *liveAttempt) {
	result := la.session.Score()

	raw, _ := json.Marshal(resultPayload{
		AttemptID:       la.attempt.ID.String(),
		Score:           result.Percentage,
		CorrectCount:    result.CorrectCount,
		ScorableCount:   result.ScorableCount,
		UnansweredCount: result.UnansweredCount,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", la.attempt.ID.String()).Msg("Failed to queue result")
	}
	s.persistSnapshot(ctx, la)
	_ = s.rdb.Del(ctx, config.CacheKey.StudentActiveAttemptKey(la.attempt.StudentID))

	// Keep the in-memory row honest for requests served before the worker
	// lands the update.
	now := time.Now()
	la.attempt.Status = model.AttemptStatusCompleted
	la.attempt.FinishedAt = &now
	la.attempt.FinalScore = &result.Percentage
	la.attempt.CorrectCount = &result.CorrectCount
	la.attempt.ScorableCount = &result.ScorableCount
	la.attempt.UnansweredCount = &result.UnansweredCount

	s.log.Info().
		Str("attempt_id", la.attempt.ID.String()).
		Float64("score", result.Percentage).
		Int("correct", result.CorrectCount).
		Msg("Attempt completed")
}

func (s *AttemptService) summary(la *liveAttempt) *FinishSummary {
	result := la.session.Score()
	message, emoji := scoreMessage(result.Percentage)
	return &FinishSummary{
		AttemptID:       la.attempt.ID,
		Score:           result.Percentage,
		CorrectCount:    result.CorrectCount,
		ScorableCount:   result.ScorableCount,
		UnansweredCount: result.UnansweredCount,
		Message:         message,
		Emoji:           emoji,
	}
}

// scoreMessage maps a final score to the portal's encouragement tiers.
func scoreMessage(score float64) (string, string) {
	switch {
	case score >= 90:
		return "Luar biasa! Kamu jenius!", "🏆"
	case score >= 80:
		return "Hebat! Kamu pintar sekali!", "⭐"
	case score >= 70:
		return "Bagus! Terus belajar ya!", "👍"
	case score >= 60:
		return "Lumayan! Ayo tingkatkan lagi!", "📈"
	default:
		return "Jangan menyerah! Terus berlatih!", "🔥"
	}
}

// ─────────────────────────────────────────────
// Outcome views
// ─────────────────────────────────────────────

// Result returns the summary of a completed attempt.
func (s *AttemptService) Result(ctx context.Context, attemptID uuid.UUID, studentID int) (*FinishSummary, error) {
	la, err := s.load(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	s.expireIfDue(ctx, la)

	if !la.session.Completed() {
		return nil, ErrAttemptNotCompleted
	}
	return s.summary(la), nil
}

// Review returns the per-question verdicts of a completed attempt.
func (s *AttemptService) Review(ctx context.Context, attemptID uuid.UUID, studentID int) ([]assessment.Verdict, error) {
	la, err := s.load(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	s.expireIfDue(ctx, la)

	if !la.session.Completed() {
		return nil, ErrAttemptNotCompleted
	}
	return la.session.Review(), nil
}

// ActiveAttempt returns the student's in-progress attempt, if any. Backs
// the portal's "continue where you left off" banner.
func (s *AttemptService) ActiveAttempt(ctx context.Context, studentID int) (*model.Attempt, error) {
	key := config.CacheKey.StudentActiveAttemptKey(studentID)
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active attempt: %w", err)
	}

	attemptID, err := uuid.Parse(val)
	if err != nil {
		_ = s.rdb.Del(ctx, key)
		return nil, ErrAttemptNotFound
	}

	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = s.rdb.Del(ctx, key)
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.Status == model.AttemptStatusCompleted {
		_ = s.rdb.Del(ctx, key)
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// ListByStudent returns the student's attempt history.
func (s *AttemptService) ListByStudent(ctx context.Context, studentID int) ([]model.Attempt, error) {
	return s.attemptRepo.ListByStudent(ctx, studentID)
}

// persistSnapshot mirrors the session into Redis with a bounded TTL.
func (s *AttemptService) persistSnapshot(ctx context.Context, la *liveAttempt) {
	raw, err := json.Marshal(la.session.Snapshot())
	if err != nil {
		s.log.Error().Err(err).Str("attempt_id", la.attempt.ID.String()).Msg("Failed to marshal snapshot")
		return
	}
	key := config.CacheKey.AttemptSnapshotKey(la.attempt.ID.String())
	if err := s.rdb.Set(ctx, key, raw, s.cfg.SnapshotTTL).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", la.attempt.ID.String()).Msg("Failed to persist snapshot")
	}
}
