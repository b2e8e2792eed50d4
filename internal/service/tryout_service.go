package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ramandaygy/tutor-app/internal/assessment"
	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/Ramandaygy/tutor-app/internal/repository"
	"github.com/Ramandaygy/tutor-app/internal/response"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Tryout service errors.
var (
	ErrTryoutNotAvailable = errors.New("tryout is not available")
	ErrNoQuestions        = errors.New("tryout has no questions")
)

// TryoutService handles tryout catalog lookup, catalog resolution into the
// engine's closed question variants, and student-paper caching.
type TryoutService struct {
	tryoutRepo   *repository.TryoutRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewTryoutService creates a new TryoutService.
func NewTryoutService(
	tryoutRepo *repository.TryoutRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *TryoutService {
	return &TryoutService{
		tryoutRepo:   tryoutRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "tryout_service").Logger(),
	}
}

// GetByID retrieves a single tryout.
func (s *TryoutService) GetByID(ctx context.Context, id uuid.UUID) (*model.Tryout, error) {
	return s.tryoutRepo.GetByID(ctx, id)
}

// ListPublished returns published tryouts for the portal, paginated.
func (s *TryoutService) ListPublished(ctx context.Context, page, perPage int, category string) ([]model.Tryout, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	tryouts, total, err := s.tryoutRepo.ListPublished(ctx, page, perPage, category)
	if err != nil {
		return nil, nil, fmt.Errorf("list tryouts: %w", err)
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	return tryouts, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	}, nil
}

// LoadCatalog fetches a tryout's stored question records and resolves them
// into the engine catalog. Resolution happens here, once per load; anything
// malformed surfaces as assessment.ErrInvalidCatalog before any session
// state exists.
func (s *TryoutService) LoadCatalog(ctx context.Context, tryoutID uuid.UUID) ([]assessment.Question, error) {
	records, err := s.questionRepo.ListByTryout(ctx, tryoutID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoQuestions
	}

	raw := make([]assessment.RawQuestion, len(records))
	for i := range records {
		raw[i] = records[i].Raw()
	}

	catalog, err := assessment.ResolveCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog for tryout %s: %w", tryoutID, err)
	}
	return catalog, nil
}

// buildPaper assembles the student-facing payload from a resolved catalog:
// prompts and lettered options only, never canonical or model answers.
func buildPaper(tryout *model.Tryout, catalog []assessment.Question) *model.TryoutPaper {
	questions := make([]model.PaperQuestion, len(catalog))
	for i, q := range catalog {
		pq := model.PaperQuestion{
			Position: i,
			Kind:     q.Kind,
			Prompt:   q.Prompt,
			ImageURL: q.ImageURL,
		}
		for j, opt := range q.Options {
			pq.Options = append(pq.Options, model.PaperOption{
				Letter: assessment.OptionLetter(j),
				Text:   opt,
			})
		}
		questions[i] = pq
	}

	return &model.TryoutPaper{
		TryoutID:        tryout.ID,
		Title:           tryout.Title,
		DurationMinutes: tryout.DurationMinutes,
		Questions:       questions,
	}
}

// WarmPaperCache loads a tryout's paper from PostgreSQL into Redis.
func (s *TryoutService) WarmPaperCache(ctx context.Context, tryout *model.Tryout) error {
	catalog, err := s.LoadCatalog(ctx, tryout.ID)
	if err != nil {
		return err
	}

	paperJSON, err := json.Marshal(buildPaper(tryout, catalog))
	if err != nil {
		return fmt.Errorf("marshal paper: %w", err)
	}

	key := config.CacheKey.TryoutPaperKey(tryout.ID.String())
	if err := s.rdb.Set(ctx, key, paperJSON, 0).Err(); err != nil {
		return fmt.Errorf("cache paper: %w", err)
	}

	s.log.Debug().
		Str("tryout_id", tryout.ID.String()).
		Int("questions", len(catalog)).
		Msg("Paper cache warmed")
	return nil
}

// PrewarmAllPapers loads every published tryout's paper into Redis on
// startup, so the first student request never pays the resolution cost.
func (s *TryoutService) PrewarmAllPapers(ctx context.Context) error {
	page := 1
	warmed := 0
	for {
		tryouts, _, err := s.tryoutRepo.ListPublished(ctx, page, 100, "")
		if err != nil {
			return fmt.Errorf("list published tryouts: %w", err)
		}
		if len(tryouts) == 0 {
			break
		}
		for i := range tryouts {
			if err := s.WarmPaperCache(ctx, &tryouts[i]); err != nil {
				s.log.Warn().
					Err(err).
					Str("tryout_id", tryouts[i].ID.String()).
					Msg("Failed to warm paper, skipping")
				continue
			}
			warmed++
		}
		page++
	}

	s.log.Info().Int("warmed", warmed).Msg("Paper prewarming complete")
	return nil
}

// GetPaper retrieves the cached student paper, falling back to PostgreSQL
// (and re-caching) when Redis does not have it.
func (s *TryoutService) GetPaper(ctx context.Context, tryoutID uuid.UUID) (*model.TryoutPaper, error) {
	key := config.CacheKey.TryoutPaperKey(tryoutID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		// Cache miss: rebuild from the source of truth and self-heal.
		tryout, dbErr := s.tryoutRepo.GetByID(ctx, tryoutID)
		if dbErr != nil {
			return nil, fmt.Errorf("get tryout: %w", dbErr)
		}
		catalog, dbErr := s.LoadCatalog(ctx, tryoutID)
		if dbErr != nil {
			return nil, dbErr
		}
		paper := buildPaper(tryout, catalog)

		if raw, mErr := json.Marshal(paper); mErr == nil {
			_ = s.rdb.Set(ctx, key, raw, 0)
		}
		return paper, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}

	var paper model.TryoutPaper
	if err := json.Unmarshal(data, &paper); err != nil {
		return nil, fmt.Errorf("unmarshal paper: %w", err)
	}
	return &paper, nil
}
