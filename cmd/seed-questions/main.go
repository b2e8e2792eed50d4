package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Ramandaygy/tutor-app/internal/assessment"
	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/database"
	"github.com/Ramandaygy/tutor-app/internal/logger"
	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/Ramandaygy/tutor-app/internal/repository"
	"github.com/Ramandaygy/tutor-app/internal/service"
)

// seedFile is the JSON import format: one tryout with its ordered questions.
type seedFile struct {
	Title             string  `json:"title"`
	Category          string  `json:"category"`
	Status            string  `json:"status"`
	DurationMinutes   int     `json:"duration_minutes"`
	AnswerPolicy      string  `json:"answer_policy"`
	CompletionTrigger string  `json:"completion_trigger"`
	LockEssays        bool    `json:"lock_essays"`
	AccessCode        string  `json:"access_code"`
	Questions         []struct {
		Type        string   `json:"type"`
		Prompt      string   `json:"prompt"`
		ImageURL    string   `json:"image_url"`
		Options     []string `json:"options"`
		Answer      string   `json:"answer"`
		AnswerGuide string   `json:"answer_guide"`
	} `json:"questions"`
}

func main() {
	var path string
	flag.StringVar(&path, "file", "", "Path to the tryout seed JSON file")
	flag.Parse()

	if path == "" {
		fmt.Println("Usage: seed-questions -file <tryout.json>")
		os.Exit(1)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatal().Err(err).Msg("Invalid seed JSON")
	}

	// Validate the catalog up front so a broken file never hits the DB.
	raw := make([]assessment.RawQuestion, len(seed.Questions))
	for i, q := range seed.Questions {
		raw[i] = assessment.RawQuestion{
			Type:        q.Type,
			Prompt:      q.Prompt,
			ImageURL:    q.ImageURL,
			Options:     q.Options,
			Answer:      q.Answer,
			AnswerGuide: q.AnswerGuide,
		}
	}
	if _, err := assessment.ResolveCatalog(raw); err != nil {
		log.Fatal().Err(err).Msg("Seed file fails catalog validation")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	tryoutRepo := repository.NewTryoutRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	authService := service.NewAuthService(cfg)

	status := model.TryoutStatus(seed.Status)
	if status == "" {
		status = model.TryoutStatusDraft
	}
	policy := assessment.AnswerPolicy(seed.AnswerPolicy)
	if policy == "" {
		policy = assessment.PolicyMutable
	}
	trigger := assessment.CompletionTrigger(seed.CompletionTrigger)
	if trigger == "" {
		trigger = assessment.CompletionManual
	}

	tryout := &model.Tryout{
		Title:             seed.Title,
		Category:          seed.Category,
		Status:            status,
		DurationMinutes:   seed.DurationMinutes,
		QuestionCount:     len(seed.Questions),
		AnswerPolicy:      policy,
		CompletionTrigger: trigger,
		LockEssays:        seed.LockEssays,
	}
	if seed.AccessCode != "" {
		hash, err := authService.HashAccessCode(seed.AccessCode)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash access code")
		}
		tryout.AccessCodeHash = hash
	}

	if err := tryoutRepo.Create(ctx, tryout); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tryout")
	}

	questions := make([]model.Question, len(seed.Questions))
	for i, q := range seed.Questions {
		questions[i] = model.Question{
			TryoutID:     tryout.ID,
			QuestionType: q.Type,
			Prompt:       q.Prompt,
			ImageURL:     q.ImageURL,
			Options:      q.Options,
			Answer:       q.Answer,
			AnswerGuide:  q.AnswerGuide,
			OrderNum:     i,
		}
	}
	if err := questionRepo.CreateBatch(ctx, tryout.ID, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to insert questions")
	}
	if err := tryoutRepo.UpdateQuestionCount(ctx, tryout.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to refresh question count")
	}

	fmt.Printf("Seeded tryout '%s' (%s) with %d questions\n", tryout.Title, tryout.ID, len(questions))
}
