package handler

import (
	"net/http"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process liveness plus backing-store reachability
// and worker queue depths.
type HealthHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		rdb:       rdb,
		startTime: time.Now(),
	}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "ok"
	if err := h.pool.Ping(ctx); err != nil {
		dbStatus = "unreachable"
	}

	redisStatus := "ok"
	var queueAnswers, queueResults int64
	pipe := h.rdb.Pipeline()
	answersCmd := pipe.LLen(ctx, config.WorkerKey.PersistAnswersQueue)
	resultsCmd := pipe.LLen(ctx, config.WorkerKey.PersistResultsQueue)
	if _, err := pipe.Exec(ctx); err != nil {
		redisStatus = "unreachable"
	} else {
		queueAnswers, _ = answersCmd.Result()
		queueResults, _ = resultsCmd.Result()
	}

	status := http.StatusOK
	if dbStatus != "ok" || redisStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	response.Success(c, status, gin.H{
		"database":      dbStatus,
		"redis":         redisStatus,
		"queue_answers": queueAnswers,
		"queue_results": queueResults,
		"uptime":        time.Since(h.startTime).Round(time.Second).String(),
	})
}
