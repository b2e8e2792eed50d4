package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ramandaygy/tutor-app/internal/middleware"
	"github.com/Ramandaygy/tutor-app/internal/service"
	ws "github.com/Ramandaygy/tutor-app/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams attempt actions over a WebSocket, so an open tryout
// page answers and navigates without per-action HTTP round trips.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/portal/attempts/:attempt_id/stream
// Upgrades to WebSocket for real-time answering and navigation.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	studentID := claims.StudentID

	// Ownership check before streaming anything.
	if _, err := h.attemptService.State(c.Request.Context(), attemptID, studentID); err != nil {
		ws.WriteError(conn, "attempt not accessible")
		return
	}

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("attempt_id", attemptID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	for {
		var msg ws.RequestPayload
		err := ws.ReadJSON(conn, &msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		ctx := context.Background()

		switch msg.Action {
		case ws.ActionAnswer:
			if err := h.attemptService.SubmitAnswer(ctx, attemptID, studentID, msg.Position, msg.Value); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			ws.WriteTyped(conn, ws.SavedResponse{Event: ws.EventSaved, Position: msg.Position})
			h.pushStateIfFinished(ctx, conn, wsLog, attemptID, studentID)

		case ws.ActionMark:
			if err := h.attemptService.ToggleMark(ctx, attemptID, studentID, msg.Position); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			h.pushState(ctx, conn, attemptID, studentID)

		case ws.ActionGoto:
			if err := h.attemptService.GoTo(ctx, attemptID, studentID, msg.Position); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			h.pushState(ctx, conn, attemptID, studentID)

		case ws.ActionNext:
			if err := h.attemptService.Next(ctx, attemptID, studentID); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			// Next may have auto-completed the attempt.
			if !h.pushStateIfFinished(ctx, conn, wsLog, attemptID, studentID) {
				h.pushState(ctx, conn, attemptID, studentID)
			}

		case ws.ActionPrev:
			if err := h.attemptService.Prev(ctx, attemptID, studentID); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			h.pushState(ctx, conn, attemptID, studentID)

		case ws.ActionFinish:
			summary, err := h.attemptService.Finish(ctx, attemptID, studentID)
			if err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			wsLog.Info().Float64("score", summary.Score).Msg("Attempt finished over stream")
			ws.WriteTyped(conn, ws.FinishedResponse{Event: ws.EventFinished, Summary: summary})

		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// pushState sends the current attempt state down the stream.
func (h *WSHandler) pushState(ctx context.Context, conn *websocket.Conn, attemptID uuid.UUID, studentID int) {
	state, err := h.attemptService.State(ctx, attemptID, studentID)
	if err != nil {
		ws.WriteError(conn, err.Error())
		return
	}
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: state})
}

// pushStateIfFinished emits the finished summary when the last mutation
// completed the attempt. Returns true if it did.
func (h *WSHandler) pushStateIfFinished(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, attemptID uuid.UUID, studentID int) bool {
	summary, err := h.attemptService.Result(ctx, attemptID, studentID)
	if err != nil {
		return false
	}
	wsLog.Info().Float64("score", summary.Score).Msg("Attempt auto-completed")
	ws.WriteTyped(conn, ws.FinishedResponse{Event: ws.EventFinished, Summary: summary})
	return true
}
