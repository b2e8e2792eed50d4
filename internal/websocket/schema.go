package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer Action = "answer"
	ActionMark   Action = "mark"
	ActionGoto   Action = "goto"
	ActionNext   Action = "next"
	ActionPrev   Action = "prev"
	ActionFinish Action = "finish"
	ActionPing   Action = "ping"
)

// RequestPayload carries every client action. Position and Value are only
// meaningful for the actions that use them.
type RequestPayload struct {
	Action   Action `json:"action"`
	Position int    `json:"position"`
	Value    string `json:"value"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSaved    Event = "saved"
	EventState    Event = "state"
	EventFinished Event = "finished"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

type SavedResponse struct {
	Event    Event `json:"event"`
	Position int   `json:"position"`
}

type StateResponse struct {
	Event Event       `json:"event"`
	State interface{} `json:"state"`
}

type FinishedResponse struct {
	Event   Event       `json:"event"`
	Summary interface{} `json:"summary"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
