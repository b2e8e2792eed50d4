package assessment

// AnswerPolicy governs the lifecycle of a submitted answer.
type AnswerPolicy string

const (
	// PolicyMutable lets an answer be overwritten any number of times while
	// the session is in progress.
	PolicyMutable AnswerPolicy = "MUTABLE"

	// PolicyLockFirst makes a question's answer immutable the moment any
	// value is first accepted for it. A repeated submit on a locked position
	// is a silent no-op, never an error: UI code re-dispatches events.
	PolicyLockFirst AnswerPolicy = "LOCK_FIRST"
)

// CompletionTrigger selects how a session reaches its terminal state.
type CompletionTrigger string

const (
	// CompletionManual requires an explicit Finish call; Next at the last
	// question is a no-op.
	CompletionManual CompletionTrigger = "MANUAL"

	// CompletionAutoLastNext completes the session when Next is called while
	// already positioned at the last question.
	CompletionAutoLastNext CompletionTrigger = "AUTO_LAST_NEXT"
)

// Config is the per-session engine configuration, fixed at construction.
// It replaces the divergent hard-coded behaviors of the legacy session
// implementations with explicit parameters.
type Config struct {
	Policy     AnswerPolicy      `json:"policy"`
	Completion CompletionTrigger `json:"completion"`

	// LockEssays controls whether essay answers lock under PolicyLockFirst.
	// When false, essay text stays editable until the session completes,
	// while multiple-choice answers still lock on first submit. Locking, when
	// it applies, happens on the explicit submit action only, never per
	// keystroke; draft text is the caller's concern.
	LockEssays bool `json:"lock_essays"`
}

// withDefaults fills zero values so an empty Config behaves like the
// classic mutable, manually-finished session.
func (c Config) withDefaults() Config {
	if c.Policy == "" {
		c.Policy = PolicyMutable
	}
	if c.Completion == "" {
		c.Completion = CompletionManual
	}
	return c
}

// Valid reports whether both enum fields hold known values. Zero values are
// acceptable; withDefaults resolves them.
func (c Config) Valid() bool {
	switch c.Policy {
	case "", PolicyMutable, PolicyLockFirst:
	default:
		return false
	}
	switch c.Completion {
	case "", CompletionManual, CompletionAutoLastNext:
	default:
		return false
	}
	return true
}
