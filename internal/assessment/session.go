package assessment

import (
	"fmt"
	"sync"
)

// Session is the in-memory state machine for one assessment attempt. It owns
// the ordered question catalog and all mutable per-question state: answers,
// marked flags and lock flags. The session is driven by a single logical
// actor; the mutex only serializes mutations when the engine sits behind a
// concurrent dispatcher such as an HTTP router.
//
// Lifecycle: InProgress (initial) → Completed (terminal, via Finish). After
// completion the only permitted mutation is ToggleMark, which is display
// state and never affects scoring.
type Session struct {
	mu sync.Mutex

	cfg       Config
	questions []Question

	current   int
	answers   []*string // nil = unanswered, distinct from empty string
	marked    []bool
	locked    []bool
	completed bool
}

// NewSession creates a session over an already-resolved catalog. The catalog
// must be non-empty; position 0 is current. The Config is validated and
// zero values are defaulted (mutable answers, manual completion).
func NewSession(questions []Question, cfg Config) (*Session, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question set", ErrInvalidCatalog)
	}
	if !cfg.Valid() {
		return nil, fmt.Errorf("%w: unknown session policy", ErrInvalidCatalog)
	}

	return &Session{
		cfg:       cfg.withDefaults(),
		questions: questions,
		answers:   make([]*string, len(questions)),
		marked:    make([]bool, len(questions)),
		locked:    make([]bool, len(questions)),
	}, nil
}

// Config returns the session configuration fixed at construction.
func (s *Session) Config() Config {
	return s.cfg
}

// Len returns the number of questions in the catalog.
func (s *Session) Len() int {
	return len(s.questions)
}

// Question returns the catalog entry at pos.
func (s *Session) Question(pos int) (Question, error) {
	if pos < 0 || pos >= len(s.questions) {
		return Question{}, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}
	return s.questions[pos], nil
}

// Questions returns a copy of the ordered catalog.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Completed reports whether the session has reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Current returns the current question position.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ─── Navigation ─────────────────────────────────────────────────────

// GoTo jumps to an arbitrary position. Positions are never clamped: an
// invalid target fails with ErrOutOfRange and leaves the current position
// unchanged.
func (s *Session) GoTo(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return ErrSessionClosed
	}
	if pos < 0 || pos >= len(s.questions) {
		return fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}
	s.current = pos
	return nil
}

// Next advances by one question. At the last question it is a no-op under
// manual completion; under CompletionAutoLastNext it completes the session
// instead. Never wraps.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return ErrSessionClosed
	}
	if s.current < len(s.questions)-1 {
		s.current++
		return nil
	}
	if s.cfg.Completion == CompletionAutoLastNext {
		s.completed = true
	}
	return nil
}

// Prev steps back by one question; a no-op at position 0.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return ErrSessionClosed
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// ToggleMark flips the marked-for-review flag at pos. Marking is permitted
// even after completion — it is pure display state with no effect on
// scoring.
func (s *Session) ToggleMark(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 0 || pos >= len(s.questions) {
		return fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}
	s.marked[pos] = !s.marked[pos]
	return nil
}

// Marked reports the marked-for-review flag at pos.
func (s *Session) Marked(pos int) (bool, error) {
	if pos < 0 || pos >= len(s.questions) {
		return false, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked[pos], nil
}

// ─── Answers ────────────────────────────────────────────────────────

// SubmitAnswer records value at pos according to the session's answer
// policy. For multiple-choice questions the value is the chosen option
// letter (A, B, ...); for essays it is free text. Under PolicyLockFirst an
// accepted submission locks the position and later submissions become
// silent no-ops. Essay positions only lock when Config.LockEssays is set.
func (s *Session) SubmitAnswer(pos int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return ErrSessionClosed
	}
	if pos < 0 || pos >= len(s.questions) {
		return fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}

	if s.locked[pos] {
		return nil
	}

	v := value
	s.answers[pos] = &v

	if s.cfg.Policy == PolicyLockFirst {
		if s.questions[pos].Kind != KindEssay || s.cfg.LockEssays {
			s.locked[pos] = true
		}
	}
	return nil
}

// Answer returns the submitted value at pos and whether the position has
// been answered at all. An empty submitted string is still an answer; the
// unanswered state is a distinct sentinel.
func (s *Session) Answer(pos int) (string, bool, error) {
	if pos < 0 || pos >= len(s.questions) {
		return "", false, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answers[pos] == nil {
		return "", false, nil
	}
	return *s.answers[pos], true, nil
}

// Locked reports whether the answer at pos may no longer change.
func (s *Session) Locked(pos int) (bool, error) {
	if pos < 0 || pos >= len(s.questions) {
		return false, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, pos, len(s.questions))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked[pos], nil
}

// ─── Completion ─────────────────────────────────────────────────────

// Finish moves the session to its terminal Completed state. It is valid
// from any position. An external timer, if any, drives expiry through this
// same call; there is no separate force-complete path.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return ErrSessionClosed
	}
	s.completed = true
	return nil
}

// ─── Progress ───────────────────────────────────────────────────────

// Progress summarizes live answer and mark state for navigation displays.
type Progress struct {
	Answered   int `json:"answered"`
	Marked     int `json:"marked"`
	Unanswered int `json:"unanswered"`
}

// Progress returns the answered/marked/unanswered counters over all
// questions.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Progress
	for i := range s.questions {
		if s.answers[i] != nil {
			p.Answered++
		} else {
			p.Unanswered++
		}
		if s.marked[i] {
			p.Marked++
		}
	}
	return p
}
