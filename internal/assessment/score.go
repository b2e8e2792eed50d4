package assessment

// Result is the aggregate outcome of a session. Only multiple-choice
// questions enter the scorable denominator; essays have no auto-checkable
// canonical answer and are excluded from the percentage entirely.
type Result struct {
	CorrectCount    int     `json:"correct_count"`
	ScorableCount   int     `json:"scorable_count"`
	UnansweredCount int     `json:"unanswered_count"`
	Percentage      float64 `json:"percentage"`
}

// Score computes the aggregate result from current state. It is a pure
// function of the session: calling it twice without mutation yields
// identical results, and it may be called before completion (progress
// displays do).
//
// A multiple-choice question counts as correct iff it was answered and the
// chosen option's text equals the canonical answer by value. The comparison
// is against option contents, not positions, so duplicate-looking options
// compare item by item. A session with zero scorable questions yields 0%,
// defined, not a division error.
func (s *Session) Score() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r Result
	for i, q := range s.questions {
		if s.answers[i] == nil {
			r.UnansweredCount++
		}
		if q.Kind != KindMultipleChoice {
			continue
		}
		r.ScorableCount++
		if s.answers[i] == nil {
			continue
		}
		if idx := letterIndex(*s.answers[i], len(q.Options)); idx >= 0 && q.Options[idx] == q.CorrectOption {
			r.CorrectCount++
		}
	}

	if r.ScorableCount > 0 {
		r.Percentage = float64(r.CorrectCount) / float64(r.ScorableCount) * 100
	}
	return r
}
