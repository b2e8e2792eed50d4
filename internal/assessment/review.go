package assessment

// Verdict is the per-question review record comparing the user's submission
// with the canonical or model answer. Multiple-choice verdicts carry the
// resolved answer texts and a correctness flag; essay verdicts carry the
// user's text and the model answer guidance, never a correctness flag —
// essays are not auto-graded.
type Verdict struct {
	Position int          `json:"position"`
	Kind     QuestionKind `json:"kind"`
	Prompt   string       `json:"prompt"`
	Answered bool         `json:"answered"`
	Marked   bool         `json:"marked"`

	// Multiple choice
	UserValue    string `json:"user_value,omitempty"`
	CorrectValue string `json:"correct_value,omitempty"`
	IsCorrect    bool   `json:"is_correct"`

	// Essay
	UserText    string `json:"user_text,omitempty"`
	ModelAnswer string `json:"model_answer,omitempty"`
}

// Review assembles one verdict per question in original catalog order. It is
// computable at any time; whether it should be shown before completion is a
// display rule owned by the caller, not enforced here.
func (s *Session) Review() []Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	verdicts := make([]Verdict, 0, len(s.questions))
	for i, q := range s.questions {
		v := Verdict{
			Position: i,
			Kind:     q.Kind,
			Prompt:   q.Prompt,
			Answered: s.answers[i] != nil,
			Marked:   s.marked[i],
		}

		switch q.Kind {
		case KindMultipleChoice:
			v.CorrectValue = q.CorrectOption
			if s.answers[i] != nil {
				if idx := letterIndex(*s.answers[i], len(q.Options)); idx >= 0 {
					v.UserValue = q.Options[idx]
					v.IsCorrect = q.Options[idx] == q.CorrectOption
				} else {
					v.UserValue = *s.answers[i]
				}
			}
		case KindEssay:
			if s.answers[i] != nil {
				v.UserText = *s.answers[i]
			}
			v.ModelAnswer = q.ModelAnswer
		}

		verdicts = append(verdicts, v)
	}
	return verdicts
}
