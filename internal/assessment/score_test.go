package assessment

import "testing"

// Scenario A: two multiple-choice questions, one correct, one unanswered.
func TestScore_MixedAnswered(t *testing.T) {
	s, err := NewSession([]Question{
		mcQuestion("capital", []string{"Paris", "Rome"}, "Paris"),
		mcQuestion("2+2", []string{"4", "5"}, "4"),
	}, Config{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.SubmitAnswer(0, "A") // Paris

	r := s.Score()
	if r.CorrectCount != 1 || r.ScorableCount != 2 || r.UnansweredCount != 1 {
		t.Fatalf("result = %+v, want correct=1 scorable=2 unanswered=1", r)
	}
	if r.Percentage != 50 {
		t.Fatalf("percentage = %v, want 50", r.Percentage)
	}
}

// Scenario B: essay-only sessions score a defined 0%, not a division error.
func TestScore_EssayOnly(t *testing.T) {
	s, err := NewSession([]Question{essayQuestion("jelaskan", "pedoman")}, Config{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	r := s.Score()
	if r.ScorableCount != 0 || r.Percentage != 0 {
		t.Fatalf("result = %+v, want scorable=0 percentage=0", r)
	}
	if r.UnansweredCount != 1 {
		t.Fatalf("unanswered = %d, want 1", r.UnansweredCount)
	}
}

// Correctness compares option contents, not positions: picking a duplicate
// of the canonical text at a different position is still correct.
func TestScore_ValueEqualityWithDuplicateOptions(t *testing.T) {
	s, err := NewSession([]Question{
		mcQuestion("dup", []string{"42", "42", "7"}, "42"),
	}, Config{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.SubmitAnswer(0, "B") // second "42"
	if r := s.Score(); r.CorrectCount != 1 {
		t.Fatalf("duplicate option not matched by value: %+v", r)
	}
}

func TestScore_WrongAndUnresolvableAnswers(t *testing.T) {
	s := threeQuestionSession(t, Config{})

	s.SubmitAnswer(0, "B") // Rome, wrong
	s.SubmitAnswer(1, "Z") // no such option
	r := s.Score()
	if r.CorrectCount != 0 {
		t.Fatalf("correct = %d, want 0", r.CorrectCount)
	}
	if r.UnansweredCount != 1 { // only the essay
		t.Fatalf("unanswered = %d, want 1", r.UnansweredCount)
	}
}

// Scorable plus essay counts always partition the catalog.
func TestScore_ScorablePlusEssayEqualsTotal(t *testing.T) {
	catalogs := [][]Question{
		{mcQuestion("a", []string{"1", "2"}, "1")},
		{essayQuestion("b", "")},
		{
			mcQuestion("a", []string{"1", "2"}, "1"),
			essayQuestion("b", ""),
			mcQuestion("c", []string{"x", "y"}, "y"),
			essayQuestion("d", "g"),
		},
	}

	for _, qs := range catalogs {
		s, err := NewSession(qs, Config{})
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		essays := 0
		for _, q := range qs {
			if q.Kind == KindEssay {
				essays++
			}
		}
		if r := s.Score(); r.ScorableCount+essays != len(qs) {
			t.Fatalf("scorable %d + essays %d != %d", r.ScorableCount, essays, len(qs))
		}
	}
}

// Score is a pure function of state.
func TestScore_Idempotent(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.SubmitAnswer(0, "A")
	s.SubmitAnswer(2, "esai")
	s.Finish()

	first := s.Score()
	second := s.Score()
	if first != second {
		t.Fatalf("score not idempotent: %+v vs %+v", first, second)
	}
}
