package assessment

import (
	"errors"
	"testing"
)

func mcQuestion(prompt string, options []string, correct string) Question {
	return Question{Kind: KindMultipleChoice, Prompt: prompt, Options: options, CorrectOption: correct}
}

func essayQuestion(prompt, guide string) Question {
	return Question{Kind: KindEssay, Prompt: prompt, ModelAnswer: guide}
}

func threeQuestionSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession([]Question{
		mcQuestion("q0", []string{"Paris", "Rome"}, "Paris"),
		mcQuestion("q1", []string{"4", "5"}, "4"),
		essayQuestion("q2", "pedoman"),
	}, cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSession_EmptyCatalog(t *testing.T) {
	if _, err := NewSession(nil, Config{}); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNewSession_UnknownPolicy(t *testing.T) {
	_, err := NewSession([]Question{essayQuestion("q", "")}, Config{Policy: "RANDOM"})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNavigation_GoTo(t *testing.T) {
	s := threeQuestionSession(t, Config{})

	if err := s.GoTo(2); err != nil {
		t.Fatalf("GoTo(2): %v", err)
	}
	if s.Current() != 2 {
		t.Fatalf("current = %d, want 2", s.Current())
	}

	// Scenario D: out-of-range jump fails and leaves position unchanged.
	if err := s.GoTo(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("GoTo(5): expected ErrOutOfRange, got %v", err)
	}
	if err := s.GoTo(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("GoTo(-1): expected ErrOutOfRange, got %v", err)
	}
	if s.Current() != 2 {
		t.Fatalf("current changed after failed GoTo: %d", s.Current())
	}
}

func TestNavigation_NextPrevBounds(t *testing.T) {
	s := threeQuestionSession(t, Config{})

	// Prev at 0 is a no-op.
	if err := s.Prev(); err != nil {
		t.Fatalf("Prev at 0: %v", err)
	}
	if s.Current() != 0 {
		t.Fatalf("current = %d, want 0", s.Current())
	}

	for i := 0; i < 5; i++ {
		if err := s.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	// Manual completion: Next at the last question neither wraps nor finishes.
	if s.Current() != 2 {
		t.Fatalf("current = %d, want 2", s.Current())
	}
	if s.Completed() {
		t.Fatal("manual session completed by Next")
	}
}

func TestNavigation_AutoFinishOnLastNext(t *testing.T) {
	s := threeQuestionSession(t, Config{Completion: CompletionAutoLastNext})

	s.GoTo(2)
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !s.Completed() {
		t.Fatal("auto session not completed by Next at last question")
	}
}

func TestToggleMark_Involution(t *testing.T) {
	s := threeQuestionSession(t, Config{})

	// Scenario F: toggling twice returns marked to its original state.
	for _, want := range []bool{true, false} {
		if err := s.ToggleMark(2); err != nil {
			t.Fatalf("ToggleMark: %v", err)
		}
		got, _ := s.Marked(2)
		if got != want {
			t.Fatalf("marked = %v, want %v", got, want)
		}
	}

	if err := s.ToggleMark(7); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestToggleMark_AllowedAfterCompletion(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.Finish()

	if err := s.ToggleMark(0); err != nil {
		t.Fatalf("ToggleMark after completion: %v", err)
	}
	if got, _ := s.Marked(0); !got {
		t.Fatal("mark not recorded after completion")
	}
}

func TestSubmitAnswer_MutablePolicy(t *testing.T) {
	s := threeQuestionSession(t, Config{Policy: PolicyMutable})

	if err := s.SubmitAnswer(0, "A"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if err := s.SubmitAnswer(0, "B"); err != nil {
		t.Fatalf("SubmitAnswer overwrite: %v", err)
	}
	got, answered, _ := s.Answer(0)
	if !answered || got != "B" {
		t.Fatalf("answer = %q answered=%v, want B true", got, answered)
	}
}

func TestSubmitAnswer_LockFirstPolicy(t *testing.T) {
	s := threeQuestionSession(t, Config{Policy: PolicyLockFirst})

	// Scenario C: second submit with a different value is a silent no-op.
	if err := s.SubmitAnswer(0, "A"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := s.SubmitAnswer(0, "B"); err != nil {
		t.Fatalf("locked resubmit must not error: %v", err)
	}
	got, _, _ := s.Answer(0)
	if got != "A" {
		t.Fatalf("answer = %q, want A", got)
	}
	if locked, _ := s.Locked(0); !locked {
		t.Fatal("position 0 not locked")
	}
}

func TestSubmitAnswer_EssayEditableUnderLockFirst(t *testing.T) {
	s := threeQuestionSession(t, Config{Policy: PolicyLockFirst})

	// Essays stay editable unless LockEssays is set.
	s.SubmitAnswer(2, "draft satu")
	s.SubmitAnswer(2, "draft dua")
	got, _, _ := s.Answer(2)
	if got != "draft dua" {
		t.Fatalf("essay answer = %q, want draft dua", got)
	}
	if locked, _ := s.Locked(2); locked {
		t.Fatal("essay locked without LockEssays")
	}
}

func TestSubmitAnswer_EssayLocksWhenConfigured(t *testing.T) {
	s := threeQuestionSession(t, Config{Policy: PolicyLockFirst, LockEssays: true})

	s.SubmitAnswer(2, "jawaban final")
	s.SubmitAnswer(2, "terlambat")
	got, _, _ := s.Answer(2)
	if got != "jawaban final" {
		t.Fatalf("essay answer = %q, want jawaban final", got)
	}
}

func TestSubmitAnswer_EmptyStringIsAnAnswer(t *testing.T) {
	s := threeQuestionSession(t, Config{})

	if _, answered, _ := s.Answer(2); answered {
		t.Fatal("fresh position reported answered")
	}
	s.SubmitAnswer(2, "")
	if _, answered, _ := s.Answer(2); !answered {
		t.Fatal("empty string submission must count as answered")
	}
}

func TestSubmitAnswer_OutOfRange(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	if err := s.SubmitAnswer(3, "A"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestFinish_ClosesSession(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.SubmitAnswer(0, "A")

	if err := s.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	// Scenario E: all mutations rejected, reads still succeed with
	// pre-finish values.
	if err := s.SubmitAnswer(0, "B"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("SubmitAnswer after finish: expected ErrSessionClosed, got %v", err)
	}
	if err := s.GoTo(1); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("GoTo after finish: expected ErrSessionClosed, got %v", err)
	}
	if err := s.Next(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("Next after finish: expected ErrSessionClosed, got %v", err)
	}
	if err := s.Prev(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("Prev after finish: expected ErrSessionClosed, got %v", err)
	}
	if err := s.Finish(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("second Finish: expected ErrSessionClosed, got %v", err)
	}

	r := s.Score()
	if r.CorrectCount != 1 {
		t.Fatalf("post-finish score lost state: %+v", r)
	}
	got, _, _ := s.Answer(0)
	if got != "A" {
		t.Fatalf("answer changed after rejected mutation: %q", got)
	}
}

func TestProgress_Counters(t *testing.T) {
	s := threeQuestionSession(t, Config{})

	p := s.Progress()
	if p.Answered != 0 || p.Unanswered != 3 || p.Marked != 0 {
		t.Fatalf("fresh progress = %+v", p)
	}

	s.SubmitAnswer(0, "A")
	s.ToggleMark(1)
	p = s.Progress()
	if p.Answered != 1 || p.Unanswered != 2 || p.Marked != 1 {
		t.Fatalf("progress = %+v, want 1/2/1", p)
	}
}

// Unanswered count never increases across a session's lifetime.
func TestProgress_UnansweredMonotonic(t *testing.T) {
	s := threeQuestionSession(t, Config{Policy: PolicyLockFirst})

	prev := s.Progress().Unanswered
	steps := []struct {
		pos   int
		value string
	}{
		{0, "A"}, {0, "B"}, {1, "B"}, {2, "essay"}, {2, "ulang"},
	}
	for _, st := range steps {
		s.SubmitAnswer(st.pos, st.value)
		cur := s.Progress().Unanswered
		if cur > prev {
			t.Fatalf("unanswered grew from %d to %d", prev, cur)
		}
		prev = cur
	}
}
