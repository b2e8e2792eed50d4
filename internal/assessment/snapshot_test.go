package assessment

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := threeQuestionSession(t, Config{Policy: PolicyLockFirst})
	s.SubmitAnswer(0, "A")
	s.SubmitAnswer(2, "essay tersimpan")
	s.ToggleMark(1)
	s.GoTo(1)

	snap := s.Snapshot()

	// Snapshots travel through Redis as JSON.
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored, err := Restore(s.Questions(), s.Config(), decoded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.Current() != 1 {
		t.Fatalf("current = %d, want 1", restored.Current())
	}
	if got, _, _ := restored.Answer(0); got != "A" {
		t.Fatalf("answer 0 = %q", got)
	}
	if got, _, _ := restored.Answer(2); got != "essay tersimpan" {
		t.Fatalf("answer 2 = %q", got)
	}
	if marked, _ := restored.Marked(1); !marked {
		t.Fatal("mark lost in round trip")
	}
	if locked, _ := restored.Locked(0); !locked {
		t.Fatal("lock lost in round trip")
	}

	// Lock survives restore: re-submitting stays a no-op.
	restored.SubmitAnswer(0, "B")
	if got, _, _ := restored.Answer(0); got != "A" {
		t.Fatalf("locked answer changed after restore: %q", got)
	}
}

func TestSnapshotRestore_CompletedStateSurvives(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.SubmitAnswer(0, "A")
	s.Finish()

	restored, err := Restore(s.Questions(), s.Config(), s.Snapshot())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Completed() {
		t.Fatal("completed flag lost")
	}
	if err := restored.SubmitAnswer(1, "A"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestRestore_RejectsInvalidPositions(t *testing.T) {
	questions := []Question{essayQuestion("q", "")}

	tests := []struct {
		name string
		snap Snapshot
	}{
		{name: "current index", snap: Snapshot{CurrentIndex: 3}},
		{name: "answer key", snap: Snapshot{Answers: map[int]string{4: "x"}}},
		{name: "marked entry", snap: Snapshot{Marked: []int{-1}}},
		{name: "locked entry", snap: Snapshot{Locked: []int{2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Restore(questions, Config{}, tc.snap); !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}
