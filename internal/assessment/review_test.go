package assessment

import "testing"

func TestReview_PerQuestionVerdicts(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.SubmitAnswer(0, "A") // Paris, correct
	s.SubmitAnswer(2, "jawaban esai saya")
	s.ToggleMark(1)
	s.Finish()

	verdicts := s.Review()
	if len(verdicts) != 3 {
		t.Fatalf("verdicts = %d, want 3", len(verdicts))
	}

	v0 := verdicts[0]
	if v0.Kind != KindMultipleChoice || !v0.Answered || !v0.IsCorrect {
		t.Fatalf("verdict 0 = %+v", v0)
	}
	if v0.UserValue != "Paris" || v0.CorrectValue != "Paris" {
		t.Fatalf("verdict 0 values = %q / %q", v0.UserValue, v0.CorrectValue)
	}

	v1 := verdicts[1]
	if v1.Answered || v1.IsCorrect || v1.UserValue != "" {
		t.Fatalf("unanswered verdict 1 = %+v", v1)
	}
	if v1.CorrectValue != "4" {
		t.Fatalf("verdict 1 correct value = %q", v1.CorrectValue)
	}
	if !v1.Marked {
		t.Fatal("verdict 1 lost marked flag")
	}

	v2 := verdicts[2]
	if v2.Kind != KindEssay || v2.UserText != "jawaban esai saya" || v2.ModelAnswer != "pedoman" {
		t.Fatalf("essay verdict = %+v", v2)
	}
	// Essays never carry a correctness verdict.
	if v2.IsCorrect || v2.UserValue != "" || v2.CorrectValue != "" {
		t.Fatalf("essay verdict carries grading fields: %+v", v2)
	}
}

func TestReview_PreservesCatalogOrder(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.GoTo(2) // navigation order must not affect review order

	verdicts := s.Review()
	for i, v := range verdicts {
		if v.Position != i {
			t.Fatalf("verdict %d has position %d", i, v.Position)
		}
	}
}

func TestReview_ComputableBeforeCompletion(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.SubmitAnswer(0, "B")

	verdicts := s.Review()
	if verdicts[0].UserValue != "Rome" || verdicts[0].IsCorrect {
		t.Fatalf("verdict 0 = %+v", verdicts[0])
	}
}

func TestReview_UnresolvableLetterKeptRaw(t *testing.T) {
	s := threeQuestionSession(t, Config{})
	s.SubmitAnswer(1, "Q")

	v := s.Review()[1]
	if v.UserValue != "Q" || v.IsCorrect {
		t.Fatalf("verdict = %+v", v)
	}
}
