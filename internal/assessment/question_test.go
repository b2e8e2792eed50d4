package assessment

import (
	"errors"
	"testing"
)

func TestResolveCatalog_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawQuestion
		wantKind QuestionKind
		wantErr  bool
	}{
		{name: "multiple_choice", raw: mcRaw("multiple_choice"), wantKind: KindMultipleChoice},
		{name: "alias pg", raw: mcRaw("pg"), wantKind: KindMultipleChoice},
		{name: "alias pilgan", raw: mcRaw("pilgan"), wantKind: KindMultipleChoice},
		{name: "uppercase alias", raw: mcRaw("MULTIPLE_CHOICE"), wantKind: KindMultipleChoice},
		{name: "essay", raw: RawQuestion{Type: "essay", Prompt: "Jelaskan", AnswerGuide: "pedoman"}, wantKind: KindEssay},
		{name: "legacy no type with options", raw: mcRaw(""), wantKind: KindMultipleChoice},
		{name: "legacy no type without options", raw: RawQuestion{Prompt: "Jelaskan"}, wantKind: KindEssay},
		{name: "unknown kind rejected", raw: mcRaw("true_false"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions, err := ResolveCatalog([]RawQuestion{tc.raw})
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidCatalog) {
					t.Fatalf("expected ErrInvalidCatalog, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if questions[0].Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s", questions[0].Kind, tc.wantKind)
			}
		})
	}
}

func TestResolveCatalog_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		records []RawQuestion
	}{
		{name: "empty set", records: nil},
		{name: "missing prompt", records: []RawQuestion{{Type: "essay"}}},
		{name: "single option", records: []RawQuestion{{Type: "pg", Prompt: "?", Options: []string{"A"}, Answer: "A"}}},
		{name: "answer not among options", records: []RawQuestion{
			{Type: "pg", Prompt: "?", Options: []string{"Paris", "Rome"}, Answer: "Berlin"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ResolveCatalog(tc.records); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestResolveCatalog_RejectsWholeSetOnOneBadRecord(t *testing.T) {
	records := []RawQuestion{
		mcRaw("pg"),
		{Type: "matching", Prompt: "?"},
	}
	if _, err := ResolveCatalog(records); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestOptionLetter(t *testing.T) {
	if got := OptionLetter(0); got != "A" {
		t.Errorf("OptionLetter(0) = %q, want A", got)
	}
	if got := OptionLetter(3); got != "D" {
		t.Errorf("OptionLetter(3) = %q, want D", got)
	}
	if got := OptionLetter(-1); got != "" {
		t.Errorf("OptionLetter(-1) = %q, want empty", got)
	}
}

func TestLetterIndex(t *testing.T) {
	tests := []struct {
		letter string
		count  int
		want   int
	}{
		{"A", 4, 0},
		{"d", 4, 3},
		{"E", 4, -1},
		{"", 4, -1},
		{"AB", 4, -1},
		{"1", 4, -1},
	}
	for _, tc := range tests {
		if got := letterIndex(tc.letter, tc.count); got != tc.want {
			t.Errorf("letterIndex(%q, %d) = %d, want %d", tc.letter, tc.count, got, tc.want)
		}
	}
}

func mcRaw(typ string) RawQuestion {
	return RawQuestion{
		Type:    typ,
		Prompt:  "Ibu kota Prancis?",
		Options: []string{"Paris", "Rome", "Berlin", "Madrid"},
		Answer:  "Paris",
	}
}
