package grading_test

import (
	"testing"

	"github.com/brightclass/quizcore/internal/grading"
)

func TestGradeByType(t *testing.T) {
	g := grading.NewGrader()

	cases := []struct {
		name     string
		q        grading.Q
		answer   string
		answered bool
		correct  bool
	}{
		{"mcq exact label", grading.Q{Type: "multiple_choice", Points: 10, CorrectAnswer: "A"}, "A", true, true},
		{"mcq label is case-sensitive", grading.Q{Type: "multiple_choice", Points: 10, CorrectAnswer: "A"}, "a", true, false},
		{"mcq wrong label", grading.Q{Type: "multiple_choice", Points: 10, CorrectAnswer: "A"}, "B", true, false},
		{"mcq option text is not a label", grading.Q{Type: "multiple_choice", Points: 10, CorrectAnswer: "A"}, "Paris", true, false},

		{"tf exact", grading.Q{Type: "true_false", Points: 5, CorrectAnswer: "True"}, "True", true, true},
		{"tf lower", grading.Q{Type: "true_false", Points: 5, CorrectAnswer: "True"}, "true", true, true},
		{"tf upper", grading.Q{Type: "true_false", Points: 5, CorrectAnswer: "True"}, "TRUE", true, true},
		{"tf wrong", grading.Q{Type: "true_false", Points: 5, CorrectAnswer: "True"}, "False", true, false},

		{"short trimmed+folded", grading.Q{Type: "short_answer", Points: 5, CorrectAnswer: "Paris"}, "  paris ", true, true},
		{"very short folded", grading.Q{Type: "very_short_answer", Points: 5, CorrectAnswer: "H2O"}, "h2o", true, true},
		{"long answer folded", grading.Q{Type: "long_answer", Points: 5, CorrectAnswer: "The water cycle"}, "the water cycle", true, true},
		{"short interior whitespace significant", grading.Q{Type: "short_answer", Points: 5, CorrectAnswer: "New York"}, "New  York", true, false},
		{"short no partial credit", grading.Q{Type: "short_answer", Points: 5, CorrectAnswer: "Paris"}, "Pari", true, false},

		{"unanswered mcq", grading.Q{Type: "multiple_choice", Points: 10, CorrectAnswer: "A"}, "", false, false},
		{"unanswered matches empty key only when answered", grading.Q{Type: "short_answer", Points: 5, CorrectAnswer: ""}, "", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := g.Grade(tc.q, tc.answer, tc.answered)
			if err != nil {
				t.Fatalf("grade: %v", err)
			}
			if out.Correct != tc.correct {
				t.Fatalf("correct = %v, want %v", out.Correct, tc.correct)
			}
			wantPoints := 0
			if tc.correct {
				wantPoints = tc.q.Points
			}
			if out.Points != wantPoints {
				t.Fatalf("points = %d, want %d", out.Points, wantPoints)
			}
		})
	}
}

func TestGradeUnknownType(t *testing.T) {
	g := grading.NewGrader()
	if g.Supports("essay") {
		t.Fatal("essay should not be gradable")
	}
	if _, err := g.Grade(grading.Q{Type: "essay", Points: 10}, "anything", true); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
