package quiz

import (
	"errors"
	"reflect"
	"testing"

	"github.com/brightclass/quizcore/internal/grading"
)

func submittedSession(quizID string, answers map[string]string) Session {
	return Session{
		ID:        "sess1",
		QuizID:    quizID,
		StudentID: "stu1",
		Status:    SessionSubmitted,
		Answers:   answers,
	}
}

func TestGradeSessionFullCreditMCQ(t *testing.T) {
	qz := Quiz{ID: "quiz1", Status: StatusPublished, Questions: []Question{
		mcq("q1", "A", "Paris", "Lyon", "Nice"),
	}}
	res, err := GradeSession(grading.NewGrader(), qz, submittedSession("quiz1", map[string]string{"q1": "A"}))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.EarnedPoints != 10 || res.TotalPoints != 10 || res.ScorePercentage != 100 {
		t.Fatalf("got %d/%d (%.1f%%)", res.EarnedPoints, res.TotalPoints, res.ScorePercentage)
	}
	if !res.Correct["q1"] {
		t.Fatal("q1 should be judged correct")
	}
}

func TestGradeSessionMixedTypesNormalized(t *testing.T) {
	qz := Quiz{ID: "quiz1", Status: StatusPublished, Questions: []Question{
		{ID: "q1", Text: "tf", Type: TypeTrueFalse, CorrectAnswer: "True", Points: 5},
		{ID: "q2", Text: "capital", Type: TypeShortAnswer, CorrectAnswer: "Paris", Points: 5},
	}}
	res, err := GradeSession(grading.NewGrader(), qz, submittedSession("quiz1", map[string]string{
		"q1": "true",   // lower-case, still correct
		"q2": "paris ", // trailing space, still correct
	}))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.EarnedPoints != 10 || res.TotalPoints != 10 || res.ScorePercentage != 100 {
		t.Fatalf("got %d/%d (%.1f%%)", res.EarnedPoints, res.TotalPoints, res.ScorePercentage)
	}
}

func TestGradeSessionUnansweredCountsAsIncorrect(t *testing.T) {
	qz := Quiz{ID: "quiz1", Status: StatusPublished, Questions: []Question{
		{ID: "q1", Text: "tf", Type: TypeTrueFalse, CorrectAnswer: "True", Points: 5},
		{ID: "q2", Text: "capital", Type: TypeShortAnswer, CorrectAnswer: "Paris", Points: 5},
	}}
	res, err := GradeSession(grading.NewGrader(), qz, submittedSession("quiz1", map[string]string{"q1": "True"}))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.EarnedPoints != 5 || res.TotalPoints != 10 || res.ScorePercentage != 50 {
		t.Fatalf("got %d/%d (%.1f%%)", res.EarnedPoints, res.TotalPoints, res.ScorePercentage)
	}
	if correct, ok := res.Correct["q2"]; !ok || correct {
		t.Fatalf("unanswered q2: entry=%v present=%v, want false entry", correct, ok)
	}
}

func TestGradeSessionDeterministic(t *testing.T) {
	qz := Quiz{ID: "quiz1", Status: StatusPublished, Questions: []Question{
		mcq("q1", "B", "Paris", "Lyon"),
		{ID: "q2", Text: "tf", Type: TypeTrueFalse, CorrectAnswer: "False", Points: 3},
		{ID: "q3", Text: "w", Type: TypeVeryShortAnswer, CorrectAnswer: "H2O", Points: 7},
	}}
	s := submittedSession("quiz1", map[string]string{"q1": "B", "q2": "FALSE", "q3": "nope"})
	g := grading.NewGrader()

	first, err := GradeSession(g, qz, s)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := GradeSession(g, qz, s)
		if err != nil {
			t.Fatalf("grade: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
	if first.ScorePercentage < 0 || first.ScorePercentage > 100 {
		t.Fatalf("percentage out of bounds: %f", first.ScorePercentage)
	}
}

func TestGradeSessionZeroTotalGuard(t *testing.T) {
	qz := Quiz{ID: "quiz1", Status: StatusPublished}
	res, err := GradeSession(grading.NewGrader(), qz, submittedSession("quiz1", nil))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.TotalPoints != 0 || res.ScorePercentage != 0 {
		t.Fatalf("got total=%d pct=%f, want zeros", res.TotalPoints, res.ScorePercentage)
	}
}

func TestGradeSessionInputValidation(t *testing.T) {
	qz := Quiz{ID: "quiz1", Status: StatusPublished, Questions: []Question{
		mcq("q1", "A", "Paris", "Lyon"),
	}}
	g := grading.NewGrader()

	inProgress := submittedSession("quiz1", nil)
	inProgress.Status = SessionInProgress
	if _, err := GradeSession(g, qz, inProgress); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("in-progress session: err = %v, want ErrInvalidInput", err)
	}

	if _, err := GradeSession(g, qz, submittedSession("other-quiz", nil)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("mismatched quiz: err = %v, want ErrInvalidInput", err)
	}
}
